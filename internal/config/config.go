package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Server      ServerConfig
	MongoDB     MongoDBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Google      GoogleConfig
	Email       EmailConfig
	SMS         SMSConfig
	Push        PushConfig
	Delivery    DeliveryConfig
	AI          AIConfig
	Scheduler   SchedulerConfig
	Log         LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// MongoDBConfig holds MongoDB-specific configuration.
// Driver "memory" runs against the in-process store instead of a server.
type MongoDBConfig struct {
	Driver   string
	URI      string
	Database string
	Timeout  time.Duration
}

// RedisConfig holds the receipt dedup store; an empty Addr disables it
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	DedupTTL time.Duration
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// GoogleConfig holds the OAuth client used for Google sign-in
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// EmailConfig holds SMTP settings for the email channel
type EmailConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	From           string
	DefaultSubject string
	Simulate       bool
}

// SMSConfig holds SMS gateway-specific configuration
type SMSConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	Simulate   bool
}

// PushConfig holds Firebase Cloud Messaging settings
type PushConfig struct {
	CredentialsFile string
	ProjectID       string
	Simulate        bool
}

// DeliveryConfig holds campaign delivery settings
type DeliveryConfig struct {
	StallTimeout  time.Duration
	ReceiptSecret string
}

// AIConfig holds the text-generation service settings
type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	MockAPI bool
}

// SchedulerConfig holds the optional campaign trigger
type SchedulerConfig struct {
	Enabled bool
	Spec    string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string
	Format     string
	Output     string
	Path       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return Environment(c.Environment) == Production
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads configuration, looking for .env and config.yaml under dir
func LoadFrom(dir string) (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load(dir + "/.env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath(dir + "/config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Hosting platforms inject PORT without a prefix
	config.Server.Port = GetEnv("PORT", config.Server.Port)
	config.Server.AllowedOrigins = GetEnvAsSlice("CORS_ORIGINS", ",", config.Server.AllowedOrigins)

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Environment", string(Development))

	v.SetDefault("Server.Port", "5000")
	v.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("Server.ReadTimeout", 15*time.Second)
	v.SetDefault("Server.WriteTimeout", 60*time.Second)
	v.SetDefault("Server.ShutdownTimeout", 5*time.Second)

	v.SetDefault("MongoDB.Driver", "mongo")
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "customerconnect")
	v.SetDefault("MongoDB.Timeout", 10*time.Second)

	v.SetDefault("Redis.Addr", "")
	v.SetDefault("Redis.DB", 0)
	v.SetDefault("Redis.DedupTTL", 24*time.Hour)

	v.SetDefault("JWT.Secret", "change-me")
	v.SetDefault("JWT.ExpiresIn", 30*24*time.Hour)

	v.SetDefault("Google.ClientID", "")
	v.SetDefault("Google.ClientSecret", "")
	v.SetDefault("Google.RedirectURL", "http://localhost:5000/api/auth/google/callback")

	v.SetDefault("Email.Host", "smtp.gmail.com")
	v.SetDefault("Email.Port", 587)
	v.SetDefault("Email.Username", "")
	v.SetDefault("Email.Password", "")
	v.SetDefault("Email.From", "no-reply@customerconnect.local")
	v.SetDefault("Email.DefaultSubject", "Message from CustomerConnect")
	v.SetDefault("Email.Simulate", true)

	v.SetDefault("SMS.BaseURL", "https://api.twilio.com/2010-04-01")
	v.SetDefault("SMS.AccountSID", "")
	v.SetDefault("SMS.AuthToken", "")
	v.SetDefault("SMS.From", "")
	v.SetDefault("SMS.Simulate", true)

	v.SetDefault("Push.CredentialsFile", "")
	v.SetDefault("Push.ProjectID", "")
	v.SetDefault("Push.Simulate", true)

	v.SetDefault("Delivery.StallTimeout", 15*time.Minute)
	v.SetDefault("Delivery.ReceiptSecret", "")

	v.SetDefault("AI.BaseURL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("AI.APIKey", "")
	v.SetDefault("AI.Model", "gemini-2.0-flash")
	v.SetDefault("AI.Timeout", 30*time.Second)
	v.SetDefault("AI.MockAPI", false)

	v.SetDefault("Scheduler.Enabled", false)
	v.SetDefault("Scheduler.Spec", "@every 1m")

	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.Format", "text")
	v.SetDefault("Log.Output", "stdout")
	v.SetDefault("Log.Path", "logs")
	v.SetDefault("Log.MaxSize", 100)
	v.SetDefault("Log.MaxBackups", 5)
	v.SetDefault("Log.MaxAge", 30)
	v.SetDefault("Log.Compress", true)
}
