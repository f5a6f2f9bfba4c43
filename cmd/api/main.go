package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/customerconnect-backend/api/routes"
	"github.com/ArowuTest/customerconnect-backend/internal/config"
	"github.com/ArowuTest/customerconnect-backend/internal/dedup"
	"github.com/ArowuTest/customerconnect-backend/internal/handlers"
	"github.com/ArowuTest/customerconnect-backend/internal/logger"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/customerconnect-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/customerconnect-backend/internal/scheduler"
	"github.com/ArowuTest/customerconnect-backend/internal/services"
	"github.com/ArowuTest/customerconnect-backend/pkg/gemini"
	"github.com/ArowuTest/customerconnect-backend/pkg/googleauth"
	"github.com/ArowuTest/customerconnect-backend/pkg/jwt"
	"github.com/ArowuTest/customerconnect-backend/pkg/mailer"
	mongodb "github.com/ArowuTest/customerconnect-backend/pkg/mongodb"
	"github.com/ArowuTest/customerconnect-backend/pkg/push"
	"github.com/ArowuTest/customerconnect-backend/pkg/smsgateway"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Path:       cfg.Log.Path,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		logrus.Fatalf("Failed to initialise logging: %v", err)
	}
	log := logger.GetAppLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open data store: %v", err)
	}
	defer closeStore()

	receipts, closeReceipts := receiptFilter(ctx, cfg, log)
	defer closeReceipts()

	pushNotifier, err := push.New(ctx, cfg.Push, logger.GetLogger("push"))
	if err != nil {
		log.Fatalf("Failed to initialise push notifications: %v", err)
	}
	senders := services.Senders{
		Email:          mailer.New(cfg.Email, logger.GetLogger("mailer")),
		SMS:            smsgateway.New(cfg.SMS, logger.GetLogger("sms")),
		Push:           pushNotifier,
		DefaultSubject: cfg.Email.DefaultSubject,
	}

	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	google := googleauth.New(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	generator := gemini.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout, cfg.AI.MockAPI)

	serviceLog := logger.GetLogger("services")
	segmentService := services.NewSegmentService(store.Segments, store.Customers, serviceLog)
	pipeline := services.NewDeliveryPipeline(store.Campaigns, store.Messages, store.Logs, senders, cfg.Delivery.StallTimeout, logger.GetLogger("delivery"))
	campaignService := services.NewCampaignService(store.Campaigns, store.Segments, segmentService, pipeline, serviceLog)
	insightService := services.NewInsightService(store, generator, logger.GetLogger("insights"))
	customerService := services.NewCustomerService(store.Customers, serviceLog)
	orderService := services.NewOrderService(store.Orders, store.Customers, serviceLog)
	communicationService := services.NewCommunicationService(store.Logs, store.Customers, senders, receipts, serviceLog)
	authService := services.NewAuthService(store.Users, tokens, google, logger.GetLogger("auth"))
	userService := services.NewUserService(store.Users)
	analyticsService := services.NewAnalyticsService(store)

	production := cfg.IsProduction()
	deps := routes.HandlerDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService, production),
		UserHandler:      handlers.NewUserHandler(userService, production),
		CustomerHandler:  handlers.NewCustomerHandler(customerService, production),
		OrderHandler:     handlers.NewOrderHandler(orderService, production),
		SegmentHandler:   handlers.NewSegmentHandler(segmentService, production),
		CampaignHandler:  handlers.NewCampaignHandler(campaignService, insightService, production),
		AIHandler:        handlers.NewAIHandler(insightService, production),
		DeliveryHandler:  handlers.NewDeliveryHandler(communicationService, production),
		AnalyticsHandler: handlers.NewAnalyticsHandler(analyticsService, production),
	}
	router := routes.SetupRouter(cfg, deps, tokens, logger.GetLogger("http"))

	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(cfg.Scheduler.Spec, campaignService, logger.GetLogger("scheduler"))
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Environment,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("listen: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}
	log.Info("Server exiting")
}

// openStore connects the configured repository backend
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*repositories.Store, func(), error) {
	if cfg.MongoDB.Driver == "memory" {
		log.Warn("Using the in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.MongoDB.Database)

	indexCtx, cancel := context.WithTimeout(ctx, cfg.MongoDB.Timeout)
	defer cancel()
	if err := mongorepo.EnsureIndexes(indexCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}
	return mongorepo.NewStore(db), closeFn, nil
}

// receiptFilter uses Redis when an address is configured and falls back to process memory
func receiptFilter(ctx context.Context, cfg *config.Config, log *logrus.Logger) (dedup.Filter, func()) {
	if cfg.Redis.Addr == "" {
		return dedup.NewMemoryFilter(cfg.Redis.DedupTTL), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnf("Redis unavailable at %s, receipts deduplicated in memory: %v", cfg.Redis.Addr, err)
		_ = rdb.Close()
		return dedup.NewMemoryFilter(cfg.Redis.DedupTTL), func() {}
	}
	return dedup.NewRedisFilter(rdb, cfg.Redis.DedupTTL), func() { _ = rdb.Close() }
}
