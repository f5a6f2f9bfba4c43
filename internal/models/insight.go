package models

// CampaignInsights is the structured reply of the text-generation service
type CampaignInsights struct {
	Summary      string   `json:"summary"`
	Suggestions  []string `json:"suggestions"`
	Tags         []string `json:"tags"`
	NextSendTime string   `json:"nextBestTime"`
}

// InsightSample is one recent message used as context for insight generation
type InsightSample struct {
	Name            string
	Status          MessageStatus
	TotalSpent      float64
	Visits          int
	DaysSinceActive int
	Message         string
}

// ChatRequest is the payload for POST /ai/chat
type ChatRequest struct {
	Query string `json:"query"`
}
