package models

// CampaignPerformance summarizes one campaign on the dashboard
type CampaignPerformance struct {
	Name      string         `json:"name"`
	Status    CampaignStatus `json:"status"`
	Sent      int            `json:"sent"`
	Delivered int            `json:"delivered"`
	Failed    int            `json:"failed"`
	Opened    int            `json:"opened"`
	Clicked   int            `json:"clicked"`
}

// GrowthPoint is one month of customer growth
type GrowthPoint struct {
	Month     string  `json:"month"`
	Customers int     `json:"customers"`
	Revenue   float64 `json:"revenue"`
}

// DashboardStats is returned by GET /analytics/dashboard
type DashboardStats struct {
	TotalCustomers      int                   `json:"totalCustomers"`
	TotalSegments       int                   `json:"totalSegments"`
	TotalCampaigns      int                   `json:"totalCampaigns"`
	ActiveCampaigns     int                   `json:"activeCampaigns"`
	TotalRevenue        float64               `json:"totalRevenue"`
	CampaignPerformance []CampaignPerformance `json:"campaignPerformance"`
	CustomerGrowth      []GrowthPoint         `json:"customerGrowth"`
}
