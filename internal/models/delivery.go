package models

// DeliveryResult is the outcome of one campaign send
type DeliveryResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped,omitempty"`
	// Unrecorded counts recipients whose message or log record could not be written
	Unrecorded int `json:"unrecorded,omitempty"`
	// Audience is the number of customers resolved for this run
	Audience int `json:"messageCount"`
}
