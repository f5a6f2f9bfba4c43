package insights

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
)

// MaxSamples caps the number of sample messages included in a prompt
const MaxSamples = 10

// Sample builds the prompt sample for one message sent to customer.
// DaysSinceActive is -1 when the customer has no recorded activity.
func Sample(customer *models.Customer, message *models.Message, now time.Time) models.InsightSample {
	s := models.InsightSample{
		Status:          message.Status,
		Message:         message.Content.Body,
		DaysSinceActive: -1,
	}
	if customer != nil {
		s.Name = customer.Name
		s.TotalSpent = customer.TotalSpent
		s.Visits = customer.Visits
		if !customer.LastActiveAt.IsZero() {
			s.DaysSinceActive = int(now.Sub(customer.LastActiveAt).Hours() / 24)
		}
	}
	return s
}

// BuildPrompt renders the analysis request for a campaign. segment may be nil
// when the campaign references a segment that no longer exists.
func BuildPrompt(campaign *models.Campaign, segment *models.Segment, samples []models.InsightSample) string {
	var b strings.Builder

	b.WriteString("You are a marketing analyst for a CRM. Analyze the campaign below and answer with exactly these labeled sections:\n")
	b.WriteString("Summary: one short paragraph on how the campaign performed.\n")
	b.WriteString("Suggestions: a bulleted list of concrete improvements.\n")
	b.WriteString("Tags: a comma separated list of short audience or content tags.\n")
	b.WriteString("Next Best Send Time: the recommended day and time for the next send.\n\n")

	fmt.Fprintf(&b, "Campaign: %s\n", campaign.Name)
	if campaign.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", campaign.Description)
	}
	fmt.Fprintf(&b, "Channel: %s\n", campaign.Type)
	fmt.Fprintf(&b, "Status: %s\n", campaign.Status)
	if campaign.Content.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", campaign.Content.Subject)
	}
	fmt.Fprintf(&b, "Message template: %s\n", campaign.Content.Body)
	fmt.Fprintf(&b, "Sent: %d, Delivered: %d, Failed: %d\n",
		campaign.Metrics.Sent, campaign.Metrics.Delivered, campaign.Metrics.Failed)
	if campaign.SentAt != nil {
		fmt.Fprintf(&b, "Sent at: %s\n", campaign.SentAt.UTC().Format(time.RFC1123))
	}

	if segment != nil {
		fmt.Fprintf(&b, "\nSegment: %s (%d customers, rules joined with %s)\n",
			segment.Name, segment.EstimatedCount, segment.Combinator)
		if rs, err := json.Marshal(segment.Rules); err == nil {
			fmt.Fprintf(&b, "Segment rules: %s\n", rs)
		}
	} else {
		b.WriteString("\nSegment: unavailable\n")
	}

	if len(samples) > MaxSamples {
		samples = samples[:MaxSamples]
	}
	if len(samples) > 0 {
		b.WriteString("\nSample messages:\n")
		for i, s := range samples {
			active := "unknown"
			if s.DaysSinceActive >= 0 {
				active = fmt.Sprintf("%d days ago", s.DaysSinceActive)
			}
			fmt.Fprintf(&b, "%d. %s | status %s | spent %.2f | visits %d | last active %s | %q\n",
				i+1, s.Name, s.Status, s.TotalSpent, s.Visits, active, s.Message)
		}
	}
	return b.String()
}
