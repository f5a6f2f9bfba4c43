package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/pkg/mailer"
	"github.com/ArowuTest/customerconnect-backend/pkg/push"
	"github.com/ArowuTest/customerconnect-backend/pkg/smsgateway"
)

const firstNamePlaceholder = "{{firstName}}"

// Senders holds one sender per channel. A nil sender makes its channel fail
// per recipient instead of aborting a send.
type Senders struct {
	Email          mailer.Mailer
	SMS            smsgateway.Gateway
	Push           push.Notifier
	DefaultSubject string
}

// Dispatch sends content to customer over channel and returns the provider message id
func (s Senders) Dispatch(ctx context.Context, channel models.ChannelType, customer *models.Customer, content models.MessageContent) (string, error) {
	switch channel {
	case models.ChannelEmail:
		if s.Email == nil {
			return "", errors.New("email channel is not configured")
		}
		if strings.TrimSpace(customer.Email) == "" {
			return "", errors.New("Customer has no email address")
		}
		subject := content.Subject
		if subject == "" {
			subject = s.DefaultSubject
		}
		return s.Email.Send(ctx, customer.Email, subject, content.Body)

	case models.ChannelSMS:
		if s.SMS == nil {
			return "", errors.New("sms channel is not configured")
		}
		if strings.TrimSpace(customer.Phone) == "" {
			return "", errors.New("Customer has no phone number")
		}
		return s.SMS.SendSMS(ctx, customer.Phone, content.Body)

	case models.ChannelPush:
		if s.Push == nil {
			return "", errors.New("push channel is not configured")
		}
		title := content.Subject
		if title == "" {
			title = s.DefaultSubject
		}
		return s.Push.Send(ctx, customer.ID.Hex(), title, content.Body)

	case models.ChannelSocial:
		return "", errors.New("social channel has no sender")

	default:
		return "", fmt.Errorf("unsupported channel %q", channel)
	}
}

// Personalize replaces every {{firstName}} with the first word of name
func Personalize(template, name string) string {
	first := ""
	if fields := strings.Fields(name); len(fields) > 0 {
		first = fields[0]
	}
	return strings.ReplaceAll(template, firstNamePlaceholder, first)
}
