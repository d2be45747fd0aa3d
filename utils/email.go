package utils

import (
	"fmt"
	"os"

	"github.com/mailjet/mailjet-apiv3-go"

	"wedding-server/models"
)

// Mailer sends organizer notifications through mailjet. A nil Mailer is a
// valid no-op sender, used when email is not configured.
type Mailer struct {
	client *mailjet.Client
	from   string
}

// NewMailerFromEnv builds a Mailer from MAILJET_API_KEY / MAILJET_SECRET_KEY
// and EMAIL_FROM. Returns nil when the keys are not set.
func NewMailerFromEnv() *Mailer {
	apiKey := os.Getenv("MAILJET_API_KEY")
	secretKey := os.Getenv("MAILJET_SECRET_KEY")
	if apiKey == "" || secretKey == "" {
		return nil
	}
	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "noreply@wedding-server.local"
	}
	return &Mailer{
		client: mailjet.NewMailjetClient(apiKey, secretKey),
		from:   from,
	}
}

// SendRSVPNotification tells the organizers that a guest group answered.
func (m *Mailer) SendRSVPNotification(recipients []string, invitation *models.Invitation) error {
	if m == nil || len(recipients) == 0 {
		return nil
	}

	attending := 0
	for _, a := range invitation.Attendees() {
		if a.Attending != nil && *a.Attending {
			attending++
		}
	}

	to := mailjet.RecipientsV31{}
	for _, email := range recipients {
		to = append(to, mailjet.RecipientV31{Email: email})
	}

	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
		From:     &mailjet.RecipientV31{Email: m.from, Name: "Wedding RSVP"},
		To:       &to,
		Subject:  fmt.Sprintf("RSVP update from %s", invitation.MainGuest.Name),
		TextPart: fmt.Sprintf("%s answered the RSVP: %d of %d attending.", invitation.MainGuest.Name, attending, len(invitation.Attendees())),
	}}}
	_, err := m.client.SendMailV31(&messages)
	return err
}
