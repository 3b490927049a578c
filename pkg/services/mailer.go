package services

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"MindWell/pkg/config"
	"MindWell/pkg/logger"
)

// Mailer delivers one-time codes over email. Missing delivery credentials
// are a configuration error surfaced at construction, not per request.
type Mailer struct {
	client    *sendgrid.Client
	fromEmail string
}

func NewMailer() (*Mailer, error) {
	if config.SendgridAPIKey == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY environment variable")
	}
	return &Mailer{
		client:    sendgrid.NewSendClient(config.SendgridAPIKey),
		fromEmail: config.OTPFromEmail,
	}, nil
}

// SendOTP mails a plaintext verification code to the given address.
func (m *Mailer) SendOTP(ctx context.Context, toEmail, code string) error {
	from := mail.NewEmail("MindWell", m.fromEmail)
	to := mail.NewEmail("", toEmail)
	body := fmt.Sprintf("Your OTP for login/signup is: %s", code)
	message := mail.NewSingleEmail(from, "OTP Verification", to, body, "")
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		logger.L().Warnf("[mailer] OTP send failed: %v", err)
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.L().Warnf("[mailer] OTP send returned status %d", resp.StatusCode)
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}
	logger.L().Infof("[mailer] OTP sent to %s", toEmail)
	return nil
}
