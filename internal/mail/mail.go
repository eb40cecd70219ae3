// Package mail delivers outbound notification email over SMTP.
// Delivery is best-effort: callers never roll back state when a send fails.
package mail

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/config"
)

// Mailer sends the platform's notification email.
type Mailer interface {
	SendVerificationEmail(to, name, link string) error
	SendOTPEmail(to, name, otp string) error
	SendPasswordResetEmail(to, name, link string) error
	SendAdminInviteEmail(to, clubName, eventName, link string) error
}

// Client is an SMTP-backed Mailer.
type Client struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// NewClient creates an SMTP mail client from configuration.
func NewClient(cfg config.MailConfig, logger *slog.Logger) *Client {
	return &Client{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// SendVerificationEmail sends the account verification link.
func (c *Client) SendVerificationEmail(to, name, link string) error {
	subject := "Verify your Legacy25 account"
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to Legacy25! Verify your account by opening the link below:\n\n%s\n\nThe link expires in 24 hours.\n",
		name, link,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Welcome to Legacy25! <a href="%s">Verify your account</a>. The link expires in 24 hours.</p>`,
		name, link,
	)
	return c.send(to, subject, body, html)
}

// SendOTPEmail sends a one-time verification code.
func (c *Client) SendOTPEmail(to, name, otp string) error {
	subject := "Your Legacy25 verification code"
	body := fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in 10 minutes.\n", name, otp)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is <b>%s</b>. It expires in 10 minutes.</p>", name, otp)
	return c.send(to, subject, body, html)
}

// SendPasswordResetEmail sends the password reset link.
func (c *Client) SendPasswordResetEmail(to, name, link string) error {
	subject := "Reset your Legacy25 password"
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s\n\nIf you did not request this, ignore this email.\n",
		name, link,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p><a href="%s">Reset your password</a>. If you did not request this, ignore this email.</p>`,
		name, link,
	)
	return c.send(to, subject, body, html)
}

// SendAdminInviteEmail sends an event-admin onboarding invitation.
func (c *Client) SendAdminInviteEmail(to, clubName, eventName, link string) error {
	subject := fmt.Sprintf("You are invited to manage %s at Legacy25", eventName)
	body := fmt.Sprintf(
		"Hello,\n\nYou have been invited to manage %s on behalf of %s. Complete your admin signup here:\n\n%s\n\nThe invitation expires in 7 days.\n",
		eventName, clubName, link,
	)
	html := fmt.Sprintf(
		`<p>Hello,</p><p>You have been invited to manage <b>%s</b> on behalf of <b>%s</b>. <a href="%s">Complete your admin signup</a>. The invitation expires in 7 days.</p>`,
		eventName, clubName, link,
	)
	return c.send(to, subject, body, html)
}

func (c *Client) send(to, subject, body, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("Message-ID", generateMessageID())
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.AddAlternative("text/html", html)

	if err := c.dialer.DialAndSend(msg); err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to send email", "to", to, "subject", subject, "error", err)
		}
		return fmt.Errorf("send email: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("Email sent", "to", to, "subject", subject)
	}
	return nil
}

func generateMessageID() string {
	return fmt.Sprintf("<%s@legacy25>", uuid.New().String())
}

// Noop is a Mailer that records nothing and always succeeds.
// Used in development and tests.
type Noop struct{}

// SendVerificationEmail is a no-op.
func (Noop) SendVerificationEmail(string, string, string) error { return nil }

// SendOTPEmail is a no-op.
func (Noop) SendOTPEmail(string, string, string) error { return nil }

// SendPasswordResetEmail is a no-op.
func (Noop) SendPasswordResetEmail(string, string, string) error { return nil }

// SendAdminInviteEmail is a no-op.
func (Noop) SendAdminInviteEmail(string, string, string, string) error { return nil }
