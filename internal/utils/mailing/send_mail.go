package mailing

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
	OpsEmail     string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
		OpsEmail:     utils.GetConfig("OPS_ALERT_EMAIL"),
	}
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()

	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", emailConfig.SMTPEmail, emailConfig.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

// AlertMailer notifies operators about rating aggregates that could not be
// recomputed. Without OPS_ALERT_EMAIL it only logs.
type AlertMailer struct {
	log  *logger.Logger
	to   string
	send func(to, subject, body string) error
}

func NewAlertMailer(log *logger.Logger) *AlertMailer {
	return &AlertMailer{
		log:  log.With("service", "AlertMailer"),
		to:   LoadMailConfig().OpsEmail,
		send: SendMail,
	}
}

func (m *AlertMailer) ReportInconsistency(_ context.Context, target, targetID string, cause error) {
	if m.to == "" {
		return
	}
	subject := fmt.Sprintf("[catalog] stale rating aggregate on %s %s", target, targetID)
	body := fmt.Sprintf(
		"<p>The rating aggregate for %s <code>%s</code> could not be recomputed.</p><p>Last error: %s</p><p>Run <code>reconcile-ratings</code> once the store is healthy.</p>",
		target, targetID, cause,
	)
	// the request that triggered the recompute has already returned
	go func() {
		if err := m.send(m.to, subject, body); err != nil {
			m.log.Warn("failed to send inconsistency alert", "target", target, "target_id", targetID, "error", err)
		}
	}()
}
