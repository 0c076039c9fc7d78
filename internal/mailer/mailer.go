package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/projectpulse/project-management-api/internal/logger"
	"go.uber.org/zap"
)

// Mailer delivers invitation notifications. Delivery is best-effort: callers
// fire it from a goroutine and never fail the triggering request on error.
type Mailer interface {
	SendInvitation(toEmail, inviteLink, invitedBy, companyName string) error
}

// SMTPMailer sends invitation emails through a plain SMTP relay.
type SMTPMailer struct {
	from     string
	password string
	host     string
	port     string
}

func NewSMTPMailer(host, port, user, password string) *SMTPMailer {
	return &SMTPMailer{
		from:     user,
		password: password,
		host:     host,
		port:     port,
	}
}

func (m *SMTPMailer) SendInvitation(toEmail, inviteLink, invitedBy, companyName string) error {
	if m.host == "" || m.from == "" {
		return fmt.Errorf("missing SMTP configuration")
	}

	subject := fmt.Sprintf("You have been invited to join %s", companyName)
	body := fmt.Sprintf(
		"<p>%s has invited you to join <b>%s</b>.</p>"+
			"<p><a href=%q>Accept the invitation</a> within 7 days.</p>",
		invitedBy, companyName, inviteLink,
	)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"utf-8\"\r\n"+
			"\r\n%s\r\n",
		m.from, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{toEmail}, msg)
}

// LogMailer is used when SMTP is not configured. It records the invitation
// instead of delivering it.
type LogMailer struct{}

func (LogMailer) SendInvitation(toEmail, inviteLink, invitedBy, companyName string) error {
	logger.Get().Info("invitation email (delivery disabled)",
		zap.String("to", toEmail),
		zap.String("company", companyName),
		zap.String("link", inviteLink),
	)
	return nil
}
