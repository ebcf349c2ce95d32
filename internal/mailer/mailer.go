// Package mailer sends transactional email over plain SMTP. Delivery is
// best-effort: callers log failures and move on.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/nexus-esports/nexushub/config"
)

// Mailer sends notifications through the SMTP relay from the app config.
type Mailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

// NewMailer creates a new mailer
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		user:     cfg.SMTP.User,
		password: cfg.SMTP.Password,
		from:     cfg.SMTP.From,
	}
}

// Enabled reports whether an SMTP relay is configured.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	addr := m.host + ":" + m.port
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// SendApprovalEmail tells a team captain their registration was approved.
func (m *Mailer) SendApprovalEmail(to, teamName, eventName string) error {
	subject := fmt.Sprintf("Your team %s is confirmed for %s", teamName, eventName)
	body := fmt.Sprintf(
		"Hi,\n\nGood news! Your team %q has been approved for %s.\n\n"+
			"Keep an eye on your inbox for the match schedule and check-in details.\n\n"+
			"See you in the lobby,\nThe NexusHub team\n",
		teamName, eventName,
	)
	return m.send(to, subject, body)
}
