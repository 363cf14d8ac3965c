package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/pandawok/reservas-backend/utils"
)

// Mailer sends notification email over plain SMTP. When the SMTP env
// vars are missing it degrades to logging the message, so development
// and tests run without a mail account. Reservation transactions never
// wait on it: callers use SendAsync after commit.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	fromName string
}

func NewMailerFromEnv() *Mailer {
	return &Mailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		fromName: os.Getenv("SMTP_FROM_NAME"),
	}
}

// Enabled reports whether a real SMTP account is configured. Token
// minting on reservation create keys off this.
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.port != "" && m.username != "" && m.password != ""
}

// Send delivers one message synchronously.
func (m *Mailer) Send(to, subject, textBody, htmlBody string) error {
	if !m.Enabled() {
		utils.InfoLogger.Printf("[MOCK EMAIL] to:%s subject:%s", to, subject)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	subject = safe(subject)

	fromName := m.fromName
	if fromName == "" {
		fromName = "PandaWok"
	}
	from := fmt.Sprintf("%s <%s>", fromName, m.username)

	boundary := "----=_RESERVA_EMAIL_BOUNDARY"
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	if htmlBody != "" {
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary))
		msg.WriteString(fmt.Sprintf("--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, textBody))
		msg.WriteString(fmt.Sprintf("--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, htmlBody))
		msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	} else {
		msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		msg.WriteString(textBody)
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	return smtp.SendMail(addr, auth, m.username, []string{to}, []byte(msg.String()))
}

// SendAsync fires the message from a goroutine. Failures are logged and
// never reach the caller; a reservation must not fail because email did.
func (m *Mailer) SendAsync(to, subject, textBody, htmlBody string) {
	go func() {
		if err := m.Send(to, subject, textBody, htmlBody); err != nil {
			utils.ErrorLogger.Printf("Failed to send email to %s (%s): %v", to, subject, err)
		}
	}()
}
