package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPProvider sends plain-text mail through a classic STARTTLS relay.
type SMTPProvider struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPProvider(host string, port int, user, pass, from string) *SMTPProvider {
	return &SMTPProvider{host: host, port: port, user: user, pass: pass, from: from}
}

func (p *SMTPProvider) Send(_ context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", p.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	auth := smtp.PlainAuth("", p.user, p.pass, p.host)
	return smtp.SendMail(addr, auth, p.from, []string{to}, []byte(msg.String()))
}
