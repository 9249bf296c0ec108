package email

import (
	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Service handles email sending via SMTP
type Service struct {
	dialer dialer
	from   string
}

// NewService creates a new email service. Empty credentials send without
// SMTP auth, which suits local catchers such as MailHog.
func NewService(host string, port int, user, password, from string) *Service {
	return &Service{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// SendNotification mails an inbox notification as plain text with an HTML
// alternative.
func (s *Service) SendNotification(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.AddAlternative("text/html", BuildNotificationBody(subject, body))
	return s.dialer.DialAndSend(msg)
}
