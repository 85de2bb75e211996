// Package service holds background workers that run next to the
// request path: the outbound mail queue, the expired code sweeper and
// the keepalive loop.
package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer is a buffered outbound mail queue. Handlers only enqueue;
// the workers do the SMTP round trips so a slow mail server never
// blocks a request. With mail.enabled off the workers drop messages
// after logging them, which is what tests and local setups run with.
type Mailer struct {
	queue   chan *Mail
	workers int
	enabled bool
}

func NewMailer() *Mailer {
	return &Mailer{
		queue:   make(chan *Mail, 64),
		workers: 2,
		enabled: viper.GetBool("mail.enabled"),
	}
}

func (m *Mailer) StartWorkerPool() {
	for range m.workers {
		go m.worker()
	}
}

// Enqueue hands a message to the worker pool. It never blocks; a full
// queue is reported to the caller instead.
func (m *Mailer) Enqueue(mail *Mail) error {
	select {
	case m.queue <- mail:
		return nil
	default:
		return errors.New("mail queue is full")
	}
}

func (m *Mailer) worker() {
	for mail := range m.queue {
		if !m.enabled {
			zap.L().Info("Mail delivery disabled, dropping message",
				zap.String("to", mail.To),
				zap.String("subject", mail.Subject))
			continue
		}

		if err := m.send(mail); err != nil {
			zap.L().Error("Failed to send mail",
				zap.String("to", mail.To),
				zap.Error(err))
			continue
		}

		zap.L().Debug("Mail sent", zap.String("to", mail.To))
	}
}

func (m *Mailer) send(mail *Mail) error {
	from := viper.GetString("mail.sender")
	if mail.To == from {
		return errors.New("invalid recipient address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.Body)

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(msg)
}

func baseURL() string {
	scheme := "http"
	if viper.GetBool("host.ssl.enabled") {
		scheme = "https"
	}

	return scheme + "://" + viper.GetString("host.domain")
}

// VerificationMail builds the message holding an email verification
// code for a freshly registered (or resent-to) account
func VerificationMail(to, code string) *Mail {
	link := fmt.Sprintf("%s/verify?email=%s&code=%s", baseURL(), to, code)

	return &Mail{
		To:      to,
		Subject: "Verify your email to start sharing pages",
		Body: fmt.Sprintf("Click <a href='%s'>here</a> to verify your account.<br><br>"+
			"This link will expire in 30 minutes", link),
	}
}

// ResetMail builds the message holding a password reset code
func ResetMail(to, code string) *Mail {
	return &Mail{
		To:      to,
		Subject: "Your password reset code",
		Body: fmt.Sprintf("Your password reset code is <b>%s</b>.<br><br>"+
			"It expires in 30 minutes. If you didn't request a reset you can ignore this mail", code),
	}
}
