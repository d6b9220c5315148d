package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

type smtpMailer struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *zap.Logger

	// sendFn is swappable for tests; production uses smtp.SendMail.
	sendFn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host string, port int, from, username, password string, logger ...*zap.Logger) Mailer {
	var log *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("notify.smtp")
	} else {
		log = zap.NewNop()
	}

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &smtpMailer{
		addr:   fmt.Sprintf("%s:%d", host, port),
		from:   from,
		auth:   auth,
		logger: log,
		sendFn: smtp.SendMail,
	}
}

func (m *smtpMailer) SendRegistrationWelcome(ctx context.Context, to, name, employeeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := "Welcome to the attendance system"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour face registration is complete. Your employee ID is %s.\r\nYou can now punch in and out at the kiosk.\r\n",
		name, employeeID,
	)

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := m.sendFn(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		m.logger.Error("send welcome mail failed",
			zap.String("to", to),
			zap.Error(err),
		)
		return err
	}

	m.logger.Info("welcome mail sent",
		zap.String("to", to),
		zap.String("employee_id", employeeID),
	)
	return nil
}
