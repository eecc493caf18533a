package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jdeweedata/circletel-sub013/internal/config"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Mailer delivers transactional email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to string, subject string, htmlBody string) error
}

type smtpMailer struct {
	host     string
	port     string
	username string
	password string
	sender   string
	log      *zap.Logger
}

func NewMailer(cfg config.Config, log *zap.Logger) Mailer {
	sender := strings.TrimSpace(cfg.SMTPSender)
	if sender == "" {
		sender = "no-reply@circletel.co.za"
	}
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		sender:   sender,
		log:      log.Named("mail"),
	}
}

func (m *smtpMailer) Send(to string, subject string, htmlBody string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("missing_recipient")
	}
	if m.host == "" {
		m.log.Warn("smtp not configured, dropping email",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	var auth smtp.Auth
	if m.username != "" && m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", m.sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			htmlBody,
	)

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.sender, []string{to}, msg); err != nil {
		m.log.Error("smtp send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return errors.Wrap(err, "smtp send")
	}

	m.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
