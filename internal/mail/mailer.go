package mail

import (
	"fmt"
	"net/smtp"

	"github.com/mkotelnikov/webshop/internal/config"
)

type Mailer struct {
	Host     string
	Port     string
	From     string
	Password string
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{
		Host:     cfg.SMTP_HOST,
		Port:     cfg.SMTP_PORT,
		From:     cfg.SMTP_FROM,
		Password: cfg.SMTP_PASSWORD,
	}
}

func (m *Mailer) SendResetToken(to, token string) error {
	if m == nil || m.Host == "" {
		return fmt.Errorf("mail: smtp is not configured")
	}

	resetLink := fmt.Sprintf("http://localhost:8080/api/v1/auth/reset-password?token=%s", token)
	body := fmt.Sprintf(
		"Subject: Reset Your Password\r\nFrom: %s\r\nTo: %s\r\n\r\n"+
			"You requested a password reset. Follow the link below:\r\n\r\n%s\r\n\r\n"+
			"The link expires in 15 minutes. If you didn't request this, ignore this email.\r\n",
		m.From, to, resetLink,
	)

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	addr := m.Host + ":" + m.Port
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("mail: send failed: %w", err)
	}
	return nil
}
