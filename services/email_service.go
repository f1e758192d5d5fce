package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/RitamPal26/student-progress-site/config"
)

var reminderTemplate = template.Must(template.New("reminder").Parse(
	`<p>Hi {{.Name}},</p>
<p>We noticed you haven't submitted anything on Codeforces in the last week.
Jump back in and keep the streak alive!</p>
<p>Happy coding,<br/>Student Progress System</p>`))

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendReminder emails an inactivity reminder to a student.
func (s *EmailService) SendReminder(ctx context.Context, email, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := reminderTemplate.Execute(&body, struct{ Name string }{Name: name}); err != nil {
		return fmt.Errorf("failed to render reminder body: %w", err)
	}

	subject := "Time to solve some Codeforces problems!"
	return s.sendEmail([]string{email}, subject, body.String())
}

func (s *EmailService) sendEmail(to []string, subject, body string) error {
	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Implicit TLS
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial failed: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client creation failed: %w", err)
		}
	} else {
		// STARTTLS (usually port 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial failed: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp STARTTLS failed: %w", err)
		}
	}
	defer client.Quit()

	if s.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO failed: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp message write failed: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp DATA close failed: %w", err)
	}

	return nil
}
