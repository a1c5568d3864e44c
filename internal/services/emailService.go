package services

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendEmail(to, subject, msg string) error
}

type emailService struct {
	from string
}

func NewEmailService() EmailService {
	return &emailService{
		from: os.Getenv("SMTP_USERNAME"),
	}
}

func (e *emailService) SendEmail(to, subject, msg string) error {
	m := gomail.NewMessage()

	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", msg)

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// OTPEmailBody renders the HTML mail carrying a one-time passcode.
func OTPEmailBody(otp string) string {
	return fmt.Sprintf(`
		<div style="font-family: sans-serif; text-align: center; padding: 20px;">
			<h2>Notely verification</h2>
			<p>Your One-Time Password (OTP) is:</p>
			<p style="font-size: 24px; font-weight: bold; letter-spacing: 2px;">%s</p>
			<p>This code will expire in 10 minutes.</p>
		</div>
	`, otp)
}
