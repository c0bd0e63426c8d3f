package utils

import (
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// senderName labels outgoing mail so recipients see the clinic, not the
// relay account.
const senderName = "Infirmary"

func newMessage(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", os.Getenv("EMAIL_USER"), senderName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

// SendEmail delivers a notification through the SMTP relay configured by
// SMTP_HOST, SMTP_PORT, EMAIL_USER and EMAIL_PASS. The environment is
// loaded once at boot by db.Init.
func SendEmail(to, subject, body string) error {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)
	return d.DialAndSend(newMessage(to, subject, body))
}
