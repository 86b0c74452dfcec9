package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"path/filepath"
)

type MailConfig struct {
	From        string
	Password    string
	SMTPHost    string
	SMTPAddress string
	TemplateDir string
}

func (c MailConfig) Enabled() bool {
	return c.From != "" && c.SMTPAddress != ""
}

type OrderConfirmationLine struct {
	Name     string
	Quantity int
	Price    string
}

type OrderConfirmation struct {
	To      string
	Name    string
	OrderID string
	Lines   []OrderConfirmationLine
	Total   string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	cfg  MailConfig
	send sendFunc
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

func (m *Mailer) SendEmail(emailTo string, emailSubject string, data any, templateName string) error {
	tmpl, err := template.ParseFiles(filepath.Join(m.cfg.TemplateDir, templateName))
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		emailTo,
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.SMTPHost)
	if err := m.send(m.cfg.SMTPAddress, auth, m.cfg.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *Mailer) SendOrderConfirmation(_ context.Context, confirmation OrderConfirmation) error {
	subject := "Order confirmation #" + confirmation.OrderID
	return m.SendEmail(confirmation.To, subject, confirmation, "order_confirmation.html")
}
