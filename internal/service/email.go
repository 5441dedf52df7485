package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"storefront-library/internal/config"
	"storefront-library/internal/logger"
)

// EmailMessage is a plain-text mail to one recipient.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Mailer delivers a message through one provider.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NewMailer builds the provider selected by cfg.Provider.
func NewMailer(cfg config.EmailConfig) (Mailer, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.From, cfg.FromName), nil
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.From, cfg.FromName), nil
	case "log", "":
		return LogMailer{}, nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

func NewSMTPMailer(host string, port int, username, password, from, fromName string) Mailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

func (s *smtpMailer) Send(ctx context.Context, msg EmailMessage) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetAddressHeader("To", msg.To, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	logger.ExternalServiceCall("smtp", "DialAndSend", "to", msg.To)
	err := d.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "DialAndSend", err, "to", msg.To)
	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

// LogMailer only logs messages. It is the default when no provider is set.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg EmailMessage) error {
	logger.InfoContext(ctx, "Email suppressed (log provider)", "to", msg.To, "subject", msg.Subject)
	return nil
}

type emailService struct {
	mailer Mailer
}

func NewEmailService(mailer Mailer) EmailService {
	return &emailService{mailer: mailer}
}

const dateFormat = "Monday, January 2, 2006"

func (s *emailService) SendLendNotification(ctx context.Context, email, friendName, gameTitle string, expiry time.Time, days int) error {
	body := fmt.Sprintf("Hello %s,\n\nYou have been lent %s for %d days.\n\nYour access expires on %s.\n\nEnjoy the game!\nEpic Games Library",
		friendName, gameTitle, days, expiry.Format(dateFormat))
	return s.mailer.Send(ctx, EmailMessage{
		To:      email,
		ToName:  friendName,
		Subject: fmt.Sprintf("%s has been lent to you", gameTitle),
		Body:    body,
	})
}

func (s *emailService) SendLendExtendedNotification(ctx context.Context, email, friendName, gameTitle string, expiry time.Time) error {
	body := fmt.Sprintf("Hello %s,\n\nGood news: your access to %s has been extended.\n\nIt now expires on %s.\n\nEpic Games Library",
		friendName, gameTitle, expiry.Format(dateFormat))
	return s.mailer.Send(ctx, EmailMessage{
		To:      email,
		ToName:  friendName,
		Subject: fmt.Sprintf("Your loan of %s was extended", gameTitle),
		Body:    body,
	})
}

func (s *emailService) SendLendRevokedNotification(ctx context.Context, email, friendName, gameTitle string) error {
	body := fmt.Sprintf("Hello %s,\n\nThe owner has ended your access to %s.\n\nEpic Games Library", friendName, gameTitle)
	return s.mailer.Send(ctx, EmailMessage{
		To:      email,
		ToName:  friendName,
		Subject: fmt.Sprintf("Your loan of %s has ended", gameTitle),
		Body:    body,
	})
}

func (s *emailService) SendLendExpiryReminder(ctx context.Context, email, friendName, gameTitle string, expiry time.Time) error {
	body := fmt.Sprintf("Hello %s,\n\nA reminder that your access to %s expires on %s at %s UTC.\n\nEpic Games Library",
		friendName, gameTitle, expiry.Format(dateFormat), expiry.UTC().Format("15:04"))
	return s.mailer.Send(ctx, EmailMessage{
		To:      email,
		ToName:  friendName,
		Subject: fmt.Sprintf("Your loan of %s expires soon", gameTitle),
		Body:    body,
	})
}
