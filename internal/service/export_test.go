package service

// NewSendGridMailerAt points the SendGrid mailer at host.
func NewSendGridMailerAt(apiKey, host, fromEmail, fromName string) Mailer {
	return newSendGridMailer(apiKey, host, fromEmail, fromName)
}
