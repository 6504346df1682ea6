package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// QRCodeGenerator renders a link as a scannable PNG. Purely decorative for
// the confirmation email.
type QRCodeGenerator interface {
	Generate(content string, size int) ([]byte, error)
}

// ConfirmationEmailData holds data for the subscription confirmation email.
type ConfirmationEmailData struct {
	Email            string
	FullName         string
	EventTitle       string
	ConfirmationLink string
	// QRCodeDataURI is the confirmation link rendered as an inline PNG
	// data URI, embeddable directly in the HTML body.
	QRCodeDataURI string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendConfirmation(ctx context.Context, data *ConfirmationEmailData) error
}
