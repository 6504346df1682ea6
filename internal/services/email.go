package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"eventlivechat/internal/domain"
)

const qrCodeSize = 256

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	qr       domain.QRCodeGenerator
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that renders the confirmation
// template, attaches the QR image inline, and sends through the Mailer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, qr domain.QRCodeGenerator, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, qr: qr, logger: logger}
}

// SendConfirmation sends the subscription confirmation email using the
// "confirmation" template. The QR image is decorative: generation failures
// are logged and the email goes out without it.
func (s *emailService) SendConfirmation(ctx context.Context, data *domain.ConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("confirmation email data is nil")
	}
	if s.qr != nil && data.QRCodeDataURI == "" {
		png, err := s.qr.Generate(data.ConfirmationLink, qrCodeSize)
		if err != nil {
			s.logger.Warn("failed to generate confirmation QR code", "err", err)
		} else {
			data.QRCodeDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		}
	}
	subject, htmlBody, textBody, err := s.renderer.Render("confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	s.logger.Info("confirmation email sent", "email", data.Email)
	return nil
}
