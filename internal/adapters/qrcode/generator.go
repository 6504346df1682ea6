package qrcode

import (
	"fmt"

	qr "github.com/skip2/go-qrcode"

	"eventlivechat/internal/domain"
)

type generator struct{}

// NewGenerator returns a QRCodeGenerator that renders PNG codes with medium
// error correction.
func NewGenerator() domain.QRCodeGenerator {
	return &generator{}
}

func (g *generator) Generate(content string, size int) ([]byte, error) {
	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
