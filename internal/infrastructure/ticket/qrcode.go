// Package ticket renders registration tickets as QR codes.
package ticket

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"community/internal/ports/output"
)

// DefaultSize is the edge length of rendered tickets in pixels.
const DefaultSize = 256

var _ output.TicketRenderer = (*QRRenderer)(nil)

type QRRenderer struct {
	size int
}

func NewQRRenderer(size int) *QRRenderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &QRRenderer{size: size}
}

func (r *QRRenderer) RenderPNG(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
