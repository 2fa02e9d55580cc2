package imagepkg

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/youruser/badgeapp/internal/layout"
)

// ErrBarcode marks a payload the symbology rejected or a failed symbol render.
var ErrBarcode = errors.New("barcode encoding failed")

// BarcodeEncoder turns a payload into a code bitmap without human-readable text.
type BarcodeEncoder interface {
	Encode(payload string, style layout.Barcode) (image.Image, error)
}

// SymbolEncoder renders CODE128 and CODE39 with boombuler/barcode and QR with go-qrcode.
type SymbolEncoder struct{}

// Encode renders payload with ModuleWidth pixels per bar module and ModuleHeight
// pixels tall. For QR, ModuleHeight is the side length.
func (SymbolEncoder) Encode(payload string, style layout.Barcode) (image.Image, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrBarcode)
	}
	if style.ModuleWidth <= 0 || style.ModuleHeight <= 0 {
		return nil, fmt.Errorf("%w: module size %dx%d", ErrBarcode, style.ModuleWidth, style.ModuleHeight)
	}

	var (
		bc  barcode.Barcode
		err error
	)
	switch style.Symbology {
	case layout.SymbologyCode128:
		bc, err = code128.Encode(payload)
	case layout.SymbologyCode39:
		bc, err = code39.Encode(payload, false, false)
	case layout.SymbologyQR:
		return qrImage(payload, style.ModuleHeight)
	default:
		return nil, fmt.Errorf("%w: unknown symbology %q", ErrBarcode, style.Symbology)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: %w", ErrBarcode, style.Symbology, payload, err)
	}

	scaled, err := barcode.Scale(bc, bc.Bounds().Dx()*style.ModuleWidth, style.ModuleHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: scale: %w", ErrBarcode, err)
	}
	return scaled, nil
}

func qrImage(payload string, size int) (image.Image, error) {
	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("%w: QR %q: %w", ErrBarcode, payload, err)
	}
	q.DisableBorder = true
	return q.Image(size), nil
}

// BarcodePNG returns PNG bytes of the code for payload.
func BarcodePNG(enc BarcodeEncoder, payload string, style layout.Barcode) ([]byte, error) {
	img, err := enc.Encode(payload, style)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
