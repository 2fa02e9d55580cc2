package imagepkg

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/badgeapp/internal/layout"
)

func TestSymbolEncoder(t *testing.T) {
	enc := SymbolEncoder{}

	t.Run("CODE128 uses module size", func(t *testing.T) {
		img, err := enc.Encode("12345", layout.Barcode{Symbology: layout.SymbologyCode128, ModuleWidth: 2, ModuleHeight: 100})
		require.NoError(t, err)
		b := img.Bounds()
		assert.Equal(t, 100, b.Dy())
		assert.Zero(t, b.Dx()%2)

		narrow, err := enc.Encode("12345", layout.Barcode{Symbology: layout.SymbologyCode128, ModuleWidth: 1, ModuleHeight: 100})
		require.NoError(t, err)
		assert.Equal(t, 2*narrow.Bounds().Dx(), b.Dx())
	})

	t.Run("CODE39", func(t *testing.T) {
		img, err := enc.Encode("12345", layout.Barcode{Symbology: layout.SymbologyCode39, ModuleWidth: 1, ModuleHeight: 50})
		require.NoError(t, err)
		assert.Equal(t, 50, img.Bounds().Dy())
	})

	t.Run("CODE39 rejects lowercase", func(t *testing.T) {
		_, err := enc.Encode("abc", layout.Barcode{Symbology: layout.SymbologyCode39, ModuleWidth: 1, ModuleHeight: 50})
		require.ErrorIs(t, err, ErrBarcode)
	})

	t.Run("QR is square", func(t *testing.T) {
		img, err := enc.Encode("12345", layout.Barcode{Symbology: layout.SymbologyQR, ModuleWidth: 1, ModuleHeight: 120})
		require.NoError(t, err)
		assert.Equal(t, 120, img.Bounds().Dx())
		assert.Equal(t, 120, img.Bounds().Dy())
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := enc.Encode("", layout.Default().Barcode)
		require.ErrorIs(t, err, ErrBarcode)
	})

	t.Run("unknown symbology", func(t *testing.T) {
		_, err := enc.Encode("12345", layout.Barcode{Symbology: "EAN13", ModuleWidth: 1, ModuleHeight: 50})
		require.ErrorIs(t, err, ErrBarcode)
	})
}

func TestBarcodePNG(t *testing.T) {
	b, err := BarcodePNG(SymbolEncoder{}, "12345", layout.Default().Barcode)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dy())
}
