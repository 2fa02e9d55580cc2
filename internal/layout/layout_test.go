package layout

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetsFor(t *testing.T) {
	o := Default().Offsets
	require.Less(t, o.Short, o.Medium)
	require.Less(t, o.Medium, o.Long)

	tests := []struct {
		id   string
		want int
	}{
		{"", 30},
		{"12345", 30},
		{"123456", 30},
		{"1234567", 40},
		{"12345678", 60},
		{"1234567890123", 60},
		{"ÄÖÜ1234", 40}, // counted in characters, not bytes
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, o.For(tt.id), "id %q", tt.id)
	}
}

func TestRepositionReturnsCopy(t *testing.T) {
	base := Default()
	moved, err := base.Reposition(FieldBarcode, 10, 20)
	require.NoError(t, err)

	assert.Equal(t, 10, moved.Fields[FieldBarcode].X)
	assert.Equal(t, 20, moved.Fields[FieldBarcode].Y)
	assert.Equal(t, 500, moved.Fields[FieldBarcode].Width, "other placement values are kept")
	assert.Equal(t, Default().Fields[FieldBarcode], base.Fields[FieldBarcode], "original is untouched")

	_, err = base.Reposition("logo", 1, 1)
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestDisplayName(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "JANE DOE", cfg.DisplayName("Jane Doe"))
	cfg.Uppercase = false
	assert.Equal(t, "Jane Doe", cfg.DisplayName("Jane Doe"))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default().Clone()
	cfg.Barcode.Symbology = "EAN13"
	cfg.ColorBack = "blue"
	cfg.Fields[FieldName] = Placement{Align: "justify", BoxWidthFraction: 1.5}
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "EAN13")
	assert.Contains(t, err.Error(), "blue")
	assert.Contains(t, err.Error(), "justify")
}

func TestParseOverridesDefaults(t *testing.T) {
	doc := []byte(`
uppercase: false
rotate_back: true
barcode:
  symbology: CODE39
  module_width: 3
  module_height: 80
offsets: {short: 10, medium: 20, long: 30}
fields:
  barcode: {x: 100, y: 200, width: 300, height: 90}
`)
	cfg, err := Parse(doc)
	require.NoError(t, err)

	want := Default()
	want.Uppercase = false
	want.RotateBack = true
	want.Barcode = Barcode{Symbology: SymbologyCode39, ModuleWidth: 3, ModuleHeight: 80}
	want.Offsets = Offsets{Short: 10, Medium: 20, Long: 30}
	want.Fields[FieldBarcode] = Placement{X: 100, Y: 200, Width: 300, Height: 90}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRoundTripsMarshal(t *testing.T) {
	cfg := Default()
	cfg.Canvas = CanvasFromPhysical(8.56, 5.398, 300)
	data, err := cfg.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestCanvasFromPhysical(t *testing.T) {
	// ISO/IEC 7810 ID-1 at 300 dpi
	assert.Equal(t, Size{Width: 1011, Height: 638}, CanvasFromPhysical(8.56, 5.398, 300))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1a2B3c")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}, c)

	c, err = ParseHexColor("fff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
}
