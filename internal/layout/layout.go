// Package layout holds the placement and style values used to compose badge faces.
//
// A Config is a plain value: composition only reads it, and edits such as
// Reposition return a modified copy.
package layout

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
	"unicode/utf8"
)

// Field names a drawable element on a face.
type Field string

const (
	FieldName            Field = "name"
	FieldIdentifierLabel Field = "identifierLabel"
	FieldIdentifierFront Field = "identifierFront"
	FieldBarcode         Field = "barcode"
	FieldIdentifierBack  Field = "identifierBack"
)

var knownFields = map[Field]bool{
	FieldName:            true,
	FieldIdentifierLabel: true,
	FieldIdentifierFront: true,
	FieldBarcode:         true,
	FieldIdentifierBack:  true,
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

type Weight string

const (
	WeightNormal Weight = "normal"
	WeightBold   Weight = "bold"
)

// Symbologies accepted for the back-face code.
const (
	SymbologyCode128 = "CODE128"
	SymbologyCode39  = "CODE39"
	SymbologyQR      = "QR"
)

// TemplateFit controls how a template is placed on a canvas of another size.
type TemplateFit string

const (
	// FitAuto draws the template at the origin, or centered when the canvas is larger.
	FitAuto TemplateFit = "auto"
	// FitStretch resizes the template to cover the whole canvas.
	FitStretch TemplateFit = "stretch"
)

var (
	ErrUnknownField = errors.New("unknown layout field")
	ErrInvalid      = errors.New("invalid layout")
)

// Placement positions one field. Coordinates are canvas pixels; Y is the top of the text.
// With AlignCenter, X is the horizontal center line.
type Placement struct {
	X                int     `yaml:"x" json:"x"`
	Y                int     `yaml:"y" json:"y"`
	FontSize         int     `yaml:"font_size,omitempty" json:"font_size,omitempty"`
	MinFontSize      int     `yaml:"min_font_size,omitempty" json:"min_font_size,omitempty"`
	BoxWidthFraction float64 `yaml:"box_width_fraction,omitempty" json:"box_width_fraction,omitempty"`
	Align            Align   `yaml:"align,omitempty" json:"align,omitempty"`
	// Width and Height are the target rectangle for the barcode.
	Width  int `yaml:"width,omitempty" json:"width,omitempty"`
	Height int `yaml:"height,omitempty" json:"height,omitempty"`
}

type Barcode struct {
	Symbology    string `yaml:"symbology" json:"symbology"`
	ModuleWidth  int    `yaml:"module_width" json:"module_width"`
	ModuleHeight int    `yaml:"module_height" json:"module_height"`
}

// Offsets is the length-bucketed horizontal shift for centered identifiers.
type Offsets struct {
	Short  int `yaml:"short" json:"short"`   // up to 6 characters
	Medium int `yaml:"medium" json:"medium"` // exactly 7
	Long   int `yaml:"long" json:"long"`     // 8 or more
}

// For returns the offset bucket for s, by character count.
func (o Offsets) For(s string) int {
	switch n := utf8.RuneCountInString(s); {
	case n <= 6:
		return o.Short
	case n == 7:
		return o.Medium
	default:
		return o.Long
	}
}

type Size struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Point returns the size as an image.Point.
func (s Size) Point() image.Point { return image.Pt(s.Width, s.Height) }

func (s Size) IsZero() bool { return s.Width <= 0 || s.Height <= 0 }

type Config struct {
	Fields      map[Field]Placement `yaml:"fields" json:"fields"`
	FontWeight  Weight              `yaml:"font_weight" json:"font_weight"`
	ColorFront  string              `yaml:"color_front" json:"color_front"`
	ColorBack   string              `yaml:"color_back" json:"color_back"`
	Barcode     Barcode             `yaml:"barcode" json:"barcode"`
	Uppercase   bool                `yaml:"uppercase" json:"uppercase"`
	Offsets     Offsets             `yaml:"offsets" json:"offsets"`
	RotateBack  bool                `yaml:"rotate_back" json:"rotate_back"`
	FitStep     int                 `yaml:"fit_step" json:"fit_step"`
	TemplateFit TemplateFit         `yaml:"template_fit" json:"template_fit"`
	LabelText   string              `yaml:"label_text" json:"label_text"`
	// Canvas overrides the output size. Zero derives it from the templates.
	Canvas Size `yaml:"canvas,omitempty" json:"canvas,omitempty"`
}

// Default returns the reference layout for a 1013x638 card.
func Default() Config {
	return Config{
		Fields: map[Field]Placement{
			FieldName: {
				X: 506, Y: 290, FontSize: 44, MinFontSize: 20,
				BoxWidthFraction: 0.8, Align: AlignCenter,
			},
			FieldIdentifierLabel: {X: 330, Y: 380, FontSize: 28, Align: AlignLeft},
			FieldIdentifierFront: {X: 506, Y: 376, FontSize: 32, MinFontSize: 18, Align: AlignCenter},
			FieldBarcode:         {X: 256, Y: 380, Width: 500, Height: 120},
			FieldIdentifierBack:  {X: 506, Y: 515, FontSize: 30, Align: AlignCenter},
		},
		FontWeight: WeightBold,
		ColorFront: "#000000",
		ColorBack:  "#000000",
		Barcode: Barcode{
			Symbology:    SymbologyCode128,
			ModuleWidth:  2,
			ModuleHeight: 100,
		},
		Uppercase:   true,
		Offsets:     Offsets{Short: 30, Medium: 40, Long: 60},
		FitStep:     2,
		TemplateFit: FitAuto,
		LabelText:   "Badge NO:",
	}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	out.Fields = make(map[Field]Placement, len(c.Fields))
	for k, v := range c.Fields {
		out.Fields[k] = v
	}
	return out
}

// Placement returns the placement for f and whether it is configured.
func (c Config) Placement(f Field) (Placement, bool) {
	p, ok := c.Fields[f]
	return p, ok
}

// Reposition returns a copy of c with field f moved to (x, y).
func (c Config) Reposition(f Field, x, y int) (Config, error) {
	if !knownFields[f] {
		return c, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	out := c.Clone()
	p := out.Fields[f]
	p.X, p.Y = x, y
	out.Fields[f] = p
	return out, nil
}

// DisplayName formats a full name for the front face.
func (c Config) DisplayName(full string) string {
	if c.Uppercase {
		return strings.ToUpper(full)
	}
	return full
}

// Validate checks the values composition relies on.
func (c Config) Validate() error {
	var errs []error
	for f, p := range c.Fields {
		if !knownFields[f] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownField, f))
			continue
		}
		if p.Align != "" && p.Align != AlignLeft && p.Align != AlignCenter {
			errs = append(errs, fmt.Errorf("%s: align %q", f, p.Align))
		}
		if p.MinFontSize < 0 || p.FontSize < 0 {
			errs = append(errs, fmt.Errorf("%s: negative font size", f))
		}
		if p.BoxWidthFraction < 0 || p.BoxWidthFraction > 1 {
			errs = append(errs, fmt.Errorf("%s: box_width_fraction %v outside [0,1]", f, p.BoxWidthFraction))
		}
	}
	switch c.Barcode.Symbology {
	case SymbologyCode128, SymbologyCode39, SymbologyQR:
	default:
		errs = append(errs, fmt.Errorf("barcode: symbology %q", c.Barcode.Symbology))
	}
	if c.Barcode.ModuleWidth <= 0 || c.Barcode.ModuleHeight <= 0 {
		errs = append(errs, errors.New("barcode: module size must be positive"))
	}
	if c.FontWeight != WeightNormal && c.FontWeight != WeightBold {
		errs = append(errs, fmt.Errorf("font_weight %q", c.FontWeight))
	}
	if c.TemplateFit != FitAuto && c.TemplateFit != FitStretch {
		errs = append(errs, fmt.Errorf("template_fit %q", c.TemplateFit))
	}
	if c.FitStep < 0 {
		errs = append(errs, errors.New("fit_step must not be negative"))
	}
	for _, s := range []string{c.ColorFront, c.ColorBack} {
		if _, err := ParseHexColor(s); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// CanvasFromPhysical converts a card size in centimetres at dpi to pixels.
func CanvasFromPhysical(widthCm, heightCm float64, dpi int) Size {
	return Size{
		Width:  int(math.Round(widthCm / 2.54 * float64(dpi))),
		Height: int(math.Round(heightCm / 2.54 * float64(dpi))),
	}
}
