package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/youruser/badgeapp/internal/layout"
	"github.com/youruser/badgeapp/internal/metrics"
	"github.com/youruser/badgeapp/internal/roster"
	"github.com/youruser/badgeapp/internal/textfit"
)

const (
	defaultFontSize    = 24
	defaultMinFontSize = 8
)

// Face is one side of a badge.
type Face int

const (
	Front Face = iota
	Back
)

func (f Face) String() string {
	if f == Back {
		return "back"
	}
	return "front"
}

// ParseFace accepts "front" or "back" in any case.
func ParseFace(s string) (Face, error) {
	switch strings.ToLower(s) {
	case "front":
		return Front, nil
	case "back":
		return Back, nil
	}
	return Front, fmt.Errorf("unknown face %q", s)
}

// CanvasSize returns the per-axis maximum of the two template sizes, so both
// faces of a card share one output size.
func CanvasSize(front, back *Template) image.Point {
	var p image.Point
	for _, t := range []*Template{front, back} {
		if t == nil {
			continue
		}
		p.X = max(p.X, t.Width)
		p.Y = max(p.Y, t.Height)
	}
	return p
}

// RenderedFace is the raster for one face of one record.
type RenderedFace struct {
	Face   Face
	Width  int
	Height int
	Image  *image.NRGBA
	// Warnings lists layers that were skipped, such as a rejected barcode payload.
	Warnings []string
}

// PNG encodes the face.
func (r *RenderedFace) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.Image, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Options tune a single composition.
type Options struct {
	// HideOverlays draws only the background, for interactive placement previews.
	HideOverlays bool
}

// Overlay is a positioned text or barcode layer in output coordinates.
type Overlay struct {
	Field    layout.Field    `json:"field"`
	Text     string          `json:"text,omitempty"`
	FontSize int             `json:"font_size,omitempty"`
	Rect     image.Rectangle `json:"rect"`
}

type ComposerConfig struct {
	Fonts   *Fonts         // defaults to GoFonts
	Encoder BarcodeEncoder // defaults to SymbolEncoder
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Composer draws badge faces. It holds no per-record state and every call
// allocates its own raster.
type Composer struct {
	fonts   *Fonts
	encoder BarcodeEncoder
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewComposer(cfg ComposerConfig) (*Composer, error) {
	c := &Composer{
		fonts:   cfg.Fonts,
		encoder: cfg.Encoder,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
	if c.fonts == nil {
		f, err := GoFonts()
		if err != nil {
			return nil, err
		}
		c.fonts = f
	}
	if c.encoder == nil {
		c.encoder = SymbolEncoder{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// ComposeFace renders one face of rec. A zero canvas uses the template's size.
// Layer failures are logged and listed in Warnings; only a missing template is an error.
func (c *Composer) ComposeFace(face Face, rec roster.Record, tpl *Template, cfg layout.Config, canvas image.Point, opts Options) (*RenderedFace, error) {
	if tpl == nil {
		return nil, fmt.Errorf("%s: %w", face, ErrTemplateMissing)
	}
	if canvas.X <= 0 || canvas.Y <= 0 {
		canvas = tpl.Size()
	}

	dst := imaging.New(canvas.X, canvas.Y, color.White)
	dst = placeTemplate(dst, tpl, cfg.TemplateFit)

	out := &RenderedFace{Face: face, Width: canvas.X, Height: canvas.Y}
	if !opts.HideOverlays {
		layers, warnings := c.plan(face, rec, cfg, canvas)
		out.Warnings = warnings
		for _, l := range layers {
			if err := c.drawLayer(dst, l, cfg); err != nil {
				c.logger.Warn("overlay skipped", "face", face, "field", l.Field, "identifier", rec.Identifier, "err", err)
				out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %v", l.Field, err))
			}
		}
	}

	// rotation wraps the whole face so overlays keep their relative positions
	out.Image = orientationFor(face, cfg.RotateBack).Apply(dst)
	c.metrics.IncFaceComposed(face.String())
	return out, nil
}

// Overlays returns where each layer of the face lands in the output, without drawing.
func (c *Composer) Overlays(face Face, rec roster.Record, cfg layout.Config, canvas image.Point) []Overlay {
	layers, _ := c.plan(face, rec, cfg, canvas)
	o := orientationFor(face, cfg.RotateBack)
	out := make([]Overlay, 0, len(layers))
	for _, l := range layers {
		ov := l.Overlay
		ov.Rect = o.MapRect(ov.Rect, canvas)
		out = append(out, ov)
	}
	return out
}

func placeTemplate(dst *image.NRGBA, tpl *Template, fit layout.TemplateFit) *image.NRGBA {
	size := dst.Bounds().Size()
	if fit == layout.FitStretch && tpl.Size() != size {
		scaled := imaging.Resize(tpl.Image, size.X, size.Y, imaging.Lanczos)
		return imaging.Overlay(dst, scaled, image.Point{}, 1.0)
	}
	return imaging.Overlay(dst, tpl.Image, templateOrigin(size, tpl.Size()), 1.0)
}

// templateOrigin centers the template on any axis where the canvas is larger.
func templateOrigin(canvas, tpl image.Point) image.Point {
	var p image.Point
	if canvas.X > tpl.X {
		p.X = (canvas.X - tpl.X) / 2
	}
	if canvas.Y > tpl.Y {
		p.Y = (canvas.Y - tpl.Y) / 2
	}
	return p
}

type layer struct {
	Overlay
	symbol image.Image
}

// plan resolves font sizes and rectangles for every configured layer of a face.
func (c *Composer) plan(face Face, rec roster.Record, cfg layout.Config, canvas image.Point) ([]layer, []string) {
	var (
		layers   []layer
		warnings []string
	)
	addText := func(f layout.Field, text string, offset int) {
		p, ok := cfg.Placement(f)
		if !ok || text == "" {
			return
		}
		l, err := c.planText(f, text, p, offset, cfg, canvas.X)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", f, err))
			return
		}
		layers = append(layers, l)
	}

	switch face {
	case Front:
		addText(layout.FieldName, cfg.DisplayName(rec.FullName()), 0)
		addText(layout.FieldIdentifierLabel, cfg.LabelText, 0)
		addText(layout.FieldIdentifierFront, rec.Identifier, cfg.Offsets.For(rec.Identifier))
	case Back:
		if p, ok := cfg.Placement(layout.FieldBarcode); ok {
			sym, err := c.encode(rec.Identifier, cfg.Barcode)
			if err != nil {
				c.logger.Warn("barcode layer skipped",
					"identifier", rec.Identifier,
					"symbology", cfg.Barcode.Symbology,
					"err", err)
				c.metrics.IncBarcodeFailure()
				warnings = append(warnings, err.Error())
			} else {
				layers = append(layers, layer{
					Overlay: Overlay{Field: layout.FieldBarcode, Text: rec.Identifier, Rect: barcodeRect(p, sym)},
					symbol:  sym,
				})
			}
		}
		addText(layout.FieldIdentifierBack, rec.Identifier, 0)
	}
	return layers, warnings
}

func (c *Composer) planText(f layout.Field, text string, p layout.Placement, offset int, cfg layout.Config, canvasW int) (layer, error) {
	base := p.FontSize
	if base <= 0 {
		base = defaultFontSize
	}
	floor := p.MinFontSize
	if floor <= 0 {
		floor = min(defaultMinFontSize, base)
	}
	size := textfit.Fit(text, base, textfit.BoxWidth(p.BoxWidthFraction, canvasW), floor, cfg.FitStep, c.fonts.Measurer(cfg.FontWeight))

	ff, err := c.fonts.Face(cfg.FontWeight, size)
	if err != nil {
		return layer{}, err
	}
	defer ff.Close()

	x := p.X
	if p.Align == layout.AlignCenter {
		r := textRect(ff, 0, 0, text)
		x = p.X - r.Dx()/2 + offset
	}
	return layer{Overlay: Overlay{
		Field:    f,
		Text:     text,
		FontSize: size,
		Rect:     textRect(ff, x, p.Y, text),
	}}, nil
}

func (c *Composer) drawLayer(dst *image.NRGBA, l layer, cfg layout.Config) error {
	if l.symbol != nil {
		sym := l.symbol
		if l.Rect.Size() != sym.Bounds().Size() {
			sym = imaging.Resize(sym, l.Rect.Dx(), l.Rect.Dy(), imaging.NearestNeighbor)
		}
		draw.Draw(dst, l.Rect, sym, sym.Bounds().Min, draw.Over)
		return nil
	}

	col, err := layout.ParseHexColor(textColor(l.Field, cfg))
	if err != nil {
		return err
	}
	ff, err := c.fonts.Face(cfg.FontWeight, l.FontSize)
	if err != nil {
		return err
	}
	defer ff.Close()
	drawText(dst, ff, col, l.Rect.Min.X, l.Rect.Min.Y, l.Text)
	return nil
}

// encode guards the encoder so a panicking symbology only costs this record its barcode.
func (c *Composer) encode(payload string, style layout.Barcode) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("%w: %v", ErrBarcode, r)
		}
	}()
	return c.encoder.Encode(payload, style)
}

// barcodeRect is the configured target rectangle, or the symbol's own size when none is set.
func barcodeRect(p layout.Placement, sym image.Image) image.Rectangle {
	w, h := p.Width, p.Height
	if w <= 0 || h <= 0 {
		b := sym.Bounds()
		w, h = b.Dx(), b.Dy()
	}
	return image.Rect(p.X, p.Y, p.X+w, p.Y+h)
}

func textColor(f layout.Field, cfg layout.Config) string {
	if f == layout.FieldIdentifierBack {
		return cfg.ColorBack
	}
	return cfg.ColorFront
}
