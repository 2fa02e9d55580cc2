package imagepkg

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/youruser/badgeapp/internal/layout"
	"github.com/youruser/badgeapp/internal/textfit"
)

// Fonts holds the regular and bold typefaces used for badge text.
// Faces are created per call, so a Fonts value is safe for concurrent use.
type Fonts struct {
	regular *opentype.Font
	bold    *opentype.Font
}

var (
	goFontsOnce sync.Once
	goFonts     *Fonts
	goFontsErr  error
)

// GoFonts returns the bundled Go fonts.
func GoFonts() (*Fonts, error) {
	goFontsOnce.Do(func() {
		goFonts, goFontsErr = ParseFonts(goregular.TTF, gobold.TTF)
	})
	return goFonts, goFontsErr
}

// ParseFonts builds a Fonts from TrueType/OpenType data.
func ParseFonts(regular, bold []byte) (*Fonts, error) {
	r, err := opentype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	b, err := opentype.Parse(bold)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Fonts{regular: r, bold: b}, nil
}

// Face returns a face of the given weight with size in pixels.
// The caller must Close it.
func (f *Fonts) Face(w layout.Weight, size int) (font.Face, error) {
	otf := f.regular
	if w == layout.WeightBold {
		otf = f.bold
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// Measurer returns the text width function used for auto-fit.
func (f *Fonts) Measurer(w layout.Weight) textfit.MeasureFunc {
	return func(text string, size int) int {
		if size <= 0 {
			return 0
		}
		face, err := f.Face(w, size)
		if err != nil {
			return 0
		}
		defer face.Close()
		return font.MeasureString(face, text).Ceil()
	}
}

// LoadFontFiles reads a regular and a bold font from disk.
func LoadFontFiles(regularPath, boldPath string) (*Fonts, error) {
	r, err := os.ReadFile(regularPath)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(boldPath)
	if err != nil {
		return nil, err
	}
	return ParseFonts(r, b)
}
