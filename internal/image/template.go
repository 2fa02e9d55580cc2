package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"github.com/youruser/badgeapp/internal/util"
)

// ErrTemplateMissing is returned when a face is composed without its template.
var ErrTemplateMissing = errors.New("template not loaded")

// AssetLoadError reports a template that could not be read or decoded.
type AssetLoadError struct {
	Slot Face
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %s template: %v", e.Slot, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// Template is a decoded background image for one face. It is never written to.
type Template struct {
	Image  image.Image
	Width  int
	Height int
}

// Size returns the template's native size.
func (t *Template) Size() image.Point { return image.Pt(t.Width, t.Height) }

// NewTemplate wraps an already decoded image.
func NewTemplate(img image.Image) *Template {
	b := img.Bounds()
	return &Template{Image: img, Width: b.Dx(), Height: b.Dy()}
}

// LoadTemplate decodes a PNG, JPEG, GIF, BMP or TIFF template.
func LoadTemplate(slot Face, r io.Reader) (*Template, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &AssetLoadError{Slot: slot, Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &AssetLoadError{Slot: slot, Err: errors.New("image has no pixels")}
	}
	return NewTemplate(img), nil
}

// LoadTemplateFile reads a template from disk.
func LoadTemplateFile(slot Face, path string) (*Template, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, &AssetLoadError{Slot: slot, Err: err}
	}
	defer fp.Close()
	return LoadTemplate(slot, fp)
}

// FetchTemplate downloads and decodes a template.
func FetchTemplate(ctx context.Context, slot Face, url string) (*Template, error) {
	body, err := util.GetBytes(ctx, url)
	if err != nil {
		return nil, &AssetLoadError{Slot: slot, Err: err}
	}
	return LoadTemplate(slot, bytes.NewReader(body))
}
