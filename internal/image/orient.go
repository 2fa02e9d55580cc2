package imagepkg

import (
	"image"

	"github.com/disintegration/imaging"
)

// Orientation is applied to a whole composed face.
type Orientation int

const (
	Upright Orientation = iota
	// Rotated180 turns the face upside down for stock that is fed reversed
	// on the second print pass.
	Rotated180
)

// Apply returns img transformed by o. Upright returns img itself.
func (o Orientation) Apply(img *image.NRGBA) *image.NRGBA {
	if o == Rotated180 {
		return imaging.Rotate180(img)
	}
	return img
}

// MapPoint maps a pixel position on a canvas of the given size.
func (o Orientation) MapPoint(p, canvas image.Point) image.Point {
	if o == Rotated180 {
		return image.Pt(canvas.X-1-p.X, canvas.Y-1-p.Y)
	}
	return p
}

// MapRect maps a rectangle on a canvas of the given size.
func (o Orientation) MapRect(r image.Rectangle, canvas image.Point) image.Rectangle {
	if o == Rotated180 {
		w, h := canvas.X, canvas.Y
		return image.Rect(w-r.Max.X, h-r.Max.Y, w-r.Min.X, h-r.Min.Y)
	}
	return r
}

func orientationFor(face Face, rotateBack bool) Orientation {
	if face == Back && rotateBack {
		return Rotated180
	}
	return Upright
}
