package imagepkg

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawText draws a single line with its top edge at y.
func drawText(dst draw.Image, face font.Face, col color.Color, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// textRect is the box a line occupies when drawn by drawText.
func textRect(face font.Face, x, y int, text string) image.Rectangle {
	m := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	return image.Rect(x, y, x+w, y+m.Ascent.Ceil()+m.Descent.Ceil())
}
