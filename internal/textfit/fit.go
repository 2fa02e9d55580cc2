// Package textfit picks font sizes so a single line of text fits a box.
package textfit

// DefaultStep is the decrement used when no step is configured.
const DefaultStep = 2

// MeasureFunc returns the rendered width in pixels of text at the given font size.
type MeasureFunc func(text string, size int) int

// Fit returns the largest size in the sequence base, base-step, ..., min whose
// measured width does not exceed maxWidth. It returns min when no size fits;
// overflow at the floor is accepted. A non-positive maxWidth disables fitting.
func Fit(text string, base, maxWidth, min, step int, measure MeasureFunc) int {
	if step <= 0 {
		step = DefaultStep
	}
	if maxWidth <= 0 || measure == nil {
		return base
	}
	size := base
	for size > min && measure(text, size) > maxWidth {
		size -= step
		if size < min {
			size = min
		}
	}
	return size
}

// BoxWidth converts a fraction of the canvas width to pixels.
func BoxWidth(fraction float64, canvasWidth int) int {
	if fraction <= 0 {
		return 0
	}
	return int(fraction * float64(canvasWidth))
}
