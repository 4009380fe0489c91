package machine

import (
	"iter"
)

const (
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
)

// Display is the monochrome bitmap. Coordinates wrap on both axes.
type Display struct {
	Pixels [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool
}

// Clear turns off every pixel.
func (d *Display) Clear() {
	d.Pixels = [DISPLAY_HEIGHT][DISPLAY_WIDTH]bool{}
}

func wrap(x, y int) (int, int) {
	x %= DISPLAY_WIDTH
	if x < 0 {
		x += DISPLAY_WIDTH
	}
	y %= DISPLAY_HEIGHT
	if y < 0 {
		y += DISPLAY_HEIGHT
	}
	return x, y
}

// Pixel reports whether the pixel at x, y is set.
func (d *Display) Pixel(x, y int) bool {
	x, y = wrap(x, y)
	return d.Pixels[y][x]
}

// Flip toggles the pixel at x, y and reports whether it was set before,
// i.e. whether the toggle erased it.
func (d *Display) Flip(x, y int) (erased bool) {
	x, y = wrap(x, y)
	erased = d.Pixels[y][x]
	d.Pixels[y][x] = !erased
	return
}

// Rows iterates over copies of each display row, top to bottom.
func (d *Display) Rows() iter.Seq2[int, []bool] {
	return func(yield func(y int, row []bool) bool) {
		for y := range DISPLAY_HEIGHT {
			row := make([]bool, DISPLAY_WIDTH)
			copy(row, d.Pixels[y][:])
			if !yield(y, row) {
				return
			}
		}
	}
}

// Lit counts the set pixels.
func (d *Display) Lit() (count int) {
	for y := range DISPLAY_HEIGHT {
		for x := range DISPLAY_WIDTH {
			if d.Pixels[y][x] {
				count++
			}
		}
	}
	return
}
