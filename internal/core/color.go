package core

import (
	"fmt"
	"math"
)

// RGB is a display color for the progress gauge.
type RGB struct {
	R, G, B uint8
}

var (
	lightGreen = RGB{144, 238, 144}
	darkGreen  = RGB{0, 204, 0}
	yellow     = RGB{255, 255, 0}
	orange     = RGB{255, 165, 0}
	red        = RGB{255, 0, 0}
)

// ProgressColor maps a spending percentage to a color, clamping the input to
// [0,100] first. Green ramp up to 60, yellow to orange up to 80, orange to
// red up to 100. Boundaries belong to the lower band, so 60 is exactly
// rgb(0,204,0) and 80 exactly rgb(255,165,0).
func ProgressColor(percentage int) RGB {
	p := percentage
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	switch {
	case p <= 60:
		return lerp(lightGreen, darkGreen, float64(p)/60)
	case p <= 80:
		return lerp(yellow, orange, float64(p-60)/20)
	default:
		return lerp(orange, red, float64(p-80)/20)
	}
}

// lerp interpolates each channel independently, rounding to nearest.
func lerp(from, to RGB, t float64) RGB {
	return RGB{
		R: lerpChannel(from.R, to.R, t),
		G: lerpChannel(from.G, to.G, t),
		B: lerpChannel(from.B, to.B, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// Hex renders the color as "#rrggbb" for clients.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
