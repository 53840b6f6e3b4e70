package core

import (
	"encoding/json"
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB radiance value. The zero value is black and is the
// additive identity.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Gray returns a color with all three channels set to v
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v}
}

// Add returns the component-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Subtract returns the component-wise difference of two colors
func (c Color) Subtract(other Color) Color {
	return Color{c.R - other.R, c.G - other.G, c.B - other.B}
}

// Multiply returns the color scaled by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Divide returns the color divided by a scalar
func (c Color) Divide(scalar float64) Color {
	return Color{c.R / scalar, c.G / scalar, c.B / scalar}
}

// Channel returns channel 0 (R), 1 (G) or 2 (B). Any other index panics.
func (c Color) Channel(i int) float64 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	}
	panic(fmt.Sprintf("core: color channel %d out of range [0,2]", i))
}

// Luminance returns the relative luminance (CIE Y) of the linear RGB value.
// Negative channels are allowed, SH coefficients are signed.
func (c Color) Luminance() float64 {
	_, y, _ := colorful.LinearRgbToXyz(c.R, c.G, c.B)
	return y
}

// String formats the color as [r, g, b]
func (c Color) String() string {
	return fmt.Sprintf("[%v, %v, %v]", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as a three element array
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.R, c.G, c.B})
}

// UnmarshalJSON decodes a three element array
func (c *Color) UnmarshalJSON(data []byte) error {
	var rgb [3]float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be an [r, g, b] array: %w", err)
	}
	*c = Color{R: rgb[0], G: rgb[1], B: rgb[2]}
	return nil
}

// Scalar is a single-channel sample, used for luminance-only coefficient sets.
type Scalar float64

// Add returns s + other
func (s Scalar) Add(other Scalar) Scalar {
	return s + other
}

// Multiply returns s * scalar
func (s Scalar) Multiply(scalar float64) Scalar {
	return s * Scalar(scalar)
}

// Divide returns s / scalar
func (s Scalar) Divide(scalar float64) Scalar {
	return s / Scalar(scalar)
}
