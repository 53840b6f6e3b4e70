// Package sh implements real Spherical Harmonics coefficient sets up to
// band 3: projection of weighted directional samples, windowing, and
// formatting.
package sh

import (
	"errors"
	"fmt"

	"github.com/df07/go-cubemap-sh/pkg/core"
)

// ErrBandMismatch is returned when combining sets with different band counts.
var ErrBandMismatch = errors.New("sh: band count mismatch")

// Sample is the element type of a coefficient set. The zero value of T must
// be the additive identity.
type Sample[T any] interface {
	Add(T) T
	Multiply(float64) T
	Divide(float64) T
}

// Coefficients holds the SH coefficients for bands 0..Bands inclusive.
// Data has exactly (Bands+1)² entries, coefficient (l, m) lives at l²+l+m.
type Coefficients[T Sample[T]] struct {
	Bands int
	Data  []T
}

// NumCoefficients returns the coefficient count for bands 0..bands.
func NumCoefficients(bands int) int {
	return (bands + 1) * (bands + 1)
}

// Index returns the linear index of coefficient (l, m).
func Index(l, m int) int {
	return l*l + l + m
}

// New creates a zero-initialized coefficient set. Negative band counts panic.
func New[T Sample[T]](bands int) Coefficients[T] {
	if bands < 0 {
		panic(fmt.Sprintf("sh: negative band count %d", bands))
	}
	return Coefficients[T]{
		Bands: bands,
		Data:  make([]T, NumCoefficients(bands)),
	}
}

// Len returns the number of coefficients.
func (c Coefficients[T]) Len() int {
	return len(c.Data)
}

// At returns coefficient (l, m).
func (c Coefficients[T]) At(l, m int) T {
	return c.Data[Index(l, m)]
}

// Band returns the 2l+1 coefficients of band l. The slice aliases c.Data.
func (c Coefficients[T]) Band(l int) []T {
	start := l * l
	return c.Data[start : start+2*l+1]
}

// Clone returns an independent copy.
func (c Coefficients[T]) Clone() Coefficients[T] {
	data := make([]T, len(c.Data))
	copy(data, c.Data)
	return Coefficients[T]{Bands: c.Bands, Data: data}
}

// Add returns the element-wise sum of two sets with matching band counts.
func (c Coefficients[T]) Add(other Coefficients[T]) (Coefficients[T], error) {
	if c.Bands != other.Bands {
		return Coefficients[T]{}, fmt.Errorf("%w: %d vs %d", ErrBandMismatch, c.Bands, other.Bands)
	}
	result := New[T](c.Bands)
	for i := range result.Data {
		result.Data[i] = c.Data[i].Add(other.Data[i])
	}
	return result, nil
}

// Multiply returns a new set with every coefficient scaled by s.
func (c Coefficients[T]) Multiply(s float64) Coefficients[T] {
	result := New[T](c.Bands)
	for i, v := range c.Data {
		result.Data[i] = v.Multiply(s)
	}
	return result
}

// Divide returns a new set with every coefficient divided by s.
func (c Coefficients[T]) Divide(s float64) Coefficients[T] {
	result := New[T](c.Bands)
	for i, v := range c.Data {
		result.Data[i] = v.Divide(s)
	}
	return result
}

// Map converts every coefficient with f, keeping the band layout.
func Map[T Sample[T], U Sample[U]](c Coefficients[T], f func(T) U) Coefficients[U] {
	result := New[U](c.Bands)
	for i, v := range c.Data {
		result.Data[i] = f(v)
	}
	return result
}

// Luminance projects a color set to a luminance-only set.
func Luminance(c Coefficients[core.Color]) Coefficients[core.Scalar] {
	return Map(c, func(v core.Color) core.Scalar {
		return core.Scalar(v.Luminance())
	})
}

// Channel extracts one color channel as a scalar set.
func Channel(c Coefficients[core.Color], channel int) Coefficients[core.Scalar] {
	return Map(c, func(v core.Color) core.Scalar {
		return core.Scalar(v.Channel(channel))
	})
}
