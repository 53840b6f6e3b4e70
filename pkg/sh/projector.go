package sh

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-cubemap-sh/pkg/core"
)

// MaxBands is the highest band with an implemented basis.
const MaxBands = 3

// ErrUnsupportedBands is returned when a set asks for bands beyond MaxBands.
var ErrUnsupportedBands = errors.New("sh: unsupported band count")

// Real SH normalization factors ("Stupid Spherical Harmonics Tricks", Appendix A1).
var (
	sqrtPi = math.Sqrt(math.Pi)

	basisBand0       = 1 / (2 * sqrtPi)
	basisBand1       = math.Sqrt(3) / (2 * sqrtPi)
	basisBand2Non0   = math.Sqrt(15) / (2 * sqrtPi)
	basisBand2Zero   = math.Sqrt(5) / (4 * sqrtPi)
	basisBand3Order3 = math.Sqrt(70) / (8 * sqrtPi)
	basisBand3Order2 = math.Sqrt(105) / (2 * sqrtPi)
	basisBand3Order1 = math.Sqrt(42) / (8 * sqrtPi)
	basisBand3Zero   = math.Sqrt(7) / (4 * sqrtPi)
)

// BasisBand0 returns the constant band 0 basis value 1/(2√π).
func BasisBand0() float64 {
	return basisBand0
}

// CheckBands reports ErrUnsupportedBands for band counts outside [0, MaxBands].
func CheckBands(bands int) error {
	if bands < 0 || bands > MaxBands {
		return fmt.Errorf("%w: %d (supported 0..%d)", ErrUnsupportedBands, bands, MaxBands)
	}
	return nil
}

// EvalBasis writes the real SH basis values for bands 0..bands at the unit
// direction dir into out, which must hold NumCoefficients(bands) values.
func EvalBasis(dir core.Vec3, bands int, out []float64) error {
	if err := CheckBands(bands); err != nil {
		return err
	}
	if len(out) < NumCoefficients(bands) {
		return fmt.Errorf("sh: basis buffer holds %d values, need %d", len(out), NumCoefficients(bands))
	}
	x, y, z := dir.X, dir.Y, dir.Z

	out[0] = basisBand0

	if bands > 0 {
		out[1] = -basisBand1 * y
		out[2] = basisBand1 * z
		out[3] = -basisBand1 * x
	}

	if bands > 1 {
		out[4] = basisBand2Non0 * y * x
		out[5] = -basisBand2Non0 * y * z
		out[6] = basisBand2Zero * (3*z*z - 1)
		out[7] = -basisBand2Non0 * x * z
		out[8] = basisBand2Non0 * (x*x - y*y) * 0.5
	}

	if bands > 2 {
		out[9] = -basisBand3Order3 * y * (3*x*x - y*y)
		out[10] = basisBand3Order2 * x * y * z
		out[11] = -basisBand3Order1 * y * (5*z*z - 1)
		out[12] = basisBand3Zero * z * (5*z*z - 3)
		out[13] = -basisBand3Order1 * x * (5*z*z - 1)
		out[14] = basisBand3Order2 * 0.5 * (x*x - y*y) * z
		out[15] = -basisBand3Order3 * x * (x*x - 3*y*y)
	}

	return nil
}

// AddSample accumulates sample, weighted by weight and the basis value at
// dir, into every coefficient of c in place.
func (c *Coefficients[T]) AddSample(dir core.Vec3, sample T, weight float64) error {
	var basis [(MaxBands + 1) * (MaxBands + 1)]float64
	if err := EvalBasis(dir, c.Bands, basis[:]); err != nil {
		return err
	}
	for i := range c.Data {
		c.Data[i] = c.Data[i].Add(sample.Multiply(weight * basis[i]))
	}
	return nil
}

// Evaluate reconstructs the signal represented by c in direction dir.
func Evaluate[T Sample[T]](c Coefficients[T], dir core.Vec3) (T, error) {
	var result T
	var basis [(MaxBands + 1) * (MaxBands + 1)]float64
	if err := EvalBasis(dir, c.Bands, basis[:]); err != nil {
		return result, err
	}
	for i, v := range c.Data {
		result = result.Add(v.Multiply(basis[i]))
	}
	return result, nil
}
