package sh

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/df07/go-cubemap-sh/pkg/core"
)

// LaplacianVariant selects how the per-band squared Laplacian terms are built.
type LaplacianVariant int

const (
	// LaplacianOriginal uses a band-independent weight Bands²(Bands+1)² and
	// sums each band's energy over m in [-1, l].
	LaplacianOriginal LaplacianVariant = iota
	// LaplacianCorrected uses l²(l+1)² per band and the full m range [-l, l],
	// as written in Sloan's Appendix A7.
	LaplacianCorrected
)

// String returns the variant name
func (v LaplacianVariant) String() string {
	switch v {
	case LaplacianOriginal:
		return "original"
	case LaplacianCorrected:
		return "corrected"
	default:
		return "unknown"
	}
}

const (
	windowingIterationLimit = 10000000
	windowingTolerance      = 1e-6
)

// WindowingSolution is the result of FindWindowingLambda.
type WindowingSolution struct {
	Lambda           float64 // Damping parameter, 0 when no windowing is needed
	Iterations       int     // Newton-Raphson iterations performed
	Converged        bool    // False when the iteration limit was hit
	SquaredLaplacian float64 // Squared Laplacian of the unwindowed input
}

// laplacianTables returns the per-band weights L and energies B for bands 1..Bands.
func laplacianTables(c Coefficients[core.Scalar], variant LaplacianVariant) (tableL, tableB []float64) {
	n := c.Bands
	tableL = make([]float64, n)
	tableB = make([]float64, n)

	for l := 1; l <= n; l++ {
		lowM := -1
		weight := float64(n * n * (n + 1) * (n + 1))
		if variant == LaplacianCorrected {
			lowM = -l
			weight = float64(l * l * (l + 1) * (l + 1))
		}
		tableL[l-1] = weight

		for m := lowM; m <= l; m++ {
			v := float64(c.At(l, m))
			tableB[l-1] += v * v
		}
	}
	return tableL, tableB
}

// SquaredLaplacian returns Σ L[l]·B[l] over bands 1..Bands.
func SquaredLaplacian(c Coefficients[core.Scalar], variant LaplacianVariant) float64 {
	tableL, tableB := laplacianTables(c, variant)
	if len(tableL) == 0 {
		return 0
	}
	return floats.Dot(tableL, tableB)
}

// FindWindowingLambda solves for the damping parameter λ ≥ 0 that brings the
// squared Laplacian of the windowed luminance set down to maxLaplacian².
// When the iteration leaves the finite range the last finite λ is returned
// with Converged=false.
// See "Stupid Spherical Harmonics Tricks", Appendix A7.
func FindWindowingLambda(c Coefficients[core.Scalar], maxLaplacian float64, variant LaplacianVariant) WindowingSolution {
	tableL, tableB := laplacianTables(c, variant)

	squaredLaplacian := 0.0
	if len(tableL) > 0 {
		squaredLaplacian = floats.Dot(tableL, tableB)
	}
	solution := WindowingSolution{SquaredLaplacian: squaredLaplacian, Converged: true}

	target := maxLaplacian * maxLaplacian
	if squaredLaplacian <= target {
		return solution
	}

	lambda := 0.0
	solution.Converged = false
	for i := 0; i < windowingIterationLimit; i++ {
		f := 0.0
		fd := 0.0
		for l := range tableL {
			d := 1 + lambda*tableL[l]
			f += tableL[l] * tableB[l] / (d * d)
			fd += 2 * tableL[l] * tableL[l] * tableB[l] / (d * d * d)
		}
		f = target - f

		delta := -f / fd
		next := lambda + delta
		if math.IsNaN(next) || math.IsInf(next, 0) {
			// No finite root, e.g. a zero bound. Keep the last finite λ.
			break
		}
		lambda = next
		solution.Iterations = i + 1

		if math.Abs(delta) < windowingTolerance {
			solution.Converged = true
			break
		}
	}

	solution.Lambda = lambda
	return solution
}

// ApplyWindowing returns a new set with band l scaled by 1/(1+λ·l²(l+1)²).
// Band 0 is always copied unscaled.
func ApplyWindowing[T Sample[T]](c Coefficients[T], lambda float64) Coefficients[T] {
	windowed := New[T](c.Bands)
	i := 0
	for l := 0; l <= c.Bands; l++ {
		s := 1.0
		if l > 0 {
			fl := float64(l)
			s = 1 / (1 + lambda*fl*fl*(fl+1)*(fl+1))
		}
		for m := -l; m <= l; m++ {
			windowed.Data[i] = c.Data[i].Multiply(s)
			i++
		}
	}
	return windowed
}
