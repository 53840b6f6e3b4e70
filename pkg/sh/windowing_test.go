package sh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/df07/go-cubemap-sh/pkg/core"
)

func TestFindWindowingLambda_NoWindowingNeeded(t *testing.T) {
	tests := []struct {
		name         string
		bands        int
		set          func(c Coefficients[core.Scalar])
		maxLaplacian float64
	}{
		{"band0 only", 3, func(c Coefficients[core.Scalar]) { c.Data[0] = 10 }, 1.0},
		{"all zero", 2, func(c Coefficients[core.Scalar]) {}, 0.0},
		{"exactly at bound", 1, func(c Coefficients[core.Scalar]) { c.Data[2] = 0.5 }, 1.0}, // 4 * 0.25 = 1
		{"below bound", 3, func(c Coefficients[core.Scalar]) { c.Data[5] = 0.01 }, 1.0},
		{"no bands above 0", 0, func(c Coefficients[core.Scalar]) { c.Data[0] = 100 }, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New[core.Scalar](tt.bands)
			tt.set(c)
			solution := FindWindowingLambda(c, tt.maxLaplacian, LaplacianOriginal)
			if solution.Lambda != 0 {
				t.Errorf("Expected lambda exactly 0, got %v", solution.Lambda)
			}
			if !solution.Converged || solution.Iterations != 0 {
				t.Errorf("Expected converged with no iterations, got %+v", solution)
			}
		})
	}
}

func TestFindWindowingLambda_SingleBand(t *testing.T) {
	// bands=1: L = 1²·2² = 4, B = 1, so 4/(1+4λ)² = 1 gives λ = 0.25
	c := New[core.Scalar](1)
	c.Data[1] = 1

	solution := FindWindowingLambda(c, 1.0, LaplacianOriginal)
	if !solution.Converged {
		t.Fatalf("Solver did not converge: %+v", solution)
	}
	if !scalar.EqualWithinAbs(solution.Lambda, 0.25, 1e-5) {
		t.Errorf("Expected lambda 0.25, got %v", solution.Lambda)
	}
	if solution.SquaredLaplacian != 4 {
		t.Errorf("Expected squared Laplacian 4, got %v", solution.SquaredLaplacian)
	}
}

func TestFindWindowingLambda_SatisfiesTarget(t *testing.T) {
	c := New[core.Scalar](3)
	for i := range c.Data {
		c.Data[i] = core.Scalar(0.3 * float64(i%5+1))
	}

	for _, variant := range []LaplacianVariant{LaplacianOriginal, LaplacianCorrected} {
		t.Run(variant.String(), func(t *testing.T) {
			const maxLaplacian = 0.5
			solution := FindWindowingLambda(c, maxLaplacian, variant)
			if !solution.Converged {
				t.Fatalf("Solver did not converge: %+v", solution)
			}
			if solution.Lambda <= 0 {
				t.Fatalf("Expected positive lambda, got %v", solution.Lambda)
			}

			tableL, tableB := laplacianTables(c, variant)
			windowed := 0.0
			for l := range tableL {
				d := 1 + solution.Lambda*tableL[l]
				windowed += tableL[l] * tableB[l] / (d * d)
			}
			if !scalar.EqualWithinAbsOrRel(windowed, maxLaplacian*maxLaplacian, 1e-6, 1e-4) {
				t.Errorf("Windowed squared Laplacian %v, want %v", windowed, maxLaplacian*maxLaplacian)
			}
		})
	}
}

// The corrected variant's weights match the applicator, so windowing with the
// solved lambda lands on the bound.
func TestFindWindowingLambda_CorrectedRoundTrip(t *testing.T) {
	c := New[core.Scalar](3)
	for i := 1; i < len(c.Data); i++ {
		c.Data[i] = core.Scalar(0.1 * float64(i))
	}

	solution := FindWindowingLambda(c, 1.0, LaplacianCorrected)
	windowed := ApplyWindowing(c, solution.Lambda)
	got := SquaredLaplacian(windowed, LaplacianCorrected)
	if !scalar.EqualWithinAbsOrRel(got, 1.0, 1e-6, 1e-4) {
		t.Errorf("Expected squared Laplacian 1 after windowing, got %v", got)
	}
}

func TestSquaredLaplacian_Variants(t *testing.T) {
	// bands=2: original weight is 2²·3² = 36 for every band
	c := New[core.Scalar](2)
	c.Data[Index(1, 0)] = 1

	if got := SquaredLaplacian(c, LaplacianOriginal); got != 36 {
		t.Errorf("original: expected 36, got %v", got)
	}
	if got := SquaredLaplacian(c, LaplacianCorrected); got != 4 {
		t.Errorf("corrected: expected 4, got %v", got)
	}

	// m=-2 of band 2 is outside the original m range
	d := New[core.Scalar](2)
	d.Data[Index(2, -2)] = 100
	if got := SquaredLaplacian(d, LaplacianOriginal); got != 0 {
		t.Errorf("original: expected m=-2 to be ignored, got %v", got)
	}
	if got := SquaredLaplacian(d, LaplacianCorrected); got != 36*10000 {
		t.Errorf("corrected: expected %v, got %v", 36*10000, got)
	}

	if s := FindWindowingLambda(d, 1.0, LaplacianOriginal); s.Lambda != 0 {
		t.Errorf("original: expected lambda 0, got %v", s.Lambda)
	}
	if s := FindWindowingLambda(d, 1.0, LaplacianCorrected); s.Lambda <= 0 {
		t.Errorf("corrected: expected positive lambda, got %v", s.Lambda)
	}
}

func TestApplyWindowing(t *testing.T) {
	c := testColorSet(3, 1)

	t.Run("lambda zero is identity", func(t *testing.T) {
		setsClose(t, "lambda=0", ApplyWindowing(c, 0), c, 0)
	})

	t.Run("per band attenuation", func(t *testing.T) {
		const lambda = 0.01
		w := ApplyWindowing(c, lambda)
		if w.Bands != c.Bands {
			t.Fatalf("bands changed: %d", w.Bands)
		}
		for l := 0; l <= c.Bands; l++ {
			fl := float64(l)
			s := 1 / (1 + lambda*fl*fl*(fl+1)*(fl+1))
			for m := -l; m <= l; m++ {
				want := c.At(l, m).Multiply(s)
				if !colorsClose(w.At(l, m), want, 1e-14) {
					t.Errorf("(%d,%d): expected %v, got %v", l, m, want, w.At(l, m))
				}
			}
		}
		if w.At(0, 0) != c.At(0, 0) {
			t.Errorf("band 0 must be unchanged: %v vs %v", w.At(0, 0), c.At(0, 0))
		}
	})

	t.Run("input not mutated", func(t *testing.T) {
		orig := c.Clone()
		ApplyWindowing(c, 5)
		setsClose(t, "input", c, orig, 0)
	})
}

func TestLaplacianVariantString(t *testing.T) {
	if LaplacianOriginal.String() != "original" || LaplacianCorrected.String() != "corrected" || LaplacianVariant(9).String() != "unknown" {
		t.Error("unexpected variant names")
	}
}

// A zero bound has no finite root: the solver must stop on the last finite
// lambda instead of running into NaN.
func TestFindWindowingLambda_ZeroBound(t *testing.T) {
	c := New[core.Scalar](3)
	c.Data[Index(0, 0)] = 1
	c.Data[Index(1, 0)] = 0.2

	for _, variant := range []LaplacianVariant{LaplacianOriginal, LaplacianCorrected} {
		t.Run(variant.String(), func(t *testing.T) {
			solution := FindWindowingLambda(c, 0, variant)
			if solution.Converged {
				t.Errorf("zero bound cannot converge: %+v", solution)
			}
			if math.IsNaN(solution.Lambda) || math.IsInf(solution.Lambda, 0) || solution.Lambda <= 0 {
				t.Fatalf("Expected a finite positive lambda, got %v", solution.Lambda)
			}
			if solution.Iterations >= windowingIterationLimit {
				t.Errorf("solver ran to the iteration limit")
			}

			windowed := ApplyWindowing(c, solution.Lambda)
			if windowed.At(0, 0) != c.At(0, 0) {
				t.Errorf("band 0 must be unchanged, got %v", windowed.At(0, 0))
			}
			for i, v := range windowed.Data {
				if math.IsNaN(float64(v)) {
					t.Fatalf("coefficient %d is NaN", i)
				}
			}
		})
	}
}

func TestApplyWindowing_NonFiniteLambda(t *testing.T) {
	c := New[core.Scalar](2)
	for i := range c.Data {
		c.Data[i] = core.Scalar(i + 1)
	}

	t.Run("infinite", func(t *testing.T) {
		w := ApplyWindowing(c, math.Inf(1))
		if w.At(0, 0) != 1 {
			t.Errorf("band 0: expected 1, got %v", w.At(0, 0))
		}
		for i := 1; i < len(w.Data); i++ {
			if w.Data[i] != 0 {
				t.Errorf("coefficient %d: expected 0, got %v", i, w.Data[i])
			}
		}
	})

	t.Run("NaN keeps band 0", func(t *testing.T) {
		w := ApplyWindowing(c, math.NaN())
		if w.At(0, 0) != 1 {
			t.Errorf("band 0: expected 1, got %v", w.At(0, 0))
		}
	})
}
