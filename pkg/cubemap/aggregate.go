package cubemap

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-cubemap-sh/pkg/core"
	"github.com/df07/go-cubemap-sh/pkg/loaders"
	"github.com/df07/go-cubemap-sh/pkg/sh"
)

var (
	// ErrNonSquareFace is returned for faces whose width differs from height
	ErrNonSquareFace = errors.New("cubemap: face width not equal height")
	// ErrEmptyFace is returned for faces without pixels
	ErrEmptyFace = errors.New("cubemap: face has no pixels")
	// ErrFaceSizeMismatch is returned when faces of one cubemap differ in size
	ErrFaceSizeMismatch = errors.New("cubemap: faces differ in size")
)

// faceNormalization divides each face's accumulated set. Texel weights sum to
// 4π over the cube, so this is 1/(2τ).
const faceNormalization = 2 * 2 * math.Pi

// ProjectFace accumulates every texel of a face image, weighted by its solid
// angle, into a fresh coefficient set with the given band count.
func ProjectFace(ctx context.Context, face Face, img *loaders.ImageData, bands int) (sh.Coefficients[core.Color], FaceStats, error) {
	stats := FaceStats{Face: face}
	if err := sh.CheckBands(bands); err != nil {
		return sh.Coefficients[core.Color]{}, stats, err
	}
	if !face.Valid() {
		return sh.Coefficients[core.Color]{}, stats, fmt.Errorf("%w: %d", ErrInvalidFace, int(face))
	}
	if img == nil || img.Width == 0 || img.Height == 0 {
		return sh.Coefficients[core.Color]{}, stats, fmt.Errorf("face %s: %w", face, ErrEmptyFace)
	}
	if !img.IsSquare() {
		return sh.Coefficients[core.Color]{}, stats, fmt.Errorf("face %s is %dx%d: %w", face, img.Width, img.Height, ErrNonSquareFace)
	}
	if len(img.Pixels) != img.Width*img.Height {
		return sh.Coefficients[core.Color]{}, stats, fmt.Errorf("face %s: %d pixels for %dx%d", face, len(img.Pixels), img.Width, img.Height)
	}

	size := img.Width
	invSize := 1.0 / float64(size)
	coeffs := sh.New[core.Color](bands)

	for v := 0; v < size; v++ {
		if err := ctx.Err(); err != nil {
			return sh.Coefficients[core.Color]{}, stats, err
		}
		row := img.Pixels[v*size : (v+1)*size]
		for u, pixel := range row {
			weight := TexelSolidAngle(u, v, invSize)
			dir, err := FaceDirection(face, u, v, invSize)
			if err != nil {
				return sh.Coefficients[core.Color]{}, stats, err
			}
			if err := coeffs.AddSample(dir, pixel, weight); err != nil {
				return sh.Coefficients[core.Color]{}, stats, err
			}
			stats.SolidAngle += weight
		}
	}

	stats.Size = size
	stats.Texels = size * size
	return coeffs.Divide(faceNormalization), stats, nil
}

// Aggregator projects a whole cubemap
type Aggregator struct {
	Bands   int         // Bands to project, 0..sh.MaxBands
	Workers int         // Parallel face workers (0 = one per face)
	Logger  core.Logger // Progress output, silent when nil
}

// NewAggregator creates an aggregator with one worker per face
func NewAggregator(bands int, logger core.Logger) *Aggregator {
	return &Aggregator{Bands: bands, Logger: logger}
}

// Aggregate projects all six faces of src in parallel and sums the per-face
// sets in face order. Any face failure aborts the whole aggregation.
func (a *Aggregator) Aggregate(ctx context.Context, src FaceSource) (sh.Coefficients[core.Color], AggregateStats, error) {
	if err := sh.CheckBands(a.Bands); err != nil {
		return sh.Coefficients[core.Color]{}, AggregateStats{}, err
	}
	logger := a.Logger
	if logger == nil {
		logger = core.NewNopLogger()
	}

	start := time.Now()
	pool := NewFacePool(src, a.Bands, a.Workers, logger)
	results, err := pool.Run(ctx, AllFaces[:])
	if err != nil {
		return sh.Coefficients[core.Color]{}, AggregateStats{}, err
	}

	faceStats := make([]FaceStats, len(results))
	for i, r := range results {
		faceStats[i] = r.Stats
	}
	if err := checkFaceSizes(faceStats); err != nil {
		return sh.Coefficients[core.Color]{}, AggregateStats{}, err
	}

	// All samples are weighted by solid angle, so faces simply add up
	total := sh.New[core.Color](a.Bands)
	for _, r := range results {
		total, err = total.Add(r.Coefficients)
		if err != nil {
			return sh.Coefficients[core.Color]{}, AggregateStats{}, err
		}
	}

	stats := newAggregateStats(faceStats, time.Since(start))
	for _, fs := range stats.Faces {
		logger.Printf("face %s: %dx%d texels, solid angle %.6f, %v\n", fs.Face, fs.Size, fs.Size, fs.SolidAngle, fs.Duration)
	}
	return total, stats, nil
}

// checkFaceSizes reports ErrFaceSizeMismatch unless all faces share one size
func checkFaceSizes(faces []FaceStats) error {
	if len(faces) == 0 {
		return nil
	}
	size := faces[0].Size
	for _, fs := range faces[1:] {
		if fs.Size != size {
			return fmt.Errorf("%w: %s is %d, %s is %d", ErrFaceSizeMismatch, faces[0].Face, size, fs.Face, fs.Size)
		}
	}
	return nil
}
