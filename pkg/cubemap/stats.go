package cubemap

import (
	"time"

	"gonum.org/v1/gonum/floats"
)

// FaceStats contains statistics about the projection of one face
type FaceStats struct {
	Face       Face          // Face that was projected
	Size       int           // Face resolution (width == height)
	Texels     int           // Number of texels accumulated
	SolidAngle float64       // Sum of texel solid angles, 4π/6 for a full face
	Duration   time.Duration // Load and projection time
}

// AggregateStats contains statistics about a whole cubemap projection
type AggregateStats struct {
	Faces           [NumFaces]FaceStats // Per-face statistics in face order
	TotalTexels     int                 // Texels over all faces
	TotalSolidAngle float64             // Solid angle over all faces, 4π for a full cubemap
	Duration        time.Duration       // Wall time of the aggregation
}

// newAggregateStats builds totals from per-face statistics
func newAggregateStats(faces []FaceStats, duration time.Duration) AggregateStats {
	stats := AggregateStats{Duration: duration}
	angles := make([]float64, 0, len(faces))
	for _, fs := range faces {
		if fs.Face.Valid() {
			stats.Faces[fs.Face] = fs
		}
		stats.TotalTexels += fs.Texels
		angles = append(angles, fs.SolidAngle)
	}
	stats.TotalSolidAngle = floats.Sum(angles)
	return stats
}
