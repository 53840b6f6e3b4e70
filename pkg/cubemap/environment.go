package cubemap

import (
	"context"
	"errors"
	"fmt"

	"github.com/df07/go-cubemap-sh/pkg/core"
	"github.com/df07/go-cubemap-sh/pkg/loaders"
)

// Environment is a distant radiance field
type Environment interface {
	Radiance(dir core.Vec3) core.Color
}

// UniformEnvironment emits the same radiance in all directions
type UniformEnvironment struct {
	Emission core.Color
}

// Radiance implements Environment
func (e UniformEnvironment) Radiance(dir core.Vec3) core.Color {
	return e.Emission
}

// GradientEnvironment blends linearly from Bottom (-Y) to Top (+Y)
type GradientEnvironment struct {
	Top    core.Color
	Bottom core.Color
}

// Radiance implements Environment
func (e GradientEnvironment) Radiance(dir core.Vec3) core.Color {
	direction := dir.Normalize()
	t := 0.5 * (direction.Y + 1.0) // Map Y from [-1,1] to [0,1]
	return e.Bottom.Multiply(1.0 - t).Add(e.Top.Multiply(t))
}

// EnvironmentFunc adapts a function to the Environment interface
type EnvironmentFunc func(dir core.Vec3) core.Color

// Radiance implements Environment
func (f EnvironmentFunc) Radiance(dir core.Vec3) core.Color {
	return f(dir)
}

// RenderFace samples env at every texel center of a size×size face
func RenderFace(env Environment, face Face, size int) (*loaders.ImageData, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cubemap: face size must be positive, got %d", size)
	}
	invSize := 1.0 / float64(size)
	img := loaders.NewImageData(size, size)
	for v := 0; v < size; v++ {
		for u := 0; u < size; u++ {
			dir, err := FaceDirection(face, u, v, invSize)
			if err != nil {
				return nil, err
			}
			img.Set(u, v, env.Radiance(dir))
		}
	}
	return img, nil
}

// EnvironmentSource renders synthetic faces from an Environment
type EnvironmentSource struct {
	Env  Environment
	Size int
}

// LoadFace implements FaceSource
func (s EnvironmentSource) LoadFace(ctx context.Context, face Face) (*loaders.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Env == nil {
		return nil, errors.New("cubemap: environment source has no environment")
	}
	return RenderFace(s.Env, face, s.Size)
}
