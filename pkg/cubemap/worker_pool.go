package cubemap

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-cubemap-sh/pkg/core"
	"github.com/df07/go-cubemap-sh/pkg/sh"
)

// FaceTask represents a face projection task for the worker pool
type FaceTask struct {
	Face   Face
	TaskID int // Index into the result slice, keeps the reduction order deterministic
}

// FaceResult contains the projection of one face
type FaceResult struct {
	TaskID       int
	Coefficients sh.Coefficients[core.Color]
	Stats        FaceStats
}

// FacePool projects faces in parallel. Each worker owns the image and the
// coefficient set of the face it is processing; nothing is shared.
type FacePool struct {
	source     FaceSource
	bands      int
	numWorkers int
	logger     core.Logger
}

// NewFacePool creates a pool. numWorkers <= 0 means one worker per task.
func NewFacePool(source FaceSource, bands, numWorkers int, logger core.Logger) *FacePool {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &FacePool{
		source:     source,
		bands:      bands,
		numWorkers: numWorkers,
		logger:     logger,
	}
}

// Run projects every face and returns results indexed by task order. The
// first failure cancels the remaining tasks and is returned; no partial
// results are returned on error.
func (p *FacePool) Run(ctx context.Context, faces []Face) ([]FaceResult, error) {
	numWorkers := p.numWorkers
	if numWorkers <= 0 || numWorkers > len(faces) {
		numWorkers = len(faces)
	}

	taskQueue := make(chan FaceTask, len(faces))
	for i, face := range faces {
		taskQueue <- FaceTask{Face: face, TaskID: i}
	}
	close(taskQueue)

	results := make([]FaceResult, len(faces))
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			for task := range taskQueue {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, err := p.process(ctx, task)
				if err != nil {
					return err
				}
				// Each task writes only its own slot
				results[task.TaskID] = result
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// process loads and projects a single face
func (p *FacePool) process(ctx context.Context, task FaceTask) (FaceResult, error) {
	start := time.Now()
	p.logger.Printf("Processing %s (face index %d)..\n", task.Face, int(task.Face))

	img, err := p.source.LoadFace(ctx, task.Face)
	if err != nil {
		return FaceResult{}, err
	}

	coeffs, stats, err := ProjectFace(ctx, task.Face, img, p.bands)
	if err != nil {
		return FaceResult{}, err
	}
	stats.Duration = time.Since(start)

	p.logger.Printf("%s done..\n", task.Face)
	return FaceResult{TaskID: task.TaskID, Coefficients: coeffs, Stats: stats}, nil
}

// GetNumWorkers returns the configured number of workers
func (p *FacePool) GetNumWorkers() int {
	return p.numWorkers
}
