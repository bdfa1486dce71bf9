package render

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/stencil-cli/api/schemas"
	"github.com/xkilldash9x/stencil-cli/internal/layout"
	"github.com/xkilldash9x/stencil-cli/internal/template"
)

// Renderer drives the template-to-geometry pipeline. The underlying layout
// engine is re-entrant, so a single Renderer serves concurrent batches.
type Renderer struct {
	engine      *layout.Engine
	logger      *zap.Logger
	concurrency int
}

// New builds a Renderer. A non-positive concurrency means sequential
// batches.
func New(engine *layout.Engine, logger *zap.Logger, concurrency int) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Renderer{engine: engine, logger: logger, concurrency: concurrency}
}

// Render lays out one job's template file and returns its geometry.
func (r *Renderer) Render(ctx context.Context, job schemas.RenderJob) (*schemas.RenderResult, error) {
	root, err := template.ParseFile(job.TemplatePath)
	if err != nil {
		return nil, err
	}
	return r.RenderTree(ctx, root, job)
}

// RenderTree lays out an already parsed tree. Field expansion mutates the
// tree, so callers reusing a parsed template across jobs must pass a copy.
func (r *Renderer) RenderTree(ctx context.Context, root *layout.Node, job schemas.RenderJob) (*schemas.RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	template.Expand(root, job.Fields)

	start := time.Now()
	ln, err := r.engine.Layout(root, job.Width, job.Height, job.FontSize)
	if err != nil {
		return nil, fmt.Errorf("render job %s: %w", job.ID, err)
	}

	result := &schemas.RenderResult{
		JobID:       job.ID,
		Template:    job.TemplatePath,
		Width:       ln.Width,
		Height:      ln.Height,
		GeneratedAt: time.Now().UTC(),
		Boxes:       Flatten(ln),
	}

	r.logger.Debug("rendered template",
		zap.String("job_id", job.ID),
		zap.String("template", job.TemplatePath),
		zap.Int("boxes", len(result.Boxes)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// RenderBatch lays out all jobs concurrently, bounded by the configured
// concurrency. The first failure cancels the remaining jobs; results keep
// the input order.
func (r *Renderer) RenderBatch(ctx context.Context, jobs []schemas.RenderJob) ([]*schemas.RenderResult, error) {
	results := make([]*schemas.RenderResult, len(jobs))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := r.Render(groupCtx, job)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
