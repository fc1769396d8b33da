package rendering

import (
	"context"

	"github.com/jonathan/resume-layout/internal/style"
	"github.com/jonathan/resume-layout/internal/types"
	"golang.org/x/sync/errgroup"
)

// Job is one record to render in a batch
type Job struct {
	Name    string
	Record  *types.ResumeRecord
	Profile *style.Profile
	Format  Format
}

// BatchResult pairs a job with its outcome. A failed job does not stop the
// rest of the batch.
type BatchResult struct {
	Job    Job
	Result *Result
	Err    error
}

// RenderBatch renders jobs concurrently, at most limit at a time (no bound
// when limit <= 0). Results are returned in job order. The returned error is
// non-nil only when ctx is cancelled. opts apply to every job, so a reporter
// passed here must be safe for concurrent use.
func RenderBatch(ctx context.Context, jobs []Job, limit int, opts ...Option) ([]BatchResult, error) {
	results := make([]BatchResult, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			result, err := Render(job.Record, job.Profile, job.Format, opts...)
			results[i] = BatchResult{Job: job, Result: result, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}
