package jobs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"zappem.net/pub/kinematics/panda"
)

// Result holds the outcome of one job. Solutions has one entry per
// case for ModeAll and a single entry for ModeCC.
type Result struct {
	Job       Job
	Case      panda.Case // reference case, ModeCC only
	Solutions []panda.Joints
	Err       error
	Elapsed   time.Duration
}

// Valid counts the solutions that are not the Invalid sentinel.
func (r Result) Valid() int {
	n := 0
	for _, q := range r.Solutions {
		if q.IsValid() {
			n++
		}
	}
	return n
}

// Solve runs one job. A pose that is not a rigid transform solves to
// the sentinel; only malformed jobs give an error.
func Solve(j Job) (r Result) {
	r.Job = j
	start := time.Now()
	defer func() { r.Elapsed = time.Since(start) }()

	p, err := j.Pose()
	q7, ref := j.Inputs()
	switch {
	case errors.Is(err, panda.ErrNotRotation):
		p = panda.Pose{}
	case err != nil:
		r.Err = err
		return r
	}

	if j.Mode == ModeCC {
		r.Case = panda.CaseOf(ref)
		r.Solutions = []panda.Joints{panda.SolveCC(p, q7, ref)}
		return r
	}
	all := panda.Solve(p, q7, ref)
	r.Solutions = all[:]
	return r
}

// Run solves every job, up to parallel at a time, and returns the
// results in job order. It stops early if ctx is done.
func Run(ctx context.Context, logger *zap.Logger, js []Job, parallel int) ([]Result, error) {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]Result, len(js))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, j := range js {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := Solve(j)
			results[i] = r
			if r.Err != nil {
				logger.Warn("job failed", zap.Stringer("job", j), zap.Error(r.Err))
				return nil
			}
			logger.Debug("job solved",
				zap.Stringer("job", j),
				zap.Int("valid", r.Valid()),
				zap.Duration("elapsed", r.Elapsed),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, errors.Wrap(err, "batch interrupted")
	}
	return results, nil
}
