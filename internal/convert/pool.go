package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// DefaultTimeout bounds a single conversion when no timeout is configured.
const DefaultTimeout = 2 * time.Minute

// Pool runs conversions on a bounded number of workers.
type Pool struct {
	conv     Converter
	workers  int
	timeout  time.Duration
	recorder metrics.Recorder
	logger   *slog.Logger

	g   *errgroup.Group
	ctx context.Context
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers sets the maximum number of concurrent conversions.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithTimeout sets the per-job timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pool) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool creates a pool bound to ctx. Canceling ctx kills running conversions.
func NewPool(ctx context.Context, conv Converter, opts ...Option) *Pool {
	p := &Pool{
		conv:     conv,
		workers:  runtime.NumCPU(),
		timeout:  DefaultTimeout,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.g, p.ctx = errgroup.WithContext(ctx)
	p.g.SetLimit(p.workers)
	p.recorder.SetConversionConcurrency(p.workers)
	return p
}

// Workers reports the worker limit.
func (p *Pool) Workers() int { return p.workers }

// Job is one submitted conversion. Its result is available once done is closed.
type Job struct {
	page string
	path string
	done chan struct{}
	out  []byte
	err  error
}

// Page is the catalog key the job converts.
func (j *Job) Page() string { return j.page }

// Path is the source document path.
func (j *Job) Path() string { return j.path }

// Wait blocks until the conversion finished and returns its output.
// When another job failed first, Wait returns that failure.
func (j *Job) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-j.done:
		return j.out, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Submit schedules the conversion of path for page. It blocks while all workers are busy.
func (p *Pool) Submit(page, path string) *Job {
	j := &Job{page: page, path: path, done: make(chan struct{})}
	p.g.Go(func() error {
		defer close(j.done)
		j.out, j.err = p.run(page, path)
		return j.err
	})
	return j
}

// Wait blocks until every submitted job finished and returns the first failure.
func (p *Pool) Wait() error {
	return p.g.Wait()
}

func (p *Pool) run(page, path string) ([]byte, error) {
	if p.ctx.Err() != nil {
		return nil, context.Cause(p.ctx)
	}

	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	start := time.Now()
	out, err := p.conv.Convert(ctx, path)
	if err == nil {
		out, err = decodeOutput(out)
	}
	dur := time.Since(start)
	p.recorder.ObserveConversionDuration(page, dur, err == nil)

	if err != nil {
		if p.ctx.Err() != nil {
			// Another job failed or the build was canceled; report the root cause.
			return nil, context.Cause(p.ctx)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrTimeout, p.timeout)
		}
		p.logger.Error("Conversion failed", logfields.Page(page), logfields.Path(path), logfields.Error(err))
		return nil, ferrors.WrapError(err, ferrors.CategoryConversion, fmt.Sprintf("conversion of page %s (%s) failed", page, path)).
			Fatal().
			WithPath(path).
			WithContext("page", page).
			Build()
	}

	p.logger.Debug("Conversion complete", logfields.Page(page), logfields.Path(path), logfields.Duration(dur), logfields.Bytes(len(out)))
	return out, nil
}
