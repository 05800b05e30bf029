package build

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// StageName identifies a build stage.
type StageName string

// Canonical stages, in execution order.
const (
	StageDiscover StageName = "discover"
	StageRender   StageName = "render"
	StageFinalize StageName = "finalize"
	StagePublish  StageName = "publish"
)

// Stage is one step of the pipeline operating on shared build state.
type Stage func(ctx context.Context, st *buildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the first error.
func (b *Builder) runStages(ctx context.Context, st *buildState, stages []StageDef) error {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			b.recorder.IncStageResult(string(s.Name), metrics.ResultCanceled)
			return err
		}

		t0 := time.Now()
		err := s.Fn(ctx, st)
		dur := time.Since(t0)
		st.durations[s.Name] = dur
		b.recorder.ObserveStageDuration(string(s.Name), dur)

		if err != nil {
			result := metrics.ResultFatal
			if errors.Is(err, context.Canceled) {
				result = metrics.ResultCanceled
			}
			b.recorder.IncStageResult(string(s.Name), result)
			b.logger.Error("Stage failed", logfields.BuildID(st.id), logfields.Stage(string(s.Name)), logfields.Duration(dur), logfields.Error(err))
			return err
		}
		b.recorder.IncStageResult(string(s.Name), metrics.ResultSuccess)
		b.logger.Debug("Stage complete", logfields.BuildID(st.id), logfields.Stage(string(s.Name)), logfields.Duration(dur))
	}
	return nil
}

func stageLogger(l *slog.Logger, st *buildState, name StageName) *slog.Logger {
	return l.With(logfields.BuildID(st.id), logfields.Stage(string(name)))
}
