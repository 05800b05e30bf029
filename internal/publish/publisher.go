// Package publish writes a finished build to the deployment directory.
//
// Publishing replaces the directory wholesale: the previous tree is removed, the
// directory and its assets subdirectory are recreated, and every artifact is
// written as a whole file. There is no staging or rename step; an interrupted
// publish is repaired by running the build again.
package publish

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/artifact"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Publisher writes artifacts under Root.
type Publisher struct {
	Root         string
	AssetsSubdir string

	recorder metrics.Recorder
	logger   *slog.Logger
}

// New creates a publisher for root with assets written to root/assetsSubdir.
func New(root, assetsSubdir string) *Publisher {
	return &Publisher{
		Root:         root,
		AssetsSubdir: assetsSubdir,
		recorder:     metrics.NoopRecorder{},
		logger:       slog.Default(),
	}
}

// WithRecorder sets the metrics recorder.
func (p *Publisher) WithRecorder(r metrics.Recorder) *Publisher {
	if r != nil {
		p.recorder = r
	}
	return p
}

// WithLogger sets a custom logger.
func (p *Publisher) WithLogger(l *slog.Logger) *Publisher {
	if l != nil {
		p.logger = l
	}
	return p
}

// AssetsDir is the directory assets are written to.
func (p *Publisher) AssetsDir() string {
	return filepath.Join(p.Root, p.AssetsSubdir)
}

// Publish clears the deployment directory and writes set into it.
func (p *Publisher) Publish(ctx context.Context, set artifact.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.reset(); err != nil {
		return err
	}

	for _, page := range set.Pages {
		if err := p.write(filepath.Join(p.Root, page.Path), page.HTML); err != nil {
			return err
		}
		p.recorder.AddPublishedBytes(metrics.ArtifactPage, len(page.HTML))
	}
	for _, asset := range set.Assets {
		if err := p.write(filepath.Join(p.AssetsDir(), asset.Path), asset.Data); err != nil {
			return err
		}
		p.recorder.AddPublishedBytes(metrics.ArtifactAsset, len(asset.Data))
	}

	pageBytes, assetBytes := set.Bytes()
	p.logger.Info("Published site", logfields.Path(p.Root),
		slog.Int("pages", len(set.Pages)), slog.Int("assets", len(set.Assets)),
		logfields.Bytes(pageBytes+assetBytes))
	return nil
}

func (p *Publisher) reset() error {
	// RemoveAll reports success when the directory does not exist.
	if err := os.RemoveAll(p.Root); err != nil {
		return errors.WrapError(err, errors.CategoryPublish, "cannot clear output directory").
			Fatal().WithPath(p.Root).Build()
	}
	for _, dir := range []string{p.Root, p.AssetsDir()} {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return errors.WrapError(err, errors.CategoryPublish, "cannot create output directory").
				Fatal().WithPath(dir).Build()
		}
	}
	return nil
}

func (p *Publisher) write(path string, data []byte) error {
	if err := os.WriteFile(path, data, fileMode); err != nil { //nolint:gosec // public site output
		return errors.WrapError(err, errors.CategoryPublish, "cannot write output file").
			Fatal().WithPath(path).Build()
	}
	p.logger.Debug("Wrote artifact", logfields.Path(path), logfields.Bytes(len(data)))
	return nil
}
