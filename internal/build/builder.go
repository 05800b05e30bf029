package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitegen/internal/artifact"
	"git.home.luguber.info/inful/sitegen/internal/assemble"
	"git.home.luguber.info/inful/sitegen/internal/assets"
	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/convert"
	"git.home.luguber.info/inful/sitegen/internal/discovery"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/notify"
	"git.home.luguber.info/inful/sitegen/internal/publish"
	"git.home.luguber.info/inful/sitegen/internal/revision"
)

// Builder runs builds for one configuration.
type Builder struct {
	cfg       *config.Config
	catalog   *catalog.Catalog
	converter convert.Converter
	minifier  *assets.Minifier
	recorder  metrics.Recorder
	notifier  *notify.Notifier
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithConverter replaces the converter selected by the configuration.
func WithConverter(c convert.Converter) Option {
	return func(b *Builder) {
		if c != nil {
			b.converter = c
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// New validates the catalog and asset allow-list of cfg and prepares a builder.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	cat, err := cfg.BuildCatalog()
	if err != nil {
		return nil, err
	}
	minifier, err := assets.New(cfg.Assets.Minify, cfg.Assets.Copy)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:      cfg,
		catalog:  cat,
		minifier: minifier,
		recorder: metrics.NoopRecorder{},
		notifier: notify.New(cfg.Notify.NATSURL, cfg.Notify.Subject),
		logger:   slog.Default(),
	}
	if cfg.Converter.Command != "" {
		b.converter = convert.NewCommandConverter(cfg.Converter.Command, cfg.Converter.Args...)
	} else {
		b.converter = convert.NewGoldmarkConverter()
	}
	for _, opt := range opts {
		opt(b)
	}
	b.minifier.WithLogger(b.logger)
	return b, nil
}

// Catalog returns the validated page catalog.
func (b *Builder) Catalog() *catalog.Catalog { return b.catalog }

// Result describes a successful build.
type Result struct {
	BuildID        string
	Revision       string
	OutputDir      string
	Artifacts      artifact.Set
	Duration       time.Duration
	StageDurations map[StageName]time.Duration
	// Warnings lists post-publish steps that failed; the site itself was published.
	Warnings []string
}

type buildState struct {
	id        string
	revision  string
	pool      *convert.Pool
	pages     []discovery.Page
	set       artifact.Set
	durations map[StageName]time.Duration
}

// Build runs the full pipeline. On error the deployment directory is untouched
// unless the failure happened while publishing.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	st := &buildState{id: uuid.NewString(), durations: make(map[StageName]time.Duration)}
	logger := b.logger.With(logfields.BuildID(st.id))
	logger.Info("Build started", slog.String("source", b.cfg.SourcePath()), slog.String("output", b.cfg.OutputPath()))

	// Canceling stops every conversion still running when an early stage fails.
	buildCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		if st.pool != nil {
			_ = st.pool.Wait()
		}
	}()

	err := b.runStages(buildCtx, st, []StageDef{
		{StageDiscover, b.stageDiscover},
		{StageRender, b.stageRender},
		{StageFinalize, b.stageFinalize},
		{StagePublish, b.stagePublish},
	})
	dur := time.Since(start)
	b.recorder.ObserveBuildDuration(dur)
	if err != nil {
		if ctx.Err() != nil {
			b.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		} else {
			b.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		}
		return nil, err
	}
	b.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)

	res := &Result{
		BuildID:        st.id,
		Revision:       st.revision,
		OutputDir:      b.cfg.OutputPath(),
		Artifacts:      st.set,
		Duration:       dur,
		StageDurations: st.durations,
	}
	b.afterPublish(ctx, res)
	logger.Info("Build complete", logfields.Duration(dur),
		slog.Int("pages", len(st.set.Pages)), slog.Int("assets", len(st.set.Assets)))
	return res, nil
}

// Check loads the catalog and classifies the source tree without converting or publishing.
func (b *Builder) Check(ctx context.Context) ([]discovery.Page, error) {
	return discovery.New(b.catalog, nil).WithLogger(b.logger).Discover(ctx, b.cfg.SourcePath())
}

func (b *Builder) stageDiscover(ctx context.Context, st *buildState) error {
	logger := stageLogger(b.logger, st, StageDiscover)
	if b.cfg.StampRevision {
		rev, err := revision.Resolve(b.cfg.SourcePath())
		if err != nil {
			logger.Warn("Cannot resolve source revision; pages are not stamped", logfields.Error(err))
		} else if rev != "" {
			logger.Info("Stamping pages with source revision", slog.String("revision", revision.Short(rev)))
		}
		st.revision = rev
	}

	st.pool = convert.NewPool(ctx, b.converter,
		convert.WithWorkers(b.cfg.Converter.Workers),
		convert.WithTimeout(b.cfg.ConverterTimeout()),
		convert.WithRecorder(b.recorder),
		convert.WithLogger(logger),
	)
	pages, err := discovery.New(b.catalog, st.pool).WithLogger(logger).Discover(ctx, b.cfg.SourcePath())
	if err != nil {
		return err
	}
	st.pages = pages
	return nil
}

func (b *Builder) stageRender(ctx context.Context, st *buildState) error {
	logger := stageLogger(b.logger, st, StageRender)
	asm, err := assemble.New(b.catalog, assemble.Options{
		Lang:         b.cfg.Template.Lang,
		SiteTitle:    b.cfg.Template.SiteTitle,
		Stylesheets:  b.cfg.Template.Stylesheets,
		Scripts:      b.cfg.Template.Scripts,
		Revision:     st.revision,
		NoiseMarker:  b.cfg.NoiseMarker(),
		TemplateFile: b.cfg.Resolve(b.cfg.Template.File),
	})
	if err != nil {
		return err
	}
	asm.WithLogger(logger)

	var pages []artifact.Page
	var assetOut []artifact.Asset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		assembled, err := asm.Assemble(gctx, st.pages)
		if err != nil {
			return err
		}
		notFound, err := asm.NotFound()
		if err != nil {
			return err
		}
		pages = append(assembled, notFound)
		return nil
	})
	g.Go(func() error {
		out, err := b.minifier.MinifyDir(gctx, b.cfg.AssetPath())
		if err != nil {
			return err
		}
		assetOut = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := st.pool.Wait(); err != nil {
		return err
	}

	st.set = artifact.Set{Pages: pages, Assets: assetOut}
	return nil
}

func (b *Builder) stageFinalize(_ context.Context, st *buildState) error {
	pages, err := b.minifier.MinifyHTML(st.set.Pages)
	if err != nil {
		return err
	}
	st.set.Pages = pages
	return nil
}

func (b *Builder) stagePublish(ctx context.Context, st *buildState) error {
	return publish.New(b.cfg.OutputPath(), b.cfg.AssetsSubdir).
		WithRecorder(b.recorder).
		WithLogger(stageLogger(b.logger, st, StagePublish)).
		Publish(ctx, st.set)
}

// afterPublish runs optional steps whose failure no longer affects the published site.
func (b *Builder) afterPublish(ctx context.Context, res *Result) {
	if b.cfg.ReportFile != "" {
		p := b.cfg.Resolve(b.cfg.ReportFile)
		if err := WriteReport(p, NewReport(res)); err != nil {
			b.warn(res, "build report not written", err)
		}
	}
	if b.notifier.Enabled() {
		err := b.notifier.Notify(ctx, notify.Event{
			BuildID:   res.BuildID,
			OutputDir: res.OutputDir,
			Revision:  res.Revision,
			Pages:     len(res.Artifacts.Pages),
			Assets:    len(res.Artifacts.Assets),
		})
		if err != nil {
			b.warn(res, "publication notice not sent", err)
		}
	}
}

func (b *Builder) warn(res *Result, msg string, err error) {
	b.logger.Warn(msg, logfields.BuildID(res.BuildID), logfields.Error(err))
	res.Warnings = append(res.Warnings, msg+": "+err.Error())
}
