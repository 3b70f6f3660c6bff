package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ZebulonRouseFrantzich/flexsdk/internal/binary"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/config"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/normalize"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/patch"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/platform"
	"github.com/ZebulonRouseFrantzich/flexsdk/internal/report"
)

// Step names, as recorded in the error log's phase field.
const (
	StepPrepare     = "prepare"
	StepFetch       = "fetch"
	StepCatalog     = "catalog"
	StepNormalize   = "normalize"
	StepPatch       = "patch"
	StepPermissions = "permissions"
)

// Options configure an Installer.
type Options struct {
	// DestDir is the absolute destination, wiped at the start of the run.
	DestDir string
	// Manifest supplies the archive URL and launcher roles.
	Manifest *config.Manifest
	// Platform selects launcher naming. Nil means the running host.
	Platform *platform.Info
	// Timeout bounds the fetch. Zero means none.
	Timeout time.Duration
	// Logger receives progress. Nil discards.
	Logger *log.Logger
	// Sink reports the outcome.
	Sink *report.Sink
	// FetcherOptions are passed through to binary.NewFetcher.
	FetcherOptions []binary.FetcherOption
}

// Installer wires the provisioning steps over one destination.
type Installer struct {
	opts    Options
	logger  *log.Logger
	fetcher *binary.Fetcher
	catalog *binary.Catalog
	patcher *patch.Patcher
}

// ErrNoManifest is returned by NewInstaller when Options.Manifest is nil.
var ErrNoManifest = errors.New("installer needs a manifest")

// NewInstaller creates an installer for opts.
func NewInstaller(opts Options) (*Installer, error) {
	if opts.Manifest == nil {
		return nil, ErrNoManifest
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fetcherOpts := append([]binary.FetcherOption{binary.WithTimeout(opts.Timeout)}, opts.FetcherOptions...)

	return &Installer{
		opts:    opts,
		logger:  logger,
		fetcher: binary.NewFetcher(logger, fetcherOpts...),
		catalog: binary.NewCatalog(opts.DestDir, opts.Manifest.BinDir, opts.Manifest.Binaries, opts.Platform),
		patcher: patch.New(logger),
	}, nil
}

// Catalog returns the launcher catalog; it is populated once the catalog
// step has run.
func (i *Installer) Catalog() *binary.Catalog {
	return i.catalog
}

// Steps returns the provisioning steps in execution order.
func (i *Installer) Steps() []Step {
	return []Step{
		{Name: StepPrepare, State: StatePrepared, Run: i.prepare},
		{Name: StepFetch, State: StateFetched, Run: i.fetch},
		{Name: StepCatalog, State: StateCatalogued, Run: i.refreshCatalog},
		{Name: StepNormalize, State: StateNormalized, Run: i.normalize},
		{Name: StepPatch, State: StatePatched, Run: i.patch},
		{Name: StepPermissions, State: StatePermissioned, Run: i.fixPermissions},
	}
}

// Runner returns a runner over Steps.
func (i *Installer) Runner() *Runner {
	return NewRunner(i.opts.Sink, i.logger, i.catalog.BinDir, i.Steps()...)
}

// Run executes the pipeline and returns the process exit code.
func (i *Installer) Run(ctx context.Context) int {
	runner := i.Runner()
	i.logger.Info("Installing Flex SDK", "version", i.opts.Manifest.Version, "dest", i.opts.DestDir, "run", runner.sink.RunID())
	return runner.Run(ctx)
}

func (i *Installer) prepare(ctx context.Context) error {
	i.logger.Info("Preparing destination", "path", i.opts.DestDir)
	return binary.PrepareDestination(i.opts.DestDir)
}

func (i *Installer) fetch(ctx context.Context) error {
	return i.fetcher.Fetch(ctx, i.opts.Manifest.URL, i.opts.DestDir)
}

func (i *Installer) refreshCatalog(ctx context.Context) error {
	if err := i.catalog.Refresh(); err != nil {
		return err
	}
	i.logger.Info("Catalogued launchers", "bin", i.catalog.BinDir(), "found", len(i.catalog.Bin()))
	return nil
}

func (i *Installer) normalize(ctx context.Context) error {
	_, err := normalize.Run(i.opts.DestDir, i.logger)
	return err
}

func (i *Installer) patch(ctx context.Context) error {
	_, err := i.patcher.Patch(i.catalog.Bin())
	return err
}

func (i *Installer) fixPermissions(ctx context.Context) error {
	_, err := binary.FixPermissions(i.catalog.Bin(), i.logger)
	return err
}
