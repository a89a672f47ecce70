package batch

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/pomxml"
	"github.com/matzehuels/pomrewrite/pkg/transform"
)

// BackupSuffix is appended to a descriptor's name for the copy kept before
// it is overwritten.
const BackupSuffix = ".save"

// Driver runs a transformer over every entry of a manifest.
type Driver struct {
	list        *ListOfPOMs
	transformer *transform.Transformer
	logger      *log.Logger
	concurrency int
	writeBack   bool
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithConcurrency bounds the number of entries processed at once.
func WithConcurrency(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithWriteBack writes each transformed descriptor over its source, keeping
// a backup copy.
func WithWriteBack(enabled bool) DriverOption {
	return func(d *Driver) {
		d.writeBack = enabled
	}
}

// WithLogger sets the logger for per-entry progress.
func WithLogger(l *log.Logger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver returns a driver for list.
func NewDriver(list *ListOfPOMs, t *transform.Transformer, opts ...DriverOption) *Driver {
	d := &Driver{
		list:        list,
		transformer: t,
		logger:      log.New(io.Discard),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run transforms every entry. defaultPackage is used for entries without
// --package. Entry flags are merged into opts. The returned error is set
// only when ctx ends the run early.
func (d *Driver) Run(ctx context.Context, defaultPackage string, opts transform.Options) (*Result, error) {
	if err := checkDir(d.list.BaseDir()); err != nil {
		return nil, err
	}

	entries := d.list.Entries()
	// registry writes happen before any concurrent transform reads it
	for _, e := range entries {
		if len(e.IgnoreModules) > 0 {
			d.transformer.IgnoreModules().Add(d.list.Resolve(e), e.IgnoreModules...)
		}
	}

	results := make([]EntryResult, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, e := range entries {
		g.Go(func() error {
			results[i] = d.process(gctx, e, defaultPackage, opts)
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{Entries: results}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func (d *Driver) process(ctx context.Context, e Entry, defaultPackage string, opts transform.Options) EntryResult {
	path := d.list.Resolve(e)
	r := EntryResult{Entry: e, Path: path}
	logger := d.logger.With("pom", e.Path)

	if e.Ignore {
		logger.Debug("skipped")
		r.Skipped = true
		return r
	}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}

	doc, err := pomxml.ReadFile(path)
	if err != nil {
		logger.Error("cannot read descriptor", "err", err)
		r.Err = err
		return r
	}

	res, err := d.transformer.TransformDocument(ctx, doc, path, entryOptions(e, defaultPackage, opts))
	if err != nil {
		logger.Error("transform failed", "err", err)
		r.Err = err
		return r
	}
	r.Info, r.Warnings, r.Changes = res.Info, res.Warnings, res.Changes
	for _, w := range res.Warnings {
		logger.Warn(w.Message, "subject", w.Subject, "code", w.Code)
	}

	if d.writeBack {
		if err := writeBack(doc, path); err != nil {
			logger.Error("cannot write descriptor", "err", err)
			r.Err = err
			return r
		}
	}
	logger.Info("transformed", "changes", res.Changes.Total())
	return r
}

func entryOptions(e Entry, defaultPackage string, opts transform.Options) transform.Options {
	opts.TargetPackageName = defaultPackage
	if e.Package != "" {
		opts.TargetPackageName = e.Package
	}
	if len(e.IgnoreModules) > 0 {
		opts.FilterIgnoredModules = true
	}
	opts.NoParent = opts.NoParent || e.NoParent
	opts.HasPackageVersion = opts.HasPackageVersion || e.HasPackageVersion
	opts.KeepPOMVersion = opts.KeepPOMVersion || e.KeepPOMVersion
	if e.SetVersion != "" {
		opts.SetVersion = e.SetVersion
	}
	return opts
}

// writeBack saves a backup of the original file, unless one exists, and
// replaces path with doc.
func writeBack(doc *pomxml.Document, path string) error {
	backup := path + BackupSuffix
	if _, err := os.Stat(backup); os.IsNotExist(err) {
		orig, err := os.ReadFile(path)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "read %s", path)
		}
		if err := os.WriteFile(backup, orig, 0644); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "write backup %s", backup)
		}
	}
	if err := doc.WriteFile(path); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
