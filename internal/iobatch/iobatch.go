// Package iobatch generates networks of several independent models in
// parallel. Every model runs in its own temporary work directory, so
// engine files of different models never meet.
package iobatch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/rbmnet/internal/iofs"
	"github.com/gnames/rbmnet/internal/iomodel"
	"github.com/gnames/rbmnet/pkg/config"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	"golang.org/x/sync/errgroup"
)

// ExpanderFactory creates an expander that keeps its files in workDir.
type ExpanderFactory func(workDir string) rbmnet.Expander

// Result is the outcome of one model file.
type Result struct {
	// Path is the model file.
	Path string
	// Model is nil when the file could not be loaded.
	Model *model.Model
	// Err is the load, generation or store error of this model.
	Err error
}

// Batch runs network generation for many model files.
type Batch struct {
	cfg        *config.Config
	newExp     ExpanderFactory
	store      rbmnet.Store
	progress   bool
	onGenerate func(*model.Model)
}

// Option configures a Batch.
type Option func(*Batch)

// OptStore saves every generated network to the store.
func OptStore(s rbmnet.Store) Option {
	return func(b *Batch) {
		b.store = s
	}
}

// OptProgress shows a progress bar on STDERR.
func OptProgress(show bool) Option {
	return func(b *Batch) {
		b.progress = show
	}
}

// OptOnGenerate sets a callback for every generated model.
// It must be safe for concurrent use.
func OptOnGenerate(fn func(*model.Model)) Option {
	return func(b *Batch) {
		b.onGenerate = fn
	}
}

// New creates a Batch. Engine and jobs settings come from cfg.
func New(cfg *config.Config, newExp ExpanderFactory, opts ...Option) *Batch {
	res := &Batch{cfg: cfg, newExp: newExp}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Generate loads and generates all model files. Results keep the order of
// paths. A failing model does not stop the others, its error is kept in
// the result. The returned error is only set when ctx was cancelled.
func (b *Batch) Generate(ctx context.Context, paths []string) ([]Result, error) {
	start := time.Now()
	res := make([]Result, len(paths))

	var bar *pb.ProgressBar
	if b.progress {
		bar = pb.Full.Start(len(paths))
		bar.Set("prefix", "Models: ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	jobs := b.cfg.JobsNumber
	if jobs <= 0 {
		jobs = 1
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res[i] = b.generate(gCtx, path)
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	var failed int
	for _, r := range res {
		if r.Err != nil {
			failed++
		}
	}
	slog.Info("Batch finished",
		"models", humanize.Comma(int64(len(paths))),
		"failed", humanize.Comma(int64(failed)),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return res, nil
}

func (b *Batch) generate(ctx context.Context, path string) Result {
	res := Result{Path: path}
	m, err := iomodel.Load(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Model = m

	dir, err := os.MkdirTemp(b.cfg.Engine.WorkDir, "rbmnet-")
	if err != nil {
		res.Err = iofs.CreateDirError(b.cfg.Engine.WorkDir, err)
		return res
	}
	if b.cfg.Engine.Cleanup {
		defer os.RemoveAll(dir)
	}

	err = rbmnet.GenerateEquations(ctx, m, b.newExp(dir))
	if err != nil {
		slog.Error("Cannot generate network", "file", path, "error", err)
		res.Err = err
		return res
	}
	if b.onGenerate != nil {
		b.onGenerate(m)
	}

	if b.store != nil {
		res.Err = b.store.Save(ctx, m)
	}
	return res
}
