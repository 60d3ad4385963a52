package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"github.com/cwbudde/algo-decon/dsp/decon"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
	"github.com/cwbudde/algo-decon/internal/tiffio"
	"github.com/cwbudde/algo-decon/stats/intensity"
)

// Summary counts the outcome of a run.
type Summary struct {
	Datasets int
	Frames   int
	Failed   int
	Skipped  int
}

// Runner processes every unprocessed dataset below the configured root.
type Runner struct {
	cfg         Config
	logger      *slog.Logger
	deconvolver *Deconvolver
	filter      *regexp.Regexp
	psfs        map[int]*ndimage.Image
}

// NewRunner validates cfg and returns a Runner. A nil logger discards output.
func NewRunner(cfg Config, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	root, err := filepath.Abs(cfg.Paths.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Paths.Root = root

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d, err := newDeconvolver(cfg.Decon)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	r := &Runner{
		cfg:         cfg,
		logger:      logger,
		deconvolver: d,
		psfs:        make(map[int]*ndimage.Image),
	}

	if cfg.Decon.Pattern != "" {
		r.filter = regexp.MustCompile(regexp.QuoteMeta(cfg.Decon.Pattern))
	}

	return r, nil
}

// Run discovers datasets, deconvolves their frames and updates the ledger.
// Frame failures are logged, counted and returned joined; cancellation
// stops the run at once.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	ledgerPath := filepath.Join(r.cfg.Paths.Root, LedgerFile)

	ledger, err := LoadLedger(ledgerPath)
	if err != nil {
		return summary, err
	}

	excludes := ledger.Dirs()
	if r.cfg.Paths.PSF.Dir != "" {
		excludes = append(excludes, r.cfg.PSFDir())
	}

	datasets, err := FindDatasets(r.cfg.Paths.Root, r.cfg.Decon.SettingsSuffix, excludes)
	if err != nil {
		return summary, err
	}

	r.logger.Info("datasets found",
		"root", r.cfg.Paths.Root,
		"count", len(datasets),
		"dry_run", r.cfg.DryRun,
	)

	var errs []error

	for _, ds := range datasets {
		failed, err := r.processDataset(ctx, ds, &summary)
		errs = append(errs, failed...)

		if err != nil {
			return summary, errors.Join(append(errs, err)...)
		}

		summary.Datasets++

		if len(failed) == 0 {
			entry := r.cfg.Decon
			ledger[ds.Dir] = LedgerEntry{Decon: &entry}
		}
	}

	if !r.cfg.DryRun {
		if err := ledger.Save(ledgerPath); err != nil {
			errs = append(errs, err)
		}
	}

	r.logger.Info("run finished",
		"datasets", summary.Datasets,
		"frames", summary.Frames,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
	)

	return summary, errors.Join(errs...)
}

// processDataset returns per-frame failures and, separately, an error that
// must abort the whole run.
func (r *Runner) processDataset(ctx context.Context, ds Dataset, summary *Summary) ([]error, error) {
	r.logger.Info("processing dataset", "dir", ds.Dir, "settings", filepath.Base(ds.Settings), "frames", len(ds.Frames))

	layout := Layout{DataDir: ds.Dir}
	if !r.cfg.DryRun {
		if _, err := layout.ResultsDir(r.cfg.Decon.Subdir); err != nil {
			return nil, err
		}
	}

	var failed []error

	for _, frame := range ds.Frames {
		if err := ctx.Err(); err != nil {
			return failed, fmt.Errorf("pipeline: %w", err)
		}

		if r.filter != nil && !r.filter.MatchString(filepath.Base(frame.Path)) {
			continue
		}

		psfPath, ok := r.cfg.PSFPath(frame.Channel)
		if !ok {
			r.logger.Warn("no psf for channel, skipping frame", "frame", frame.Path, "channel", frame.Channel)
			summary.Skipped++
			continue
		}

		out := layout.OutputPath(frame.Path, r.cfg.Decon.Subdir, r.cfg.Decon.Tag)

		if r.cfg.DryRun {
			r.logger.Info("would deconvolve", "frame", frame.Path, "psf", psfPath, "output", out)
			summary.Frames++
			continue
		}

		err := r.processFrame(ctx, frame, psfPath, out)
		switch {
		case err == nil:
			summary.Frames++
		case errors.Is(err, decon.ErrCancelled):
			return failed, err
		default:
			r.logger.Error("frame failed", "frame", frame.Path, "error", err)
			summary.Failed++
			failed = append(failed, fmt.Errorf("%s: %w", frame.Path, err))
		}
	}

	return failed, nil
}

func (r *Runner) processFrame(ctx context.Context, frame Frame, psfPath, out string) error {
	psf, err := r.loadPSF(frame.Channel, psfPath)
	if err != nil {
		return err
	}

	img, err := tiffio.Read(frame.Path)
	if err != nil {
		return err
	}

	logger := r.logger.With("frame", filepath.Base(frame.Path))
	logger.Debug("input", statsAttrs(intensity.Calculate(img))...)

	start := time.Now()

	result, err := r.deconvolver.Run(ctx, img, psf, logger)
	if err != nil {
		return err
	}

	logger.Debug("output", statsAttrs(intensity.Calculate(result))...)

	if err := tiffio.Write(out, result); err != nil {
		return err
	}

	logger.Info("frame deconvolved",
		"method", r.deconvolver.Method(),
		"channel", frame.Channel,
		"output", out,
		"elapsed", time.Since(start),
	)

	return nil
}

func (r *Runner) loadPSF(channel int, path string) (*ndimage.Image, error) {
	if psf, ok := r.psfs[channel]; ok {
		return psf, nil
	}

	psf, err := tiffio.Read(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load psf for channel %d: %w", channel, err)
	}

	r.psfs[channel] = psf

	return psf, nil
}

func statsAttrs(s intensity.Stats) []any {
	return []any{
		"min", s.Min,
		"max", s.Max,
		"mean", s.Mean,
		"stddev", s.StdDev(),
	}
}
