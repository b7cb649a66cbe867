package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rstfmt/rstfmt/pkg/buildinfo"
	"github.com/rstfmt/rstfmt/pkg/cache"
	"github.com/rstfmt/rstfmt/pkg/config"
	"github.com/rstfmt/rstfmt/pkg/document"
	"github.com/rstfmt/rstfmt/pkg/errors"
	"github.com/rstfmt/rstfmt/pkg/observability"
	"github.com/rstfmt/rstfmt/pkg/pysource"
	"github.com/rstfmt/rstfmt/pkg/render"
	"github.com/rstfmt/rstfmt/pkg/rst"
	"github.com/rstfmt/rstfmt/pkg/verify"
)

// Runner formats single units with caching. It is stateless apart from
// the store and logger, so goroutines can share one Runner.
type Runner struct {
	Store  cache.Store
	Config config.Config
	Logger *log.Logger
}

// NewRunner creates a runner. A nil store disables caching; a nil
// logger uses the default.
func NewRunner(store cache.Store, cfg config.Config, logger *log.Logger) *Runner {
	if store == nil {
		store = cache.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Store: store, Config: cfg, Logger: logger}
}

// RunUnit formats one unit. Failures land in Result.Err.
func (r *Runner) RunUnit(ctx context.Context, unit Unit) Result {
	start := time.Now()
	result := Result{Path: unit.Path}
	observability.Format().OnFormatStart(ctx, unit.Path)
	defer func() {
		observability.Format().OnFormatComplete(ctx, unit.Path,
			string(result.Verdict), time.Since(start), result.Err)
	}()

	fp := cache.Fingerprint([]byte(unit.Content), r.Config.Fingerprint(), buildinfo.Version)
	hit, err := r.Store.Lookup(ctx, fp)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "path", unit.Path, "error", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, unit.Path)
		result.Verdict = verify.Unchanged
		result.Output = unit.Content
		result.CacheHit = true
		return result
	}
	observability.Cache().OnCacheMiss(ctx, unit.Path)

	reformat := r.reformatFunc(unit.Kind)
	if reformat == nil {
		result.Err = errors.New(errors.ErrCodeUnsupported, "no formatter for %q", unit.Path)
		return result
	}

	output, err := reformat(unit.Content)
	if err != nil {
		result.Err = err
		return result
	}

	verdict, err := verify.Check(unit.Content, output, reformat)
	if err != nil {
		result.Verdict = verdict
		result.Err = err
		return result
	}
	result.Verdict = verdict
	result.Output = output

	// The rendered text is proven stable, so its fingerprint is safe to
	// record whether or not the input was already canonical.
	outFp := cache.Fingerprint([]byte(output), r.Config.Fingerprint(), buildinfo.Version)
	if err := r.Store.Store(ctx, outFp); err != nil {
		r.Logger.Warn("cache store failed", "path", unit.Path, "error", err)
	}

	r.Logger.Debug("formatted",
		"path", unit.Path,
		"verdict", verdict,
		"duration", time.Since(start))
	return result
}

// reformatFunc picks the format cycle for a unit kind.
func (r *Runner) reformatFunc(kind Kind) func(string) (string, error) {
	switch kind {
	case KindRST:
		return func(src string) (string, error) {
			return r.FormatRST(src, "")
		}
	case KindPython:
		return func(src string) (string, error) {
			return pysource.Rewrite(src, r.FormatRST, r.Config.DocstringTrailingLine)
		}
	}
	return nil
}

// FormatRST runs parse → build → render on one document. indent is
// non-empty for docstring bodies re-embedded into Python source; it is
// applied to the output and subtracted from the wrap width.
func (r *Runner) FormatRST(src, indent string) (string, error) {
	tree, err := rst.Parse(src)
	if err != nil {
		return "", err
	}
	doc, err := document.BuildEmbedded(tree, indent)
	if err != nil {
		return "", err
	}
	width := r.Config.LineLength - len(indent)
	if width < 4 {
		width = 4
	}
	return render.Render(doc, render.Options{
		Width:              width,
		PreserveAdornments: r.Config.PreserveAdornments,
	})
}
