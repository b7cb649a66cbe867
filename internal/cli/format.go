package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rstfmt/rstfmt/internal/daemon"
	"github.com/rstfmt/rstfmt/pkg/config"
	"github.com/rstfmt/rstfmt/pkg/errors"
	"github.com/rstfmt/rstfmt/pkg/pipeline"
	"github.com/rstfmt/rstfmt/pkg/verify"
)

// formatOpts holds the command-line flags for the format command.
type formatOpts struct {
	check              bool // report instead of writing
	diff               bool // print diffs for files that would change
	noCache            bool
	lineLength         int // 0 means "from config"
	includeTxt         bool
	preserveAdornments bool
	workers            int
	daemonURL          string // format through a running daemon
}

// formatCommand creates the format command.
func (c *CLI) formatCommand() *cobra.Command {
	opts := formatOpts{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Canonicalize reStructuredText files and Python docstrings",
		Long: `Format reStructuredText files and the docstrings inside Python source.

Files are rewritten in place. Directories are walked recursively for
.rst and .py files (and .txt with --include-txt). Pass "-" to format
stdin to stdout.

Examples:
  rstfmt format docs/                 # rewrite a tree in place
  rstfmt format --check docs/         # CI mode: fail if anything would change
  rstfmt format --diff README.rst     # show what would change
  cat doc.rst | rstfmt format -       # filter mode`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFormat(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.check, "check", false, "report files that would change, write nothing, exit non-zero on changes")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "print a diff for every file that would change")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the fingerprint cache")
	cmd.Flags().IntVarP(&opts.lineLength, "line-length", "l", 0, "target line width (default from config, then 88)")
	cmd.Flags().BoolVar(&opts.includeTxt, "include-txt", false, "also format .txt files as reStructuredText")
	cmd.Flags().BoolVar(&opts.preserveAdornments, "preserve-adornments", false, "keep source section markers instead of normalizing them")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent formats (default GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.daemonURL, "daemon", "", "format through a running daemon at this URL instead of in-process")

	return cmd
}

func (c *CLI) runFormat(ctx context.Context, opts formatOpts, args []string) error {
	cfg, err := c.loadConfig(opts)
	if err != nil {
		return err
	}

	if len(args) == 1 && args[0] == "-" {
		return c.formatStdin(ctx, cfg)
	}

	units, err := c.collectUnits(args, cfg)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		printInfo(c.Stdout, "Nothing to format")
		return nil
	}

	prog := newProgress(c.Logger)
	var results []pipeline.Result
	if opts.daemonURL != "" {
		results, err = c.formatViaDaemon(ctx, opts.daemonURL, units, cfg)
		if err != nil {
			return err
		}
	} else {
		store := c.newStore(opts.noCache)
		defer store.Close()
		coord := pipeline.Coordinator{
			Runner:  c.newRunner(store, cfg),
			Workers: opts.workers,
		}
		results = coord.Run(ctx, units)
		if err := store.Flush(ctx); err != nil {
			c.Logger.Warn("cache flush failed", "error", err)
		}
	}

	changed, failed := c.report(opts, units, results)
	if !opts.check {
		if err := c.writeBack(units, results); err != nil {
			return err
		}
	}

	s := pipeline.Summarize(results)
	prog.done(fmt.Sprintf("Processed %d files", s.Total))
	printSummary(c.Stdout, s.Unchanged, s.Reformatted, s.Errors, s.CacheHits)

	if failed > 0 {
		return errors.New(errors.ErrCodeInternal, "%d files failed to format", failed)
	}
	if opts.check && changed > 0 {
		return errors.New(errors.ErrCodeInternal, "%d files would be reformatted", changed)
	}
	return nil
}

// loadConfig discovers the project config and layers flag overrides on
// top.
func (c *CLI) loadConfig(opts formatOpts) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfg, err := config.Discover(c.Fs, wd)
	if err != nil {
		return config.Config{}, err
	}
	if opts.lineLength > 0 {
		cfg.LineLength = opts.lineLength
	}
	if opts.includeTxt {
		cfg.IncludeTxt = true
	}
	if opts.preserveAdornments {
		cfg.PreserveAdornments = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// formatStdin runs filter mode: stdin is reStructuredText, the
// canonical form goes to stdout, nothing touches the cache.
func (c *CLI) formatStdin(ctx context.Context, cfg config.Config) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "reading stdin")
	}
	runner := c.newRunner(nil, cfg)
	res := runner.RunUnit(ctx, pipeline.Unit{
		Path:    "<stdin>",
		Content: string(data),
		Kind:    pipeline.KindRST,
	})
	if res.Err != nil {
		return res.Err
	}
	_, err = io.WriteString(c.Stdout, res.Output)
	return err
}

// collectUnits expands the argument paths into formattable units.
// Explicit file arguments must be formattable; unknown extensions in a
// walked directory are silently skipped.
func (c *CLI) collectUnits(paths []string, cfg config.Config) ([]pipeline.Unit, error) {
	var files []string
	for _, path := range paths {
		info, err := c.Fs.Stat(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeFileNotFound, "cannot stat %s", path)
		}
		if !info.IsDir() {
			if pipeline.KindFor(path, cfg) == "" {
				return nil, errors.New(errors.ErrCodeUnsupported, "no formatter for %s", path)
			}
			files = append(files, path)
			continue
		}
		walked, err := c.walk(path, cfg)
		if err != nil {
			return nil, err
		}
		files = append(files, walked...)
	}
	sort.Strings(files)

	units := make([]pipeline.Unit, 0, len(files))
	for _, path := range files {
		data, err := afero.ReadFile(c.Fs, path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidPath, "cannot read %s", path)
		}
		units = append(units, pipeline.Unit{
			Path:    path,
			Content: string(data),
			Kind:    pipeline.KindFor(path, cfg),
		})
	}
	return units, nil
}

// walk collects formattable files under dir, honoring the exclude
// patterns from config.
func (c *CLI) walk(dir string, cfg config.Config) ([]string, error) {
	excludes := cfg.ExcludePatterns()
	var files []string
	err := afero.Walk(c.Fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := filepath.Base(path)
		if info.IsDir() {
			if path != dir && excluded(name, excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		if excluded(name, excludes) {
			return nil
		}
		if pipeline.KindFor(path, cfg) != "" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok || p == name {
			return true
		}
	}
	return false
}

// report prints per-file outcomes and returns the changed and failed
// counts.
func (c *CLI) report(opts formatOpts, units []pipeline.Unit, results []pipeline.Result) (changed, failed int) {
	for i, res := range results {
		switch {
		case res.Err != nil:
			failed++
			printError(c.Stdout, "%s: %v", res.Path, res.Err)

		case res.Verdict == verify.Reformatted:
			changed++
			if opts.check {
				printWarning(c.Stdout, "would reformat %s", res.Path)
			} else {
				printFile(c.Stdout, res.Path)
			}
			if opts.diff {
				printDiff(c.Stdout, res.Path,
					strings.Split(units[i].Content, "\n"),
					strings.Split(res.Output, "\n"))
			}
		}
	}
	return changed, failed
}

// formatViaDaemon sends the batch to a resident daemon and maps the
// wire results back onto pipeline results so reporting and write-back
// work the same either way.
func (c *CLI) formatViaDaemon(ctx context.Context, url string, units []pipeline.Unit, cfg config.Config) ([]pipeline.Result, error) {
	client := daemon.NewClient(url)
	wire, err := client.Format(ctx, units, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeChannelError, "daemon at %s", url)
	}
	results := make([]pipeline.Result, len(wire))
	for i, w := range wire {
		res := pipeline.Result{
			Path:     w.Path,
			Verdict:  verify.Verdict(w.Verdict),
			Output:   w.Output,
			CacheHit: w.CacheHit,
		}
		if w.Error != "" {
			res.Err = errors.New(errors.Code(w.Code), "%s", w.Error)
		}
		results[i] = res
	}
	return results, nil
}

// writeBack rewrites changed files in place.
func (c *CLI) writeBack(units []pipeline.Unit, results []pipeline.Result) error {
	for i, res := range results {
		if res.Err != nil || res.Verdict != verify.Reformatted {
			continue
		}
		info, err := c.Fs.Stat(units[i].Path)
		mode := os.FileMode(0o644)
		if err == nil {
			mode = info.Mode()
		}
		if err := afero.WriteFile(c.Fs, res.Path, []byte(res.Output), mode); err != nil {
			return errors.Wrap(err, errors.ErrCodeInvalidPath, "cannot write %s", res.Path)
		}
	}
	return nil
}
