// Package pipeline runs the complete format cycle for a batch of files.
//
// The pipeline for one file is: fingerprint → cache lookup → parse →
// build → render → verify → cache store. The same Runner serves the
// CLI and the daemon, so both entry points format identically.
//
// Create a Runner and hand it units:
//
//	runner := pipeline.NewRunner(store, cfg, logger)
//	coord := pipeline.Coordinator{Runner: runner}
//	results := coord.Run(ctx, units)
//
// Results come back in input order regardless of which worker finished
// first, and one failing unit never aborts the batch.
package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/rstfmt/rstfmt/pkg/config"
	"github.com/rstfmt/rstfmt/pkg/verify"
)

// Kind selects the format cycle for a unit.
type Kind string

const (
	// KindRST formats the whole file as reStructuredText.
	KindRST Kind = "rst"

	// KindPython formats the docstrings and leaves the code alone.
	KindPython Kind = "py"
)

// Unit is one file to format. Content is carried in memory so the
// daemon can format text that never touches the local disk.
type Unit struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Kind    Kind   `json:"kind"`
}

// Result is the outcome for one unit. Err is set instead of returned so
// a batch can report per-file failures without losing the rest.
type Result struct {
	Path     string         `json:"path"`
	Verdict  verify.Verdict `json:"verdict,omitempty"`
	Output   string         `json:"output,omitempty"`
	CacheHit bool           `json:"cache_hit,omitempty"`
	Err      error          `json:"-"`
}

// Summary aggregates a batch.
type Summary struct {
	Total       int
	Unchanged   int
	Reformatted int
	Errors      int
	CacheHits   int
}

// Summarize tallies results for reporting.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Errors++
		case r.Verdict == verify.Unchanged:
			s.Unchanged++
		case r.Verdict == verify.Reformatted:
			s.Reformatted++
		}
		if r.CacheHit {
			s.CacheHits++
		}
	}
	return s
}

// KindFor maps a path to its format cycle, or "" for files the
// formatter does not handle.
func KindFor(path string, cfg config.Config) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rst":
		return KindRST
	case ".txt":
		if cfg.IncludeTxt {
			return KindRST
		}
	case ".py":
		return KindPython
	}
	return ""
}
