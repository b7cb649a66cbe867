// Package pkg provides the core libraries for the rstfmt formatter.
//
// # Overview
//
// rstfmt rewrites reStructuredText documents and the docstrings inside
// Python source into a single canonical form. The pkg directory is
// organized by pipeline stage:
//
//  1. [rst] - Parsing (line classification, block structure, inline markup)
//  2. [document] - The document tree and semantic normalization
//  3. [render] - Canonical rendering (wrapping, adornments, tables)
//  4. [verify] - Idempotence checking of rendered output
//  5. [pysource] - Docstring extraction and splicing for Python files
//  6. [pipeline] - Per-file orchestration and concurrency
//  7. [cache] - Fingerprint store (file manifest or Redis)
//
// Supporting packages: [config] for TOML discovery and options,
// [errors] for the structured failure taxonomy, [observability] for
// formatter event hooks, [httputil] for the daemon client transport,
// and [buildinfo] for version stamping.
//
// # Architecture
//
// The flow for one file:
//
//	source bytes
//	     |
//	[cache] fingerprint lookup (skip if already canonical)
//	     |
//	[rst] parse into a block tree
//	     |
//	[document] build and normalize the document
//	     |
//	[render] emit the canonical text
//	     |
//	[verify] render twice, confirm the fixed point
//	     |
//	[cache] store the output fingerprint
//
// Python files take a detour through [pysource], which extracts each
// docstring, runs it through the same pipeline, and splices the result
// back at the original indentation.
package pkg
