// Package config loads formatter settings from TOML files, walking up
// from the formatted file the way version control tools find their
// metadata directory.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/rstfmt/rstfmt/pkg/errors"
)

// File names probed in each directory, in priority order. pyproject.toml
// only counts when it carries a [tool.rstfmt] table.
var configFiles = []string{"rstfmt.toml", ".rstfmt.toml", "pyproject.toml"}

// Config is the effective formatter configuration.
type Config struct {
	// LineLength is the target width for wrapped output.
	LineLength int `toml:"line_length"`

	// IncludeTxt also treats .txt files as reStructuredText.
	IncludeTxt bool `toml:"include_txt"`

	// DocstringTrailingLine keeps the closing quotes of a multi-line
	// docstring on their own line.
	DocstringTrailingLine bool `toml:"docstring_trailing_line"`

	// PreserveAdornments keeps source section markers instead of
	// normalizing to the canonical sequence.
	PreserveAdornments bool `toml:"preserve_adornments"`

	// Exclude and ExtendExclude are glob patterns skipped during
	// directory walks. Exclude replaces the defaults; ExtendExclude
	// adds to them.
	Exclude       []string `toml:"exclude"`
	ExtendExclude []string `toml:"extend_exclude"`

	// Path is the file the configuration was loaded from, empty for
	// pure defaults.
	Path string `toml:"-"`
}

// DefaultExclude is skipped during directory walks unless Exclude
// overrides it.
var DefaultExclude = []string{".git", ".tox", ".venv", "venv", "node_modules", "__pycache__"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LineLength:            88,
		DocstringTrailingLine: true,
		Exclude:               append([]string(nil), DefaultExclude...),
	}
}

// Validate rejects settings no renderer can honor.
func (c Config) Validate() error {
	if c.LineLength < 4 {
		return errors.New(errors.ErrCodeInvalidWidth,
			"line_length %d is too small to format anything", c.LineLength)
	}
	return nil
}

// Fingerprint serializes every setting that affects output. Two configs
// with the same fingerprint produce byte-identical canonical text.
func (c Config) Fingerprint() string {
	return fmt.Sprintf("w=%d;txt=%t;trail=%t;adorn=%t",
		c.LineLength, c.IncludeTxt, c.DocstringTrailingLine, c.PreserveAdornments)
}

// ExcludePatterns is the effective skip list.
func (c Config) ExcludePatterns() []string {
	return append(append([]string(nil), c.Exclude...), c.ExtendExclude...)
}

// Discover walks from dir to the filesystem root looking for a config
// file. It returns defaults when nothing is found.
func Discover(fs afero.Fs, dir string) (Config, error) {
	dir = filepath.Clean(dir)
	for {
		for _, name := range configFiles {
			path := filepath.Join(dir, name)
			ok, err := afero.Exists(fs, path)
			if err != nil {
				return Config{}, err
			}
			if !ok {
				continue
			}
			cfg, found, err := Load(fs, path)
			if err != nil {
				return Config{}, err
			}
			if found {
				return cfg, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Load reads one config file. For pyproject.toml the settings live under
// [tool.rstfmt]; found is false when that table is absent.
func Load(fs afero.Fs, path string) (Config, bool, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, false, errors.Wrap(err, errors.ErrCodeInvalidConfig,
			"cannot read config file %s", path)
	}

	cfg := Default()
	if strings.HasSuffix(filepath.Base(path), "pyproject.toml") {
		var py struct {
			Tool struct {
				Rstfmt *Config `toml:"rstfmt"`
			} `toml:"tool"`
		}
		py.Tool.Rstfmt = &cfg
		if _, err := toml.Decode(string(data), &py); err != nil {
			return Config{}, false, errors.Wrap(err, errors.ErrCodeInvalidConfig,
				"invalid TOML in %s", path)
		}
		if !tableDeclared(data) {
			return Config{}, false, nil
		}
	} else {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, false, errors.Wrap(err, errors.ErrCodeInvalidConfig,
				"invalid TOML in %s", path)
		}
	}

	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

// tableDeclared reports whether pyproject data carries a [tool.rstfmt]
// table, distinguishing "configured with defaults" from "not configured".
func tableDeclared(data []byte) bool {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return false
	}
	tool, ok := raw["tool"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = tool["rstfmt"]
	return ok
}
