// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/fixsyntax/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// Built-in defaults: repair the popup.js block whose line breaks were
// written as the literal two-character pairs \r\n.
const (
	DefaultInputPath   = "popup/popup.js"
	DefaultPattern     = `elements\.clearHistory = document\.getElementById\('clearHistory'\); \\r\\n    // Geoapify 元素\\r\\n    elements\.geoapifyKey = document\.getElementById\('geoapifyKey'\);`
	DefaultReplacement = "elements.clearHistory = document.getElementById('clearHistory');\n" +
		"    // Geoapify 元素\n" +
		"    elements.geoapifyKey = document.getElementById('geoapifyKey');"
)

// ErrNoParser is returned when no registered parser accepts a config file.
var ErrNoParser = errors.Base("no parser found")

// 📚 Config is the complete configuration of a patch run
type Config struct {
	InputPath   string `json:"input_path" yaml:"input_path" hcl:"input_path,optional"`
	Pattern     string `json:"pattern" yaml:"pattern" hcl:"pattern,optional"`
	Replacement string `json:"replacement" yaml:"replacement" hcl:"replacement,optional"`
	Literal     bool   `json:"literal,omitempty" yaml:"literal,omitempty" hcl:"literal,optional"`
}

// 🏭 Default returns the built-in configuration
func Default() *Config {
	return &Config{
		InputPath:   DefaultInputPath,
		Pattern:     DefaultPattern,
		Replacement: DefaultReplacement,
	}
}

// 🔄 Rule returns the substitution rule described by the config
func (cfg *Config) Rule() text.Rule {
	return text.Rule{
		Pattern:     cfg.Pattern,
		Replacement: cfg.Replacement,
		Literal:     cfg.Literal,
	}
}

// Merge overlays the non-zero fields of other onto cfg. A pattern always
// brings its own replacement and literal flag, so an empty replacement
// (delete every match) can be expressed. The literal flag only travels with
// a pattern; see checkLayer.
func (cfg *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.InputPath != "" {
		cfg.InputPath = other.InputPath
	}
	if other.Pattern != "" {
		cfg.Pattern = other.Pattern
		cfg.Replacement = other.Replacement
		cfg.Literal = other.Literal
		return
	}
	if other.Replacement != "" {
		cfg.Replacement = other.Replacement
	}
}

// checkLayer rejects a layer that sets literal without its own pattern. The
// default pattern is a regex, so matching it as plain text never succeeds.
func checkLayer(layer *Config) error {
	if layer != nil && layer.Literal && layer.Pattern == "" {
		return errors.Errorf("literal requires a pattern in the same layer: %w", text.ErrInvalidRule)
	}
	return nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.InputPath == "" {
		return errors.Errorf("input_path is required")
	}
	if err := cfg.Rule().Validate(); err != nil {
		return errors.Errorf("validating rule: %w", err)
	}

	cfg.InputPath = filepath.Clean(cfg.InputPath)

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	kind := "regex"
	if cfg.Literal {
		kind = "literal"
	}
	return fmt.Sprintf("%s (%s rule, %d byte pattern)", cfg.InputPath, kind, len(cfg.Pattern))
}

// 🎯 Load loads a configuration file. The result is not validated, since a
// file may hold only part of the settings.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%s: %w", path, ErrNoParser)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// 🎯 Resolve layers the defaults, the optional config file at path and the
// overrides, in that order, and validates the result.
func Resolve(ctx context.Context, path string, overrides *Config) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := Load(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := checkLayer(fileCfg); err != nil {
			return nil, errors.Errorf("%s: %w", path, err)
		}
		cfg.Merge(fileCfg)
	}

	if err := checkLayer(overrides); err != nil {
		return nil, err
	}
	cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("resolved configuration")

	return cfg, nil
}
