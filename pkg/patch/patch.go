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

package patch

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/fixsyntax/pkg/config"
	"github.com/walteh/fixsyntax/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🚦 Stage is the position of a run in Idle → Loaded → Saved
type Stage int

const (
	StageIdle Stage = iota
	StageLoaded
	StageSaved
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageLoaded:
		return "loaded"
	case StageSaved:
		return "saved"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// 🔧 Options controls a Patcher
type Options struct {
	// DryRun stops after the substitution and never writes the file
	DryRun bool
}

// 📦 Outcome describes a finished run
type Outcome struct {
	Path        string
	Stage       Stage
	Count       int  // replacements made
	WasModified bool // content differs from the file on disk
	DryRun      bool
	Diff        string // preview of the change, dry run only
}

// 🎯 Patcher loads a file, applies one rule and writes the result back
type Patcher struct {
	opts Options
}

// 🏭 New creates a Patcher
func New(opts Options) *Patcher {
	return &Patcher{opts: opts}
}

// Substitute applies rule to content. No match is not an error.
func (p *Patcher) Substitute(ctx context.Context, content string, rule text.Rule) (*text.Result, error) {
	result, err := text.Apply(ctx, content, rule)
	if err != nil {
		return nil, errors.Errorf("applying rule: %w", err)
	}
	return result, nil
}

// Run executes the whole pipeline for cfg. The returned Outcome is never
// nil; on error its Stage is StageFailed.
func (p *Patcher) Run(ctx context.Context, cfg *config.Config) (*Outcome, error) {
	out := &Outcome{
		Path:   cfg.InputPath,
		Stage:  StageIdle,
		DryRun: p.opts.DryRun,
	}

	logger := zerolog.Ctx(ctx).With().Str("path", cfg.InputPath).Logger()

	fail := func(err error) (*Outcome, error) {
		logger.Debug().Err(err).Str("stage", out.Stage.String()).Msg("run failed")
		out.Stage = StageFailed
		return out, err
	}

	rule := cfg.Rule()
	if err := rule.Validate(); err != nil {
		return fail(errors.Errorf("validating rule: %w", err))
	}

	file, err := Load(ctx, cfg.InputPath)
	if err != nil {
		return fail(err)
	}
	out.Stage = StageLoaded

	result, err := p.Substitute(ctx, file.Content, rule)
	if err != nil {
		return fail(err)
	}
	out.Count = result.Count
	out.WasModified = result.WasModified

	if p.opts.DryRun {
		out.Diff = Preview(result.Original, result.Modified)
		logger.Debug().Int("count", out.Count).Msg("dry run, skipping save")
		return out, nil
	}

	if err := Save(ctx, file, result.Modified); err != nil {
		return fail(err)
	}
	out.Stage = StageSaved

	logger.Debug().
		Int("count", out.Count).
		Bool("modified", out.WasModified).
		Msg("patched file")

	return out, nil
}
