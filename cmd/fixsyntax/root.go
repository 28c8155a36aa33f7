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

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fixsyntax/pkg/config"
	"github.com/walteh/fixsyntax/pkg/log"
	"github.com/walteh/fixsyntax/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// rootOpts holds the flags of the root command
type rootOpts struct {
	configFile  string
	inputPath   string
	pattern     string
	replacement string
	literal     bool
	dryRun      bool
	debug       bool
}

// addRootFlags adds the flags to the root command
func addRootFlags(cmd *cobra.Command, o *rootOpts) {
	cmd.PersistentFlags().StringVarP(&o.configFile, "config", "c", "", "config file path (.yaml, .json or .hcl)")
	cmd.PersistentFlags().BoolVarP(&o.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().StringVarP(&o.inputPath, "file", "f", "", "file to patch (default \""+config.DefaultInputPath+"\")")
	cmd.Flags().StringVar(&o.pattern, "pattern", "", "regular expression to replace")
	cmd.Flags().StringVar(&o.replacement, "replacement", "", "text inserted for each match")
	cmd.Flags().BoolVar(&o.literal, "literal", false, "match --pattern as plain text (requires --pattern)")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "show the change without writing the file")
}

// overrides returns the flag values as a config layer
func (o *rootOpts) overrides(args []string) *config.Config {
	cfg := &config.Config{
		InputPath:   o.inputPath,
		Pattern:     o.pattern,
		Replacement: o.replacement,
		Literal:     o.literal,
	}
	if len(args) > 0 {
		cfg.InputPath = args[0]
	}
	return cfg
}

// setupLogging returns a context carrying a zerolog logger on stderr
func setupLogging(ctx context.Context, stderr io.Writer, debug bool) context.Context {
	level := zerolog.ErrorLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
	return logger.WithContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "fixsyntax [file]",
		Short: "Repair a source file with a single substitution rule",
		Long: `fixsyntax reads a UTF-8 text file, replaces every match of one pattern
and writes the file back atomically.

By default it repairs the popup.js block where line breaks were saved as the
literal characters \r\n. A config file and flags can change the file and the rule.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), stderr, o.debug)
			ctx = zerolog.Ctx(ctx).With().Str("command", "fix").Logger().WithContext(ctx)

			cfg, err := config.Resolve(ctx, o.configFile, o.overrides(args))
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			ui := log.New(ctx, stdout)
			ctx = log.NewContext(ctx, ui)

			return runPatch(ctx, cfg, patch.Options{DryRun: o.dryRun})
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	addRootFlags(cmd, o)
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// runPatch runs the patcher and reports the outcome to the user
func runPatch(ctx context.Context, cfg *config.Config, opts patch.Options) error {
	ui := log.FromContext(ctx)

	ui.Header("patching " + cfg.InputPath)

	out, err := patch.New(opts).Run(ctx, cfg)
	if err != nil {
		return errors.Errorf("patching %s: %w", cfg.InputPath, err)
	}

	status := "patched"
	switch {
	case out.DryRun:
		status = "dry run"
	case !out.WasModified:
		status = "unchanged"
	}

	ui.LogFileOperation(ctx, log.FileOperation{
		Path:         out.Path,
		Status:       status,
		IsModified:   out.WasModified,
		IsDryRun:     out.DryRun,
		Replacements: out.Count,
	})

	if out.Count == 0 {
		ui.Warningf("pattern not found in %s, content left unchanged", out.Path)
	}

	if out.DryRun {
		if out.Diff != "" {
			ui.Diff(out.Path, out.Diff)
		}
		ui.Infof("Dry run: no file written to %s", out.Path)
		return nil
	}

	ui.Success("Fixed!")
	return nil
}
