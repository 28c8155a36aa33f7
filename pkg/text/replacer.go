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

// Package text applies substitution rules to in-memory text.
package text

import (
	"context"
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidRule is returned when a rule cannot be applied.
var ErrInvalidRule = errors.Base("invalid rule")

// 🔄 Rule is a single substitution: every match of Pattern becomes Replacement
type Rule struct {
	// Pattern is a RE2 regular expression, or plain text when Literal is set
	Pattern string

	// Replacement is inserted as-is, no $1 or backslash expansion
	Replacement string

	// Literal matches Pattern as plain text instead of as a regex
	Literal bool
}

// Validate checks that the rule can be applied.
func (r Rule) Validate() error {
	if r.Pattern == "" {
		return errors.Errorf("pattern is required: %w", ErrInvalidRule)
	}
	if r.Literal {
		return nil
	}
	if _, err := regexp.Compile(r.Pattern); err != nil {
		return errors.Errorf("compiling pattern: %s: %w", err.Error(), ErrInvalidRule)
	}
	return nil
}

// 📦 Result contains the outcome of applying a rule
type Result struct {
	// Original is the content before replacement
	Original string

	// Modified is the content after replacement
	Modified string

	// Count is the number of non-overlapping matches replaced
	Count int

	// WasModified is true if Modified differs from Original
	WasModified bool
}

// 🎯 Replacer applies a rule to a string
type Replacer interface {
	Replace(ctx context.Context, content string, rule Rule) (*Result, error)
}

// 🏭 ForRule returns the replacer matching the rule's kind
func ForRule(rule Rule) Replacer {
	if rule.Literal {
		return NewSimpleReplacer()
	}
	return NewRegexReplacer()
}

// Apply is a shorthand for ForRule(rule).Replace(ctx, content, rule).
func Apply(ctx context.Context, content string, rule Rule) (*Result, error) {
	return ForRule(rule).Replace(ctx, content, rule)
}
