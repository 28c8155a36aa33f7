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

package text

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// RegexReplacer implements Replacer with RE2 regular expressions
type RegexReplacer struct{}

// NewRegexReplacer creates a new RegexReplacer
func NewRegexReplacer() *RegexReplacer {
	return &RegexReplacer{}
}

// Replace implements Replacer.Replace. The replacement is inserted literally.
func (r *RegexReplacer) Replace(ctx context.Context, content string, rule Rule) (*Result, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return nil, errors.Errorf("compiling pattern: %w", err)
	}

	result := &Result{
		Original: content,
		Modified: content,
	}

	matches := re.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return result, nil
	}

	result.Modified = re.ReplaceAllLiteralString(content, rule.Replacement)
	result.Count = len(matches)
	result.WasModified = result.Modified != content

	zerolog.Ctx(ctx).Debug().
		Int("count", result.Count).
		Str("pattern", re.String()).
		Msg("applied rule")

	return result, nil
}
