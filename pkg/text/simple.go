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
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// SimpleReplacer implements Replacer using plain string matching
type SimpleReplacer struct{}

// NewSimpleReplacer creates a new SimpleReplacer
func NewSimpleReplacer() *SimpleReplacer {
	return &SimpleReplacer{}
}

// Replace implements Replacer.Replace
func (r *SimpleReplacer) Replace(ctx context.Context, content string, rule Rule) (*Result, error) {
	if rule.Pattern == "" {
		return nil, errors.Errorf("pattern is required: %w", ErrInvalidRule)
	}

	result := &Result{
		Original: content,
		Modified: content,
	}

	count := strings.Count(content, rule.Pattern)
	if count == 0 {
		return result, nil
	}

	result.Modified = strings.ReplaceAll(content, rule.Pattern, rule.Replacement)
	result.Count = count
	result.WasModified = result.Modified != content

	zerolog.Ctx(ctx).Debug().
		Int("count", count).
		Bool("literal", true).
		Msg("applied rule")

	return result, nil
}
