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
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// unchanged lines kept around each change in a preview
const contextLines = 2

// Preview returns a line diff of before and after, prefixed with "-", "+"
// and " " and trimmed to a few lines of context. It is empty when the two
// are equal.
func Preview(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out []string
	for i, d := range diffs {
		lines := splitLines(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			out = append(out, prefixed("-", lines)...)
		case diffmatchpatch.DiffInsert:
			out = append(out, prefixed("+", lines)...)
		case diffmatchpatch.DiffEqual:
			out = append(out, contextBlock(lines, i == 0, i == len(diffs)-1)...)
		}
	}

	return strings.Join(out, "\n")
}

func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\n")
	}
	return lines
}

func prefixed(prefix string, lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, prefix+l)
	}
	return out
}

// contextBlock keeps the unchanged lines next to a change and elides the rest.
func contextBlock(lines []string, first, last bool) []string {
	const elided = "..."

	switch {
	case first && len(lines) > contextLines:
		return append([]string{elided}, prefixed(" ", lines[len(lines)-contextLines:])...)
	case last && len(lines) > contextLines:
		return append(prefixed(" ", lines[:contextLines]), elided)
	case !first && !last && len(lines) > 2*contextLines:
		out := append(prefixed(" ", lines[:contextLines]), elided)
		return append(out, prefixed(" ", lines[len(lines)-contextLines:])...)
	}
	return prefixed(" ", lines)
}
