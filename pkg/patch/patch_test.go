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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fixsyntax/pkg/config"
	"github.com/walteh/fixsyntax/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// the popup.js block as it was saved, with \r\n written as two characters each
const escapedBlock = `elements.clearHistory = document.getElementById('clearHistory'); \r\n    // Geoapify 元素\r\n    elements.geoapifyKey = document.getElementById('geoapifyKey');`

func popupConfig(path string) *config.Config {
	cfg := config.Default()
	cfg.InputPath = path
	return cfg
}

func TestPatcherRun(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		cfg          func(path string) *config.Config
		want         string
		wantCount    int
		wantModified bool
	}{
		{
			name:         "only_target_sequence",
			content:      escapedBlock,
			cfg:          popupConfig,
			want:         config.DefaultReplacement,
			wantCount:    1,
			wantModified: true,
		},
		{
			name: "target_inside_file",
			content: "function initElements() {\n    " + escapedBlock + "\n    elements.saveButton = null; // 保存\n}\n",
			cfg:  popupConfig,
			want: "function initElements() {\n    " + config.DefaultReplacement +
				"\n    elements.saveButton = null; // 保存\n}\n",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:         "target_absent",
			content:      "const 元素 = {};\r\nconsole.log('\\r\\n');\n",
			cfg:          popupConfig,
			want:         "const 元素 = {};\r\nconsole.log('\\r\\n');\n",
			wantCount:    0,
			wantModified: false,
		},
		{
			name:    "literal_rule",
			content: "a.b a.b axb",
			cfg: func(path string) *config.Config {
				return &config.Config{InputPath: path, Pattern: "a.b", Replacement: "c", Literal: true}
			},
			want:         "c c axb",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "empty_replacement_deletes",
			content: "keep; \\r\\ndrop",
			cfg: func(path string) *config.Config {
				return &config.Config{InputPath: path, Pattern: `\\r\\n`}
			},
			want:         "keep; drop",
			wantCount:    1,
			wantModified: true,
		},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "popup.js", []byte(tt.content), 0o644)

			out, err := New(Options{}).Run(ctx, tt.cfg(path))
			require.NoError(t, err)
			require.NotNil(t, out)

			assert.Equal(t, StageSaved, out.Stage)
			assert.Equal(t, path, out.Path)
			assert.Equal(t, tt.wantCount, out.Count)
			assert.Equal(t, tt.wantModified, out.WasModified)
			assert.Empty(t, out.Diff)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got), "file content should match")
		})
	}
}

func TestPatcherRunIdempotent(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "popup.js", []byte("// 元素\n"+escapedBlock+"\n"), 0o644)
	patcher := New(Options{})

	first, err := patcher.Run(ctx, popupConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count)

	once, err := os.ReadFile(path)
	require.NoError(t, err)

	second, err := patcher.Run(ctx, popupConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Count)
	assert.False(t, second.WasModified)
	assert.Equal(t, StageSaved, second.Stage)

	twice, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, once, twice, "second run should not change the file")
}

func TestPatcherRunSymlink(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	realPath := writeFile(t, dir, "real.js", []byte(escapedBlock), 0o644)
	link := filepath.Join(dir, "popup.js")
	require.NoError(t, os.Symlink(realPath, link))

	out, err := New(Options{}).Run(ctx, popupConfig(link))
	require.NoError(t, err)
	assert.Equal(t, StageSaved, out.Stage)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link should stay a symlink")

	got, err := os.ReadFile(realPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultReplacement, string(got))
}

func TestPatcherRunDryRun(t *testing.T) {
	ctx := context.Background()
	content := "line one\n" + escapedBlock + "\nline three\n"
	path := writeFile(t, t.TempDir(), "popup.js", []byte(content), 0o644)

	out, err := New(Options{DryRun: true}).Run(ctx, popupConfig(path))
	require.NoError(t, err)

	assert.True(t, out.DryRun)
	assert.Equal(t, StageLoaded, out.Stage, "dry run should stop before saving")
	assert.Equal(t, 1, out.Count)
	assert.True(t, out.WasModified)
	assert.Contains(t, out.Diff, "-"+escapedBlock)
	assert.Contains(t, out.Diff, "+    // Geoapify 元素")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got), "dry run should not write")
}

func TestPatcherRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) *config.Config
		check func(t *testing.T, err error)
	}{
		{
			name: "missing_file",
			setup: func(t *testing.T) *config.Config {
				return popupConfig(filepath.Join(t.TempDir(), "popup.js"))
			},
			check: func(t *testing.T, err error) {
				var ioErr *IOError
				require.True(t, errors.As(err, &ioErr), "error should be an IOError")
				assert.Equal(t, "read", ioErr.Op)
			},
		},
		{
			name: "invalid_utf8",
			setup: func(t *testing.T) *config.Config {
				return popupConfig(writeFile(t, t.TempDir(), "popup.js", []byte{'a', 0xc3}, 0o644))
			},
			check: func(t *testing.T, err error) {
				var decErr *DecodeError
				require.True(t, errors.As(err, &decErr), "error should be a DecodeError")
				assert.Equal(t, 1, decErr.Offset)
			},
		},
		{
			name: "invalid_rule",
			setup: func(t *testing.T) *config.Config {
				path := writeFile(t, t.TempDir(), "popup.js", []byte("x"), 0o644)
				return &config.Config{InputPath: path, Pattern: "getElementById("}
			},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, text.ErrInvalidRule))
			},
		},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.setup(t)

			out, err := New(Options{}).Run(ctx, cfg)
			require.Error(t, err)
			require.NotNil(t, out)
			assert.Equal(t, StageFailed, out.Stage)
			tt.check(t, err)
		})
	}
}

func TestPatcherRunInvalidUTF8LeavesFile(t *testing.T) {
	data := []byte("bad \xff " + escapedBlock)
	path := writeFile(t, t.TempDir(), "popup.js", data, 0o644)

	_, err := New(Options{}).Run(context.Background(), popupConfig(path))
	require.Error(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got, "file should be untouched")
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "idle", StageIdle.String())
	assert.Equal(t, "loaded", StageLoaded.String())
	assert.Equal(t, "saved", StageSaved.String())
	assert.Equal(t, "failed", StageFailed.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
