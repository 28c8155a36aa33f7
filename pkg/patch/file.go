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
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 SourceFile is a UTF-8 text file held fully in memory
type SourceFile struct {
	Path    string
	Target  string // Path with symlinks resolved; the file actually replaced on save
	Content string
	Mode    fs.FileMode // permission bits, restored on save
}

// target returns the path that Save replaces
func (f *SourceFile) target() string {
	if f.Target != "" {
		return f.Target
	}
	return f.Path
}

// 📥 Load reads the whole file at path and checks that it is valid UTF-8.
// Symlinks are resolved once here so Save writes through them.
func Load(ctx context.Context, path string) (*SourceFile, error) {
	logger := zerolog.Ctx(ctx)

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &IOError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	if offset := invalidUTF8(data); offset >= 0 {
		return nil, &DecodeError{Path: path, Offset: offset}
	}

	logger.Debug().Str("path", path).Str("target", target).Int("bytes", len(data)).Msg("loaded file")

	return &SourceFile{
		Path:    path,
		Target:  target,
		Content: string(data),
		Mode:    info.Mode().Perm(),
	}, nil
}

// invalidUTF8 returns the offset of the first invalid sequence, or -1.
func invalidUTF8(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// 💾 Save replaces the file with content. It writes a temporary file next to
// the target and renames it into place, so the target is either fully
// replaced or left untouched.
func Save(ctx context.Context, file *SourceFile, content string) error {
	logger := zerolog.Ctx(ctx)
	target := file.target()

	fail := func(err error) error {
		return &IOError{Op: "write", Path: file.Path, Err: err}
	}

	mode := file.Mode
	if mode == 0 {
		mode = 0o644
	}

	// the temp file must live beside the target so the rename stays on one filesystem
	pending, err := renameio.NewPendingFile(target,
		renameio.WithTempDir(filepath.Dir(target)),
		renameio.WithStaticPermissions(mode),
	)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if cerr := pending.Cleanup(); cerr != nil {
			logger.Warn().Err(cerr).Str("path", pending.Name()).Msg("removing temporary file")
		}
	}()

	if _, err := pending.WriteString(content); err != nil {
		return fail(err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fail(err)
	}

	logger.Debug().Str("path", file.Path).Str("target", target).Int("bytes", len(content)).Msg("saved file")

	return nil
}
