// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"testing"

	"taskfiles-cli/internal/testutil"
)

func TestClassifyFile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		file string
		want Kind
	}{
		{"plain module", "git.star", KindTaskModule},
		{"hyphenated module", "branch-tools.star", KindTaskModule},
		{"private module", "_helpers.star", KindExcluded},
		{"private prefix only", "_.star", KindExcluded},
		{"reserved root file", "tasks.star", KindExcluded},
		{"reserved fixture file", "conftest.star", KindExcluded},
		{"wrong suffix", "notes.txt", KindNotModule},
		{"suffix only part of name", "starred", KindNotModule},
		{"no suffix", "Makefile", KindNotModule},
		{"python-looking leftover", "tasks.py", KindNotModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyFile(tt.file); got != tt.want {
				t.Errorf("ClassifyFile(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestIsPackageDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if IsPackageDir(dir) {
		t.Error("empty dir should not be a package")
	}

	testutil.MustWriteFile(t, filepath.Join(dir, packageMarker), "")
	if !IsPackageDir(dir) {
		t.Error("dir with marker should be a package")
	}
}

func TestIsDir_CacheDirExcluded(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	cache := filepath.Join(base, cacheDirName)
	testutil.MustMkdirAll(t, cache, 0o755)

	if isDir(cache) {
		t.Error("loader cache directory must never count as a module dir")
	}
	if !isDir(base) {
		t.Error("plain directory should count")
	}
}

func TestModuleStem(t *testing.T) {
	t.Parallel()
	if got := moduleStem("git.star"); got != "git" {
		t.Errorf("moduleStem = %q, want git", got)
	}
}
