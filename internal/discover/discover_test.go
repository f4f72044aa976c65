// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func collect(t *testing.T, root, pattern string, exts []string) []string {
	t.Helper()
	var got []string
	for path, err := range Files(root, pattern, exts) {
		require.NoError(t, err)
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
	}
	return got
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b/2023-05-01-12-00-00_V.JPG")
	touch(t, root, "a/IR_20230501120000.png")
	touch(t, root, "a/notes.txt")
	touch(t, root, "top.jpg")
	touch(t, root, "README")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty.jpg"), 0o755))

	tests := []struct {
		name    string
		pattern string
		exts    []string
		want    []string
	}{
		{
			name:    "recursive with allow-list is lexicographic",
			pattern: "**/*.*",
			exts:    []string{".jpg", ".png"},
			want:    []string{"a/IR_20230501120000.png", "b/2023-05-01-12-00-00_V.JPG", "top.jpg"},
		},
		{
			name:    "empty allow-list admits everything matching the glob",
			pattern: "**/*.*",
			want:    []string{"a/IR_20230501120000.png", "a/notes.txt", "b/2023-05-01-12-00-00_V.JPG", "top.jpg"},
		},
		{
			name:    "non-recursive stays at the root",
			pattern: "*.*",
			exts:    []string{".jpg"},
			want:    []string{"top.jpg"},
		},
		{
			name:    "extensions without dots are normalized",
			pattern: "**/*",
			exts:    []string{"PNG"},
			want:    []string{"a/IR_20230501120000.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(t, root, tt.pattern, tt.exts))
		})
	}
}

func TestFilesFollowsFileSymlinks(t *testing.T) {
	root := t.TempDir()
	target := touch(t, t.TempDir(), "GREY_2023-05-01-12-00-00.jpg")
	require.NoError(t, os.Symlink(target, filepath.Join(root, "GREY_2023-05-01-12-00-00.jpg")))
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.jpg"), filepath.Join(root, "dangling.jpg")))
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(root, "linked.jpg")))

	assert.Equal(t, []string{"GREY_2023-05-01-12-00-00.jpg"}, collect(t, root, "**/*.*", []string{".jpg"}))
}

func TestFilesStopsEarly(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		touch(t, root, name)
	}

	var got []string
	for path, err := range Files(root, "**/*.jpg", nil) {
		require.NoError(t, err)
		got = append(got, filepath.Base(path))
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got)
}

func TestFilesMissingRoot(t *testing.T) {
	var errs int
	for path, err := range Files(filepath.Join(t.TempDir(), "nope"), "**/*.*", nil) {
		assert.Empty(t, path)
		assert.Error(t, err)
		errs++
	}
	assert.Equal(t, 1, errs)
}

func TestFilesBadPattern(t *testing.T) {
	for _, err := range Files(t.TempDir(), "**/[", nil) {
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid pattern")
	}
}

func TestAllowed(t *testing.T) {
	exts := []string{".jpg", ".png"}
	assert.True(t, Allowed("x/y.JPG", exts))
	assert.True(t, Allowed("x/y.png", exts))
	assert.False(t, Allowed("x/y.tif", exts))
	assert.False(t, Allowed("x/y", exts))
	assert.True(t, Allowed("x/y.tif", nil))
}
