// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover lazily enumerates image files under a root directory.
//
// Files are yielded in lexicographic order (the order of filepath.WalkDir).
// Downstream aggregation is last-write-wins, so a fixed order is what keeps
// the curated dataset reproducible across machines.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

const recursivePrefix = "**/"

// errStop ends a walk early when the consumer stops pulling.
var errStop = errors.New("stop")

// Files returns a single-pass sequence of regular files (or symlinks to
// regular files) under root whose
// base name matches pattern. A pattern starting with "**/" descends into
// subdirectories; otherwise only root's direct children are considered.
// When exts is non-empty, files whose extension (case-insensitive) is not
// listed are skipped.
//
// A walk error is yielded once with an empty path and ends the sequence.
func Files(root, pattern string, exts []string) iter.Seq2[string, error] {
	recursive := strings.HasPrefix(pattern, recursivePrefix)
	namePattern := strings.TrimPrefix(pattern, recursivePrefix)
	if namePattern == "" {
		namePattern = "*"
	}
	allowed := NormalizeExtensions(exts)

	return func(yield func(string, error) bool) {
		if _, err := filepath.Match(namePattern, ""); err != nil {
			yield("", fmt.Errorf("invalid pattern %q: %w", pattern, err))
			return
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && !recursive {
					return filepath.SkipDir
				}
				return nil
			}
			if !isFile(path, d) {
				return nil
			}
			if ok, _ := filepath.Match(namePattern, d.Name()); !ok {
				return nil
			}
			if !Allowed(path, allowed) {
				return nil
			}
			if !yield(path, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield("", fmt.Errorf("walking %s: %w", root, err))
		}
	}
}

// isFile reports whether d is a regular file or a symlink resolving to
// one. Symlinked directories are not descended into.
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Allowed reports whether path's extension is in exts, compared
// case-insensitively. An empty list allows everything.
func Allowed(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// NormalizeExtensions lowercases entries and adds a missing leading dot,
// so "JPG" and ".jpg" both work in config files.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
