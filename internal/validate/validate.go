// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate filters aggregated pairs down to complete pairs whose
// files exist on disk.
package validate

import (
	"os"
	"path/filepath"

	"github.com/pdiddy/irpairs/internal/discover"
	"github.com/pdiddy/irpairs/pkg/types"
)

// DefaultReserved lists placeholder paths that never count as a capture.
var DefaultReserved = []string{"not_file"}

// Reason explains why a pair was rejected. The empty Reason means valid.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonMissingOriginal  Reason = "missing original"
	ReasonMissingProcessed Reason = "missing processed"
	ReasonPlaceholder      Reason = "placeholder path"
	ReasonExtension        Reason = "extension not allowed"
	ReasonNotFile          Reason = "not a regular file"
)

// Options configures validation.
type Options struct {
	// Root is the discovery root. A slot equal to it is a no-match sentinel.
	Root string

	// Extensions is the allow-list shared with discovery.
	Extensions []string

	// Reserved lists placeholder paths to reject. Nil uses DefaultReserved.
	Reserved []string
}

// Check returns why p is not a complete, on-disk pair, or ReasonNone.
func Check(p *types.Pair, opts Options) Reason {
	if p.Original == "" {
		return ReasonMissingOriginal
	}
	if p.Processed == "" {
		return ReasonMissingProcessed
	}

	reserved := opts.Reserved
	if reserved == nil {
		reserved = DefaultReserved
	}
	exts := discover.NormalizeExtensions(opts.Extensions)

	for _, path := range []string{p.Original, p.Processed} {
		if isPlaceholder(path, opts.Root, reserved) {
			return ReasonPlaceholder
		}
		if !discover.Allowed(path, exts) {
			return ReasonExtension
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return ReasonNotFile
		}
	}
	return ReasonNone
}

func isPlaceholder(path, root string, reserved []string) bool {
	clean := filepath.Clean(path)
	if clean == "." {
		return true
	}
	if root != "" && clean == filepath.Clean(root) {
		return true
	}
	for _, r := range reserved {
		if clean == filepath.Clean(r) {
			return true
		}
	}
	return false
}

// Filter returns a new map holding only the pairs that pass Check. Pairs
// are not copied or modified.
func Filter(pairs map[string]*types.Pair, opts Options) map[string]*types.Pair {
	valid, _ := Partition(pairs, opts)
	return valid
}

// Partition splits pairs into the valid map and the rejection reason for
// every dropped key.
func Partition(pairs map[string]*types.Pair, opts Options) (map[string]*types.Pair, map[string]Reason) {
	valid := make(map[string]*types.Pair, len(pairs))
	rejected := make(map[string]Reason)
	for key, p := range pairs {
		if reason := Check(p, opts); reason != ReasonNone {
			rejected[key] = reason
			continue
		}
		valid[key] = p
	}
	return valid, rejected
}
