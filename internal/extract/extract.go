// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns image filenames into Descriptors by applying the
// ordered timestamp, weather and image-kind rule tables to the filename
// stem. Pixel data is never read.
package extract

import (
	"iter"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/pdiddy/irpairs/pkg/types"
)

// Describe extracts a Descriptor from one file path. Fields whose rule
// table found no match are left empty (Kind stays KindUnknown).
func Describe(path string) types.Descriptor {
	stem := Stem(path)
	d := types.Descriptor{Path: path}

	if m := FirstMatch(TimestampRules, stem); m.OK {
		d.Timestamp = m.Value
	}
	if m := FirstMatch(WeatherRules, stem); m.OK {
		d.WeatherToken = m.Value.Weather
		d.TemperatureToken = m.Value.Temperature
	}
	if m := FirstMatch(KindRules, stem); m.OK {
		d.Kind = m.Value
	}
	return d
}

// Stem returns the normalized filename stem used for rule matching: the
// base name without its final extension, composed to NFC with full-width
// characters folded to their ASCII forms ("２０２３" becomes "2023").
func Stem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return width.Fold.String(norm.NFC.String(stem))
}

// Stream maps a sequence of paths to Descriptors. Errors from the source
// sequence are passed through unchanged with a zero Descriptor.
func Stream(paths iter.Seq2[string, error]) iter.Seq2[types.Descriptor, error] {
	return func(yield func(types.Descriptor, error) bool) {
		for path, err := range paths {
			if err != nil {
				if !yield(types.Descriptor{}, err) {
					return
				}
				continue
			}
			if !yield(Describe(path), nil) {
				return
			}
		}
	}
}
