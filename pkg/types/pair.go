// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the irpairs curation
// pipeline: image descriptors, dataset pairs with their metadata, legacy
// annotation records, and stage configuration.
package types

import (
	"encoding/json"
	"fmt"
)

// ImageKind classifies a capture by its vendor filename prefix.
type ImageKind int

const (
	KindUnknown ImageKind = iota
	KindInfrared
	KindNormal
)

func (k ImageKind) String() string {
	switch k {
	case KindInfrared:
		return "infrared"
	case KindNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// Descriptor is the transient extraction result for one image file. It is
// produced by the extract stage and consumed immediately by the aggregator.
type Descriptor struct {
	// Path is the file path as yielded by discovery.
	Path string

	// Timestamp is the canonical "2006-01-02 15:04:05" capture time, or
	// empty when no timestamp rule matched.
	Timestamp string

	// WeatherToken is the raw weather glyph from the filename (e.g. "晴").
	WeatherToken string

	// TemperatureToken is the raw digit run following the weather glyph.
	TemperatureToken string

	// Kind is the infrared/normal classification.
	Kind ImageKind
}

// Position is a (longitude, latitude) pair. It serializes as a two-element
// JSON array to match the dataset document format.
type Position struct {
	Lon float64
	Lat float64
}

// MarshalJSON encodes the position as [lon, lat].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lon, p.Lat})
}

// UnmarshalJSON decodes a [lon, lat] array.
func (p *Position) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decoding position: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decoding position: want 2 coordinates, got %d", len(pair))
	}
	p.Lon, p.Lat = pair[0], pair[1]
	return nil
}

// MarshalYAML encodes the position as a two-element sequence.
func (p Position) MarshalYAML() (any, error) {
	return []float64{p.Lon, p.Lat}, nil
}

// Metadata is the annotation payload carried by a Pair.
type Metadata struct {
	// TimeStamp is the pairing key, "2006-01-02 15:04:05".
	TimeStamp string

	// Weather is the raw weather token as written by the extractor, the
	// legacy data, or the labeling tool. See CanonicalWeather.
	Weather string

	// Temperature in degrees Celsius; nil when unknown.
	Temperature *int

	// Feature holds land-cover tags. Nil means not yet labeled.
	Feature []FeatureTag

	// ShootingPosition defaults to (0, 0).
	ShootingPosition Position

	WindDir   string
	WindScale int
	WindSpeed int

	// Humidity is a percentage, 0-100.
	Humidity int

	// Precip is precipitation in millimetres.
	Precip float64

	Pressure int
	Vis      int

	// Cloud is cloud cover percentage, 0-100.
	Cloud int

	// AS and HS are sensor-derived values carried through unchanged.
	AS float64
	HS float64
}

// CanonicalWeather maps the raw weather token onto the canonical vocabulary.
// Unrecognized tokens are returned verbatim.
func (m Metadata) CanonicalWeather() string {
	return CanonicalWeather(m.Weather)
}

// Pair is a matched original/infrared capture with its metadata, keyed by
// Metadata.TimeStamp.
type Pair struct {
	// Original is the visible-light capture path.
	Original string

	// Processed is the infrared capture path.
	Processed string

	Metadata Metadata
}

// NewPair returns a pair seeded with its timestamp key.
func NewPair(timeStamp string) *Pair {
	return &Pair{Metadata: Metadata{TimeStamp: timeStamp}}
}

// Key returns the pair's timestamp key.
func (p *Pair) Key() string {
	return p.Metadata.TimeStamp
}

// Complete reports whether both capture slots are filled. It does not check
// the filesystem; see the validate package for that.
func (p *Pair) Complete() bool {
	return p.Original != "" && p.Processed != ""
}

// Clone returns a deep copy of the pair.
func (p *Pair) Clone() *Pair {
	c := *p
	if p.Metadata.Temperature != nil {
		t := *p.Metadata.Temperature
		c.Metadata.Temperature = &t
	}
	if p.Metadata.Feature != nil {
		c.Metadata.Feature = append([]FeatureTag(nil), p.Metadata.Feature...)
	}
	return &c
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
