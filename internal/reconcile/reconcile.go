// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges a legacy annotated dataset into freshly
// validated pairs, matching records to pairs by capture timestamp.
package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/irpairs/pkg/types"
)

// ErrCoercion is returned when a matched legacy record holds a value that
// cannot be converted to the field's type. It aborts the whole pass.
var ErrCoercion = errors.New("legacy value coercion failed")

// Load reads the legacy dataset document. A missing or malformed file is
// an error.
func Load(path string) ([]types.LegacyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading legacy dataset: %w", err)
	}
	var doc types.LegacyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing legacy dataset %s: %w", path, err)
	}
	return doc.Records, nil
}

// Key returns the pairing key for a legacy creation time: everything
// before the first '.', which drops any sub-second fraction.
func Key(createTime string) string {
	key, _, _ := strings.Cut(createTime, ".")
	return key
}

// Stats summarizes a reconciliation pass.
type Stats struct {
	// Records is the number of legacy records with a creation time.
	Records int

	// Matched counts records whose key matched a pair.
	Matched int

	// Pairs counts distinct pairs that received legacy values.
	Pairs int
}

// Apply copies legacy enrichment fields onto the pairs whose timestamp key
// matches a record. Matched fields overwrite whatever the extractor
// produced; pairs without a matching record are untouched. Running Apply
// twice with the same inputs leaves the same metadata as running it once.
//
// Every field of a record is coerced before any is written, so a record
// that fails with ErrCoercion leaves its pair as it was. Records applied
// before the failure keep their values; callers treat the error as fatal
// for the run.
func Apply(pairs map[string]*types.Pair, records []types.LegacyRecord) (Stats, error) {
	var stats Stats
	touched := make(map[string]bool)

	for _, rec := range records {
		if rec.CreateTime == "" {
			continue
		}
		stats.Records++

		key := Key(rec.CreateTime)
		pair, ok := pairs[key]
		if !ok {
			continue
		}

		update, err := coerce(rec)
		if err != nil {
			return stats, fmt.Errorf("legacy record %q: %w", rec.CreateTime, err)
		}
		update.applyTo(&pair.Metadata)

		stats.Matched++
		touched[key] = true
	}

	stats.Pairs = len(touched)
	return stats, nil
}

// enrichment is a fully coerced legacy record.
type enrichment struct {
	position    types.Position
	temperature int
	windDir     string
	windScale   int
	windSpeed   int
	humidity    int
	precip      float64
	pressure    int
	vis         int
	cloud       int
	as          float64
	hs          float64
}

func (e enrichment) applyTo(m *types.Metadata) {
	m.ShootingPosition = e.position
	m.Temperature = types.IntPtr(e.temperature)
	m.WindDir = e.windDir
	m.WindScale = e.windScale
	m.WindSpeed = e.windSpeed
	m.Humidity = e.humidity
	m.Precip = e.precip
	m.Pressure = e.pressure
	m.Vis = e.vis
	m.Cloud = e.cloud
	m.AS = e.as
	m.HS = e.hs
}

// coerce converts a record's loose values. Temperature is mandatory: an
// absent or non-integer temp fails the record. Other numeric fields
// default to zero when absent but fail when present and malformed. The
// position never fails and falls back to (0, 0).
func coerce(rec types.LegacyRecord) (enrichment, error) {
	e := enrichment{position: ParsePosition(rec.ShootLatLng)}

	temp, err := rec.Temp.Int()
	if err != nil {
		return e, fmt.Errorf("%w: temp: %v", ErrCoercion, err)
	}
	e.temperature = temp

	if rec.WindDir.Present() {
		e.windDir = rec.WindDir.Raw()
	}

	ints := []struct {
		name string
		v    types.LooseValue
		dst  *int
	}{
		{"wind_scale", rec.WindScale, &e.windScale},
		{"wind_speed", rec.WindSpeed, &e.windSpeed},
		{"humidity", rec.Humidity, &e.humidity},
		{"pressure", rec.Pressure, &e.pressure},
		{"vis", rec.Vis, &e.vis},
		{"cloud", rec.Cloud, &e.cloud},
	}
	for _, f := range ints {
		if !f.v.Present() {
			continue
		}
		n, err := f.v.Int()
		if err != nil {
			return e, fmt.Errorf("%w: %s: %v", ErrCoercion, f.name, err)
		}
		*f.dst = n
	}

	floats := []struct {
		name string
		v    types.LooseValue
		dst  *float64
	}{
		{"precip", rec.Precip, &e.precip},
		{"AS", rec.AS, &e.as},
		{"HS", rec.HS, &e.hs},
	}
	for _, f := range floats {
		if !f.v.Present() {
			continue
		}
		n, err := f.v.Float()
		if err != nil {
			return e, fmt.Errorf("%w: %s: %v", ErrCoercion, f.name, err)
		}
		*f.dst = n
	}

	return e, nil
}

// ParsePosition decodes a legacy shoot_latlng value. The usual form is a
// JSON string holding a two-element array of numeric strings; a bare JSON
// array is accepted too. Anything absent or malformed yields (0, 0).
func ParsePosition(v types.LooseValue) types.Position {
	if !v.Present() {
		return types.Position{}
	}

	var elems []any
	if err := json.Unmarshal([]byte(v.Raw()), &elems); err != nil || len(elems) < 2 {
		return types.Position{}
	}

	var coords [2]float64
	for i := range coords {
		switch x := elems[i].(type) {
		case float64:
			coords[i] = x
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return types.Position{}
			}
			coords[i] = f
		default:
			return types.Position{}
		}
	}
	return types.Position{Lon: coords[0], Lat: coords[1]}
}
