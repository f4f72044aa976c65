// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package label applies manual annotation edits to stored pairs. An Edit
// names only the fields being changed; validation happens before anything
// is written, and the result is persisted by original path.
package label

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/pdiddy/irpairs/internal/store"
	"github.com/pdiddy/irpairs/pkg/types"
)

// ErrInvalid wraps every validation failure of an Edit.
var ErrInvalid = errors.New("invalid label edit")

// Edit is a partial metadata update. Nil fields are left unchanged.
type Edit struct {
	Weather     *string
	Feature     []string
	Position    *types.Position
	Temperature *int
	WindDir     *string
	WindScale   *int
	WindSpeed   *int
	Humidity    *int
	Precip      *float64
	Pressure    *int
	Vis         *int
	Cloud       *int

	// ClearFeature resets the feature list to unlabeled. It takes
	// precedence over Feature.
	ClearFeature bool
}

// Empty reports whether the edit changes nothing.
func (e Edit) Empty() bool {
	return e.Weather == nil && e.Feature == nil && e.Position == nil &&
		e.Temperature == nil && e.WindDir == nil && e.WindScale == nil &&
		e.WindSpeed == nil && e.Humidity == nil && e.Precip == nil &&
		e.Pressure == nil && e.Vis == nil && e.Cloud == nil && !e.ClearFeature
}

// Validate checks the edit against the fixed vocabularies and value
// ranges. All problems are reported together.
func (e Edit) Validate() error {
	var errs []error
	if e.Weather != nil && !knownWeather(*e.Weather) {
		errs = append(errs, fmt.Errorf("weather %q is not in the vocabulary", *e.Weather))
	}
	for _, f := range e.Feature {
		if _, err := types.ParseFeatureTag(f); err != nil {
			errs = append(errs, err)
		}
	}
	if e.Humidity != nil && (*e.Humidity < 0 || *e.Humidity > 100) {
		errs = append(errs, fmt.Errorf("humidity %d outside 0-100", *e.Humidity))
	}
	if e.Cloud != nil && (*e.Cloud < 0 || *e.Cloud > 100) {
		errs = append(errs, fmt.Errorf("cloud %d outside 0-100", *e.Cloud))
	}
	if e.Precip != nil && *e.Precip < 0 {
		errs = append(errs, fmt.Errorf("precip %g is negative", *e.Precip))
	}
	if e.WindScale != nil && *e.WindScale < 0 {
		errs = append(errs, fmt.Errorf("wind scale %d is negative", *e.WindScale))
	}
	if e.WindSpeed != nil && *e.WindSpeed < 0 {
		errs = append(errs, fmt.Errorf("wind speed %d is negative", *e.WindSpeed))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// ApplyTo returns a copy of p with the edit applied. p is not modified.
func (e Edit) ApplyTo(p *types.Pair) (*types.Pair, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	out := p.Clone()
	m := &out.Metadata
	if e.Weather != nil {
		m.Weather = *e.Weather
	}
	switch {
	case e.ClearFeature:
		m.Feature = nil
	case e.Feature != nil:
		m.Feature = make([]types.FeatureTag, 0, len(e.Feature))
		for _, f := range e.Feature {
			tag, _ := types.ParseFeatureTag(f)
			if !slices.Contains(m.Feature, tag) {
				m.Feature = append(m.Feature, tag)
			}
		}
	}
	if e.Position != nil {
		m.ShootingPosition = *e.Position
	}
	if e.Temperature != nil {
		m.Temperature = types.IntPtr(*e.Temperature)
	}
	setString(&m.WindDir, e.WindDir)
	setInt(&m.WindScale, e.WindScale)
	setInt(&m.WindSpeed, e.WindSpeed)
	setInt(&m.Humidity, e.Humidity)
	if e.Precip != nil {
		m.Precip = *e.Precip
	}
	setInt(&m.Pressure, e.Pressure)
	setInt(&m.Vis, e.Vis)
	setInt(&m.Cloud, e.Cloud)
	return out, nil
}

// Updater persists a labeled pair. *store.Store satisfies it.
type Updater interface {
	Get(ctx context.Context, original string) (store.Row, error)
	Update(ctx context.Context, p *types.Pair) error
}

// Apply loads the pair stored under original, applies the edit and writes
// every field back. It returns the updated pair.
func Apply(ctx context.Context, s Updater, original string, e Edit) (*types.Pair, error) {
	if e.Empty() {
		return nil, fmt.Errorf("%w: nothing to change", ErrInvalid)
	}
	row, err := s.Get(ctx, original)
	if err != nil {
		return nil, err
	}
	p, err := e.ApplyTo(row.Pair())
	if err != nil {
		return nil, err
	}
	if err := s.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("saving label for %s: %w", original, err)
	}
	return p, nil
}

func knownWeather(w string) bool {
	switch types.CanonicalWeather(w) {
	case types.WeatherSunny, types.WeatherOvercast, types.WeatherCloudy,
		types.WeatherRainy, types.WeatherSnowy, types.WeatherFoggy:
		return true
	}
	return false
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
