// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate folds a stream of image Descriptors into dataset pairs
// keyed by capture timestamp.
package aggregate

import (
	"iter"
	"strconv"

	"github.com/pdiddy/irpairs/pkg/types"
)

// Policy names how a later value for an already-set field is merged.
type Policy int

const (
	// Overwrite replaces the earlier value unconditionally (last write wins).
	Overwrite Policy = iota
)

// Slot identifies which side of a pair a descriptor landed in.
type Slot string

const (
	SlotOriginal  Slot = "original"
	SlotProcessed Slot = "processed"
)

// Collision records a descriptor that replaced an already-filled slot. The
// replacement is kept; the record exists so runs can report how often
// same-kind captures collide on one timestamp.
type Collision struct {
	Timestamp string
	Slot      Slot
	Previous  string
	Current   string
}

// Aggregator owns the timestamp → pair map while descriptors are folded in.
// It is the only writer of that map and is not safe for concurrent use;
// concurrent producers must funnel descriptors through a single Add caller
// to keep the last-write-wins order meaningful.
type Aggregator struct {
	policy     Policy
	pairs      map[string]*types.Pair
	order      []string
	skipped    int
	collisions []Collision
}

// New returns an empty aggregator using the Overwrite policy.
func New() *Aggregator {
	return &Aggregator{
		policy: Overwrite,
		pairs:  make(map[string]*types.Pair),
	}
}

// Add folds one descriptor into the accumulator. Descriptors without a
// timestamp are skipped. Infrared captures fill the processed slot; every
// other kind, including unknown, fills the original slot. A non-empty
// weather or temperature token overwrites the pair's current value.
func (a *Aggregator) Add(d types.Descriptor) {
	if d.Timestamp == "" {
		a.skipped++
		return
	}

	pair, ok := a.pairs[d.Timestamp]
	if !ok {
		pair = types.NewPair(d.Timestamp)
		a.pairs[d.Timestamp] = pair
		a.order = append(a.order, d.Timestamp)
	}

	if d.Kind == types.KindInfrared {
		a.assign(pair, SlotProcessed, &pair.Processed, d.Path)
	} else {
		a.assign(pair, SlotOriginal, &pair.Original, d.Path)
	}

	if d.WeatherToken != "" {
		pair.Metadata.Weather = d.WeatherToken
	}
	if d.TemperatureToken != "" {
		if n, err := strconv.Atoi(d.TemperatureToken); err == nil {
			pair.Metadata.Temperature = types.IntPtr(n)
		}
	}
}

func (a *Aggregator) assign(pair *types.Pair, slot Slot, field *string, path string) {
	if *field != "" && *field != path {
		a.collisions = append(a.collisions, Collision{
			Timestamp: pair.Key(),
			Slot:      slot,
			Previous:  *field,
			Current:   path,
		})
	}
	switch a.policy {
	case Overwrite:
		*field = path
	}
}

// Result is the outcome of a fold.
type Result struct {
	// Pairs maps timestamp to pair. Ownership passes to the caller.
	Pairs map[string]*types.Pair

	// Order lists timestamps in first-seen order.
	Order []string

	// Skipped counts descriptors with no timestamp.
	Skipped int

	// Collisions lists slot overwrites in the order they happened.
	Collisions []Collision
}

// Result hands the accumulated pairs to the caller. The aggregator must
// not be used afterwards.
func (a *Aggregator) Result() Result {
	r := Result{
		Pairs:      a.pairs,
		Order:      a.order,
		Skipped:    a.skipped,
		Collisions: a.collisions,
	}
	a.pairs = nil
	a.order = nil
	a.collisions = nil
	return r
}

// Fold consumes descriptors into a fresh Aggregator and returns its result.
func Fold(descriptors iter.Seq[types.Descriptor]) Result {
	a := New()
	for d := range descriptors {
		a.Add(d)
	}
	return a.Result()
}
