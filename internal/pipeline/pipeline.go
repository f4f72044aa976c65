// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the curation stages end to end: discovery,
// extraction, aggregation, validation, legacy reconciliation, geo
// override and dataset emission.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/pdiddy/irpairs/internal/aggregate"
	"github.com/pdiddy/irpairs/internal/dataset"
	"github.com/pdiddy/irpairs/internal/discover"
	"github.com/pdiddy/irpairs/internal/extract"
	"github.com/pdiddy/irpairs/internal/geo"
	"github.com/pdiddy/irpairs/internal/logging"
	"github.com/pdiddy/irpairs/internal/reconcile"
	"github.com/pdiddy/irpairs/internal/validate"
	"github.com/pdiddy/irpairs/pkg/types"
)

// Summary holds the per-stage counts of one run.
type Summary struct {
	RunID string

	Discovered    int
	Skipped       int
	Pairs         int
	Collisions    int
	Valid         int
	Rejected      map[validate.Reason]int
	LegacyRecords int
	LegacyMatched int
	GeoOverridden int
	Emitted       int

	// Document is the emitted dataset.
	Document dataset.Document
}

// Dropped returns the number of aggregated pairs that failed validation.
func (s Summary) Dropped() int {
	return s.Pairs - s.Valid
}

// Run executes every stage with cfg, writing progress lines to w and
// diagnostics to logger. The output file is only written when every stage
// succeeded.
func Run(cfg types.CurateConfig, logger *slog.Logger, w io.Writer) (Summary, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger, runID := logging.WithRun(logger)
	sum := Summary{RunID: runID, Rejected: make(map[validate.Reason]int)}

	root := cfg.ImagesDir
	if root == "" {
		root = types.DefaultImagesDir
	}
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = types.DefaultPattern
	}
	exts := cfg.Extensions
	if exts == nil {
		exts = types.DefaultExtensions
	}

	fmt.Fprintf(w, "scanning %s (%s)\n", root, pattern)
	agg := aggregate.New()
	for d, err := range extract.Stream(discover.Files(root, pattern, exts)) {
		if err != nil {
			return sum, fmt.Errorf("discovering images: %w", err)
		}
		sum.Discovered++
		if d.Timestamp == "" {
			logger.Debug("no timestamp in filename", "path", d.Path)
		}
		agg.Add(d)
	}
	folded := agg.Result()
	sum.Skipped = folded.Skipped
	sum.Pairs = len(folded.Pairs)
	sum.Collisions = len(folded.Collisions)
	for _, c := range folded.Collisions {
		logger.Warn("capture slot overwritten",
			"time_stamp", c.Timestamp, "slot", string(c.Slot),
			"previous", c.Previous, "current", c.Current)
	}
	fmt.Fprintf(w, "discovered %d files, %d pairs (%d without timestamp)\n",
		sum.Discovered, sum.Pairs, sum.Skipped)

	valid, rejected := validate.Partition(folded.Pairs, validate.Options{
		Root:       root,
		Extensions: exts,
	})
	sum.Valid = len(valid)
	for _, key := range sortedKeys(rejected) {
		reason := rejected[key]
		sum.Rejected[reason]++
		logger.Debug("pair rejected", "time_stamp", key, "reason", string(reason))
	}
	fmt.Fprintf(w, "validated %d pairs, dropped %d\n", sum.Valid, sum.Dropped())

	if cfg.LegacyFile != "" {
		records, err := reconcile.Load(cfg.LegacyFile)
		if err != nil {
			return sum, err
		}
		stats, err := reconcile.Apply(valid, records)
		sum.LegacyRecords = stats.Records
		sum.LegacyMatched = stats.Matched
		if err != nil {
			return sum, fmt.Errorf("reconciling %s: %w", cfg.LegacyFile, err)
		}
		fmt.Fprintf(w, "reconciled %d of %d legacy records\n", stats.Matched, stats.Records)
	}

	sites := geo.DefaultSites
	if cfg.SitesFile != "" {
		extra, err := geo.LoadSites(cfg.SitesFile)
		if err != nil {
			return sum, err
		}
		sites = append(append([]geo.Site(nil), geo.DefaultSites...), extra...)
	}
	sum.GeoOverridden = geo.Apply(valid, sites)
	if sum.GeoOverridden > 0 {
		fmt.Fprintf(w, "applied site positions to %d pairs\n", sum.GeoOverridden)
	}

	doc := dataset.Build(valid)
	sum.Document = doc
	sum.Emitted = len(doc.Records)

	out := cfg.OutputFile
	if out == "" {
		out = types.DefaultOutputFile
	}
	if err := dataset.Write(out, doc); err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "wrote %d records to %s\n", sum.Emitted, out)

	if cfg.YAMLFile != "" {
		if err := dataset.WriteYAML(cfg.YAMLFile, doc); err != nil {
			return sum, err
		}
		fmt.Fprintf(w, "wrote YAML review copy to %s\n", cfg.YAMLFile)
	}

	logger.Info("curation complete",
		"discovered", sum.Discovered,
		"pairs", sum.Pairs,
		"valid", sum.Valid,
		"legacy_matched", sum.LegacyMatched,
		"emitted", sum.Emitted)
	return sum, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
