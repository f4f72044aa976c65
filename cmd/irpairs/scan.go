// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/irpairs/internal/pipeline"
	"github.com/pdiddy/irpairs/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover, pair and annotate images, then write the dataset",
	Long: `Scan walks the images directory, extracts the capture time, weather,
temperature and camera kind from each filename, pairs originals with
infrared captures taken at the same second, drops incomplete pairs, merges
the legacy annotation file and known site positions, and writes the
curated dataset as JSON.

Running scan twice over the same inputs produces the same output.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	cfg := curateConfig(cmd)
	out := cmd.OutOrStdout()
	summary, err := pipeline.Run(cfg, logger, out)
	if err != nil {
		return err
	}

	if isTerminal(out) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderSummary(summary))
		return nil
	}
	writeSummaryLine(out, summary)
	return nil
}

func curateConfig(cmd *cobra.Command) types.CurateConfig {
	yamlFile, _ := cmd.Flags().GetString("yaml")
	return types.CurateConfig{
		DiscoveryConfig: types.DiscoveryConfig{
			ImagesDir:  stringSetting(cmd, "images-dir", keyImagesDir),
			Pattern:    stringSetting(cmd, "pattern", keyPattern),
			Extensions: sliceSetting(cmd, "ext", keyExtensions),
		},
		LegacyFile: stringSetting(cmd, "legacy", keyLegacyFile),
		OutputFile: stringSetting(cmd, "output", keyOutputFile),
		SitesFile:  stringSetting(cmd, "sites", keySitesFile),
		YAMLFile:   yamlFile,
	}
}

func renderSummary(s pipeline.Summary) string {
	rows := [][]string{
		{"files discovered", strconv.Itoa(s.Discovered)},
		{"without timestamp", strconv.Itoa(s.Skipped)},
		{"pairs", strconv.Itoa(s.Pairs)},
		{"slot collisions", strconv.Itoa(s.Collisions)},
		{"valid pairs", strconv.Itoa(s.Valid)},
	}
	for _, r := range slices.Sorted(maps.Keys(s.Rejected)) {
		rows = append(rows, []string{"  dropped: " + string(r), strconv.Itoa(s.Rejected[r])})
	}
	rows = append(rows,
		[]string{"legacy records", strconv.Itoa(s.LegacyRecords)},
		[]string{"legacy matched", strconv.Itoa(s.LegacyMatched)},
		[]string{"site positions", strconv.Itoa(s.GeoOverridden)},
		[]string{"records written", strconv.Itoa(s.Emitted)},
	)
	return renderTable([]string{"Stage", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

func writeSummaryLine(w io.Writer, s pipeline.Summary) {
	fmt.Fprintf(w, "run %s: %d records from %d pairs\n", s.RunID, s.Emitted, s.Pairs)
}

func init() {
	scanCmd.Flags().String("images-dir", types.DefaultImagesDir, "root directory of the captures")
	scanCmd.Flags().String("pattern", types.DefaultPattern, `glob matched against file names; a leading "**/" recurses`)
	scanCmd.Flags().StringSlice("ext", types.DefaultExtensions, "allowed file extensions (case-insensitive)")
	scanCmd.Flags().String("legacy", "", "legacy annotation file to merge (e.g. ir_database.json)")
	scanCmd.Flags().String("output", types.DefaultOutputFile, "output dataset path")
	scanCmd.Flags().String("sites", "", "YAML file of extra site positions")
	scanCmd.Flags().String("yaml", "", "also write a YAML copy of the dataset to this path")

	rootCmd.AddCommand(scanCmd)
}
