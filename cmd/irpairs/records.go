// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/irpairs/internal/store"
	"github.com/pdiddy/irpairs/pkg/types"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect rows of the records database",
}

// --- list subcommand ---

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	Long: `List prints every stored record in id order. On a terminal the rows are
drawn as a table; otherwise, or with --json, they are written as JSON.
--unlabeled restricts the list to records with no feature tags yet.`,
	RunE: runRecordsList,
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	unlabeled, _ := cmd.Flags().GetBool("unlabeled")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	rows, err := s.All(context.Background())
	if err != nil {
		return err
	}
	if unlabeled {
		rows = filterUnlabeled(rows)
	}

	out := cmd.OutOrStdout()
	if jsonOutput || !isTerminal(out) {
		if rows == nil {
			rows = []store.Row{}
		}
		return writeJSON(out, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No records found.")
		return nil
	}
	fmt.Fprintln(out, renderRecords(rows))
	fmt.Fprintf(out, "\n%d records\n", len(rows))
	return nil
}

func filterUnlabeled(rows []store.Row) []store.Row {
	var out []store.Row
	for _, r := range rows {
		if len(r.Feature) == 0 {
			out = append(out, r)
		}
	}
	return out
}

func renderRecords(rows []store.Row) string {
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		body = append(body, []string{
			strconv.FormatInt(r.ID, 10),
			r.TimeStamp,
			truncate(r.Original, 40),
			r.Weather,
			formatTemperature(r.Temperature),
			formatFeatures(r.Feature),
			fmt.Sprintf("%.6f, %.6f", r.ShootingPosition.Lon, r.ShootingPosition.Lat),
		})
	}
	return renderTable(
		[]string{"ID", "Time", "Original", "Weather", "Temp", "Feature", "Position"},
		body,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

// --- show subcommand ---

var recordsShowCmd = &cobra.Command{
	Use:   "show <original>",
	Short: "Print one record by its original capture path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		row, err := s.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), row)
	},
}

// --- shared helpers ---

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "..." + string(r[len(r)-n+3:])
}

func formatTemperature(t *int) string {
	if t == nil {
		return "-"
	}
	return strconv.Itoa(*t)
}

func formatFeatures(tags []types.FeatureTag) string {
	if tags == nil {
		return "-"
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func init() {
	recordsCmd.PersistentFlags().String("db", types.DefaultDatabaseFile, "SQLite database path")

	recordsListCmd.Flags().Bool("unlabeled", false, "only records without feature tags")
	recordsListCmd.Flags().Bool("json", false, "output records as JSON")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsShowCmd)

	rootCmd.AddCommand(recordsCmd)
}
