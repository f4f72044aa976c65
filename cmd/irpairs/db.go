// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/irpairs/internal/dataset"
	"github.com/pdiddy/irpairs/internal/store"
	"github.com/pdiddy/irpairs/pkg/types"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Convert the dataset to and from the SQLite records database",
	Long: `The labeling workflow edits records in a SQLite database with one row per
pair. import rebuilds that database from a dataset file; export writes the
database back out as a dataset file.`,
}

// --- import subcommand ---

var dbImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Rebuild the records database from a dataset file",
	Long: `Import deletes the existing database file, creates the records table and
inserts one row per dataset record. Feature lists and shooting positions
are stored as JSON text.`,
	RunE: runDBImport,
}

func runDBImport(cmd *cobra.Command, args []string) error {
	input := stringSetting(cmd, "input", keyOutputFile)
	dbPath := stringSetting(cmd, "db", keyDatabaseFile)

	doc, err := dataset.Read(input)
	if err != nil {
		return err
	}
	n, err := store.Import(context.Background(), dbPath, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records from %s into %s\n", n, input, dbPath)
	return nil
}

// --- export subcommand ---

var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the records database out as a dataset file",
	RunE:  runDBExport,
}

func runDBExport(cmd *cobra.Command, args []string) error {
	output := stringSetting(cmd, "output", keyOutputFile)
	yamlFile, _ := cmd.Flags().GetString("yaml")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.Export(context.Background())
	if err != nil {
		return err
	}
	if err := dataset.Write(output, doc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", len(doc.Records), output)

	if yamlFile != "" {
		if err := dataset.WriteYAML(yamlFile, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported YAML copy to %s\n", yamlFile)
	}
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	return store.Open(context.Background(), stringSetting(cmd, "db", keyDatabaseFile))
}

func init() {
	dbCmd.PersistentFlags().String("db", types.DefaultDatabaseFile, "SQLite database path")

	dbImportCmd.Flags().String("input", types.DefaultOutputFile, "dataset file to import")

	dbExportCmd.Flags().String("output", types.DefaultOutputFile, "dataset file to write")
	dbExportCmd.Flags().String("yaml", "", "also write a YAML copy to this path")

	dbCmd.AddCommand(dbImportCmd)
	dbCmd.AddCommand(dbExportCmd)

	rootCmd.AddCommand(dbCmd)
}
