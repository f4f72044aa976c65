//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

func irpairs(args ...string) error {
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Scan builds the CLI and runs the curation pipeline over images/, merging
// ir_database.json when it exists.
func Scan() error {
	mg.Deps(Build)
	args := []string{"scan"}
	if _, err := os.Stat("ir_database.json"); err == nil {
		args = append(args, "--legacy", "ir_database.json")
	}
	return irpairs(args...)
}

// Import rebuilds database.db from database.json.
func Import() error {
	mg.Deps(Build)
	return irpairs("db", "import")
}

// Export writes database.db back to database.json.
func Export() error {
	mg.Deps(Build)
	return irpairs("db", "export")
}
