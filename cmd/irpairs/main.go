// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the irpairs CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/irpairs/internal/logging"
	"github.com/pdiddy/irpairs/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Config keys shared by flags, the config file and IRPAIRS_* variables.
const (
	keyImagesDir    = "images_dir"
	keyPattern      = "pattern"
	keyExtensions   = "extensions"
	keyLegacyFile   = "legacy_file"
	keyOutputFile   = "output_file"
	keyDatabaseFile = "database_file"
	keySitesFile    = "sites_file"
	keyLogLevel     = "log_level"
	keyLogFormat    = "log_format"
)

// rootCmd is the base command for the irpairs CLI.
var rootCmd = &cobra.Command{
	Use:   "irpairs",
	Short: "Curate paired visible/infrared aerial image datasets",
	Long: `irpairs builds a dataset of paired aerial captures: a visible-light
original and the matching infrared image, joined by the capture time
encoded in their filenames.

scan discovers images, pairs them, merges legacy annotations and site
positions, and writes database.json. db converts that file to and from a
SQLite database; records and label inspect and edit the stored rows.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./irpairs.yaml or ~/.config/irpairs/irpairs.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "diagnostic log format: text or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("irpairs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "irpairs"))
		}
	}

	viper.SetEnvPrefix("IRPAIRS")
	viper.AutomaticEnv()

	viper.SetDefault(keyImagesDir, types.DefaultImagesDir)
	viper.SetDefault(keyPattern, types.DefaultPattern)
	viper.SetDefault(keyExtensions, types.DefaultExtensions)
	viper.SetDefault(keyOutputFile, types.DefaultOutputFile)
	viper.SetDefault(keyDatabaseFile, types.DefaultDatabaseFile)
	viper.SetDefault(keyLogLevel, "warn")
	viper.SetDefault(keyLogFormat, "text")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a setting: an explicitly set flag wins, then the
// config file or environment, then the flag's default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

// sliceSetting is stringSetting for list values. Config values may be a
// YAML list or a comma-separated string.
func sliceSetting(cmd *cobra.Command, flag, key string) []string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetStringSlice(flag)
		return v
	}
	if viper.IsSet(key) {
		v := viper.GetStringSlice(key)
		if len(v) == 1 && strings.Contains(v[0], ",") {
			v = strings.Split(v[0], ",")
		}
		return v
	}
	v, _ := cmd.Flags().GetStringSlice(flag)
	return v
}

// newLogger builds the diagnostic logger from --log-level and --log-format.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  stringSetting(cmd, "log-level", keyLogLevel),
		Format: stringSetting(cmd, "log-format", keyLogFormat),
		Output: os.Stderr,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
