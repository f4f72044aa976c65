// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/irpairs/internal/dataset"
	"github.com/pdiddy/irpairs/internal/label"
	"github.com/pdiddy/irpairs/pkg/types"
)

var labelCmd = &cobra.Command{
	Use:   "label <original>",
	Short: "Edit the annotation of one stored record",
	Long: `Label updates the record whose original capture path is <original>.
Only the flags given are changed; every column of the row is then written
back. Feature tags must come from the fixed vocabulary:
forest, water, grass, bare, farmland, road, building, beach.

Example:
  irpairs label images/长大/GREY_2023-05-01-12-00-00.jpg --weather rainy --feature water,road`,
	Args: cobra.ExactArgs(1),
	RunE: runLabel,
}

func runLabel(cmd *cobra.Command, args []string) error {
	edit, err := editFromFlags(cmd)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := label.Apply(context.Background(), s, args[0], edit)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", p.Original)
	return writeJSON(cmd.OutOrStdout(), dataset.FromPair(p))
}

func editFromFlags(cmd *cobra.Command) (label.Edit, error) {
	flags := cmd.Flags()
	var e label.Edit

	if flags.Changed("weather") {
		v, _ := flags.GetString("weather")
		e.Weather = &v
	}
	if flags.Changed("feature") {
		e.Feature, _ = flags.GetStringSlice("feature")
		if e.Feature == nil {
			e.Feature = []string{}
		}
	}
	e.ClearFeature, _ = flags.GetBool("clear-feature")

	lonSet, latSet := flags.Changed("lon"), flags.Changed("lat")
	if lonSet != latSet {
		return e, fmt.Errorf("--lon and --lat must be given together")
	}
	if lonSet {
		lon, _ := flags.GetFloat64("lon")
		lat, _ := flags.GetFloat64("lat")
		e.Position = &types.Position{Lon: lon, Lat: lat}
	}
	if flags.Changed("wind-dir") {
		v, _ := flags.GetString("wind-dir")
		e.WindDir = &v
	}
	if flags.Changed("precip") {
		v, _ := flags.GetFloat64("precip")
		e.Precip = &v
	}

	ints := []struct {
		flag string
		dst  **int
	}{
		{"temperature", &e.Temperature},
		{"wind-scale", &e.WindScale},
		{"wind-speed", &e.WindSpeed},
		{"humidity", &e.Humidity},
		{"pressure", &e.Pressure},
		{"vis", &e.Vis},
		{"cloud", &e.Cloud},
	}
	for _, f := range ints {
		if flags.Changed(f.flag) {
			v, _ := flags.GetInt(f.flag)
			*f.dst = &v
		}
	}
	return e, nil
}

func addLabelFlags(cmd *cobra.Command) {
	cmd.Flags().String("weather", "", "weather: sunny, overcast, cloudy, rainy, snowy, foggy")
	cmd.Flags().StringSlice("feature", nil, "comma-separated feature tags")
	cmd.Flags().Bool("clear-feature", false, "mark the record as unlabeled")
	cmd.Flags().Float64("lon", 0, "shooting position longitude")
	cmd.Flags().Float64("lat", 0, "shooting position latitude")
	cmd.Flags().Int("temperature", 0, "temperature in degrees Celsius")
	cmd.Flags().String("wind-dir", "", "wind direction")
	cmd.Flags().Int("wind-scale", 0, "wind scale")
	cmd.Flags().Int("wind-speed", 0, "wind speed")
	cmd.Flags().Int("humidity", 0, "relative humidity, 0-100")
	cmd.Flags().Float64("precip", 0, "precipitation in millimetres")
	cmd.Flags().Int("pressure", 0, "air pressure")
	cmd.Flags().Int("vis", 0, "visibility")
	cmd.Flags().Int("cloud", 0, "cloud cover, 0-100")
}

func init() {
	labelCmd.Flags().String("db", types.DefaultDatabaseFile, "SQLite database path")
	addLabelFlags(labelCmd)

	rootCmd.AddCommand(labelCmd)
}
