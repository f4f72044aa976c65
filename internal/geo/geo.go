// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geo applies fixed shooting positions to pairs captured at known
// survey sites, identified by a marker substring in the capture path.
package geo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/irpairs/pkg/types"
)

// Site maps a path marker to the site's coordinates.
type Site struct {
	// Marker is matched as a substring of the absolute original path.
	Marker string `yaml:"marker"`

	Lon float64 `yaml:"lon"`
	Lat float64 `yaml:"lat"`
}

// Position returns the site's coordinates.
func (s Site) Position() types.Position {
	return types.Position{Lon: s.Lon, Lat: s.Lat}
}

// DefaultSites is the built-in override table. Order matters: the first
// site whose marker appears in a path wins.
var DefaultSites = []Site{
	{Marker: "长大", Lon: 113.271431, Lat: 23.135336},
	{Marker: "厦大", Lon: 118.317851, Lat: 24.609725},
}

type sitesFile struct {
	Sites []Site `yaml:"sites"`
}

// LoadSites reads extra sites from a YAML file of the form
//
//	sites:
//	  - marker: 福大
//	    lon: 119.19
//	    lat: 26.06
func LoadSites(path string) ([]Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sites file: %w", err)
	}
	var f sitesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing sites file %s: %w", path, err)
	}
	for i, s := range f.Sites {
		if s.Marker == "" {
			return nil, fmt.Errorf("sites file %s: entry %d has no marker", path, i)
		}
	}
	return f.Sites, nil
}

// Lookup returns the first site whose marker occurs in path.
func Lookup(path string, sites []Site) (Site, bool) {
	for _, s := range sites {
		if strings.Contains(path, s.Marker) {
			return s, true
		}
	}
	return Site{}, false
}

// Apply overwrites the shooting position of every pair whose absolute
// original path contains a site marker, regardless of any earlier value.
// It returns the number of pairs changed.
func Apply(pairs map[string]*types.Pair, sites []Site) int {
	n := 0
	for _, p := range pairs {
		site, ok := Lookup(absolute(p.Original), sites)
		if !ok {
			continue
		}
		p.Metadata.ShootingPosition = site.Position()
		n++
	}
	return n
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
