// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset builds, writes and reads the curated dataset document:
// a JSON object with a single RECORDS array holding one flattened record
// per pair.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/irpairs/pkg/types"
)

// Record is a flattened pair as stored in the dataset document and the
// relational store.
type Record struct {
	Original         string             `json:"original" yaml:"original"`
	Processed        string             `json:"processed" yaml:"processed"`
	TimeStamp        string             `json:"time_stamp" yaml:"time_stamp"`
	Feature          []types.FeatureTag `json:"feature" yaml:"feature"`
	ShootingPosition types.Position     `json:"shooting_position" yaml:"shooting_position"`
	WindDir          string             `json:"wind_dir" yaml:"wind_dir"`
	WindScale        int                `json:"wind_scale" yaml:"wind_scale"`
	WindSpeed        int                `json:"wind_speed" yaml:"wind_speed"`
	Humidity         int                `json:"humidity" yaml:"humidity"`
	Precip           float64            `json:"precip" yaml:"precip"`
	Pressure         int                `json:"pressure" yaml:"pressure"`
	Vis              int                `json:"vis" yaml:"vis"`
	Cloud            int                `json:"cloud" yaml:"cloud"`
	AS               float64            `json:"AS" yaml:"AS"`
	HS               float64            `json:"HS" yaml:"HS"`

	// Weather is always the canonical form.
	Weather     string `json:"weather" yaml:"weather"`
	Temperature *int   `json:"temperature" yaml:"temperature"`
}

// Document is the top-level dataset file.
type Document struct {
	Records []Record `json:"RECORDS" yaml:"RECORDS"`
}

// FromPair flattens a pair into a record.
func FromPair(p *types.Pair) Record {
	m := p.Metadata
	r := Record{
		Original:         p.Original,
		Processed:        p.Processed,
		TimeStamp:        m.TimeStamp,
		ShootingPosition: m.ShootingPosition,
		WindDir:          m.WindDir,
		WindScale:        m.WindScale,
		WindSpeed:        m.WindSpeed,
		Humidity:         m.Humidity,
		Precip:           m.Precip,
		Pressure:         m.Pressure,
		Vis:              m.Vis,
		Cloud:            m.Cloud,
		AS:               m.AS,
		HS:               m.HS,
		Weather:          m.CanonicalWeather(),
	}
	if m.Feature != nil {
		r.Feature = append([]types.FeatureTag(nil), m.Feature...)
	}
	if m.Temperature != nil {
		t := *m.Temperature
		r.Temperature = &t
	}
	return r
}

// Pair rebuilds a pair from a record.
func (r Record) Pair() *types.Pair {
	p := &types.Pair{
		Original:  r.Original,
		Processed: r.Processed,
		Metadata: types.Metadata{
			TimeStamp:        r.TimeStamp,
			Weather:          r.Weather,
			ShootingPosition: r.ShootingPosition,
			WindDir:          r.WindDir,
			WindScale:        r.WindScale,
			WindSpeed:        r.WindSpeed,
			Humidity:         r.Humidity,
			Precip:           r.Precip,
			Pressure:         r.Pressure,
			Vis:              r.Vis,
			Cloud:            r.Cloud,
			AS:               r.AS,
			HS:               r.HS,
		},
	}
	if r.Feature != nil {
		p.Metadata.Feature = append([]types.FeatureTag(nil), r.Feature...)
	}
	if r.Temperature != nil {
		t := *r.Temperature
		p.Metadata.Temperature = &t
	}
	return p
}

// Build flattens pairs into a document ordered by timestamp, so the same
// pair set always serializes to the same bytes.
func Build(pairs map[string]*types.Pair) Document {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := Document{Records: make([]Record, 0, len(keys))}
	for _, k := range keys {
		doc.Records = append(doc.Records, FromPair(pairs[k]))
	}
	return doc
}

// Marshal encodes the document as indented JSON. Non-ASCII text and HTML
// characters are written verbatim.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshaling dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// Write saves the document as JSON at path.
func Write(path string, doc Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing dataset %s: %w", path, err)
	}
	return nil
}

// WriteYAML saves a YAML rendition of the document for review.
func WriteYAML(path string, doc Document) error {
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Read loads a dataset document from path.
func Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading dataset: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return doc, nil
}
