// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LegacyRecord is one historical annotation entry from the legacy dataset
// document. Fields are kept as loosely typed values because the legacy
// exporter wrote numbers and numeric strings interchangeably; coercion
// happens when the record is merged onto a pair.
type LegacyRecord struct {
	// CreateTime is the capture time, possibly with a sub-second fraction
	// (e.g. "2023-05-01 12:00:00.123").
	CreateTime string `json:"create_time"`

	// ShootLatLng is a string-encoded two-element coordinate list,
	// e.g. `["113.27","23.13"]`.
	ShootLatLng LooseValue `json:"shoot_latlng"`

	Temp      LooseValue `json:"temp"`
	WindDir   LooseValue `json:"wind_dir"`
	WindScale LooseValue `json:"wind_scale"`
	WindSpeed LooseValue `json:"wind_speed"`
	Humidity  LooseValue `json:"humidity"`
	Precip    LooseValue `json:"precip"`
	Pressure  LooseValue `json:"pressure"`
	Vis       LooseValue `json:"vis"`
	Cloud     LooseValue `json:"cloud"`
	AS        LooseValue `json:"AS"`
	HS        LooseValue `json:"HS"`
}

// LegacyDocument is the top-level legacy dataset file.
type LegacyDocument struct {
	Records []LegacyRecord `json:"RECORDS"`
}

type looseKind int

const (
	looseAbsent looseKind = iota
	looseNull
	looseString
	looseNumber
	looseBool
	looseComposite
)

// LooseValue holds a JSON scalar that may arrive as a string, a number, or
// not at all. The zero value is an absent field.
type LooseValue struct {
	kind looseKind
	text string
}

// UnmarshalJSON records the value's JSON kind alongside its text.
func (v *LooseValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = LooseValue{kind: looseNull}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = LooseValue{kind: looseString, text: s}
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*v = LooseValue{kind: looseBool, text: string(data)}
	case len(data) > 0 && (data[0] == '[' || data[0] == '{'):
		*v = LooseValue{kind: looseComposite, text: string(data)}
	default:
		*v = LooseValue{kind: looseNumber, text: string(data)}
	}
	return nil
}

// MarshalJSON writes the value back in its original JSON kind.
func (v LooseValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case looseString:
		return json.Marshal(v.text)
	case looseNumber, looseBool, looseComposite:
		return []byte(v.text), nil
	default:
		return []byte("null"), nil
	}
}

// LooseString builds a value that decoded from a JSON string.
func LooseString(s string) LooseValue {
	return LooseValue{kind: looseString, text: s}
}

// LooseNumber builds a value that decoded from a JSON number literal.
func LooseNumber(literal string) LooseValue {
	return LooseValue{kind: looseNumber, text: literal}
}

// Present reports whether the field appeared in the document at all.
func (v LooseValue) Present() bool {
	return v.kind != looseAbsent
}

// Raw returns the JSON-decoded string for string values and the literal
// text for everything else.
func (v LooseValue) Raw() string {
	return v.text
}

// IsComposite reports whether the value was a JSON array or object.
func (v LooseValue) IsComposite() bool {
	return v.kind == looseComposite
}

// intBound is 2^(IntSize-1); truncated numbers must lie in [-intBound, intBound).
var intBound = math.Ldexp(1, strconv.IntSize-1)

// Int coerces the value to an integer. Numbers are truncated toward zero
// and must fit in an int; strings must hold a base-10 integer (surrounding
// whitespace allowed).
func (v LooseValue) Int() (int, error) {
	switch v.kind {
	case looseNumber:
		if n, err := strconv.Atoi(v.text); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, fmt.Errorf("invalid integer %s", v.text)
		}
		f = math.Trunc(f)
		if f < -intBound || f >= intBound {
			return 0, fmt.Errorf("integer %s out of range", v.text)
		}
		return int(f), nil
	case looseString:
		n, err := strconv.Atoi(strings.TrimSpace(v.text))
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q", v.text)
		}
		return n, nil
	case looseBool:
		if v.text == "true" {
			return 1, nil
		}
		return 0, nil
	case looseAbsent:
		return 0, fmt.Errorf("invalid integer: value missing")
	default:
		return 0, fmt.Errorf("invalid integer %s", v.describe())
	}
}

// Float coerces the value to a finite float64.
func (v LooseValue) Float() (float64, error) {
	switch v.kind {
	case looseNumber, looseString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, fmt.Errorf("invalid number %q", v.text)
		}
		return f, nil
	case looseBool:
		if v.text == "true" {
			return 1, nil
		}
		return 0, nil
	case looseAbsent:
		return 0, fmt.Errorf("invalid number: value missing")
	default:
		return 0, fmt.Errorf("invalid number %s", v.describe())
	}
}

func (v LooseValue) describe() string {
	if v.kind == looseNull {
		return "null"
	}
	return v.text
}
