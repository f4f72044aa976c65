// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/irpairs/pkg/types"
)

const legacyJSON = `{
  "RECORDS": [
    {
      "create_time": "2023-05-01 12:00:00.123",
      "shoot_latlng": "[\"113.5\",\"23.25\"]",
      "temp": "21",
      "wind_dir": "东南风",
      "wind_scale": "3",
      "wind_speed": 12,
      "humidity": "65",
      "precip": "0.4",
      "pressure": 1008,
      "vis": "25",
      "cloud": 40,
      "AS": 12.5,
      "HS": "0.75"
    },
    {
      "create_time": "2023-05-02 08:00:00",
      "temp": 18.0
    },
    {
      "create_time": "",
      "temp": "not used"
    },
    {
      "create_time": "2019-01-01 00:00:00.5",
      "temp": "x"
    }
  ]
}`

func writeLegacy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ir_database.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func samplePairs() map[string]*types.Pair {
	a := types.NewPair("2023-05-01 12:00:00")
	a.Original, a.Processed = "a_V.jpg", "a_T.jpg"
	a.Metadata.Weather = "晴"
	a.Metadata.Temperature = types.IntPtr(30)

	b := types.NewPair("2023-05-02 08:00:00")
	b.Original, b.Processed = "b_V.jpg", "b_T.jpg"
	b.Metadata.ShootingPosition = types.Position{Lon: 1, Lat: 2}

	c := types.NewPair("2023-05-03 09:00:00")
	c.Original, c.Processed = "c_V.jpg", "c_T.jpg"
	c.Metadata.Temperature = types.IntPtr(9)

	return map[string]*types.Pair{a.Key(): a, b.Key(): b, c.Key(): c}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "2023-05-01 12:00:00", Key("2023-05-01 12:00:00.123"))
	assert.Equal(t, "2023-05-01 12:00:00", Key("2023-05-01 12:00:00"))
	assert.Equal(t, "", Key(""))
}

func TestApply(t *testing.T) {
	records, err := Load(writeLegacy(t, legacyJSON))
	require.NoError(t, err)
	require.Len(t, records, 4)

	pairs := samplePairs()
	stats, err := Apply(pairs, records)
	require.NoError(t, err)
	assert.Equal(t, Stats{Records: 3, Matched: 2, Pairs: 2}, stats)

	a := pairs["2023-05-01 12:00:00"].Metadata
	assert.Equal(t, types.Position{Lon: 113.5, Lat: 23.25}, a.ShootingPosition)
	assert.Equal(t, 21, *a.Temperature)
	assert.Equal(t, "东南风", a.WindDir)
	assert.Equal(t, 3, a.WindScale)
	assert.Equal(t, 12, a.WindSpeed)
	assert.Equal(t, 65, a.Humidity)
	assert.InDelta(t, 0.4, a.Precip, 1e-9)
	assert.Equal(t, 1008, a.Pressure)
	assert.Equal(t, 25, a.Vis)
	assert.Equal(t, 40, a.Cloud)
	assert.InDelta(t, 12.5, a.AS, 1e-9)
	assert.InDelta(t, 0.75, a.HS, 1e-9)
	assert.Equal(t, "晴", a.Weather, "weather is not a legacy field")

	b := pairs["2023-05-02 08:00:00"].Metadata
	assert.Equal(t, types.Position{}, b.ShootingPosition, "absent position resets to origin")
	assert.Equal(t, 18, *b.Temperature)
	assert.Zero(t, b.WindScale)
	assert.Empty(t, b.WindDir)

	c := pairs["2023-05-03 09:00:00"].Metadata
	assert.Equal(t, 9, *c.Temperature, "unmatched pair untouched")
}

func TestApplyIsIdempotent(t *testing.T) {
	records, err := Load(writeLegacy(t, legacyJSON))
	require.NoError(t, err)

	once := samplePairs()
	_, err = Apply(once, records)
	require.NoError(t, err)

	twice := samplePairs()
	_, err = Apply(twice, records)
	require.NoError(t, err)
	_, err = Apply(twice, records)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestApplyTemperatureCoercionIsFatal(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{"non-numeric string", `{"create_time": "2023-05-01 12:00:00", "temp": "warm"}`},
		{"decimal string", `{"create_time": "2023-05-01 12:00:00", "temp": "21.5"}`},
		{"missing", `{"create_time": "2023-05-01 12:00:00"}`},
		{"null", `{"create_time": "2023-05-01 12:00:00", "temp": null}`},
		{"bad humidity", `{"create_time": "2023-05-01 12:00:00", "temp": "20", "humidity": "wet"}`},
		{"bad precip", `{"create_time": "2023-05-01 12:00:00", "temp": "20", "precip": "a lot"}`},
		{"temp overflows int", `{"create_time": "2023-05-01 12:00:00", "temp": 1e30}`},
		{"vis overflows int", `{"create_time": "2023-05-01 12:00:00", "temp": "20", "vis": -1e19}`},
		{"NaN precip", `{"create_time": "2023-05-01 12:00:00", "temp": "20", "precip": "NaN"}`},
		{"infinite AS", `{"create_time": "2023-05-01 12:00:00", "temp": "20", "AS": "+Inf"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Load(writeLegacy(t, `{"RECORDS": [`+tt.record+`]}`))
			require.NoError(t, err)

			pairs := samplePairs()
			before := pairs["2023-05-01 12:00:00"].Clone()

			_, err = Apply(pairs, records)
			require.ErrorIs(t, err, ErrCoercion)
			assert.Equal(t, before, pairs["2023-05-01 12:00:00"], "failed record must not partially apply")
		})
	}
}

// A bad temperature on a record that matches no pair is never coerced.
func TestApplyIgnoresUnmatchedBadRecords(t *testing.T) {
	records, err := Load(writeLegacy(t, `{"RECORDS": [{"create_time": "2001-01-01 00:00:00", "temp": "warm"}]}`))
	require.NoError(t, err)
	stats, err := Apply(samplePairs(), records)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Matched)
}

func TestApplyLaterRecordWins(t *testing.T) {
	records := []types.LegacyRecord{
		{CreateTime: "2023-05-01 12:00:00.1", Temp: types.LooseString("10")},
		{CreateTime: "2023-05-01 12:00:00.9", Temp: types.LooseString("11")},
	}
	pairs := samplePairs()
	stats, err := Apply(pairs, records)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 1, stats.Pairs)
	assert.Equal(t, 11, *pairs["2023-05-01 12:00:00"].Metadata.Temperature)
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name string
		json string
		want types.Position
	}{
		{"string encoded", `"[\"118.3\",\"24.6\"]"`, types.Position{Lon: 118.3, Lat: 24.6}},
		{"string encoded numbers", `"[118.3, 24.6]"`, types.Position{Lon: 118.3, Lat: 24.6}},
		{"bare array", `["1.5", 2.5]`, types.Position{Lon: 1.5, Lat: 2.5}},
		{"default literal", `"[\"0.0\",\"0.0\"]"`, types.Position{}},
		{"malformed", `"not json"`, types.Position{}},
		{"too short", `"[\"1.0\"]"`, types.Position{}},
		{"non-numeric element", `"[\"east\",\"1\"]"`, types.Position{}},
		{"null", `null`, types.Position{}},
		{"number", `5`, types.Position{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v types.LooseValue
			require.NoError(t, json.Unmarshal([]byte(tt.json), &v))
			assert.Equal(t, tt.want, ParsePosition(v))
		})
	}
	assert.Equal(t, types.Position{}, ParsePosition(types.LooseValue{}))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeLegacy(t, `{"RECORDS": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing legacy dataset")
}
