// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/irpairs/pkg/types"
)

func TestDescribeTimestamp(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"dashed", "images/2023-05-01-12-00-00_IR.jpg", "2023-05-01 12:00:00"},
		{"compact", "images/DJI_20230501120000_0001_T.jpg", "2023-05-01 12:00:00"},
		{"compact embedded", "IR_20221231235959.png", "2022-12-31 23:59:59"},
		{"dashed wins over compact", "2023-05-01-12-00-00_20240101000000.jpg", "2023-05-01 12:00:00"},
		{"invalid dashed falls through to compact", "2023-02-30-12-00-00_20240101000000.jpg", "2024-01-01 00:00:00"},
		{"invalid month everywhere", "2023-13-01-12-00-00.jpg", ""},
		{"invalid hour compact", "20230501250000.jpg", ""},
		{"leap day", "2024-02-29-08-30-00.jpg", "2024-02-29 08:30:00"},
		{"non-leap day", "2023-02-29-08-30-00.jpg", ""},
		{"wrong century", "1999-05-01-12-00-00.jpg", ""},
		{"no timestamp", "GREY_0001.jpg", ""},
		{"full-width digits", "２０２３－０５－０１－１２－００－００.jpg", "2023-05-01 12:00:00"},
		{"only the stem is read", "2023-05-01-12-00-00.d/IR.jpg", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.path)
			assert.Equal(t, tt.want, got.Timestamp)
			assert.Equal(t, tt.path, got.Path)
		})
	}
}

func TestDashedTimestampRoundTrip(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		ts := start.Add(time.Duration(i) * 7919 * time.Minute)
		path := "x/" + ts.Format("2006-01-02-15-04-05") + "_V.jpg"
		assert.Equal(t, ts.Format(TimestampLayout), Describe(path).Timestamp, path)
	}
}

func TestDescribeWeather(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantWeather string
		wantTemp    string
	}{
		{"single glyph", "晴23.jpg", "晴", "23"},
		{"cloudy token with dash", "多云-5.jpg", "多云", "5"},
		{"day suffix", "2023-05-01-12-00-00_阴天18.png", "阴", "18"},
		{"day suffix and dash", "雨天-3.jpg", "雨", "3"},
		{"single digit", "IR_雪1.jpg", "雪", "1"},
		{"fog", "GREY_雾9.jpg", "雾", "9"},
		{"three digits do not match", "晴123.jpg", "", ""},
		{"glyph not at end", "晴23_V.jpg", "", ""},
		{"unknown glyph", "风23.jpg", "", ""},
		{"no digits", "晴.jpg", "", ""},
		{"full-width digits", "晴２３.jpg", "晴", "23"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.path)
			assert.Equal(t, tt.wantWeather, got.WeatherToken)
			assert.Equal(t, tt.wantTemp, got.TemperatureToken)
		})
	}
}

func TestDescribeKind(t *testing.T) {
	tests := []struct {
		path string
		want types.ImageKind
	}{
		{"IR_20230501120000.jpg", types.KindInfrared},
		{"IRX.jpg", types.KindInfrared},
		{"DJI_20230501120000_0001_T.jpg", types.KindInfrared},
		{"DJI_20230501120000_0001_V.jpg", types.KindNormal},
		{"DJI_20230501120000_0001_S.jpg", types.KindNormal},
		{"GREY_20230501120000.jpg", types.KindNormal},
		{"2023-05-01-12-00-00_IR.jpg", types.KindUnknown},
		{"2023-05-01-12-00-00_V.jpg", types.KindUnknown},
		{"dji_1_2_T.jpg", types.KindUnknown},
		{"DJI_A_2_T.jpg", types.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.path).Kind)
		})
	}
}

func TestFirstMatchStopsAtFirstRule(t *testing.T) {
	var calls []string
	rule := func(name string, ok bool) Rule[int] {
		return Rule[int]{Name: name, Apply: func(string) (int, bool) {
			calls = append(calls, name)
			return len(calls), ok
		}}
	}

	m := FirstMatch([]Rule[int]{rule("a", false), rule("b", true), rule("c", true)}, "stem")
	assert.True(t, m.OK)
	assert.Equal(t, "b", m.Rule)
	assert.Equal(t, 2, m.Value)
	assert.Equal(t, []string{"a", "b"}, calls)

	none := FirstMatch([]Rule[int]{rule("d", false)}, "stem")
	assert.False(t, none.OK)
	assert.Zero(t, none.Value)
}

func TestKindRuleNames(t *testing.T) {
	m := FirstMatch(KindRules, "DJI_1_2_T")
	assert.Equal(t, "dji-thermal", m.Rule)
	ts := FirstMatch(TimestampRules, "20230501120000")
	assert.Equal(t, "compact", ts.Rule)
	ts = FirstMatch(TimestampRules, "2023-05-01-12-00-00")
	assert.Equal(t, "dashed", ts.Rule)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "a.tar", Stem("dir/a.tar.gz"))
	assert.Equal(t, "IR_1", Stem("/abs/IR_1.JPG"))
	assert.Equal(t, "noext", Stem("noext"))
}

func TestStream(t *testing.T) {
	paths := func(yield func(string, error) bool) {
		if !yield("2023-05-01-12-00-00_V.jpg", nil) {
			return
		}
		yield("IR_20230501120000.jpg", nil)
	}

	var got []types.Descriptor
	for d, err := range Stream(paths) {
		assert.NoError(t, err)
		got = append(got, d)
	}
	if assert.Len(t, got, 2) {
		assert.Equal(t, got[0].Timestamp, got[1].Timestamp)
		assert.Equal(t, types.KindInfrared, got[1].Kind)
	}
}
