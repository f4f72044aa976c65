// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"time"

	"github.com/pdiddy/irpairs/pkg/types"
)

// TimestampLayout is the canonical timestamp format shared by every stage.
const TimestampLayout = "2006-01-02 15:04:05"

// Rule is one entry of an ordered rule table. Apply reports whether the
// rule matched the filename stem and, if so, the extracted value.
type Rule[T any] struct {
	Name  string
	Apply func(stem string) (T, bool)
}

// Match is the tagged result of evaluating a rule table: either the name of
// the winning rule and its value, or no match (OK false, zero Value).
type Match[T any] struct {
	Rule  string
	Value T
	OK    bool
}

// FirstMatch evaluates rules in order and stops at the first one that
// matches.
func FirstMatch[T any](rules []Rule[T], stem string) Match[T] {
	for _, r := range rules {
		if v, ok := r.Apply(stem); ok {
			return Match[T]{Rule: r.Name, Value: v, OK: true}
		}
	}
	return Match[T]{}
}

// timestampRule finds the first substring matching pattern and parses it
// with layout. A syntactic hit that is not a real calendar time (month 13,
// February 30) is reported as no match so the next rule gets a chance.
func timestampRule(name, pattern, layout string) Rule[string] {
	re := regexp.MustCompile(pattern)
	return Rule[string]{
		Name: name,
		Apply: func(stem string) (string, bool) {
			hit := re.FindString(stem)
			if hit == "" {
				return "", false
			}
			t, err := time.Parse(layout, hit)
			if err != nil {
				return "", false
			}
			return t.Format(TimestampLayout), true
		},
	}
}

// TimestampRules recover the capture time. The dashed form is tried before
// the compact digit run.
var TimestampRules = []Rule[string]{
	timestampRule("dashed", `20\d{2}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}`, "2006-01-02-15-04-05"),
	timestampRule("compact", `20\d{12}`, "20060102150405"),
}

// WeatherReading is the raw weather glyph and temperature digits found at
// the end of a stem.
type WeatherReading struct {
	Weather     string
	Temperature string
}

// weatherPattern matches a weather glyph (or 多云), an optional 天, an
// optional dash and one or two digits at the end of the stem. The dash is
// a connector, not a sign: "多云-5" reads as 5.
var weatherPattern = regexp.MustCompile(`([阴晴雨雪雾]|多云)天?-?(\d{1,2})$`)

// WeatherRules recover the weather/temperature token pair.
var WeatherRules = []Rule[WeatherReading]{
	{
		Name: "glyph-temperature",
		Apply: func(stem string) (WeatherReading, bool) {
			m := weatherPattern.FindStringSubmatch(stem)
			if m == nil {
				return WeatherReading{}, false
			}
			return WeatherReading{Weather: m[1], Temperature: m[2]}, true
		},
	},
}

func prefixRule(name, pattern string, kind types.ImageKind) Rule[types.ImageKind] {
	re := regexp.MustCompile(pattern)
	return Rule[types.ImageKind]{
		Name: name,
		Apply: func(stem string) (types.ImageKind, bool) {
			if re.MatchString(stem) {
				return kind, true
			}
			return types.KindUnknown, false
		},
	}
}

// KindRules distinguish infrared from visible captures by vendor prefix.
var KindRules = []Rule[types.ImageKind]{
	prefixRule("ir-prefix", `^IR`, types.KindInfrared),
	prefixRule("dji-thermal", `^DJI_\d+_\d+_T`, types.KindInfrared),
	prefixRule("grey-prefix", `^GREY_`, types.KindNormal),
	prefixRule("dji-visible", `^DJI_\d+_\d+_V`, types.KindNormal),
	prefixRule("dji-s", `^DJI_\d+_\d+_S`, types.KindNormal),
}
