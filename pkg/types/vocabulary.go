// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Canonical weather values.
const (
	WeatherSunny    = "sunny"
	WeatherOvercast = "overcast"
	WeatherCloudy   = "cloudy"
	WeatherRainy    = "rainy"
	WeatherSnowy    = "snowy"
	WeatherFoggy    = "foggy"
)

// weatherRedirect maps source-taxonomy glyphs onto canonical weather values.
var weatherRedirect = map[string]string{
	"晴":  WeatherSunny,
	"阴":  WeatherOvercast,
	"多云": WeatherCloudy,
	"雨":  WeatherRainy,
	"雪":  WeatherSnowy,
	"雾":  WeatherFoggy,
}

// CanonicalWeather maps a raw weather token onto the canonical vocabulary.
// The mapping is open: tokens with no entry, including values that are
// already canonical, pass through unchanged.
func CanonicalWeather(raw string) string {
	if c, ok := weatherRedirect[raw]; ok {
		return c
	}
	return raw
}

// FeatureTag is a land-cover label assigned during manual labeling.
type FeatureTag string

const (
	FeatureForest   FeatureTag = "forest"
	FeatureWater    FeatureTag = "water"
	FeatureGrass    FeatureTag = "grass"
	FeatureBare     FeatureTag = "bare"
	FeatureFarmland FeatureTag = "farmland"
	FeatureRoad     FeatureTag = "road"
	FeatureBuilding FeatureTag = "building"
	FeatureBeach    FeatureTag = "beach"
)

// FeatureTags lists the fixed vocabulary in display order.
var FeatureTags = []FeatureTag{
	FeatureForest,
	FeatureWater,
	FeatureGrass,
	FeatureBare,
	FeatureFarmland,
	FeatureRoad,
	FeatureBuilding,
	FeatureBeach,
}

// ParseFeatureTag validates s against the fixed vocabulary.
func ParseFeatureTag(s string) (FeatureTag, error) {
	for _, t := range FeatureTags {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown feature tag %q", s)
}
