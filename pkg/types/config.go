package types

// Default configuration values, matching the layout the curation scripts
// have always used.
const (
	DefaultImagesDir    = "images"
	DefaultPattern      = "**/*.*"
	DefaultLegacyFile   = "ir_database.json"
	DefaultOutputFile   = "database.json"
	DefaultDatabaseFile = "database.db"
)

// DefaultExtensions is the image extension allow-list.
var DefaultExtensions = []string{".jpg", ".png"}

// DiscoveryConfig holds settings for the discovery stage.
type DiscoveryConfig struct {
	// ImagesDir is the root directory scanned for captures.
	ImagesDir string `json:"images_dir" yaml:"images_dir"`

	// Pattern is the glob applied under ImagesDir. A leading "**/" makes
	// the walk recursive (default "**/*.*").
	Pattern string `json:"pattern" yaml:"pattern"`

	// Extensions is the case-insensitive extension allow-list, each with a
	// leading dot. Empty admits every file.
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// CurateConfig groups the settings for a full curation run.
type CurateConfig struct {
	DiscoveryConfig `yaml:",inline"`

	// LegacyFile is the annotated dataset merged into fresh pairs. Empty
	// skips reconciliation.
	LegacyFile string `json:"legacy_file" yaml:"legacy_file"`

	// OutputFile is where the curated JSON document is written.
	OutputFile string `json:"output_file" yaml:"output_file"`

	// SitesFile is an optional YAML table of extra geo override sites.
	SitesFile string `json:"sites_file,omitempty" yaml:"sites_file,omitempty"`

	// YAMLFile, when set, receives a YAML rendition of the output for review.
	YAMLFile string `json:"yaml_file,omitempty" yaml:"yaml_file,omitempty"`
}

// StoreConfig holds settings for the relational store.
type StoreConfig struct {
	// DatabaseFile is the SQLite database path.
	DatabaseFile string `json:"database_file" yaml:"database_file"`
}
