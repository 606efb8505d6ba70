package resolve

// Config holds batch-processing knobs for resolution runs.
type Config struct {
	// ProgressEvery is the record interval between progress logs while
	// loading. Zero disables interval logging.
	ProgressEvery int `mapstructure:"progress_every" default:"10000"`
	// MaxRecords aborts a run whose concatenated input exceeds this count.
	// Zero means unlimited.
	MaxRecords int `mapstructure:"max_records" default:"0"`
}
