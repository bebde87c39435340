package configs

// Config holds all configuration for the application.
type Config struct {
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Trace    TraceConfig    `mapstructure:"trace" validate:"required"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
	Output   OutputConfig   `mapstructure:"output" validate:"required"`
	Server   ServerConfig   `mapstructure:"server"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// TraceConfig locates the workload trace to analyze.
type TraceConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// AnalysisConfig holds the tunable parameters of the analysis pipeline.
type AnalysisConfig struct {
	GapThresholdSec          float64   `mapstructure:"gap_threshold_sec" validate:"required,gt=0"`            // idle gap that starts a new session
	BinWidthSec              float64   `mapstructure:"bin_width_sec" validate:"required,gt=0"`                // temporal bin width for window aggregation
	MinSessionCountPerBin    int64     `mapstructure:"min_session_count_per_bin" validate:"min=0"`            // sparse-bin filter threshold
	DurationModelMultipliers []float64 `mapstructure:"duration_model_multipliers" validate:"min=1,dive,gt=0"` // seconds per turn for synthetic durations
	TurnCountThresholds      []int64   `mapstructure:"turn_count_thresholds" validate:"min=1,dive,min=1"`     // k values for fraction-with->=k-turns
	SensitivityGapThresholds []float64 `mapstructure:"sensitivity_gap_thresholds" validate:"min=1,dive,gt=0"` // gap values swept by the sensitivity runner
	ConcurrencyStatistics    string    `mapstructure:"concurrency_statistics" validate:"oneof=time_weighted event_indexed"`
}

// OutputConfig holds artifact output configuration.
type OutputConfig struct {
	RootDir     string `mapstructure:"root_dir" validate:"required"`
	WriteCSV    bool   `mapstructure:"write_csv"`
	WriteReport bool   `mapstructure:"write_report"`
}

// ServerConfig holds the optional results API configuration.
// The server is only started when Enabled is true.
type ServerConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	Port              int  `mapstructure:"port" validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	ReadHeaderTimeout int  `mapstructure:"read_header_timeout" validate:"required_if=Enabled true,omitempty,min=1"` // seconds
	ReadTimeout       int  `mapstructure:"read_timeout" validate:"required_if=Enabled true,omitempty,min=1"`        // seconds (headers+body)
	WriteTimeout      int  `mapstructure:"write_timeout" validate:"required_if=Enabled true,omitempty,min=1"`       // seconds (response)
	IdleTimeout       int  `mapstructure:"idle_timeout" validate:"required_if=Enabled true,omitempty,min=1"`        // seconds (keep-alive)
}
