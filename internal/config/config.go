package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"edaqa/domain/quality"
	"edaqa/internal/errors"
)

// Config represents the complete application configuration. Every core call
// receives the relevant section explicitly; nothing reads globals.
type Config struct {
	Thresholds Thresholds `yaml:"thresholds"`
	Scoring    Scoring    `yaml:"scoring"`
	Profiling  Profiling  `yaml:"profiling"`
	Report     Report     `yaml:"report"`
	Source     Source     `yaml:"source"`
	Server     Server     `yaml:"server"`
	Log        Log        `yaml:"log"`
}

// Thresholds drive the quality flags
type Thresholds struct {
	MinRows         int     `yaml:"min_rows" env:"EDAQA_MIN_ROWS"`
	MaxColumns      int     `yaml:"max_columns" env:"EDAQA_MAX_COLUMNS"`
	MinMissingShare float64 `yaml:"min_missing_share" env:"EDAQA_MIN_MISSING_SHARE"`
	ZeroShare       float64 `yaml:"zero_share" env:"EDAQA_ZERO_SHARE"`
}

// Scoring holds penalty weights and the acceptance threshold
type Scoring struct {
	AcceptanceThreshold float64 `yaml:"acceptance_threshold" env:"EDAQA_ACCEPTANCE_THRESHOLD"`
	MissingShareWeight  float64 `yaml:"missing_share_weight" env:"EDAQA_MISSING_SHARE_WEIGHT"`
	MessageTopN         int     `yaml:"message_top_n" env:"EDAQA_MESSAGE_TOP_N"`

	TooFewRowsWeight     float64 `yaml:"too_few_rows" env:"EDAQA_WEIGHT_TOO_FEW_ROWS"`
	TooManyColumnsWeight float64 `yaml:"too_many_columns" env:"EDAQA_WEIGHT_TOO_MANY_COLUMNS"`
	TooManyMissingWeight float64 `yaml:"too_many_missing" env:"EDAQA_WEIGHT_TOO_MANY_MISSING"`
	ConstantWeight       float64 `yaml:"has_constant_columns" env:"EDAQA_WEIGHT_HAS_CONSTANT_COLUMNS"`
	ZeroValuesWeight     float64 `yaml:"has_many_zero_values" env:"EDAQA_WEIGHT_HAS_MANY_ZERO_VALUES"`
}

// Weights returns the penalty weight per problem flag
func (s Scoring) Weights() map[string]float64 {
	return map[string]float64{
		quality.FlagTooFewRows:         s.TooFewRowsWeight,
		quality.FlagTooManyColumns:     s.TooManyColumnsWeight,
		quality.FlagTooManyMissing:     s.TooManyMissingWeight,
		quality.FlagHasConstantColumns: s.ConstantWeight,
		quality.FlagHasManyZeroValues:  s.ZeroValuesWeight,
	}
}

// Profiling controls the column profiler
type Profiling struct {
	TopK                  int      `yaml:"top_k" env:"EDAQA_TOP_K"`
	MissingSharePrecision int      `yaml:"missing_share_precision" env:"EDAQA_MISSING_PRECISION"`
	ExampleValues         int      `yaml:"example_values" env:"EDAQA_EXAMPLE_VALUES"`
	DatetimeLayouts       []string `yaml:"datetime_layouts" env:"EDAQA_DATETIME_LAYOUTS" env-separator:"|"`
}

// Report controls the report assembler
type Report struct {
	Title          string `yaml:"title" env:"EDAQA_REPORT_TITLE"`
	MaxHistColumns int    `yaml:"max_hist_columns" env:"EDAQA_MAX_HIST_COLUMNS"`
	HistogramBins  int    `yaml:"histogram_bins" env:"EDAQA_HIST_BINS"`
	OutDir         string `yaml:"out_dir" env:"EDAQA_OUT_DIR"`
}

// Source controls how data sources read raw input
type Source struct {
	Delimiter      string   `yaml:"delimiter" env:"EDAQA_DELIMITER"`
	MissingMarkers []string `yaml:"missing_markers" env:"EDAQA_MISSING_MARKERS" env-separator:","`
	Sheet          string   `yaml:"sheet" env:"EDAQA_SHEET"`
	JSONPath       string   `yaml:"json_path" env:"EDAQA_JSON_PATH"`
}

// Server holds HTTP settings for the API and the report viewer
type Server struct {
	APIAddr        string        `yaml:"api_addr" env:"EDAQA_API_ADDR"`
	UIAddr         string        `yaml:"ui_addr" env:"EDAQA_UI_ADDR"`
	GinMode        string        `yaml:"gin_mode" env:"GIN_MODE"`
	MaxConcurrent  int64         `yaml:"max_concurrent" env:"EDAQA_API_MAX_CONCURRENT"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" env:"EDAQA_API_MAX_UPLOAD_BYTES"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"EDAQA_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"EDAQA_WRITE_TIMEOUT"`
}

// Log holds logger settings
type Log struct {
	Level       string `yaml:"level" env:"EDAQA_LOG_LEVEL"`
	Development bool   `yaml:"development" env:"EDAQA_LOG_DEVELOPMENT"`
}

// Load reads configuration from an optional YAML file with environment
// variable overrides, then validates it. An empty path reads the
// environment only.
func Load(path string) (*Config, error) {
	// Seed from the defaults so an explicit zero in the file or the
	// environment is kept rather than replaced.
	defaults := Default()
	cfg := &defaults

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "failed to read configuration"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

// Default returns the documented defaults without reading the environment.
// Load starts from these values, so they are the single source of defaults.
func Default() Config {
	return Config{
		Thresholds: Thresholds{
			MinRows:         100,
			MaxColumns:      100,
			MinMissingShare: 0.5,
			ZeroShare:       0.3,
		},
		Scoring: Scoring{
			AcceptanceThreshold:  0.5,
			MissingShareWeight:   0.5,
			MessageTopN:          3,
			TooFewRowsWeight:     0.2,
			TooManyColumnsWeight: 0.1,
			TooManyMissingWeight: 0.2,
			ConstantWeight:       0.15,
			ZeroValuesWeight:     0.15,
		},
		Profiling: Profiling{
			TopK:                  5,
			MissingSharePrecision: 4,
			ExampleValues:         3,
			DatetimeLayouts:       []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"},
		},
		Report: Report{
			Title:          "EDA report",
			MaxHistColumns: 6,
			HistogramBins:  20,
			OutDir:         "reports",
		},
		Source: Source{
			Delimiter:      ",",
			MissingMarkers: []string{"NA", "N/A", "n/a", "NaN", "nan", "-NaN", "null", "NULL", "None", "<NA>", "#N/A"},
		},
		Server: Server{
			APIAddr:        ":8000",
			UIAddr:         ":8081",
			GinMode:        "release",
			MaxConcurrent:  4,
			MaxUploadBytes: 32 << 20,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Validate checks ranges of every knob
func (c *Config) Validate() error {
	switch {
	case c.Thresholds.MinRows < 0:
		return errors.ConfigInvalid("min_rows must be >= 0")
	case c.Thresholds.MaxColumns < 0:
		return errors.ConfigInvalid("max_columns must be >= 0")
	case !unit(c.Thresholds.MinMissingShare):
		return errors.ConfigInvalid("min_missing_share must be within [0,1]")
	case !unit(c.Thresholds.ZeroShare):
		return errors.ConfigInvalid("zero_share must be within [0,1]")
	case !unit(c.Scoring.AcceptanceThreshold):
		return errors.ConfigInvalid("acceptance_threshold must be within [0,1]")
	case c.Scoring.MissingShareWeight < 0:
		return errors.ConfigInvalid("missing_share_weight must be >= 0")
	case c.Profiling.TopK < 1:
		return errors.ConfigInvalid("top_k must be >= 1")
	case c.Profiling.ExampleValues < 0:
		return errors.ConfigInvalid("example_values must be >= 0")
	case c.Profiling.MissingSharePrecision < 0:
		return errors.ConfigInvalid("missing_share_precision must be >= 0")
	case c.Report.HistogramBins < 1:
		return errors.ConfigInvalid("histogram_bins must be >= 1")
	case c.Report.MaxHistColumns < 0:
		return errors.ConfigInvalid("max_hist_columns must be >= 0")
	case len([]rune(c.Source.Delimiter)) != 1:
		return errors.ConfigInvalid("delimiter must be a single character")
	case c.Server.MaxConcurrent < 1:
		return errors.ConfigInvalid("max_concurrent must be >= 1")
	}

	weights := c.Scoring.Weights()
	for _, name := range quality.ProblemFlags {
		if weights[name] < 0 {
			return errors.ConfigInvalid(name + " weight must be >= 0")
		}
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
