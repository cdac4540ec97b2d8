package config

import (
	"strings"

	"github.com/spf13/viper"

	"medstat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Source   SourceConfig
	Analysis AnalysisConfig
	Output   OutputConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL    string
	Driver string // "postgres" or "sqlite"
	Table  string
}

// SourceConfig selects where the dataset is read from.
// A non-empty DataFile takes precedence over the database.
type SourceConfig struct {
	DataFile string
	Sheet    string
}

// AnalysisConfig holds the statistical and model parameters
type AnalysisConfig struct {
	LabelMarker    string
	LabelColumn    string
	TopN           int
	TestSize       float64
	Seed           int64
	NTrees         int
	MaxDepth       int
	SmoteK         int
	ImputeStrategy string
	ImputeConstant float64
	PlotFeatures   int
}

// OutputConfig holds artifact settings
type OutputConfig struct {
	Dir        string
	HTMLCharts bool
	XLSXReport bool
	Summary    bool
	Manifest   bool
}

// Defaults reproduce the reference analysis run
const (
	DefaultTable       = "newtable"
	DefaultLabelMarker = "осложнения"
	DefaultTopN        = 10
	DefaultTestSize    = 0.2
	DefaultSeed        = 42
	DefaultNTrees      = 100
	DefaultSmoteK      = 5
)

// SetDefaults registers every key with its default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_table", DefaultTable)
	v.SetDefault("data_file", "")
	v.SetDefault("data_sheet", "")
	v.SetDefault("label_marker", DefaultLabelMarker)
	v.SetDefault("label_column", "")
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("test_size", DefaultTestSize)
	v.SetDefault("seed", DefaultSeed)
	v.SetDefault("n_trees", DefaultNTrees)
	v.SetDefault("max_depth", 0)
	v.SetDefault("smote_k", DefaultSmoteK)
	v.SetDefault("impute_strategy", "median")
	v.SetDefault("impute_constant", 0.0)
	v.SetDefault("plot_features", 3)
	v.SetDefault("output_dir", ".")
	v.SetDefault("html_charts", false)
	v.SetDefault("xlsx_report", false)
	v.SetDefault("summary", true)
	v.SetDefault("manifest", true)
	v.SetDefault("log_level", "INFO")
}

// NewViper returns a viper instance with defaults registered and
// environment variables bound by upper-cased key
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	return v
}

// ReadFile merges a YAML (or any viper-supported) config file into v
func ReadFile(v *viper.Viper, cfgFile string) error {
	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", cfgFile)
	}
	return nil
}

// Load reads configuration from environment variables and an optional
// config file, then validates it. An empty cfgFile skips the file.
func Load(cfgFile string) (*Config, error) {
	v := NewViper()
	if err := ReadFile(v, cfgFile); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
// The CLI binds its flags onto the same instance before calling this.
func FromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:    v.GetString("database_url"),
			Driver: strings.ToLower(v.GetString("db_driver")),
			Table:  v.GetString("db_table"),
		},
		Source: SourceConfig{
			DataFile: v.GetString("data_file"),
			Sheet:    v.GetString("data_sheet"),
		},
		Analysis: AnalysisConfig{
			LabelMarker:    v.GetString("label_marker"),
			LabelColumn:    v.GetString("label_column"),
			TopN:           v.GetInt("top_n"),
			TestSize:       v.GetFloat64("test_size"),
			Seed:           v.GetInt64("seed"),
			NTrees:         v.GetInt("n_trees"),
			MaxDepth:       v.GetInt("max_depth"),
			SmoteK:         v.GetInt("smote_k"),
			ImputeStrategy: strings.ToLower(v.GetString("impute_strategy")),
			ImputeConstant: v.GetFloat64("impute_constant"),
			PlotFeatures:   v.GetInt("plot_features"),
		},
		Output: OutputConfig{
			Dir:        v.GetString("output_dir"),
			HTMLCharts: v.GetBool("html_charts"),
			XLSXReport: v.GetBool("xlsx_report"),
			Summary:    v.GetBool("summary"),
			Manifest:   v.GetBool("manifest"),
		},
		LogLevel: v.GetString("log_level"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Source.DataFile == "" {
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL or DATA_FILE is required")
		}
		switch config.Database.Driver {
		case "postgres", "sqlite":
		default:
			return errors.ConfigInvalid("DB_DRIVER must be postgres or sqlite")
		}
		if config.Database.Table == "" {
			return errors.ConfigInvalid("DB_TABLE is required")
		}
	}
	a := config.Analysis
	if a.LabelMarker == "" && a.LabelColumn == "" {
		return errors.ConfigInvalid("LABEL_MARKER or LABEL_COLUMN is required")
	}
	if a.TopN <= 0 {
		return errors.ConfigInvalid("TOP_N must be positive")
	}
	if a.TestSize <= 0 || a.TestSize >= 1 {
		return errors.ConfigInvalid("TEST_SIZE must be in (0, 1)")
	}
	if a.NTrees <= 0 {
		return errors.ConfigInvalid("N_TREES must be positive")
	}
	if a.SmoteK <= 0 {
		return errors.ConfigInvalid("SMOTE_K must be positive")
	}
	if a.PlotFeatures < 0 {
		return errors.ConfigInvalid("PLOT_FEATURES cannot be negative")
	}
	switch a.ImputeStrategy {
	case "median", "mean", "constant":
	default:
		return errors.ConfigInvalid("IMPUTE_STRATEGY must be median, mean or constant")
	}
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR is required")
	}
	return nil
}
