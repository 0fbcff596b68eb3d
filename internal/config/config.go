package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Analytics AnalyticsConfig `yaml:"analytics" mapstructure:"analytics"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// DataConfig locates the raw input files.
type DataConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
}

// IngestConfig configures record normalization.
type IngestConfig struct {
	LevelRules   string `yaml:"level_rules" mapstructure:"level_rules"`
	MaxLineBytes int    `yaml:"max_line_bytes" mapstructure:"max_line_bytes"`
}

// AnalyticsConfig holds aggregation thresholds and caps.
type AnalyticsConfig struct {
	MinSampleSize int `yaml:"min_sample_size" mapstructure:"min_sample_size"`
	TopFirstRoles int `yaml:"top_first_roles" mapstructure:"top_first_roles"`
	TopPaths      int `yaml:"top_paths" mapstructure:"top_paths"`
}

// ExportConfig configures payload output.
type ExportConfig struct {
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
}

// ServerConfig configures the snapshot server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SKILLSHOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "skillshock.db")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.pattern", "live_data_persons_history_*.jsonl.gz")
	v.SetDefault("ingest.max_line_bytes", 16*1024*1024)
	v.SetDefault("analytics.min_sample_size", 10)
	v.SetDefault("analytics.top_first_roles", 10)
	v.SetDefault("analytics.top_paths", 5)
	v.SetDefault("export.output_path", "output.json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
