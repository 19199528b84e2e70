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
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Chart    ChartConfig    `yaml:"chart" mapstructure:"chart"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the population table.
type DatasetConfig struct {
	Path        string `yaml:"path" mapstructure:"path"`
	Format      string `yaml:"format" mapstructure:"format"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	CacheDir    string `yaml:"cache_dir" mapstructure:"cache_dir"`
	Adjustments string `yaml:"adjustments" mapstructure:"adjustments"`
	FillDensity bool   `yaml:"fill_density" mapstructure:"fill_density"`
}

// AnalysisConfig holds the default analysis parameters.
type AnalysisConfig struct {
	Year       int    `yaml:"year" mapstructure:"year"`
	TopN       int    `yaml:"top_n" mapstructure:"top_n"`
	Country    string `yaml:"country" mapstructure:"country"`
	TargetYear int    `yaml:"target_year" mapstructure:"target_year"`
}

// ChartConfig configures chart rendering.
type ChartConfig struct {
	OutputDir          string  `yaml:"output_dir" mapstructure:"output_dir"`
	WidthInches        float64 `yaml:"width_inches" mapstructure:"width_inches"`
	HeightInches       float64 `yaml:"height_inches" mapstructure:"height_inches"`
	Shapefile          string  `yaml:"shapefile" mapstructure:"shapefile"`
	ShapefileCodeField string  `yaml:"shapefile_code_field" mapstructure:"shapefile_code_field"`
	// Cities is an optional YAML city list; empty uses the built-in one.
	Cities string `yaml:"cities" mapstructure:"cities"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimit      float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// FetchConfig configures remote dataset downloads.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	FTPUser     string `yaml:"ftp_user" mapstructure:"ftp_user"`
	FTPPassword string `yaml:"ftp_password" mapstructure:"ftp_password"`
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
	v.SetEnvPrefix("WORLDPOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "world_population.csv")
	v.SetDefault("dataset.format", "")
	v.SetDefault("dataset.sheet", "")
	v.SetDefault("dataset.cache_dir", "")
	v.SetDefault("dataset.adjustments", "")
	v.SetDefault("dataset.fill_density", true)
	v.SetDefault("analysis.year", 2022)
	v.SetDefault("analysis.top_n", 10)
	v.SetDefault("analysis.country", "Morocco")
	v.SetDefault("analysis.target_year", 2030)
	v.SetDefault("chart.output_dir", "charts")
	v.SetDefault("chart.width_inches", 10)
	v.SetDefault("chart.height_inches", 6)
	v.SetDefault("chart.shapefile", "")
	v.SetDefault("chart.shapefile_code_field", "ISO_A3")
	v.SetDefault("chart.cities", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "worldpop-cli/1.0")
	v.SetDefault("fetch.ftp_user", "anonymous")
	v.SetDefault("fetch.ftp_password", "anonymous")
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

// Validate checks the settings a command mode depends on. mode is one of
// "analyze", "store", "serve"; any other value checks only the common
// settings.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Dataset.Path == "" {
		problems = append(problems, "dataset.path is required")
	}
	if c.Analysis.TopN <= 0 {
		problems = append(problems, "analysis.top_n must be positive")
	}

	switch mode {
	case "analyze":
		if c.Chart.WidthInches <= 0 || c.Chart.HeightInches <= 0 {
			problems = append(problems, "chart.width_inches and chart.height_inches must be positive")
		}
	case "store":
		problems = append(problems, c.validateStore()...)
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
		if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
			problems = append(problems, "server.rate_limit and server.rate_burst must not be negative")
		}
		problems = append(problems, c.validateStore()...)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case "sqlite":
		return nil
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required for postgres"}
		}
		return nil
	default:
		return []string{"store.driver must be sqlite or postgres"}
	}
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
