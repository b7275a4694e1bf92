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
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Pexels   PexelsConfig   `yaml:"pexels" mapstructure:"pexels"`
	Coverage CoverageConfig `yaml:"coverage" mapstructure:"coverage"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// PathsConfig locates the site data and output trees.
type PathsConfig struct {
	DataDir         string `yaml:"data_dir" mapstructure:"data_dir"`
	CombosDir       string `yaml:"combos_dir" mapstructure:"combos_dir"`
	PublicDir       string `yaml:"public_dir" mapstructure:"public_dir"`
	ManifestPath    string `yaml:"manifest_path" mapstructure:"manifest_path"`
	SearchIndexPath string `yaml:"search_index_path" mapstructure:"search_index_path"`
	PlaceholderJpg  string `yaml:"placeholder_jpg" mapstructure:"placeholder_jpg"`
	PlaceholderWebp string `yaml:"placeholder_webp" mapstructure:"placeholder_webp"`
}

// PexelsConfig configures the photo search provider and the transcoder.
type PexelsConfig struct {
	APIKey       string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	PerPage      int     `yaml:"per_page" mapstructure:"per_page"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec   float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RemoteSync   bool    `yaml:"remote_sync" mapstructure:"remote_sync"`
	TargetWidths []int   `yaml:"target_widths" mapstructure:"target_widths"`
	JpgQuality   int     `yaml:"jpg_quality" mapstructure:"jpg_quality"`
	WebpQuality  int     `yaml:"webp_quality" mapstructure:"webp_quality"`
}

// CoverageConfig holds the minimum selected-coverage ratios enforced by the
// quality gate.
type CoverageConfig struct {
	MinSelected float64 `yaml:"min_selected" mapstructure:"min_selected"`
	MinHome     float64 `yaml:"min_home" mapstructure:"min_home"`
	MinService  float64 `yaml:"min_service" mapstructure:"min_service"`
	MinLocality float64 `yaml:"min_locality" mapstructure:"min_locality"`
}

// StoreConfig configures the sync-run history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
//
// The sync and validate commands keep their historical environment contract:
// PEXELS_API_KEY, PEXELS_CACHE_WRITE and the PEXELS_MIN_*_COVERAGE variables
// are bound verbatim, on top of the DIRECTORY_-prefixed forms.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DIRECTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy env contract for CI and local scripts.
	_ = v.BindEnv("pexels.api_key", "PEXELS_API_KEY")
	_ = v.BindEnv("pexels.remote_sync", "PEXELS_CACHE_WRITE")
	_ = v.BindEnv("coverage.min_selected", "PEXELS_MIN_SELECTED_COVERAGE")
	_ = v.BindEnv("coverage.min_home", "PEXELS_MIN_HOME_SELECTED_COVERAGE")
	_ = v.BindEnv("coverage.min_service", "PEXELS_MIN_SERVICE_SELECTED_COVERAGE")
	_ = v.BindEnv("coverage.min_locality", "PEXELS_MIN_LOCALITY_SELECTED_COVERAGE")

	// Defaults
	v.SetDefault("paths.data_dir", "src/data")
	v.SetDefault("paths.combos_dir", "src/data/combos")
	v.SetDefault("paths.public_dir", "public")
	v.SetDefault("paths.manifest_path", "src/data/pexels-image-manifest.json")
	v.SetDefault("paths.search_index_path", "public/search-index.json")
	v.SetDefault("paths.placeholder_jpg", "/images/placeholder-malta.jpg")
	v.SetDefault("paths.placeholder_webp", "/images/placeholder-malta.webp")
	v.SetDefault("pexels.base_url", "https://api.pexels.com")
	v.SetDefault("pexels.per_page", 8)
	v.SetDefault("pexels.timeout_secs", 30)
	v.SetDefault("pexels.rate_per_sec", 1)
	v.SetDefault("pexels.remote_sync", true)
	v.SetDefault("pexels.target_widths", []int{640, 960, 1280})
	v.SetDefault("pexels.jpg_quality", 78)
	v.SetDefault("pexels.webp_quality", 75)
	v.SetDefault("coverage.min_selected", 0.90)
	v.SetDefault("coverage.min_home", 0.95)
	v.SetDefault("coverage.min_service", 0.90)
	v.SetDefault("coverage.min_locality", 0.90)
	v.SetDefault("store.path", ".directory-cli/runs.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
