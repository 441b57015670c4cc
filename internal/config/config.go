package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cineclass/cineclass/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	Server         ServerConfig         `yaml:"server" json:"server"`
	Database       DatabaseConfig       `yaml:"database" json:"database"`
	Logging        LoggingConfig        `yaml:"logging" json:"logging"`
	Catalog        CatalogConfig        `yaml:"catalog" json:"catalog"`
	Recommendation RecommendationConfig `yaml:"recommendation" json:"recommendation"`
	TMDB           TMDBConfig           `yaml:"tmdb" json:"tmdb"`
	Security       SecurityConfig       `yaml:"security" json:"security"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host            string        `yaml:"host" json:"host" env:"CINECLASS_HOST"`
	Port            int           `yaml:"port" json:"port" env:"CINECLASS_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout" env:"CINECLASS_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout" env:"CINECLASS_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" env:"CINECLASS_SHUTDOWN_TIMEOUT"`
	Mode            string        `yaml:"mode" json:"mode" env:"GIN_MODE"`
}

// DatabaseConfig selects and tunes the catalog store
type DatabaseConfig struct {
	Type            string        `yaml:"type" json:"type" env:"DATABASE_TYPE"`
	URL             string        `yaml:"url" json:"url" env:"DATABASE_URL"`
	Host            string        `yaml:"host" json:"host" env:"POSTGRES_HOST"`
	Port            int           `yaml:"port" json:"port" env:"POSTGRES_PORT"`
	Username        string        `yaml:"username" json:"username" env:"POSTGRES_USER"`
	Password        string        `yaml:"password" json:"-" env:"POSTGRES_PASSWORD"`
	Database        string        `yaml:"database" json:"database" env:"POSTGRES_DB"`
	DataDir         string        `yaml:"data_dir" json:"data_dir" env:"CINECLASS_DATA_DIR"`
	DatabasePath    string        `yaml:"database_path" json:"database_path" env:"CINECLASS_DATABASE_PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" json:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" json:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" json:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	StoreTimeout    time.Duration `yaml:"store_timeout" json:"store_timeout" env:"DB_STORE_TIMEOUT"`
	LogQueries      bool          `yaml:"log_queries" json:"log_queries" env:"DB_LOG_QUERIES"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" json:"format" env:"LOG_FORMAT"`
}

// CatalogConfig tunes catalog browsing and content classification
type CatalogConfig struct {
	DefaultPageSize int      `yaml:"default_page_size" json:"default_page_size" env:"CATALOG_DEFAULT_PAGE_SIZE"`
	MaxPageSize     int      `yaml:"max_page_size" json:"max_page_size" env:"CATALOG_MAX_PAGE_SIZE"`
	ScanBatchSize   int      `yaml:"scan_batch_size" json:"scan_batch_size" env:"CATALOG_SCAN_BATCH_SIZE"`
	RatingRegions   []string `yaml:"rating_regions" json:"rating_regions" env:"CATALOG_RATING_REGIONS"`
	ExtraDenylist   []string `yaml:"extra_denylist" json:"extra_denylist" env:"CATALOG_EXTRA_DENYLIST"`
	SimilarLimit    int      `yaml:"similar_limit" json:"similar_limit" env:"CATALOG_SIMILAR_LIMIT"`
}

// RecommendationConfig holds scoring weights and candidate limits
type RecommendationConfig struct {
	TopN           int           `yaml:"top_n" json:"top_n" env:"RECOMMENDATION_TOP_N"`
	CandidateLimit int           `yaml:"candidate_limit" json:"candidate_limit" env:"RECOMMENDATION_CANDIDATE_LIMIT"`
	SampleLimit    int           `yaml:"sample_limit" json:"sample_limit" env:"RECOMMENDATION_SAMPLE_LIMIT"`
	Weights        ScoringConfig `yaml:"weights" json:"weights"`
}

// ScoringConfig holds the scorer weights
type ScoringConfig struct {
	Keyword    float64 `yaml:"keyword" json:"keyword" env:"SCORE_KEYWORD_WEIGHT"`
	Popularity float64 `yaml:"popularity" json:"popularity" env:"SCORE_POPULARITY_WEIGHT"`
	Favorite   float64 `yaml:"favorite" json:"favorite" env:"SCORE_FAVORITE_BONUS"`
	AgeFit     float64 `yaml:"age_fit" json:"age_fit" env:"SCORE_AGE_FIT_BONUS"`
	JitterMax  float64 `yaml:"jitter_max" json:"jitter_max" env:"SCORE_JITTER_MAX"`
}

// TMDBConfig holds metadata provider settings used by the catalog jobs
type TMDBConfig struct {
	APIKey           string        `yaml:"api_key" json:"-" env:"TMDB_API_KEY"`
	BaseURL          string        `yaml:"base_url" json:"base_url" env:"TMDB_BASE_URL"`
	Language         string        `yaml:"language" json:"language" env:"TMDB_LANGUAGE"`
	Pages            int           `yaml:"pages" json:"pages" env:"TMDB_PAGES"`
	RequestsPerSec   float64       `yaml:"requests_per_sec" json:"requests_per_sec" env:"TMDB_REQUESTS_PER_SEC"`
	RequestTimeout   time.Duration `yaml:"request_timeout" json:"request_timeout" env:"TMDB_REQUEST_TIMEOUT"`
	MaxRetries       int           `yaml:"max_retries" json:"max_retries" env:"TMDB_MAX_RETRIES"`
	RetryBackoff     time.Duration `yaml:"retry_backoff" json:"retry_backoff" env:"TMDB_RETRY_BACKOFF"`
	BreakerFailures  uint32        `yaml:"breaker_failures" json:"breaker_failures" env:"TMDB_BREAKER_FAILURES"`
	BreakerOpenFor   time.Duration `yaml:"breaker_open_for" json:"breaker_open_for" env:"TMDB_BREAKER_OPEN_FOR"`
	Workers          int           `yaml:"workers" json:"workers" env:"TMDB_WORKERS"`
	RatingCallDelay  time.Duration `yaml:"rating_call_delay" json:"rating_call_delay" env:"TMDB_RATING_CALL_DELAY"`
	TranslateKeyword bool          `yaml:"translate_keywords" json:"translate_keywords" env:"TMDB_TRANSLATE_KEYWORDS"`
}

// SecurityConfig holds HTTP security configuration
type SecurityConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" env:"CINECLASS_ALLOWED_ORIGINS"`
}

// ConfigManager manages application configuration with hot-reload support
type ConfigManager struct {
	config     *Config
	configPath string
	watchers   []ConfigWatcher
	mu         sync.RWMutex
}

// ConfigWatcher is called when configuration changes
type ConfigWatcher func(oldConfig, newConfig *Config)

var (
	globalConfigManager *ConfigManager
	configOnce          sync.Once
)

// GetConfigManager returns the global configuration manager instance
func GetConfigManager() *ConfigManager {
	configOnce.Do(func() {
		globalConfigManager = NewConfigManager()
	})
	return globalConfigManager
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config:   DefaultConfig(),
		watchers: make([]ConfigWatcher, 0),
	}
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Mode:            "release",
		},
		Database: DatabaseConfig{
			Type:            "sqlite",
			Host:            "localhost",
			Port:            5432,
			Username:        "cineclass",
			Database:        "cineclass",
			DataDir:         "./data",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			StoreTimeout:    5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Catalog: CatalogConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			ScanBatchSize:   200,
			RatingRegions:   []string{"BR", "US"},
			SimilarLimit:    10,
		},
		Recommendation: RecommendationConfig{
			TopN:           5,
			CandidateLimit: 100,
			SampleLimit:    30,
			Weights: ScoringConfig{
				Keyword:    8,
				Popularity: 2,
				Favorite:   10,
				AgeFit:     10,
				JitterMax:  3,
			},
		},
		TMDB: TMDBConfig{
			BaseURL:          "https://api.themoviedb.org/3",
			Language:         "pt-BR",
			Pages:            5,
			RequestsPerSec:   4,
			RequestTimeout:   10 * time.Second,
			MaxRetries:       3,
			RetryBackoff:     500 * time.Millisecond,
			BreakerFailures:  5,
			BreakerOpenFor:   30 * time.Second,
			Workers:          4,
			RatingCallDelay:  150 * time.Millisecond,
			TranslateKeyword: true,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func (cm *ConfigManager) LoadConfig(configPath string) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	oldConfig := *cm.config
	cm.configPath = configPath

	newConfig := DefaultConfig()

	if configPath != "" && fileExists(configPath) {
		if err := loadFromFile(configPath, newConfig); err != nil {
			return fmt.Errorf("failed to load config from file: %w", err)
		}
		logger.Info("configuration loaded from file", "path", configPath)
	}

	if err := loadFromEnv(newConfig); err != nil {
		return fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := Validate(newConfig); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDerivedConfig(newConfig)
	cm.config = newConfig

	for _, watcher := range cm.watchers {
		go watcher(&oldConfig, newConfig)
	}
	return nil
}

// Reload re-reads the file the manager was last loaded from.
func (cm *ConfigManager) Reload() error {
	cm.mu.RLock()
	path := cm.configPath
	cm.mu.RUnlock()
	return cm.LoadConfig(path)
}

// ConfigPath returns the file the configuration was loaded from.
func (cm *ConfigManager) ConfigPath() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.configPath
}

// GetConfig returns the current configuration (thread-safe)
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	configCopy := *cm.config
	return &configCopy
}

// AddWatcher adds a configuration change watcher
func (cm *ConfigManager) AddWatcher(watcher ConfigWatcher) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.watchers = append(cm.watchers, watcher)
}

func loadFromFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	case ".json":
		return json.Unmarshal(data, config)
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
}

// Validate checks a configuration for values the service cannot run with.
func Validate(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Database.Type != "sqlite" && config.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database type: %s", config.Database.Type)
	}
	if config.Database.StoreTimeout <= 0 {
		return fmt.Errorf("store timeout must be positive")
	}
	if config.Catalog.MaxPageSize < 1 || config.Catalog.DefaultPageSize < 1 {
		return fmt.Errorf("page sizes must be positive")
	}
	if config.Catalog.DefaultPageSize > config.Catalog.MaxPageSize {
		return fmt.Errorf("default page size %d exceeds max %d", config.Catalog.DefaultPageSize, config.Catalog.MaxPageSize)
	}
	if config.Recommendation.TopN < 1 {
		return fmt.Errorf("invalid top_n: %d", config.Recommendation.TopN)
	}
	if config.Recommendation.CandidateLimit < 1 || config.Recommendation.SampleLimit < 1 {
		return fmt.Errorf("candidate limits must be positive")
	}
	w := config.Recommendation.Weights
	if w.Keyword < 0 || w.Popularity < 0 || w.Favorite < 0 || w.AgeFit < 0 || w.JitterMax < 0 {
		return fmt.Errorf("scoring weights must not be negative")
	}
	return nil
}

func applyDerivedConfig(config *Config) {
	if config.Database.DatabasePath == "" && config.Database.Type == "sqlite" {
		config.Database.DatabasePath = filepath.Join(config.Database.DataDir, "cineclass.db")
	}
	if config.Catalog.ScanBatchSize < config.Catalog.MaxPageSize {
		config.Catalog.ScanBatchSize = config.Catalog.MaxPageSize
	}
	if config.TMDB.Workers < 1 {
		config.TMDB.Workers = 1
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Global convenience functions

// Get returns the current global configuration
func Get() *Config {
	return GetConfigManager().GetConfig()
}

// Load loads configuration from the specified path
func Load(configPath string) error {
	return GetConfigManager().LoadConfig(configPath)
}

// AddWatcher adds a global configuration watcher
func AddWatcher(watcher ConfigWatcher) {
	GetConfigManager().AddWatcher(watcher)
}
