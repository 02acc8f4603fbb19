package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wedding-planner/internal/leadscore"
	"wedding-planner/internal/models"
)

// Progress backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the application configuration
type Config struct {
	DataDir  string
	Port     string
	LogLevel string
	Lang     string

	// Form progress
	StorageKey      string
	ProgressBackend string
	ProgressTTL     time.Duration

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	AnalyticsChannel string

	// Empty means guests and submissions are kept in JSON files under DataDir.
	DatabaseURL string
	SentryDSN   string

	WeightsFile  string
	ScoreWeights leadscore.Weights

	// WhatsApp bot
	WhatsAppDataDir string
	CountryCode     string
	WeddingDate     string
	WeddingLocation string
	BrideName       string
	GroomName       string
}

type weightsFile struct {
	Weights leadscore.Weights `yaml:"weights"`
}

// LoadConfig loads configuration from a .env file, environment variables or
// defaults. Lead score weights may be overridden by a YAML file.
func LoadConfig() (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")
	cfg := &Config{
		DataDir:  dataDir,
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Lang:     getEnv("APP_LANG", "de"),

		StorageKey:      getEnv("FORM_STORAGE_KEY", "wedding_form_progress"),
		ProgressBackend: getEnv("PROGRESS_BACKEND", BackendFile),

		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		AnalyticsChannel: getEnv("ANALYTICS_CHANNEL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SentryDSN:   getEnv("SENTRY_DSN", ""),

		WeightsFile:  getEnv("LEAD_SCORE_WEIGHTS_FILE", ""),
		ScoreWeights: leadscore.DefaultWeights(),

		WhatsAppDataDir: getEnv("WHATSAPP_DATA_DIR", dataDir),
		CountryCode:     getEnv("PHONE_COUNTRY_CODE", models.DefaultCountryCode),
		WeddingDate:     getEnv("WEDDING_DATE", "Saturday, January 1, 2025"),
		WeddingLocation: getEnv("WEDDING_LOCATION", "Venue TBD"),
		BrideName:       getEnv("BRIDE_NAME", "Bride"),
		GroomName:       getEnv("GROOM_NAME", "Groom"),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.ProgressTTL, err = time.ParseDuration(getEnv("PROGRESS_TTL", "0s")); err != nil {
		return nil, fmt.Errorf("invalid PROGRESS_TTL: %w", err)
	}

	switch cfg.ProgressBackend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown PROGRESS_BACKEND %q", cfg.ProgressBackend)
	}

	if cfg.WeightsFile != "" {
		if cfg.ScoreWeights, err = LoadWeights(cfg.WeightsFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadWeights reads lead score weights from a YAML file of the form
//
//	weights:
//	  budget: 0.4
//	  timeline: 0.2
//	  engagement: 0.2
//	  data_quality: 0.2
//
// Missing keys keep their default.
func LoadWeights(path string) (leadscore.Weights, error) {
	f, err := os.Open(path)
	if err != nil {
		return leadscore.Weights{}, fmt.Errorf("failed to open weights file: %w", err)
	}
	defer f.Close()

	wf := weightsFile{Weights: leadscore.DefaultWeights()}
	if err := yaml.NewDecoder(f).Decode(&wf); err != nil {
		return leadscore.Weights{}, fmt.Errorf("failed to parse weights file: %w", err)
	}
	if err := wf.Weights.Validate(); err != nil {
		return leadscore.Weights{}, err
	}
	return wf.Weights, nil
}

// GuestsFile is the JSON guest list used without a database.
func (c *Config) GuestsFile() string {
	return filepath.Join(c.DataDir, "guests.json")
}

// SubmissionsFile is the JSON submission log used without a database.
func (c *Config) SubmissionsFile() string {
	return filepath.Join(c.DataDir, "submissions.json")
}

// ProgressDir holds one snapshot file per form session.
func (c *Config) ProgressDir() string {
	return filepath.Join(c.DataDir, "progress")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
