package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/leadscore"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("PROGRESS_BACKEND", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, BackendFile, cfg.ProgressBackend)
	assert.Equal(t, "wedding_form_progress", cfg.StorageKey)
	assert.Equal(t, leadscore.DefaultWeights(), cfg.ScoreWeights)
	assert.Equal(t, filepath.Join("data", "guests.json"), cfg.GuestsFile())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/wedding")
	t.Setenv("WHATSAPP_DATA_DIR", "")
	t.Setenv("PROGRESS_BACKEND", BackendRedis)
	t.Setenv("PROGRESS_TTL", "72h")
	t.Setenv("REDIS_DB", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/wedding", cfg.WhatsAppDataDir)
	assert.Equal(t, 72*time.Hour, cfg.ProgressTTL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PROGRESS_BACKEND", "floppy")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  budget: 0.4\n  timeline: 0.2\n  engagement: 0.2\n  data_quality: 0.2\n"), 0644))

	w, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, leadscore.Weights{Budget: 0.4, Timeline: 0.2, Engagement: 0.2, DataQuality: 0.2}, w)

	t.Setenv("LEAD_SCORE_WEIGHTS_FILE", path)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.ScoreWeights.Budget)
}

func TestLoadWeights_MustSumToOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  budget: 0.9\n"), 0644))

	_, err := LoadWeights(path)
	assert.Error(t, err)
}
