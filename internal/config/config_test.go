package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.True(t, cfg.SeedSampleListings)
	assert.Equal(t, "Kyiv", cfg.DefaultCity)
	assert.Equal(t, 500, cfg.EventLogLimit)
	assert.Equal(t, "@every 30m", cfg.MaintenanceSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SEED_SAMPLE_LISTINGS", "false")
	t.Setenv("PASSWORD_SCHEME", "bcrypt")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("MAINTENANCE_SCHEDULE", "0 4 * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "redis", cfg.StorageDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.SeedSampleListings)
	assert.Equal(t, "bcrypt", cfg.PasswordScheme)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad port":     {"PORT", "eighty"},
		"bad driver":   {"STORAGE_DRIVER", "postgres"},
		"bad scheme":   {"PASSWORD_SCHEME", "md5"},
		"bad bool":     {"SEED_SAMPLE_LISTINGS", "maybe"},
		"bad schedule": {"MAINTENANCE_SCHEDULE", "every so often"},
		"bad limit":    {"EVENT_LOG_LIMIT", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
