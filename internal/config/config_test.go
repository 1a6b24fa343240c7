package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PORT", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, 30*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, "fintrack_", cfg.HostedKVPrefix)
	assert.Equal(t, "0 8 * * *", cfg.ReminderSchedule)
	assert.Empty(t, cfg.OpenAI.APIKey)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "postgres without url", env: map[string]string{"STORAGE_DRIVER": "postgres", "DATABASE_URL": ""}, wantErr: "DATABASE_URL"},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}, wantErr: "STORAGE_DRIVER"},
		{name: "smtp without sender", env: map[string]string{"STORAGE_DRIVER": "memory", "SMTP_HOST": "smtp.example.com", "SMTP_FROM": ""}, wantErr: "SMTP_FROM"},
		{name: "zero rate limit", env: map[string]string{"STORAGE_DRIVER": "memory", "AI_RATE_LIMIT": "0"}, wantErr: "AI_RATE_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("FINTRACK_TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("FINTRACK_TEST_INT", 7))

	t.Setenv("FINTRACK_TEST_INT", "forty")
	assert.Equal(t, 7, getEnvInt("FINTRACK_TEST_INT", 7))
}
