package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatty-orange/server/internal/core"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "7")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, core.Production, cfg.Env)
	assert.Equal(t, 7, cfg.Limiter.MaxRequests)
	assert.Equal(t, time.Minute, cfg.Limiter.Window)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "data/assistant.db", cfg.SQLite.Path)
	assert.Equal(t, 3*time.Second, cfg.Dispatch.LookupTimeout)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
}

func TestAskCommand(t *testing.T) {
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("GEMINI_API_KEY", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"ask", "--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--action", "interactive_tour_step", "--step", "2",
	})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "<h5>")
}
