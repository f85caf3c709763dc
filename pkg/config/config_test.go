package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("ADMIN_WALLET_ADDRESS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.Admin.SignatureWindow)
	assert.Equal(t, 4, cfg.Archives.ProjectSlots)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
}

func TestLoadAdminAndArchiveOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "Production")
	t.Setenv("ADMIN_WALLET_ADDRESS", "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4")
	t.Setenv("ADMIN_SIGNATURE_WINDOW", "2m")
	t.Setenv("ARCHIVE_PROJECT_SLOTS", "6")
	t.Setenv("ALLOWED_ORIGINS", "https://critcoin.app, http://localhost:3000 ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", cfg.Admin.WalletAddress)
	assert.Equal(t, 2*time.Minute, cfg.Admin.SignatureWindow)
	assert.Equal(t, 6, cfg.Archives.ProjectSlots)
	assert.Equal(t, []string{"https://critcoin.app", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsMalformedAdminAddress(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ADMIN_WALLET_ADDRESS", "not-an-address")

	_, err := Load()
	require.Error(t, err)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Minute))
}
