package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-that-is-at-least-32-characters"
	testRefreshSecret = "refresh-secret-that-is-at-least-32-characters"
)

func setRequiredSecrets(t *testing.T) {
	t.Setenv("TOKEN_ACCESS_SECRET", testAccessSecret)
	t.Setenv("TOKEN_REFRESH_SECRET", testRefreshSecret)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredSecrets(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Duration)
	require.Equal(t, "localhost", cfg.Postgres.Host)
	require.Equal(t, "localhost", cfg.Redis.Host)
	require.Equal(t, 15*time.Minute, cfg.Token.AccessExpiry.Duration)
	require.Equal(t, 7*24*time.Hour, cfg.Token.RefreshExpiry.Duration)
	require.Equal(t, 12, cfg.Security.BCryptCost)
	require.Equal(t, 40.0, cfg.Security.PasswordMinEntropy)
	require.Equal(t, "development", cfg.Env)
	require.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadCustomValues(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("POSTGRES_HOST", "postgres.internal")
	t.Setenv("TOKEN_ACCESS_EXPIRY", "30m")
	t.Setenv("TOKEN_REFRESH_EXPIRY", "2w")
	t.Setenv("ENV", "production")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "postgres.internal", cfg.Postgres.Host)
	require.Equal(t, 30*time.Minute, cfg.Token.AccessExpiry.Duration)
	require.Equal(t, 14*24*time.Hour, cfg.Token.RefreshExpiry.Duration)
	require.Equal(t, "production", cfg.Env)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("TOKEN_ACCESS_SECRET", "short")
	t.Setenv("TOKEN_REFRESH_SECRET", testRefreshSecret)

	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestLoadRejectsSharedSecret(t *testing.T) {
	t.Setenv("TOKEN_ACCESS_SECRET", testAccessSecret)
	t.Setenv("TOKEN_REFRESH_SECRET", testAccessSecret)

	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestDurationDecode(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"45s", 45 * time.Second},
		{"15m", 15 * time.Minute},
		{"3d", 3 * 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
	}

	for _, tc := range cases {
		var d Duration
		require.NoError(t, d.EnvDecode(context.Background(), tc.in), tc.in)
		require.Equal(t, tc.want, d.Duration, tc.in)
	}

	var d Duration
	require.Error(t, d.EnvDecode(context.Background(), "threedays"))
}
