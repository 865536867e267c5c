package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, "linkgate.db", cfg.DatabaseFile)
	require.Equal(t, domain.DefaultInviteTTL, cfg.InviteTTL)
	require.Zero(t, cfg.QuestionnaireTTL)
	require.False(t, cfg.AutoAcceptOnEmailMatch)
	require.True(t, cfg.RateLimits.GuestOpen.Enabled())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "https://speeches.example")
	t.Setenv("TOKEN_TTL_INVITE", "48h")
	t.Setenv("TOKEN_TTL_MAGIC_LINK", "0")
	t.Setenv("INVITE_AUTO_ACCEPT_ON_EMAIL_MATCH", "true")
	t.Setenv("OWNER_SCOPES", "projects:write, projects:admin ,")
	t.Setenv("AUTH_AUDIENCE", "linkgate")
	t.Setenv("RATE_LIMIT_GUEST_OPEN_PER_MINUTE", "5")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 48*time.Hour, cfg.InviteTTL)
	require.Zero(t, cfg.MagicLinkTTL)
	require.True(t, cfg.AutoAcceptOnEmailMatch)
	require.Equal(t, []string{"projects:write", "projects:admin"}, cfg.OwnerScopes)
	require.Equal(t, []string{"linkgate"}, cfg.AuthAudience)
	require.Equal(t, 5, cfg.RateLimits.GuestOpen.RequestsPerWindow)

	p := cfg.Policy()
	require.Equal(t, 48*time.Hour, p[domain.PurposeInvite].DefaultTTL)
	require.Zero(t, p[domain.PurposeMagicLink].DefaultTTL)
	require.True(t, p.SingleUse(domain.PurposeInvite), "ttl overrides keep single-use")

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7000\npublic_base_url: https://file.example\nlog_format: text\n"), 0o600))
	t.Setenv("PORT", "7100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 7100, cfg.Port, "environment wins over the file")
	require.Equal(t, "https://file.example", cfg.PublicBaseURL)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, path, cfg.ConfigFileUsed)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		cfg.PublicBaseURL = "https://speeches.example"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.PublicBaseURL = "" }},
		{"relative base url", func(c *Config) { c.PublicBaseURL = "/links" }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
		{"negative ttl", func(c *Config) { c.InviteTTL = -time.Hour }},
		{"no jwks outside dev", func(c *Config) { c.Env = "prod" }},
		{"zero rate limit", func(c *Config) { c.RateLimits.Owner.Burst = 0 }},
		{"smtp without host", func(c *Config) { c.SMTP.Enabled = true; c.SMTP.From = "a@example.com" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	prod := valid()
	prod.Env = "prod"
	prod.AuthJWKSURL = "https://idp.example/.well-known/jwks.json"
	require.NoError(t, prod.Validate())
}
