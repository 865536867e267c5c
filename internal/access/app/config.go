package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/mailing"
	"github.com/aussiebroadwan/linkgate/internal/access/service"
	"github.com/aussiebroadwan/linkgate/pkg/httpx"
	"github.com/spf13/viper"
)

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	DatabaseFile string // Path to the SQLite database file (default: linkgate.db)
	PepperFile   string // Path to the token fingerprint key, created when missing (default: pepper)

	PublicBaseURL string // Required: origin that guest links are built on

	// Token lifetimes per purpose. Zero means links of that purpose never expire.
	InviteTTL        time.Duration
	QuestionnaireTTL time.Duration
	MagicLinkTTL     time.Duration
	PasswordResetTTL time.Duration

	// AutoAcceptOnEmailMatch lets a signed-in guest whose email matches the
	// invite skip the consent step.
	AutoAcceptOnEmailMatch bool

	AuthJWKSURL    string   // JWKS endpoint of the identity provider
	AuthJWKSFile   string   // Static JWKS file, used when no URL is set
	AuthIssuer     string   // Expected "iss" of owner tokens (optional)
	AuthAudience   []string // Accepted "aud" values (optional)
	DevSigningKey  string   // dev only: local Ed25519 key trusted when no JWKS is configured
	OwnerScopes    []string // Scopes of which owner tokens need one (optional)
	SweepInterval  time.Duration
	RateLimits     httpx.Profiles
	SMTP           mailing.Config
	ConfigFileUsed string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("port", 8080)
	v.SetDefault("shutdown_grace_period", "10s")

	v.SetDefault("linkgate_database_file", "linkgate.db")
	v.SetDefault("linkgate_pepper_file", "pepper")

	v.SetDefault("token_ttl_invite", domain.DefaultInviteTTL.String())
	v.SetDefault("token_ttl_questionnaire", "0")
	v.SetDefault("token_ttl_magic_link", domain.DefaultMagicLinkTTL.String())
	v.SetDefault("token_ttl_password_reset", domain.DefaultPasswordResetTTL.String())
	v.SetDefault("invite_auto_accept_on_email_match", false)

	v.SetDefault("auth_dev_signing_key", "dev-signing.pem")
	v.SetDefault("sweep_interval", "5m")

	p := httpx.DefaultProfiles()
	v.SetDefault("rate_limit_owner_per_minute", p.Owner.RequestsPerWindow)
	v.SetDefault("rate_limit_owner_burst", p.Owner.Burst)
	v.SetDefault("rate_limit_guest_open_per_minute", p.GuestOpen.RequestsPerWindow)
	v.SetDefault("rate_limit_guest_open_burst", p.GuestOpen.Burst)
	v.SetDefault("rate_limit_guest_submit_per_minute", p.GuestSubmit.RequestsPerWindow)
	v.SetDefault("rate_limit_guest_submit_burst", p.GuestSubmit.Burst)

	v.SetDefault("smtp_enabled", false)
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_from_name", "linkgate")
}

// LoadConfig reads configuration from the environment, overlaid on an
// optional YAML/JSON/TOML file. Keys in the file are the lower-cased
// environment names; the environment always wins.
func LoadConfig(file string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		Env:                 v.GetString("env"),
		LogLevel:            v.GetString("log_level"),
		LogFormat:           v.GetString("log_format"),
		Port:                v.GetInt("port"),
		ShutdownGracePeriod: v.GetDuration("shutdown_grace_period"),

		DatabaseFile: v.GetString("linkgate_database_file"),
		PepperFile:   v.GetString("linkgate_pepper_file"),

		PublicBaseURL: v.GetString("public_base_url"),

		InviteTTL:        v.GetDuration("token_ttl_invite"),
		QuestionnaireTTL: v.GetDuration("token_ttl_questionnaire"),
		MagicLinkTTL:     v.GetDuration("token_ttl_magic_link"),
		PasswordResetTTL: v.GetDuration("token_ttl_password_reset"),

		AutoAcceptOnEmailMatch: v.GetBool("invite_auto_accept_on_email_match"),

		AuthJWKSURL:   v.GetString("auth_jwks_url"),
		AuthJWKSFile:  v.GetString("auth_jwks_file"),
		AuthIssuer:    v.GetString("auth_issuer"),
		AuthAudience:  splitList(v.GetString("auth_audience")),
		DevSigningKey: v.GetString("auth_dev_signing_key"),
		OwnerScopes:   splitList(v.GetString("owner_scopes")),
		SweepInterval: v.GetDuration("sweep_interval"),

		RateLimits: httpx.Profiles{
			Owner:       perMinute(v.GetInt("rate_limit_owner_per_minute"), v.GetInt("rate_limit_owner_burst")),
			GuestOpen:   perMinute(v.GetInt("rate_limit_guest_open_per_minute"), v.GetInt("rate_limit_guest_open_burst")),
			GuestSubmit: perMinute(v.GetInt("rate_limit_guest_submit_per_minute"), v.GetInt("rate_limit_guest_submit_burst")),
		},

		SMTP: mailing.Config{
			Enabled:     v.GetBool("smtp_enabled"),
			Host:        v.GetString("smtp_host"),
			Port:        v.GetInt("smtp_port"),
			Username:    v.GetString("smtp_username"),
			Password:    v.GetString("smtp_password"),
			From:        v.GetString("smtp_from"),
			FromName:    v.GetString("smtp_from_name"),
			ServiceName: "linkgate",
		},
		ConfigFileUsed: v.ConfigFileUsed(),
	}
	return cfg, nil
}

func perMinute(n, burst int) httpx.RateLimitConfig {
	return httpx.RateLimitConfig{RequestsPerWindow: n, Window: time.Minute, Burst: burst}
}

// splitList parses a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Policy is the token lifecycle policy with the configured TTLs applied.
func (c Config) Policy() domain.Policy {
	return domain.DefaultPolicy().
		WithTTL(domain.PurposeInvite, c.InviteTTL).
		WithTTL(domain.PurposeQuestionnaire, c.QuestionnaireTTL).
		WithTTL(domain.PurposeMagicLink, c.MagicLinkTTL).
		WithTTL(domain.PurposePasswordReset, c.PasswordResetTTL)
}

// IsDev reports whether the dev-only conveniences are allowed.
func (c Config) IsDev() bool { return c.Env == "dev" }

// Validate checks the settings serve needs. CLI commands that only touch
// the database skip it.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.DatabaseFile == "" {
		errs = append(errs, errors.New("LINKGATE_DATABASE_FILE is required"))
	}
	if c.PepperFile == "" {
		errs = append(errs, errors.New("LINKGATE_PEPPER_FILE is required"))
	}
	if _, err := service.NewLinkBuilder(c.PublicBaseURL); err != nil {
		errs = append(errs, fmt.Errorf("PUBLIC_BASE_URL: %w", err))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be json or text", c.LogFormat))
	}

	for name, ttl := range map[string]time.Duration{
		"TOKEN_TTL_INVITE":         c.InviteTTL,
		"TOKEN_TTL_QUESTIONNAIRE":  c.QuestionnaireTTL,
		"TOKEN_TTL_MAGIC_LINK":     c.MagicLinkTTL,
		"TOKEN_TTL_PASSWORD_RESET": c.PasswordResetTTL,
	} {
		if ttl < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}

	if c.AuthJWKSURL == "" && c.AuthJWKSFile == "" && !c.IsDev() {
		errs = append(errs, errors.New("AUTH_JWKS_URL or AUTH_JWKS_FILE is required outside dev"))
	}

	for name, rl := range map[string]httpx.RateLimitConfig{
		"owner":        c.RateLimits.Owner,
		"guest_open":   c.RateLimits.GuestOpen,
		"guest_submit": c.RateLimits.GuestSubmit,
	} {
		if !rl.Enabled() {
			errs = append(errs, fmt.Errorf("rate limit %s must have positive rate and burst", name))
		}
	}

	if c.SMTP.Enabled && (c.SMTP.Host == "" || c.SMTP.From == "") {
		errs = append(errs, errors.New("SMTP_HOST and SMTP_FROM are required when SMTP_ENABLED"))
	}

	return errors.Join(errs...)
}
