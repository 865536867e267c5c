package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	dir := t.TempDir()
	cfg.DatabaseFile = filepath.Join(dir, "linkgate.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.DevSigningKey = filepath.Join(dir, "dev-signing.pem")
	cfg.PublicBaseURL = "https://speeches.example"
	cfg.LogLevel = "error"
	return cfg
}

func TestOpenCore_TokenRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	core, err := OpenCore(cfg, nil, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	ctx := context.Background()
	owner := domain.RequestContext{Principal: &domain.Principal{Subject: "owner-1"}}
	p, err := core.Projects.Create(ctx, owner, "Toast")
	require.NoError(t, err)

	it, err := core.Issuer.Issue(ctx, domain.IssueRequest{Resource: domain.ProjectRef(p.ID), Purpose: domain.PurposeQuestionnaire})
	require.NoError(t, err)
	require.True(t, core.Validator.Check(ctx, it.Token, domain.PurposeQuestionnaire).Valid())

	// The pepper survives a reopen, so issued tokens keep validating.
	require.NoError(t, core.Close())
	again, err := OpenCore(cfg, nil, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = again.Close() })
	require.True(t, again.Validator.Check(ctx, it.Token, domain.PurposeQuestionnaire).Valid())
}

func TestInitOwnerKeys(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("dev key", func(t *testing.T) {
		cfg := testConfig(t)
		keys, err := InitOwnerKeys(context.Background(), cfg, logger)
		require.NoError(t, err)
		require.True(t, keys.KeySet.IsReady())

		signer, err := DevSigner(cfg)
		require.NoError(t, err)
		tok, err := signer.Sign(jwtx.NewClaims("owner-1", "o@example.com", nil, time.Hour, "", nil, time.Now()))
		require.NoError(t, err)
		claims, err := keys.Verifier.Verify(tok)
		require.NoError(t, err)
		require.Equal(t, "owner-1", claims.Subject)
	})

	t.Run("jwks file", func(t *testing.T) {
		cfg := testConfig(t)
		signer, err := DevSigner(cfg)
		require.NoError(t, err)
		raw, err := json.Marshal(jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}})
		require.NoError(t, err)
		cfg.AuthJWKSFile = filepath.Join(t.TempDir(), "jwks.json")
		require.NoError(t, os.WriteFile(cfg.AuthJWKSFile, raw, 0o600))
		cfg.Env = "prod"

		keys, err := InitOwnerKeys(context.Background(), cfg, logger)
		require.NoError(t, err)
		require.True(t, keys.KeySet.IsReady())
		require.Equal(t, cfg.AuthJWKSFile, keys.Source.File)
	})

	t.Run("bad jwks file is fatal", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.AuthJWKSFile = filepath.Join(t.TempDir(), "missing.json")
		_, err := InitOwnerKeys(context.Background(), cfg, logger)
		require.Error(t, err)
	})

	t.Run("unreachable url degrades", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)

		cfg := testConfig(t)
		cfg.AuthJWKSURL = srv.URL
		keys, err := InitOwnerKeys(context.Background(), cfg, logger)
		require.NoError(t, err)
		require.False(t, keys.KeySet.IsReady())
	})

	t.Run("nothing outside dev", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Env = "prod"
		_, err := InitOwnerKeys(context.Background(), cfg, logger)
		require.Error(t, err)
	})
}

func TestNew_ServesHealth(t *testing.T) {
	cfg := testConfig(t)
	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.core.Close() })

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestShutdown_WithoutRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.ShutdownGracePeriod = time.Second
	app, err := New(cfg)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Shutdown() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown blocked on an application that never ran")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.PublicBaseURL = ""
	_, err := New(cfg)
	require.Error(t, err)
}
