package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/linkgate/pkg/cryptox"
	"github.com/aussiebroadwan/linkgate/pkg/jwtx"
)

// DevKeyID is the kid of the local development signing key.
const DevKeyID = "linkgate-dev"

// OwnerKeys holds the identity provider keys owner tokens are verified with.
type OwnerKeys struct {
	KeySet   *jwtx.KeySet
	Verifier *jwtx.KeySetVerifier
	// Source is empty when only the dev key is trusted.
	Source jwtx.Source
}

// InitOwnerKeys loads the identity provider JWKS.
//
// Sources, in order:
//   - AUTH_JWKS_URL: fetched now and refreshed by the sweeper. A failed first
//     fetch is logged and /readyz reports degraded until a refresh succeeds.
//   - AUTH_JWKS_FILE: read once; a bad file is fatal.
//   - dev only: a local Ed25519 key (created on first use) whose tokens can be
//     minted with `linkgate token dev-jwt`.
func InitOwnerKeys(ctx context.Context, cfg Config, logger *slog.Logger) (*OwnerKeys, error) {
	keys := jwtx.NewKeySet()
	out := &OwnerKeys{KeySet: keys}

	switch {
	case cfg.AuthJWKSURL != "":
		out.Source = jwtx.Source{URL: cfg.AuthJWKSURL, Client: &http.Client{Timeout: 10 * time.Second}}
		if err := keys.Refresh(ctx, out.Source); err != nil {
			logger.Warn("initial jwks fetch failed, owner routes unavailable until refresh", "url", cfg.AuthJWKSURL, "error", err)
		} else {
			logger.Info("identity provider keys loaded", "url", cfg.AuthJWKSURL)
		}

	case cfg.AuthJWKSFile != "":
		out.Source = jwtx.Source{File: cfg.AuthJWKSFile}
		if err := keys.Refresh(ctx, out.Source); err != nil {
			return nil, fmt.Errorf("load jwks file: %w", err)
		}
		logger.Info("identity provider keys loaded", "file", cfg.AuthJWKSFile)

	case cfg.IsDev():
		signer, err := DevSigner(cfg)
		if err != nil {
			return nil, err
		}
		if err := keys.Add(signer.PublicJWK()); err != nil {
			return nil, err
		}
		logger.Warn("no jwks configured, trusting the local dev signing key", "path", cfg.DevSigningKey)

	default:
		return nil, fmt.Errorf("no identity provider keys configured")
	}

	out.Verifier = jwtx.NewVerifier(keys, jwtx.VerifyOptions{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		Leeway:   30 * time.Second,
	})
	return out, nil
}

// DevSigner returns the local development signer, creating its key file on
// first use.
func DevSigner(cfg Config) (*jwtx.EdDSASigner, error) {
	pemKey, err := cryptox.LoadOrCreateEd25519Key(cfg.DevSigningKey)
	if err != nil {
		return nil, fmt.Errorf("dev signing key: %w", err)
	}
	return jwtx.NewSignerEdDSA(DevKeyID, pemKey)
}
