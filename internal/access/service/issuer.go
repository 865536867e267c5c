package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/metrics"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
	"github.com/aussiebroadwan/linkgate/pkg/clockx"
	"github.com/aussiebroadwan/linkgate/pkg/cryptox"
	"github.com/aussiebroadwan/linkgate/pkg/idx"
	"github.com/aussiebroadwan/linkgate/pkg/slogx"
)

// maxIssueAttempts bounds retries when the live-binding index rejects an
// insert because a concurrent issue for the same slot won.
const maxIssueAttempts = 3

// IssuerService mints tokens and manages binding lifecycle.
type IssuerService struct {
	Store         store.Store
	Fingerprinter *cryptox.Fingerprinter
	Policy        domain.Policy
	Links         LinkBuilder
	Clock         clockx.Clock
	Metrics       *metrics.Metrics

	// generate defaults to cryptox.GenerateToken.
	generate func(size int) (string, error)
}

func (s *IssuerService) policy() domain.Policy {
	if s.Policy == nil {
		return domain.DefaultPolicy()
	}
	return s.Policy
}

func (s *IssuerService) newToken() (string, error) {
	gen := s.generate
	if gen == nil {
		gen = cryptox.GenerateToken
	}
	token, err := gen(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}
	return token, nil
}

// Issue creates a token for req.Resource. Any live token for the same
// (resource, purpose) is revoked in the same transaction, so at most one
// token per slot is ever valid.
func (s *IssuerService) Issue(ctx context.Context, req domain.IssueRequest) (domain.IssuedToken, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the request shape.
	if !req.Purpose.Valid() {
		return domain.IssuedToken{}, fmt.Errorf("%w: %q", domain.ErrUnknownPurpose, req.Purpose)
	}
	if !req.Resource.Type.Valid() {
		return domain.IssuedToken{}, fmt.Errorf("%w: %q", domain.ErrUnknownResourceType, req.Resource.Type)
	}
	if req.Resource.ID == "" {
		return domain.IssuedToken{}, fmt.Errorf("%w: resource id is required", domain.ErrInvalidRequest)
	}

	now := nowFrom(s.Clock).Truncate(storedPrecision)
	expiresAt, err := s.policy().ExpiresAt(req, now)
	if err != nil {
		log.Warn("rejected issue request", slog.Duration("ttl", req.TTL), slog.Any("error", err))
		return domain.IssuedToken{}, err
	}

	// 2. Mint, then revoke-and-insert atomically. A conflict means another
	// issue for the same slot committed first; try again with a new token.
	for attempt := 1; ; attempt++ {
		token, err := s.newToken()
		if err != nil {
			log.Error("token generation failed", slog.Any("error", err))
			return domain.IssuedToken{}, err
		}

		binding := domain.Binding{
			ID:            idx.New().String(),
			TokenHash:     s.Fingerprinter.Fingerprint(token),
			Resource:      req.Resource,
			PrincipalHint: domain.NormalizeHint(req.PrincipalHint),
			Purpose:       req.Purpose,
			CreatedBy:     req.CreatedBy,
			CreatedAt:     now,
			ExpiresAt:     expiresAt,
		}

		var revoked int64
		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			exists, err := tx.Resources().Exists(ctx, req.Resource)
			if err != nil {
				return err
			}
			if !exists {
				return domain.ErrResourceNotFound
			}

			revoked, err = tx.Bindings().RevokeLiveBindings(ctx, req.Resource, req.Purpose, now)
			if err != nil {
				return err
			}
			return tx.Bindings().CreateBinding(ctx, binding)
		})

		switch {
		case err == nil:
			s.Metrics.Issued(string(req.Purpose))
			s.Metrics.Revoked(metrics.RevokeRegenerated, revoked)
			log.Info("token issued",
				bindingAttrs(binding),
				slog.Int64("revoked_previous", revoked),
				slog.Bool("expires", expiresAt != nil),
			)
			return domain.IssuedToken{
				Token:   token,
				URL:     s.Links.URL(req.Purpose, token),
				Binding: binding,
			}, nil

		case errors.Is(err, domain.ErrResourceNotFound):
			log.Warn("issue for unknown resource", slog.String("resource", req.Resource.String()))
			return domain.IssuedToken{}, err

		case errors.Is(err, store.ErrAlreadyExists) && attempt < maxIssueAttempts:
			log.Debug("issue lost a race, retrying",
				slog.String("resource", req.Resource.String()),
				slog.Int("attempt", attempt),
			)
			continue

		default:
			log.Error("failed to persist binding",
				slog.String("resource", req.Resource.String()),
				slog.Any("error", err),
			)
			return domain.IssuedToken{}, err
		}
	}
}

// Lookup returns the binding behind token without judging it.
func (s *IssuerService) Lookup(ctx context.Context, token string) (domain.Binding, error) {
	if !cryptox.WellFormedToken(token) {
		return domain.Binding{}, domain.ErrTokenNotFound
	}
	b, err := s.Store.Bindings().GetBindingByTokenHash(ctx, s.Fingerprinter.Fingerprint(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Binding{}, domain.ErrTokenNotFound
		}
		return domain.Binding{}, err
	}
	return b, nil
}

// Revoke is idempotent. Revoking an already revoked token is not an error;
// an unknown token is.
func (s *IssuerService) Revoke(ctx context.Context, token string) error {
	log := slogx.FromContext(ctx)
	if !cryptox.WellFormedToken(token) {
		return domain.ErrTokenNotFound
	}

	changed, err := s.Store.Bindings().RevokeBindingByTokenHash(ctx, s.Fingerprinter.Fingerprint(token), nowFrom(s.Clock))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrTokenNotFound
		}
		log.Error("failed to revoke token", slog.Any("error", err))
		return err
	}
	if changed {
		s.Metrics.Revoked(metrics.RevokeExplicit, 1)
		log.Info("token revoked")
	}
	return nil
}

// RevokeResource revokes every live token of ref, whatever the purpose.
func (s *IssuerService) RevokeResource(ctx context.Context, ref domain.ResourceRef) (int64, error) {
	n, err := s.Store.Bindings().RevokeResourceBindings(ctx, ref, nowFrom(s.Clock))
	if err != nil {
		return 0, err
	}
	s.Metrics.Revoked(metrics.RevokeResource, n)
	slogx.FromContext(ctx).Info("resource tokens revoked",
		slog.String("resource", ref.String()),
		slog.Int64("revoked", n),
	)
	return n, nil
}

// MarkUsed consumes a single-use token. Of any number of concurrent callers
// exactly one succeeds; the rest get ErrAlreadyUsed.
func (s *IssuerService) MarkUsed(ctx context.Context, token, usedBy string) error {
	return s.markUsed(ctx, s.Store.Bindings(), token, usedBy)
}

// markUsed runs against bindings so callers inside a transaction can consume
// a token together with their own writes.
func (s *IssuerService) markUsed(ctx context.Context, bindings store.Bindings, token, usedBy string) error {
	log := slogx.FromContext(ctx)
	if !cryptox.WellFormedToken(token) {
		return domain.ErrTokenNotFound
	}
	hash := s.Fingerprinter.Fingerprint(token)

	b, err := bindings.GetBindingByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrTokenNotFound
		}
		return err
	}
	if !s.policy().SingleUse(b.Purpose) {
		return fmt.Errorf("%w: %s", domain.ErrNotSingleUse, b.Purpose)
	}

	won, err := bindings.MarkBindingUsed(ctx, hash, usedBy, nowFrom(s.Clock))
	if err != nil {
		log.Error("failed to mark token used", bindingAttrs(b), slog.Any("error", err))
		return err
	}
	s.Metrics.Redeemed(string(b.Purpose), won)
	if won {
		log.Info("token redeemed", bindingAttrs(b))
		return nil
	}

	// Lost: find out why for the caller.
	b, err = bindings.GetBindingByTokenHash(ctx, hash)
	if err != nil {
		return err
	}
	if b.Used() {
		log.Warn("single-use token presented again", bindingAttrs(b))
		return domain.ErrAlreadyUsed
	}
	return domain.ErrTokenRevoked
}

// SetExpiry moves a token's expiry, or removes it when expiresAt is nil. It
// never brings a revoked or used token back. expiresAt is truncated to the
// stored precision.
func (s *IssuerService) SetExpiry(ctx context.Context, token string, expiresAt *time.Time) error {
	if !cryptox.WellFormedToken(token) {
		return domain.ErrTokenNotFound
	}
	if expiresAt != nil {
		t := expiresAt.Truncate(storedPrecision)
		expiresAt = &t
	}
	err := s.Store.Bindings().SetBindingExpiry(ctx, s.Fingerprinter.Fingerprint(token), expiresAt)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrTokenNotFound
	}
	return err
}
