package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/metrics"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
	"github.com/aussiebroadwan/linkgate/pkg/clockx"
	"github.com/aussiebroadwan/linkgate/pkg/cryptox"
	"github.com/aussiebroadwan/linkgate/pkg/slogx"
)

// ValidatorService decides whether a presented token grants access. It never
// returns an error: a failing store is a denial.
type ValidatorService struct {
	Store         store.Store
	Fingerprinter *cryptox.Fingerprinter
	Policy        domain.Policy
	Clock         clockx.Clock
	Metrics       *metrics.Metrics
}

// Check validates token against the service clock.
func (s *ValidatorService) Check(ctx context.Context, token string, purpose domain.Purpose) domain.ValidationResult {
	return s.Validate(ctx, token, purpose, nowFrom(s.Clock))
}

// Validate evaluates token for purpose at now. Checks run in a fixed order
// and the first failing one decides the outcome.
func (s *ValidatorService) Validate(ctx context.Context, token string, purpose domain.Purpose, now time.Time) domain.ValidationResult {
	r := s.validate(ctx, token, purpose, now)

	label := string(purpose)
	if !purpose.Valid() {
		label = "unknown"
	}
	s.Metrics.Validated(label, string(r.Status), string(r.Reason))

	log := slogx.FromContext(ctx)
	switch r.Reason {
	case domain.ReasonOK:
		log.Debug("token accepted", slog.String("binding_id", r.BindingID), slog.String("purpose", label))
	case domain.ReasonStoreError:
		// logged where the error is known
	default:
		log.Info("token rejected",
			slog.String("binding_id", r.BindingID),
			slog.String("purpose", label),
			slog.String("status", string(r.Status)),
			slog.String("reason", string(r.Reason)),
		)
	}
	return r
}

func (s *ValidatorService) validate(ctx context.Context, token string, purpose domain.Purpose, now time.Time) domain.ValidationResult {
	if !cryptox.WellFormedToken(token) {
		return domain.Reject(domain.StatusInvalid, domain.ReasonMalformed)
	}

	// 1. Lookup.
	b, err := s.Store.Bindings().GetBindingByTokenHash(ctx, s.Fingerprinter.Fingerprint(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Reject(domain.StatusInvalid, domain.ReasonNotFound)
		}
		slogx.FromContext(ctx).Error("binding lookup failed", slog.Any("error", err))
		return domain.Reject(domain.StatusInvalid, domain.ReasonStoreError)
	}

	reject := func(st domain.Status, reason domain.Reason) domain.ValidationResult {
		r := domain.Reject(st, reason)
		r.BindingID = b.ID
		return r
	}

	// 2. Purpose.
	if b.Purpose != purpose {
		return reject(domain.StatusInvalid, domain.ReasonPurposeMismatch)
	}
	// 3. Revocation.
	if b.Revoked() {
		return reject(domain.StatusInvalid, domain.ReasonRevoked)
	}
	// 4. Expiry.
	if b.Expired(now) {
		return reject(domain.StatusExpired, domain.ReasonExpired)
	}
	// 5. Single use.
	if s.policy().SingleUse(b.Purpose) && b.Used() {
		return reject(domain.StatusAlreadyUsed, domain.ReasonUsed)
	}

	// 6. The resource must still resolve.
	res, err := s.Store.Resources().Get(ctx, b.Resource)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, domain.ErrUnknownResourceType) {
			return reject(domain.StatusInvalid, domain.ReasonDanglingResource)
		}
		slogx.FromContext(ctx).Error("resource lookup failed",
			bindingAttrs(b),
			slog.Any("error", err),
		)
		return reject(domain.StatusInvalid, domain.ReasonStoreError)
	}

	// 7. Valid.
	return domain.ValidationResult{
		Status:        domain.StatusValid,
		Reason:        domain.ReasonOK,
		BindingID:     b.ID,
		Purpose:       b.Purpose,
		Resource:      &res,
		PrincipalHint: b.PrincipalHint,
	}
}

func (s *ValidatorService) policy() domain.Policy {
	if s.Policy == nil {
		return domain.DefaultPolicy()
	}
	return s.Policy
}
