// Package service implements issuing, validating and redeeming link tokens
// and the owner and guest flows built on top of them.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
	"github.com/aussiebroadwan/linkgate/pkg/clockx"
)

var defaultClock = clockx.NewMonotonic(nil)

func nowFrom(c clockx.Clock) time.Time {
	if c == nil {
		return defaultClock.Now()
	}
	return c.Now()
}

// Timestamps are persisted at millisecond precision. Anything reported back
// to a caller must be truncated the same way so it matches what is enforced.
const storedPrecision = time.Millisecond

// ownedProject loads a live project and checks rc's principal owns it.
func ownedProject(ctx context.Context, resources store.Resources, rc domain.RequestContext, id string) (domain.Project, error) {
	if !rc.Authenticated() {
		return domain.Project{}, domain.ErrForbidden
	}
	p, err := resources.GetProject(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, domain.ErrResourceNotFound
		}
		return domain.Project{}, err
	}
	if p.OwnerID != rc.Subject() {
		return domain.Project{}, domain.ErrForbidden
	}
	return p, nil
}

func bindingAttrs(b domain.Binding) slog.Attr {
	return slog.Group("binding",
		slog.String("id", b.ID),
		slog.String("purpose", string(b.Purpose)),
		slog.String("resource", b.Resource.String()),
	)
}
