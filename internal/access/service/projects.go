package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/metrics"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
	"github.com/aussiebroadwan/linkgate/pkg/clockx"
	"github.com/aussiebroadwan/linkgate/pkg/idx"
	"github.com/aussiebroadwan/linkgate/pkg/slogx"
)

const maxTitleLength = 200

// ProjectService is the owner side: projects, their guests and responses.
type ProjectService struct {
	Store   store.Store
	Issuer  *IssuerService
	Clock   clockx.Clock
	Metrics *metrics.Metrics
}

func (s *ProjectService) Create(ctx context.Context, rc domain.RequestContext, title string) (domain.Project, error) {
	log := slogx.FromContext(ctx)
	if !rc.Authenticated() {
		return domain.Project{}, domain.ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return domain.Project{}, fmt.Errorf("%w: title must be 1 to %d characters", domain.ErrInvalidRequest, maxTitleLength)
	}

	p := domain.Project{
		ID:        idx.New().String(),
		Title:     title,
		OwnerID:   rc.Subject(),
		CreatedAt: nowFrom(s.Clock),
	}
	if err := s.Store.Resources().CreateProject(ctx, p); err != nil {
		log.Error("failed to create project", slog.Any("error", err))
		return domain.Project{}, err
	}

	log.Info("project created", slog.String("project_id", p.ID), slog.String("owner_id", p.OwnerID))
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, rc domain.RequestContext, id string) (domain.Project, error) {
	return ownedProject(ctx, s.Store.Resources(), rc, id)
}

// Delete soft-deletes a project and revokes every token pointing at it or at
// one of its guests.
func (s *ProjectService) Delete(ctx context.Context, rc domain.RequestContext, id string) error {
	log := slogx.FromContext(ctx)
	now := nowFrom(s.Clock)

	var revoked int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := ownedProject(ctx, tx.Resources(), rc, id); err != nil {
			return err
		}
		guests, err := tx.Resources().ListGuests(ctx, id)
		if err != nil {
			return err
		}

		n, err := tx.Bindings().RevokeResourceBindings(ctx, domain.ProjectRef(id), now)
		if err != nil {
			return err
		}
		revoked += n
		for _, g := range guests {
			n, err := tx.Bindings().RevokeResourceBindings(ctx, domain.GuestRef(g.ID), now)
			if err != nil {
				return err
			}
			revoked += n
		}

		return tx.Resources().DeleteProject(ctx, id, now)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrForbidden) && !errors.Is(err, domain.ErrResourceNotFound) {
			log.Error("failed to delete project", slog.String("project_id", id), slog.Any("error", err))
		}
		return err
	}

	s.Metrics.Revoked(metrics.RevokeResource, revoked)
	log.Info("project deleted", slog.String("project_id", id), slog.Int64("revoked_tokens", revoked))
	return nil
}

// ListGuests returns the project's guests, optionally only those in status.
func (s *ProjectService) ListGuests(
	ctx context.Context,
	rc domain.RequestContext,
	projectID string,
	status domain.GuestStatus,
) ([]domain.Guest, error) {
	if _, err := ownedProject(ctx, s.Store.Resources(), rc, projectID); err != nil {
		return nil, err
	}
	guests, err := s.Store.Resources().ListGuests(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return guests, nil
	}

	out := guests[:0]
	for _, g := range guests {
		if g.Status == status {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *ProjectService) ListResponses(ctx context.Context, rc domain.RequestContext, projectID string) ([]domain.QuestionnaireResponse, error) {
	if _, err := ownedProject(ctx, s.Store.Resources(), rc, projectID); err != nil {
		return nil, err
	}
	return s.Store.Responses().ListResponses(ctx, projectID)
}

// RevokeToken revokes a token on behalf of the owner of the project it
// belongs to.
func (s *ProjectService) RevokeToken(ctx context.Context, rc domain.RequestContext, token string) error {
	if !rc.Authenticated() {
		return domain.ErrForbidden
	}
	b, err := s.Issuer.Lookup(ctx, token)
	if err != nil {
		return err
	}

	projectID := b.Resource.ID
	if b.Resource.Type == domain.ResourceGuest {
		res, err := s.Store.Resources().Get(ctx, b.Resource)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Project already gone, and with it every token.
				return nil
			}
			return err
		}
		projectID = res.ProjectID()
	}

	if _, err := ownedProject(ctx, s.Store.Resources(), rc, projectID); err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return nil
		}
		return err
	}
	return s.Issuer.Revoke(ctx, token)
}
