package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
)

type resourcesRepo struct {
	db sqlx.ExtContext
}

// Get resolves ref against live rows only. A guest resolves only while its
// project is live too.
func (r *resourcesRepo) Get(ctx context.Context, ref domain.ResourceRef) (domain.Resource, error) {
	switch ref.Type {
	case domain.ResourceProject:
		p, err := r.GetProject(ctx, ref.ID)
		if err != nil {
			return domain.Resource{}, err
		}
		return domain.Resource{Ref: ref, Project: &p}, nil

	case domain.ResourceGuest:
		var row guestRow
		q := sq.Select(prefixed("guests", guestColumns)...).
			From("guests").
			Join("projects ON projects.id = guests.project_id").
			Where(sq.Eq{"guests.id": ref.ID, "projects.deleted_at": nil})
		if err := get(ctx, r.db, &row, q); err != nil {
			return domain.Resource{}, err
		}
		g := row.toDomain()

		p, err := r.GetProject(ctx, g.ProjectID)
		if err != nil {
			return domain.Resource{}, err
		}
		return domain.Resource{Ref: ref, Guest: &g, Project: &p}, nil
	}
	return domain.Resource{}, fmt.Errorf("%w: %q", domain.ErrUnknownResourceType, ref.Type)
}

func (r *resourcesRepo) Exists(ctx context.Context, ref domain.ResourceRef) (bool, error) {
	_, err := r.Get(ctx, ref)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, domain.ErrUnknownResourceType):
		return false, nil
	}
	return false, err
}

func (r *resourcesRepo) CreateProject(ctx context.Context, p domain.Project) error {
	q := sq.Insert("projects").
		Columns("id", "title", "owner_id", "created_at").
		Values(p.ID, p.Title, p.OwnerID, toMillis(p.CreatedAt))
	_, err := exec(ctx, r.db, q)
	return err
}

// GetProject returns a live project.
func (r *resourcesRepo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	var row projectRow
	q := sq.Select(projectColumns...).From("projects").Where(sq.Eq{"id": id, "deleted_at": nil})
	if err := get(ctx, r.db, &row, q); err != nil {
		return domain.Project{}, err
	}
	return row.toDomain(), nil
}

func (r *resourcesRepo) DeleteProject(ctx context.Context, id string, at time.Time) error {
	q := sq.Update("projects").
		Set("deleted_at", toMillis(at)).
		Where(sq.Eq{"id": id, "deleted_at": nil})
	n, err := exec(ctx, r.db, q)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *resourcesRepo) CreateGuest(ctx context.Context, g domain.Guest) error {
	status := g.Status
	if status == "" {
		status = domain.GuestPending
	}
	q := sq.Insert("guests").
		Columns(guestColumns...).
		Values(
			g.ID,
			g.ProjectID,
			g.Email,
			g.Name,
			string(status),
			toMillis(g.CreatedAt),
			toNullMillis(g.AcceptedAt),
		)
	_, err := exec(ctx, r.db, q)
	return err
}

func (r *resourcesRepo) GetGuestByEmail(ctx context.Context, projectID, email string) (domain.Guest, error) {
	var row guestRow
	q := sq.Select(guestColumns...).
		From("guests").
		Where(sq.Eq{"project_id": projectID, "email": email})
	if err := get(ctx, r.db, &row, q); err != nil {
		return domain.Guest{}, err
	}
	return row.toDomain(), nil
}

// AcceptGuest marks a guest accepted. Re-accepting keeps the first
// acceptance time but lets the guest correct their name.
func (r *resourcesRepo) AcceptGuest(ctx context.Context, guestID, name string, at time.Time) error {
	q := sq.Update("guests").
		Set("status", string(domain.GuestAccepted)).
		Set("accepted_at", sq.Expr("COALESCE(accepted_at, ?)", toMillis(at))).
		Where(sq.Eq{"id": guestID})
	if name != "" {
		q = q.Set("name", name)
	}
	n, err := exec(ctx, r.db, q)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *resourcesRepo) ListGuests(ctx context.Context, projectID string) ([]domain.Guest, error) {
	var rows []guestRow
	q := sq.Select(guestColumns...).
		From("guests").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_at", "id")
	if err := list(ctx, r.db, &rows, q); err != nil {
		return nil, err
	}

	out := make([]domain.Guest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func prefixed(table string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = table + "." + c
	}
	return out
}

var _ store.Resources = (*resourcesRepo)(nil)
