package sqlite

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
)

type bindingsRepo struct {
	db sqlx.ExtContext
}

func (r *bindingsRepo) CreateBinding(ctx context.Context, b domain.Binding) error {
	q := sq.Insert("token_bindings").
		Columns(bindingColumns...).
		Values(
			b.ID,
			b.TokenHash,
			string(b.Resource.Type),
			b.Resource.ID,
			string(b.Purpose),
			b.PrincipalHint,
			b.CreatedBy,
			toMillis(b.CreatedAt),
			toNullMillis(b.ExpiresAt),
			toNullMillis(b.RevokedAt),
			toNullMillis(b.UsedAt),
			b.UsedBy,
		)
	_, err := exec(ctx, r.db, q)
	return err
}

func (r *bindingsRepo) GetBindingByTokenHash(ctx context.Context, hash string) (domain.Binding, error) {
	var row bindingRow
	q := sq.Select(bindingColumns...).From("token_bindings").Where(sq.Eq{"token_hash": hash})
	if err := get(ctx, r.db, &row, q); err != nil {
		return domain.Binding{}, err
	}
	return row.toDomain(), nil
}

func (r *bindingsRepo) RevokeLiveBindings(
	ctx context.Context,
	ref domain.ResourceRef,
	purpose domain.Purpose,
	at time.Time,
) (int64, error) {
	q := sq.Update("token_bindings").
		Set("revoked_at", toMillis(at)).
		Where(sq.Eq{
			"resource_type": string(ref.Type),
			"resource_id":   ref.ID,
			"purpose":       string(purpose),
			"revoked_at":    nil,
		})
	return exec(ctx, r.db, q)
}

func (r *bindingsRepo) RevokeBindingByTokenHash(ctx context.Context, hash string, at time.Time) (bool, error) {
	q := sq.Update("token_bindings").
		Set("revoked_at", toMillis(at)).
		Where(sq.Eq{"token_hash": hash, "revoked_at": nil})
	n, err := exec(ctx, r.db, q)
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}

	// Nothing changed: either already revoked or unknown.
	if _, err := r.GetBindingByTokenHash(ctx, hash); err != nil {
		return false, err
	}
	return false, nil
}

func (r *bindingsRepo) RevokeResourceBindings(ctx context.Context, ref domain.ResourceRef, at time.Time) (int64, error) {
	q := sq.Update("token_bindings").
		Set("revoked_at", toMillis(at)).
		Where(sq.Eq{
			"resource_type": string(ref.Type),
			"resource_id":   ref.ID,
			"revoked_at":    nil,
		})
	return exec(ctx, r.db, q)
}

func (r *bindingsRepo) SetBindingExpiry(ctx context.Context, hash string, expiresAt *time.Time) error {
	q := sq.Update("token_bindings").
		Set("expires_at", toNullMillis(expiresAt)).
		Where(sq.Eq{"token_hash": hash})
	n, err := exec(ctx, r.db, q)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// MarkBindingUsed is a compare-and-set: the predicate and the write are one
// statement, so of any number of concurrent callers exactly one sees a row
// affected.
func (r *bindingsRepo) MarkBindingUsed(ctx context.Context, hash, usedBy string, at time.Time) (bool, error) {
	q := sq.Update("token_bindings").
		Set("used_at", toMillis(at)).
		Set("used_by", usedBy).
		Where(sq.Eq{"token_hash": hash, "used_at": nil, "revoked_at": nil})
	n, err := exec(ctx, r.db, q)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *bindingsRepo) ListBindings(ctx context.Context, ref domain.ResourceRef) ([]domain.Binding, error) {
	var rows []bindingRow
	q := sq.Select(bindingColumns...).
		From("token_bindings").
		Where(sq.Eq{"resource_type": string(ref.Type), "resource_id": ref.ID}).
		OrderBy("created_at DESC", "id DESC")
	if err := list(ctx, r.db, &rows, q); err != nil {
		return nil, err
	}

	out := make([]domain.Binding, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *bindingsRepo) CountLiveBindings(ctx context.Context, now time.Time) (map[domain.Purpose]int, error) {
	var rows []struct {
		Purpose string `db:"purpose"`
		N       int    `db:"n"`
	}
	q := sq.Select("purpose", "COUNT(*) AS n").
		From("token_bindings").
		Where(sq.Eq{"revoked_at": nil, "used_at": nil}).
		Where(sq.Or{sq.Eq{"expires_at": nil}, sq.GtOrEq{"expires_at": toMillis(now)}}).
		GroupBy("purpose")
	if err := list(ctx, r.db, &rows, q); err != nil {
		return nil, err
	}

	out := make(map[domain.Purpose]int, len(domain.Purposes()))
	for _, p := range domain.Purposes() {
		out[p] = 0
	}
	for _, row := range rows {
		out[domain.Purpose(row.Purpose)] = row.N
	}
	return out, nil
}

var _ store.Bindings = (*bindingsRepo)(nil)
