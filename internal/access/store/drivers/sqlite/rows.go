package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
)

// Times are stored as unix milliseconds so comparisons in SQL are plain
// integer comparisons.

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func toNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func fromNullMillis(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}

type bindingRow struct {
	ID            string        `db:"id"`
	TokenHash     string        `db:"token_hash"`
	ResourceType  string        `db:"resource_type"`
	ResourceID    string        `db:"resource_id"`
	Purpose       string        `db:"purpose"`
	PrincipalHint string        `db:"principal_hint"`
	CreatedBy     string        `db:"created_by"`
	CreatedAt     int64         `db:"created_at"`
	ExpiresAt     sql.NullInt64 `db:"expires_at"`
	RevokedAt     sql.NullInt64 `db:"revoked_at"`
	UsedAt        sql.NullInt64 `db:"used_at"`
	UsedBy        string        `db:"used_by"`
}

var bindingColumns = []string{
	"id", "token_hash", "resource_type", "resource_id", "purpose", "principal_hint",
	"created_by", "created_at", "expires_at", "revoked_at", "used_at", "used_by",
}

func (r bindingRow) toDomain() domain.Binding {
	return domain.Binding{
		ID:            r.ID,
		TokenHash:     r.TokenHash,
		Resource:      domain.ResourceRef{Type: domain.ResourceType(r.ResourceType), ID: r.ResourceID},
		PrincipalHint: r.PrincipalHint,
		Purpose:       domain.Purpose(r.Purpose),
		CreatedBy:     r.CreatedBy,
		CreatedAt:     fromMillis(r.CreatedAt),
		ExpiresAt:     fromNullMillis(r.ExpiresAt),
		RevokedAt:     fromNullMillis(r.RevokedAt),
		UsedAt:        fromNullMillis(r.UsedAt),
		UsedBy:        r.UsedBy,
	}
}

type projectRow struct {
	ID        string        `db:"id"`
	Title     string        `db:"title"`
	OwnerID   string        `db:"owner_id"`
	CreatedAt int64         `db:"created_at"`
	DeletedAt sql.NullInt64 `db:"deleted_at"`
}

var projectColumns = []string{"id", "title", "owner_id", "created_at", "deleted_at"}

func (r projectRow) toDomain() domain.Project {
	return domain.Project{
		ID:        r.ID,
		Title:     r.Title,
		OwnerID:   r.OwnerID,
		CreatedAt: fromMillis(r.CreatedAt),
		DeletedAt: fromNullMillis(r.DeletedAt),
	}
}

type guestRow struct {
	ID         string        `db:"id"`
	ProjectID  string        `db:"project_id"`
	Email      string        `db:"email"`
	Name       string        `db:"name"`
	Status     string        `db:"status"`
	CreatedAt  int64         `db:"created_at"`
	AcceptedAt sql.NullInt64 `db:"accepted_at"`
}

var guestColumns = []string{"id", "project_id", "email", "name", "status", "created_at", "accepted_at"}

func (r guestRow) toDomain() domain.Guest {
	return domain.Guest{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		Email:      r.Email,
		Name:       r.Name,
		Status:     domain.GuestStatus(r.Status),
		CreatedAt:  fromMillis(r.CreatedAt),
		AcceptedAt: fromNullMillis(r.AcceptedAt),
	}
}

type responseRow struct {
	ID          string `db:"id"`
	ProjectID   string `db:"project_id"`
	BindingID   string `db:"binding_id"`
	Email       string `db:"email"`
	Answers     string `db:"answers"`
	SubmittedAt int64  `db:"submitted_at"`
}

var responseColumns = []string{"id", "project_id", "binding_id", "email", "answers", "submitted_at"}

func (r responseRow) toDomain() (domain.QuestionnaireResponse, error) {
	answers := map[string]string{}
	if err := json.Unmarshal([]byte(r.Answers), &answers); err != nil {
		return domain.QuestionnaireResponse{}, err
	}
	return domain.QuestionnaireResponse{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		BindingID:   r.BindingID,
		Email:       r.Email,
		Answers:     answers,
		SubmittedAt: fromMillis(r.SubmittedAt),
	}, nil
}
