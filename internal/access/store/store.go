package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it.
// Repositories hang off the store so a transaction-scoped store hands out
// the same repositories bound to the transaction, and nothing can start a
// transaction inside another one.
type Store interface {
	Bindings() Bindings
	Resources() Resources
	Responses() Responses

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil. Inside
	// fn only the tx's repositories may be used.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Bindings persists token bindings keyed by token fingerprint. Rows are never
// deleted; revoked_at and used_at are only ever set once.
type Bindings interface {
	// CreateBinding inserts b. A fingerprint clash or a second live binding
	// for the same (resource, purpose) returns ErrAlreadyExists.
	CreateBinding(ctx context.Context, b domain.Binding) error

	GetBindingByTokenHash(ctx context.Context, hash string) (domain.Binding, error)

	// RevokeLiveBindings revokes every unrevoked binding for ref and purpose
	// and returns how many it touched.
	RevokeLiveBindings(ctx context.Context, ref domain.ResourceRef, purpose domain.Purpose, at time.Time) (int64, error)

	// RevokeBindingByTokenHash sets revoked_at if unset. It reports false when
	// the binding was already revoked and ErrNotFound when it does not exist.
	RevokeBindingByTokenHash(ctx context.Context, hash string, at time.Time) (bool, error)

	// RevokeResourceBindings revokes every live binding of ref, any purpose.
	RevokeResourceBindings(ctx context.Context, ref domain.ResourceRef, at time.Time) (int64, error)

	// SetBindingExpiry overwrites expires_at; nil removes the expiry. It does
	// not touch revoked_at or used_at. ErrNotFound if the binding is unknown.
	SetBindingExpiry(ctx context.Context, hash string, expiresAt *time.Time) error

	// MarkBindingUsed sets used_at only when neither used_at nor revoked_at is
	// set yet. It reports whether this call won.
	MarkBindingUsed(ctx context.Context, hash, usedBy string, at time.Time) (bool, error)

	// ListBindings returns ref's bindings, newest first.
	ListBindings(ctx context.Context, ref domain.ResourceRef) ([]domain.Binding, error)

	// CountLiveBindings counts unrevoked, unexpired, unused bindings per purpose.
	CountLiveBindings(ctx context.Context, now time.Time) (map[domain.Purpose]int, error)
}

// Resources is the data access collaborator for the things tokens point at.
// Deleted projects, and guests of deleted projects, do not resolve.
type Resources interface {
	// Get resolves ref to a live resource or returns ErrNotFound.
	Get(ctx context.Context, ref domain.ResourceRef) (domain.Resource, error)
	Exists(ctx context.Context, ref domain.ResourceRef) (bool, error)

	CreateProject(ctx context.Context, p domain.Project) error
	GetProject(ctx context.Context, id string) (domain.Project, error)
	// DeleteProject soft-deletes a live project.
	DeleteProject(ctx context.Context, id string, at time.Time) error

	// CreateGuest returns ErrAlreadyExists if the email is already on the project.
	CreateGuest(ctx context.Context, g domain.Guest) error
	GetGuestByEmail(ctx context.Context, projectID, email string) (domain.Guest, error)
	AcceptGuest(ctx context.Context, guestID, name string, at time.Time) error
	ListGuests(ctx context.Context, projectID string) ([]domain.Guest, error)
}

// Responses stores questionnaire submissions.
type Responses interface {
	CreateResponse(ctx context.Context, r domain.QuestionnaireResponse) error
	ListResponses(ctx context.Context, projectID string) ([]domain.QuestionnaireResponse, error)
}
