package domain

import (
	"strings"
	"time"
)

// Binding is the persisted association between a token fingerprint and the
// resource it unlocks. The raw token is never stored.
type Binding struct {
	ID            string
	TokenHash     string
	Resource      ResourceRef
	PrincipalHint string
	Purpose       Purpose
	CreatedBy     string
	CreatedAt     time.Time
	ExpiresAt     *time.Time
	RevokedAt     *time.Time
	UsedAt        *time.Time
	UsedBy        string
}

// Expired reports whether now is strictly past ExpiresAt.
func (b Binding) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}

func (b Binding) Revoked() bool { return b.RevokedAt != nil }
func (b Binding) Used() bool    { return b.UsedAt != nil }

// IssueRequest asks for a fresh token.
type IssueRequest struct {
	Resource      ResourceRef
	Purpose       Purpose
	PrincipalHint string

	// TTL of zero uses the purpose default. Negative values are rejected.
	TTL time.Duration
	// NoExpiry issues a token that never expires, ignoring TTL and defaults.
	NoExpiry bool

	CreatedBy string
}

// IssuedToken is handed back exactly once. Token is not recoverable later.
type IssuedToken struct {
	Token   string
	URL     string
	Binding Binding
}

// NormalizeHint lower-cases and trims an email-like principal hint.
func NormalizeHint(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
