package domain

import "time"

// Rule is the lifecycle policy for one purpose. A zero DefaultTTL means
// tokens do not expire unless the issuer asks for a TTL.
type Rule struct {
	DefaultTTL time.Duration
	SingleUse  bool
}

// Policy maps purposes to rules.
type Policy map[Purpose]Rule

const (
	DefaultInviteTTL        = 7 * 24 * time.Hour
	DefaultMagicLinkTTL     = 30 * 24 * time.Hour
	DefaultPasswordResetTTL = time.Hour
)

func DefaultPolicy() Policy {
	return Policy{
		PurposeInvite:        {DefaultTTL: DefaultInviteTTL, SingleUse: true},
		PurposeQuestionnaire: {DefaultTTL: 0, SingleUse: false},
		PurposeMagicLink:     {DefaultTTL: DefaultMagicLinkTTL, SingleUse: false},
		PurposePasswordReset: {DefaultTTL: DefaultPasswordResetTTL, SingleUse: true},
	}
}

// WithTTL returns a copy of p with purpose's default TTL replaced.
func (p Policy) WithTTL(purpose Purpose, ttl time.Duration) Policy {
	out := make(Policy, len(p))
	for k, v := range p {
		out[k] = v
	}
	r := out[purpose]
	r.DefaultTTL = ttl
	out[purpose] = r
	return out
}

func (p Policy) SingleUse(purpose Purpose) bool {
	return p[purpose].SingleUse
}

// ExpiresAt works out a new binding's expiry from the request and the
// purpose default. nil means the token does not expire.
func (p Policy) ExpiresAt(req IssueRequest, now time.Time) (*time.Time, error) {
	if req.TTL < 0 {
		return nil, ErrInvalidTTL
	}
	if req.NoExpiry {
		return nil, nil
	}

	ttl := req.TTL
	if ttl == 0 {
		ttl = p[req.Purpose].DefaultTTL
	}
	if ttl == 0 {
		return nil, nil
	}

	at := now.Add(ttl)
	return &at, nil
}
