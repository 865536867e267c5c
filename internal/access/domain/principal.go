package domain

import "strings"

// Principal is an authenticated identity supplied by the host's identity
// provider.
type Principal struct {
	Subject string
	Email   string
	Name    string
}

// RequestContext is passed explicitly to every operation that cares who is
// asking. Principal is nil for anonymous guests.
type RequestContext struct {
	Principal *Principal
}

func (rc RequestContext) Authenticated() bool {
	return rc.Principal != nil && rc.Principal.Subject != ""
}

// Subject returns the principal's subject or "".
func (rc RequestContext) Subject() string {
	if rc.Principal == nil {
		return ""
	}
	return rc.Principal.Subject
}

// MatchesHint compares the principal's email against a principal hint,
// ignoring case and surrounding space.
func (p *Principal) MatchesHint(hint string) bool {
	if p == nil || hint == "" || p.Email == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(p.Email), strings.TrimSpace(hint))
}
