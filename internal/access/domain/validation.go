package domain

// Status is the decision a validation reaches. Callers must treat anything
// but StatusValid as a denial.
type Status string

const (
	StatusValid       Status = "valid"
	StatusInvalid     Status = "invalid"
	StatusExpired     Status = "expired"
	StatusAlreadyUsed Status = "already_used"
)

// Reason is the internal cause behind a Status. It goes to logs and metrics
// only and must never be shown to the presenter of a token.
type Reason string

const (
	ReasonOK               Reason = "ok"
	ReasonNotFound         Reason = "not_found"
	ReasonMalformed        Reason = "malformed"
	ReasonPurposeMismatch  Reason = "purpose_mismatch"
	ReasonRevoked          Reason = "revoked"
	ReasonExpired          Reason = "expired"
	ReasonUsed             Reason = "used"
	ReasonDanglingResource Reason = "dangling_resource"
	ReasonStoreError       Reason = "store_error"
)

// ValidationResult is returned by token validation. Resource and
// PrincipalHint are only populated when Status is StatusValid.
type ValidationResult struct {
	Status        Status
	Reason        Reason
	BindingID     string
	Purpose       Purpose
	Resource      *Resource
	PrincipalHint string
}

func (r ValidationResult) Valid() bool { return r.Status == StatusValid }

// Reject builds a denial.
func Reject(s Status, reason Reason) ValidationResult {
	return ValidationResult{Status: s, Reason: reason}
}

// ElevatedTrust reports whether an authenticated principal presenting a
// valid token is the person it was issued for. Callers decide whether that
// lets them skip an explicit consent step.
func ElevatedTrust(r ValidationResult, p *Principal) bool {
	return r.Valid() && r.PrincipalHint != "" && p.MatchesHint(r.PrincipalHint)
}
