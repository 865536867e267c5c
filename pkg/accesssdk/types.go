package accesssdk

import "time"

// ErrorResponse is the error envelope of every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}

// ============================================================================
// Owner types
// ============================================================================

type CreateProjectRequest struct {
	Title string `json:"title"`
}

type ProjectResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateInviteRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	// TTLSeconds of zero uses the server default.
	TTLSeconds int64 `json:"ttl_seconds,omitempty"`
	SendEmail  bool  `json:"send_email,omitempty"`
}

type InviteResponse struct {
	GuestID   string     `json:"guest_id"`
	Token     string     `json:"token"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at"`
	Emailed   bool       `json:"emailed"`
}

type QuestionnaireLinkRequest struct {
	TTLSeconds int64 `json:"ttl_seconds,omitempty"`
}

type LinkResponse struct {
	Token     string     `json:"token"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type RevokeTokenRequest struct {
	Token string `json:"token"`
}

type GuestResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

type GuestListResponse struct {
	Guests []GuestResponse `json:"guests"`
}

type QuestionnaireResponseItem struct {
	ID          string            `json:"id"`
	Email       string            `json:"email,omitempty"`
	Answers     map[string]string `json:"answers"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

type QuestionnaireResponseList struct {
	Responses []QuestionnaireResponseItem `json:"responses"`
}

// ============================================================================
// Guest types
// ============================================================================

// ProjectSummary is the public view of a project shown behind a link.
type ProjectSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type InviteViewResponse struct {
	Project         ProjectSummary `json:"project"`
	Email           string         `json:"email,omitempty"`
	ConsentRequired bool           `json:"consent_required"`
	Accepted        bool           `json:"accepted"`
}

type AcceptInviteRequest struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type AcceptInviteResponse struct {
	Project ProjectSummary `json:"project"`
	GuestID string         `json:"guest_id"`
	Email   string         `json:"email"`
	Name    string         `json:"name"`
}

type QuestionnaireViewResponse struct {
	Project ProjectSummary `json:"project"`
}

type SubmitQuestionnaireRequest struct {
	Email   string            `json:"email,omitempty"`
	Answers map[string]string `json:"answers"`
}

type SubmitQuestionnaireResponse struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
}
