package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/service"
	"github.com/aussiebroadwan/linkgate/pkg/accesssdk"
	"github.com/aussiebroadwan/linkgate/pkg/httpx"
)

// maxTTLSeconds caps requested link lifetimes at one year.
const maxTTLSeconds = 365 * 24 * 60 * 60

// ProjectsHandler serves the owner routes under /v1/projects.
type ProjectsHandler struct {
	ProjectService       *service.ProjectService
	InviteService        *service.InviteService
	QuestionnaireService *service.QuestionnaireService
}

func ttlFromSeconds(s int64) (time.Duration, bool) {
	if s < 0 || s > maxTTLSeconds {
		return 0, false
	}
	return time.Duration(s) * time.Second, true
}

func projectResponse(p domain.Project) accesssdk.ProjectResponse {
	return accesssdk.ProjectResponse{ID: p.ID, Title: p.Title, OwnerID: p.OwnerID, CreatedAt: p.CreatedAt}
}

// HandleCreate handles POST /v1/projects
//
//	@Summary		Create Project
//	@Description	Creates a project owned by the caller.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		accesssdk.CreateProjectRequest	true	"Project"
//	@Success		201		{object}	accesssdk.ProjectResponse
//	@Failure		400		{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Router			/v1/projects [post].
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req accesssdk.CreateProjectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	p, err := h.ProjectService.Create(r.Context(), requestContext(r), req.Title)
	if err != nil {
		writeServiceError(w, r, err, "create project")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, projectResponse(p))
}

// HandleDelete handles DELETE /v1/projects/{id}
//
//	@Summary		Delete Project
//	@Description	Soft-deletes the project. Every link pointing at it or its guests stops working.
//	@Tags			Projects
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Project ID"
//	@Success		204
//	@Failure		403	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Router			/v1/projects/{id} [delete].
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ProjectService.Delete(r.Context(), requestContext(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleInvite handles POST /v1/projects/{id}/invites
//
//	@Summary		Invite Guest
//	@Description	Issues an invite link for one email address. Re-inviting the same address replaces its previous link; other guests keep theirs.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Project ID"
//	@Param			request	body		accesssdk.CreateInviteRequest	true	"Invite"
//	@Success		201		{object}	accesssdk.InviteResponse		"guest_id, token, url, expires_at"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	accesssdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	accesssdk.ErrorResponse			"error, error_description"
//	@Router			/v1/projects/{id}/invites [post].
func (h *ProjectsHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req accesssdk.CreateInviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Email == "" {
		writeBadRequest(w, "email is required")
		return
	}
	ttl, ok := ttlFromSeconds(req.TTLSeconds)
	if !ok {
		writeBadRequest(w, "ttl_seconds must be between 0 and one year")
		return
	}

	inv, err := h.InviteService.Send(r.Context(), requestContext(r), r.PathValue("id"), service.SendInviteRequest{
		Email:     req.Email,
		Name:      req.Name,
		TTL:       ttl,
		SendEmail: req.SendEmail,
	})
	if err != nil {
		writeServiceError(w, r, err, "create invite")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accesssdk.InviteResponse{
		GuestID:   inv.Guest.ID,
		Token:     inv.Issued.Token,
		URL:       inv.Issued.URL,
		ExpiresAt: inv.Issued.Binding.ExpiresAt,
		Emailed:   inv.Emailed,
	})
}

// HandleQuestionnaireLink handles POST /v1/projects/{id}/questionnaire-link
//
//	@Summary		Regenerate Questionnaire Link
//	@Description	Issues the project's questionnaire link. The previous link stops working.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string								true	"Project ID"
//	@Param			request	body		accesssdk.QuestionnaireLinkRequest	false	"Link options"
//	@Success		201		{object}	accesssdk.LinkResponse				"token, url, expires_at"
//	@Failure		400		{object}	accesssdk.ErrorResponse				"error, error_description"
//	@Failure		403		{object}	accesssdk.ErrorResponse				"error, error_description"
//	@Failure		404		{object}	accesssdk.ErrorResponse				"error, error_description"
//	@Router			/v1/projects/{id}/questionnaire-link [post].
func (h *ProjectsHandler) HandleQuestionnaireLink(w http.ResponseWriter, r *http.Request) {
	var req accesssdk.QuestionnaireLinkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	ttl, ok := ttlFromSeconds(req.TTLSeconds)
	if !ok {
		writeBadRequest(w, "ttl_seconds must be between 0 and one year")
		return
	}

	it, err := h.QuestionnaireService.Link(r.Context(), requestContext(r), r.PathValue("id"), ttl)
	if err != nil {
		writeServiceError(w, r, err, "create questionnaire link")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, accesssdk.LinkResponse{
		Token:     it.Token,
		URL:       it.URL,
		ExpiresAt: it.Binding.ExpiresAt,
	})
}

// HandleListGuests handles GET /v1/projects/{id}/guests
//
//	@Summary		List Guests
//	@Description	Lists the project's guests. Defaults to accepted guests.
//	@Tags			Projects
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Project ID"
//	@Param			status	query		string	false	"accepted (default), pending or all"
//	@Success		200		{object}	accesssdk.GuestListResponse
//	@Failure		400		{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Router			/v1/projects/{id}/guests [get].
func (h *ProjectsHandler) HandleListGuests(w http.ResponseWriter, r *http.Request) {
	var status domain.GuestStatus
	switch q := r.URL.Query().Get("status"); q {
	case "", string(domain.GuestAccepted):
		status = domain.GuestAccepted
	case string(domain.GuestPending):
		status = domain.GuestPending
	case "all":
	default:
		writeBadRequest(w, "status must be accepted, pending or all")
		return
	}

	guests, err := h.ProjectService.ListGuests(r.Context(), requestContext(r), r.PathValue("id"), status)
	if err != nil {
		writeServiceError(w, r, err, "list guests")
		return
	}

	out := accesssdk.GuestListResponse{Guests: make([]accesssdk.GuestResponse, 0, len(guests))}
	for _, g := range guests {
		out.Guests = append(out.Guests, accesssdk.GuestResponse{
			ID:         g.ID,
			Email:      g.Email,
			Name:       g.Name,
			Status:     string(g.Status),
			CreatedAt:  g.CreatedAt,
			AcceptedAt: g.AcceptedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleListResponses handles GET /v1/projects/{id}/responses
//
//	@Summary		List Questionnaire Responses
//	@Tags			Projects
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Project ID"
//	@Success		200	{object}	accesssdk.QuestionnaireResponseList
//	@Failure		403	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Router			/v1/projects/{id}/responses [get].
func (h *ProjectsHandler) HandleListResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := h.ProjectService.ListResponses(r.Context(), requestContext(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "list responses")
		return
	}

	out := accesssdk.QuestionnaireResponseList{Responses: make([]accesssdk.QuestionnaireResponseItem, 0, len(responses))}
	for _, resp := range responses {
		out.Responses = append(out.Responses, accesssdk.QuestionnaireResponseItem{
			ID:          resp.ID,
			Email:       resp.Email,
			Answers:     resp.Answers,
			SubmittedAt: resp.SubmittedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// RevokeHandler serves POST /v1/tokens/revoke.
type RevokeHandler struct {
	ProjectService *service.ProjectService
}

// ServeHTTP godoc
//
//	@Summary		Revoke Token
//	@Description	Revokes a link token of one of the caller's projects. Revoking twice is not an error.
//	@Tags			Tokens
//	@Accept			json
//	@Security		BearerAuth
//	@Param			request	body	accesssdk.RevokeTokenRequest	true	"Token"
//	@Success		204
//	@Failure		400	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Router			/v1/tokens/revoke [post].
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accesssdk.RevokeTokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Token == "" {
		writeBadRequest(w, "token is required")
		return
	}

	if err := h.ProjectService.RevokeToken(r.Context(), requestContext(r), req.Token); err != nil {
		writeServiceError(w, r, err, "revoke token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
