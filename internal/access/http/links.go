package http

import (
	"net/http"

	"github.com/aussiebroadwan/linkgate/internal/access/service"
	"github.com/aussiebroadwan/linkgate/pkg/accesssdk"
	"github.com/aussiebroadwan/linkgate/pkg/httpx"
)

// InviteLinkHandler serves /invite/{token}.
type InviteLinkHandler struct {
	InviteService *service.InviteService
}

// HandleOpen handles GET /invite/{token}
//
//	@Summary		Open Invite
//	@Description	Shows what an invite link is for. A signed-in visitor whose email matches the invite may be accepted directly when the server allows it.
//	@Tags			Guest Links
//	@Produce		json
//	@Param			token	path		string	true	"Link token"
//	@Success		200		{object}	accesssdk.InviteViewResponse
//	@Failure		410		{object}	accesssdk.ErrorResponse	"link_invalid"
//	@Router			/invite/{token} [get].
func (h *InviteLinkHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	view, err := h.InviteService.Open(r.Context(), requestContext(r), r.PathValue("token"))
	if err != nil {
		writeGuestError(w, r, err, "open invite")
		return
	}

	out := accesssdk.InviteViewResponse{
		Project:         accesssdk.ProjectSummary{ID: view.Project.ID, Title: view.Project.Title},
		ConsentRequired: view.ConsentRequired,
		Accepted:        view.Accepted,
	}
	if view.Guest != nil {
		out.Email = view.Guest.Email
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleAccept handles POST /invite/{token}/accept
//
//	@Summary		Accept Invite
//	@Description	Records the guest's consent and consumes the invite link.
//	@Tags			Guest Links
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string							true	"Link token"
//	@Param			request	body		accesssdk.AcceptInviteRequest	false	"Guest details"
//	@Success		200		{object}	accesssdk.AcceptInviteResponse
//	@Failure		400		{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	accesssdk.ErrorResponse	"link_invalid"
//	@Router			/invite/{token}/accept [post].
func (h *InviteLinkHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req accesssdk.AcceptInviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	acc, err := h.InviteService.Accept(r.Context(), requestContext(r), r.PathValue("token"), service.AcceptRequest{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		writeGuestError(w, r, err, "accept invite")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.AcceptInviteResponse{
		Project: accesssdk.ProjectSummary{ID: acc.Project.ID, Title: acc.Project.Title},
		GuestID: acc.Guest.ID,
		Email:   acc.Guest.Email,
		Name:    acc.Guest.Name,
	})
}

// QuestionnaireLinkHandler serves /questionnaire/{token}.
type QuestionnaireLinkHandler struct {
	QuestionnaireService *service.QuestionnaireService
}

// HandleOpen handles GET /questionnaire/{token}
//
//	@Summary		Open Questionnaire
//	@Tags			Guest Links
//	@Produce		json
//	@Param			token	path		string	true	"Link token"
//	@Success		200		{object}	accesssdk.QuestionnaireViewResponse
//	@Failure		410		{object}	accesssdk.ErrorResponse	"link_invalid"
//	@Router			/questionnaire/{token} [get].
func (h *QuestionnaireLinkHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	p, err := h.QuestionnaireService.Open(r.Context(), r.PathValue("token"))
	if err != nil {
		writeGuestError(w, r, err, "open questionnaire")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accesssdk.QuestionnaireViewResponse{
		Project: accesssdk.ProjectSummary{ID: p.ID, Title: p.Title},
	})
}

// HandleSubmit handles POST /questionnaire/{token}
//
//	@Summary		Submit Questionnaire
//	@Description	Stores one response. The link can be used again.
//	@Tags			Guest Links
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string									true	"Link token"
//	@Param			request	body		accesssdk.SubmitQuestionnaireRequest	true	"Answers"
//	@Success		201		{object}	accesssdk.SubmitQuestionnaireResponse
//	@Failure		400		{object}	accesssdk.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	accesssdk.ErrorResponse	"link_invalid"
//	@Router			/questionnaire/{token} [post].
func (h *QuestionnaireLinkHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req accesssdk.SubmitQuestionnaireRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	resp, err := h.QuestionnaireService.Submit(r.Context(), r.PathValue("token"), service.SubmitRequest{
		Email:   req.Email,
		Answers: req.Answers,
	})
	if err != nil {
		writeGuestError(w, r, err, "submit questionnaire")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, accesssdk.SubmitQuestionnaireResponse{
		ID:          resp.ID,
		SubmittedAt: resp.SubmittedAt,
	})
}
