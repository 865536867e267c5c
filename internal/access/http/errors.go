package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/pkg/accesssdk"
	"github.com/aussiebroadwan/linkgate/pkg/httpx"
	"github.com/aussiebroadwan/linkgate/pkg/slogx"
)

// writeLinkInvalid is the single answer for any rejected guest link. The
// internal reason stays in the logs.
func writeLinkInvalid(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusGone, accesssdk.ErrorCodeLinkInvalid, accesssdk.LinkInvalidDescription)
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, accesssdk.ErrorCodeInvalidRequest, desc)
}

// writeServiceError maps service errors on owner routes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidTTL),
		errors.Is(err, domain.ErrUnknownPurpose),
		errors.Is(err, domain.ErrUnknownResourceType):
		writeBadRequest(w, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, accesssdk.ErrorCodeForbidden, "You do not own this project")
	case errors.Is(err, domain.ErrResourceNotFound):
		httpx.WriteError(w, http.StatusNotFound, accesssdk.ErrorCodeNotFound, "Project not found")
	case errors.Is(err, domain.ErrTokenNotFound):
		httpx.WriteError(w, http.StatusNotFound, accesssdk.ErrorCodeNotFound, "Token not found")
	default:
		slogx.FromContext(r.Context()).Error("failed to "+action, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, accesssdk.ErrorCodeServerError, "Failed to "+action)
	}
}

// writeGuestError maps service errors on guest routes. Anything about the
// link itself collapses into link_invalid.
func writeGuestError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrLinkInvalid),
		errors.Is(err, domain.ErrAlreadyUsed),
		errors.Is(err, domain.ErrTokenRevoked),
		errors.Is(err, domain.ErrTokenNotFound):
		writeLinkInvalid(w)
	case errors.Is(err, domain.ErrInvalidRequest):
		writeBadRequest(w, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("failed to "+action, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, accesssdk.ErrorCodeServerError, "Failed to "+action)
	}
}

// requestContext turns verified bearer claims into the explicit principal
// passed to services.
func requestContext(r *http.Request) domain.RequestContext {
	c, ok := httpx.ClaimsFromContext(r.Context())
	if !ok || c.Subject == "" {
		return domain.RequestContext{}
	}
	return domain.RequestContext{Principal: &domain.Principal{
		Subject: c.Subject,
		Email:   c.Email,
		Name:    c.Name,
	}}
}
