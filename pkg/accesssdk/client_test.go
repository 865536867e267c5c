package accesssdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientSendsBearerAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		require.Equal(t, "/v1/projects", r.URL.Path)

		var req CreateProjectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(ProjectResponse{ID: "p1", Title: req.Title})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/").WithToken("jwt-1")
	p, err := c.CreateProject(context.Background(), CreateProjectRequest{Title: "Toast"})
	require.NoError(t, err)
	require.Equal(t, "p1", p.ID)
	require.Equal(t, "Toast", p.Title)
}

func TestClientMapsLinkInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorCodeLinkInvalid, ErrorDescription: LinkInvalidDescription})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).OpenInvite(context.Background(), "abc")
	require.ErrorIs(t, err, ErrLinkInvalid)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusGone, apiErr.StatusCode)
	require.Equal(t, LinkInvalidDescription, apiErr.Description)
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Liveness(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
