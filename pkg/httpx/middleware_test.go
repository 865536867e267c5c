package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/linkgate/pkg/httpx"
	"github.com/aussiebroadwan/linkgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// stubVerifier accepts exactly one token value.
type stubVerifier struct {
	token  string
	claims jwtx.Claims
}

func (s stubVerifier) Verify(raw string) (jwtx.Claims, error) {
	if raw != s.token {
		return jwtx.Claims{}, errors.New("bad token")
	}
	return s.claims, nil
}

func newStub() stubVerifier {
	c := jwtx.Claims{Email: "owner@example.com", Scopes: []string{"projects:read"}}
	c.Subject = "owner-1"
	return stubVerifier{token: "good", claims: c}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	var subject string
	h := httpx.AuthnMiddleware(newStub())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = httpx.SubjectFromContext(r.Context())
	}))

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer nope"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, header)
		require.True(t, strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Bearer"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "owner-1", subject)
}

func TestOptionalAuthn(t *testing.T) {
	var got *jwtx.Claims
	h := httpx.OptionalAuthn(newStub())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = nil
		if c, ok := httpx.ClaimsFromContext(r.Context()); ok {
			got = &c
		}
	}))

	for _, header := range []string{"", "Bearer nope"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Nil(t, got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, got)
	require.Equal(t, "owner@example.com", got.Email)
}

func TestRequireAnyScope(t *testing.T) {
	h := httpx.Chain(okHandler(),
		httpx.AuthnMiddleware(newStub()),
		httpx.RequireAnyScope("projects:write"),
	)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")

	h = httpx.Chain(okHandler(),
		httpx.AuthnMiddleware(newStub()),
		httpx.RequireAnyScope("projects:write", "projects:read"),
	)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Email string `json:"email"`
	}

	var b body
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com"}`))
	require.NoError(t, httpx.DecodeJSON(req, &b))
	require.Equal(t, "a@example.com", b.Email)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"mail":"x"}`))
	require.Error(t, httpx.DecodeJSON(req, &b), "unknown fields are rejected")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"x"} {"email":"y"}`))
	require.Error(t, httpx.DecodeJSON(req, &b))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	require.NoError(t, httpx.DecodeJSON(req, &b), "empty body is allowed")
}
