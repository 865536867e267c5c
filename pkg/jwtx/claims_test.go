package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/linkgate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "https://id.example.com"}}

	require.NoError(t, c.ValidateIssuer("https://id.example.com"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("https://other.example.com"), jwtx.ErrIssuer)
}

func TestValidateAudience(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Audience: []string{"linkgate", "cms"}}}

	require.NoError(t, c.ValidateAudience([]string{"linkgate"}))
	require.NoError(t, c.ValidateAudience([]string{"nope", "cms"}))
	require.NoError(t, c.ValidateAudience(nil))
	require.ErrorIs(t, c.ValidateAudience([]string{"billing"}), jwtx.ErrAudience)
}

func TestValidateTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := jwtx.NewClaims("owner-1", "o@example.com", nil, time.Minute, "iss", nil, now)

	require.NoError(t, c.ValidateTime(now, 0))
	require.ErrorIs(t, c.ValidateTime(now.Add(2*time.Minute), 0), jwtx.ErrExpired)
	require.NoError(t, c.ValidateTime(now.Add(2*time.Minute), 5*time.Minute), "leeway covers skew")
	require.ErrorIs(t, c.ValidateTime(now.Add(-time.Hour), 0), jwtx.ErrNotYetValid)
}

func TestHasScope(t *testing.T) {
	c := jwtx.NewClaims("owner-1", "", []string{"projects:read"}, time.Minute, "", nil, time.Now())
	require.True(t, c.HasScope("projects:read"))
	require.False(t, c.HasScope("projects:write"))
	require.NotEmpty(t, c.ID)
}
