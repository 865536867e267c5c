package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/stretchr/testify/require"
)

func TestParsePurpose(t *testing.T) {
	for in, want := range map[string]domain.Purpose{
		"invite":         domain.PurposeInvite,
		" Questionnaire": domain.PurposeQuestionnaire,
		"magic-link":     domain.PurposeMagicLink,
		"password_reset": domain.PurposePasswordReset,
	} {
		got, err := domain.ParsePurpose(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	_, err := domain.ParsePurpose("admin")
	require.ErrorIs(t, err, domain.ErrUnknownPurpose)
}

func TestParseResourceType(t *testing.T) {
	got, err := domain.ParseResourceType("Project")
	require.NoError(t, err)
	require.Equal(t, domain.ResourceProject, got)

	_, err = domain.ParseResourceType("venue")
	require.ErrorIs(t, err, domain.ErrUnknownResourceType)
}

func TestBindingExpiredBoundary(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	b := domain.Binding{ExpiresAt: &at}

	require.False(t, b.Expired(at.Add(-time.Millisecond)))
	require.False(t, b.Expired(at), "expiry is strictly after")
	require.True(t, b.Expired(at.Add(time.Millisecond)))

	require.False(t, domain.Binding{}.Expired(at.Add(100*365*24*time.Hour)))
}

func TestPolicyExpiresAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p := domain.DefaultPolicy()

	t.Run("purpose default", func(t *testing.T) {
		at, err := p.ExpiresAt(domain.IssueRequest{Purpose: domain.PurposeInvite}, now)
		require.NoError(t, err)
		require.Equal(t, now.Add(7*24*time.Hour), *at)
	})

	t.Run("questionnaire has no default", func(t *testing.T) {
		at, err := p.ExpiresAt(domain.IssueRequest{Purpose: domain.PurposeQuestionnaire}, now)
		require.NoError(t, err)
		require.Nil(t, at)
	})

	t.Run("explicit ttl wins", func(t *testing.T) {
		at, err := p.ExpiresAt(domain.IssueRequest{Purpose: domain.PurposeInvite, TTL: time.Hour}, now)
		require.NoError(t, err)
		require.Equal(t, now.Add(time.Hour), *at)
	})

	t.Run("no expiry", func(t *testing.T) {
		at, err := p.ExpiresAt(domain.IssueRequest{Purpose: domain.PurposePasswordReset, NoExpiry: true}, now)
		require.NoError(t, err)
		require.Nil(t, at)
	})

	t.Run("negative ttl", func(t *testing.T) {
		_, err := p.ExpiresAt(domain.IssueRequest{Purpose: domain.PurposeInvite, TTL: -time.Second}, now)
		require.ErrorIs(t, err, domain.ErrInvalidTTL)
	})

	t.Run("override", func(t *testing.T) {
		custom := p.WithTTL(domain.PurposeInvite, 0)
		at, err := custom.ExpiresAt(domain.IssueRequest{Purpose: domain.PurposeInvite}, now)
		require.NoError(t, err)
		require.Nil(t, at)
		require.True(t, custom.SingleUse(domain.PurposeInvite))
		require.Equal(t, domain.DefaultInviteTTL, p[domain.PurposeInvite].DefaultTTL, "original untouched")
	})
}

func TestDefaultPolicySingleUse(t *testing.T) {
	p := domain.DefaultPolicy()
	require.True(t, p.SingleUse(domain.PurposeInvite))
	require.True(t, p.SingleUse(domain.PurposePasswordReset))
	require.False(t, p.SingleUse(domain.PurposeQuestionnaire))
	require.False(t, p.SingleUse(domain.PurposeMagicLink))
}

func TestElevatedTrust(t *testing.T) {
	valid := domain.ValidationResult{Status: domain.StatusValid, PrincipalHint: "a@example.com"}
	alice := &domain.Principal{Subject: "u1", Email: "A@Example.com"}
	bob := &domain.Principal{Subject: "u2", Email: "b@example.com"}

	require.True(t, domain.ElevatedTrust(valid, alice))
	require.False(t, domain.ElevatedTrust(valid, bob))
	require.False(t, domain.ElevatedTrust(valid, nil))

	noHint := valid
	noHint.PrincipalHint = ""
	require.False(t, domain.ElevatedTrust(noHint, alice))

	expired := valid
	expired.Status = domain.StatusExpired
	require.False(t, domain.ElevatedTrust(expired, alice))
}

func TestRequestContext(t *testing.T) {
	require.False(t, domain.RequestContext{}.Authenticated())
	require.Equal(t, "", domain.RequestContext{}.Subject())

	rc := domain.RequestContext{Principal: &domain.Principal{Subject: "owner-1"}}
	require.True(t, rc.Authenticated())
	require.Equal(t, "owner-1", rc.Subject())
}

func TestResourceProjectID(t *testing.T) {
	require.Equal(t, "p1", domain.Resource{Project: &domain.Project{ID: "p1"}}.ProjectID())
	require.Equal(t, "p2", domain.Resource{Guest: &domain.Guest{ProjectID: "p2"}}.ProjectID())
	require.Equal(t, "", domain.Resource{}.ProjectID())
}
