package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	p, err := e.projects.Create(ctx, owner, "  Best man speech ")
	require.NoError(t, err)
	require.Equal(t, "Best man speech", p.Title)
	require.Equal(t, ownerID, p.OwnerID)

	got, err := e.projects.Get(ctx, owner, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	_, err = e.projects.Create(ctx, domain.RequestContext{}, "Anonymous")
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.projects.Create(ctx, owner, "   ")
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = e.projects.Create(ctx, owner, strings.Repeat("x", maxTitleLength+1))
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestDeleteProjectRevokesEverything(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedProject(t, "7")

	q, err := e.quest.Link(ctx, owner, "7", 0)
	require.NoError(t, err)
	inv, err := e.invites.Send(ctx, owner, "7", SendInviteRequest{Email: "a@example.com"})
	require.NoError(t, err)

	stranger := domain.RequestContext{Principal: &domain.Principal{Subject: "someone-else"}}
	require.ErrorIs(t, e.projects.Delete(ctx, stranger, "7"), domain.ErrForbidden)
	require.True(t, e.validate(q.Token, domain.PurposeQuestionnaire).Valid())

	require.NoError(t, e.projects.Delete(ctx, owner, "7"))

	for _, c := range []struct {
		token   string
		purpose domain.Purpose
	}{{q.Token, domain.PurposeQuestionnaire}, {inv.Issued.Token, domain.PurposeInvite}} {
		r := e.validate(c.token, c.purpose)
		require.Equal(t, domain.StatusInvalid, r.Status)
		require.Equal(t, domain.ReasonRevoked, r.Reason)
	}

	require.ErrorIs(t, e.projects.Delete(ctx, owner, "7"), domain.ErrResourceNotFound)
	_, err = e.projects.Get(ctx, owner, "7")
	require.ErrorIs(t, err, domain.ErrResourceNotFound)
}

func TestOwnerRevokeToken(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedProject(t, "42")
	inv, err := e.invites.Send(ctx, owner, "42", SendInviteRequest{Email: "a@example.com"})
	require.NoError(t, err)

	stranger := domain.RequestContext{Principal: &domain.Principal{Subject: "someone-else"}}
	require.ErrorIs(t, e.projects.RevokeToken(ctx, stranger, inv.Issued.Token), domain.ErrForbidden)
	require.ErrorIs(t, e.projects.RevokeToken(ctx, domain.RequestContext{}, inv.Issued.Token), domain.ErrForbidden)
	require.True(t, e.validate(inv.Issued.Token, domain.PurposeInvite).Valid())

	require.NoError(t, e.projects.RevokeToken(ctx, owner, inv.Issued.Token))
	require.False(t, e.validate(inv.Issued.Token, domain.PurposeInvite).Valid())

	require.ErrorIs(t, e.projects.RevokeToken(ctx, owner, strings.Repeat("cd", 32)), domain.ErrTokenNotFound)
}

func TestListGuestsFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedProject(t, "42")

	a, err := e.invites.Send(ctx, owner, "42", SendInviteRequest{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = e.invites.Send(ctx, owner, "42", SendInviteRequest{Email: "b@example.com"})
	require.NoError(t, err)
	_, err = e.invites.Accept(ctx, domain.RequestContext{}, a.Issued.Token, AcceptRequest{})
	require.NoError(t, err)

	all, err := e.projects.ListGuests(ctx, owner, "42", "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	accepted, err := e.projects.ListGuests(ctx, owner, "42", domain.GuestAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	require.Equal(t, "a@example.com", accepted[0].Email)

	pending, err := e.projects.ListGuests(ctx, owner, "42", domain.GuestPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}
