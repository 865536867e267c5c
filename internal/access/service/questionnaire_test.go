package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/stretchr/testify/require"
)

func TestQuestionnaireFlow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedProject(t, "7")

	link, err := e.quest.Link(ctx, owner, "7", 0)
	require.NoError(t, err)
	require.Equal(t, "https://speeches.example/questionnaire/"+link.Token, link.URL)
	require.Nil(t, link.Binding.ExpiresAt)

	p, err := e.quest.Open(ctx, link.Token)
	require.NoError(t, err)
	require.Equal(t, "7", p.ID)

	for _, email := range []string{"a@example.com", ""} {
		resp, err := e.quest.Submit(ctx, link.Token, SubmitRequest{
			Email:   email,
			Answers: map[string]string{"how_do_you_know_them": "school"},
		})
		require.NoError(t, err)
		require.Equal(t, "7", resp.ProjectID)
		require.Equal(t, link.Binding.ID, resp.BindingID)
	}

	responses, err := e.projects.ListResponses(ctx, owner, "7")
	require.NoError(t, err)
	require.Len(t, responses, 2)
	require.Equal(t, "school", responses[0].Answers["how_do_you_know_them"])

	// Regenerating retires the old link.
	fresh, err := e.quest.Link(ctx, owner, "7", 0)
	require.NoError(t, err)
	_, err = e.quest.Open(ctx, link.Token)
	require.ErrorIs(t, err, domain.ErrLinkInvalid)
	_, err = e.quest.Open(ctx, fresh.Token)
	require.NoError(t, err)
}

func TestQuestionnaireRejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.seedProject(t, "7")

	stranger := domain.RequestContext{Principal: &domain.Principal{Subject: "someone-else"}}
	_, err := e.quest.Link(ctx, stranger, "7", 0)
	require.ErrorIs(t, err, domain.ErrForbidden)

	link, err := e.quest.Link(ctx, owner, "7", 0)
	require.NoError(t, err)

	_, err = e.quest.Submit(ctx, link.Token, SubmitRequest{})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = e.quest.Submit(ctx, link.Token, SubmitRequest{Answers: map[string]string{"q": strings.Repeat("x", maxAnswerLength+1)}})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = e.quest.Submit(ctx, link.Token, SubmitRequest{Email: "nope", Answers: map[string]string{"q": "a"}})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	// An invite token is never a questionnaire token.
	inv := e.issue(t, domain.ProjectRef("7"), domain.PurposeInvite, "", 0)
	_, err = e.quest.Submit(ctx, inv.Token, SubmitRequest{Answers: map[string]string{"q": "a"}})
	require.ErrorIs(t, err, domain.ErrLinkInvalid)
}

func TestValidateAnswers(t *testing.T) {
	require.NoError(t, validateAnswers(map[string]string{"q1": "yes"}))
	require.Error(t, validateAnswers(nil))
	require.Error(t, validateAnswers(map[string]string{"": "x"}))
	require.Error(t, validateAnswers(map[string]string{strings.Repeat("k", maxAnswerKey+1): "x"}))

	many := make(map[string]string, maxAnswers+1)
	for i := range maxAnswers + 1 {
		many[fmt.Sprintf("q%d", i)] = "x"
	}
	require.Error(t, validateAnswers(many))
}
