package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
	"github.com/aussiebroadwan/linkgate/pkg/clockx"
	"github.com/aussiebroadwan/linkgate/pkg/idx"
	"github.com/aussiebroadwan/linkgate/pkg/slogx"
)

const (
	maxAnswers      = 100
	maxAnswerKey    = 100
	maxAnswerLength = 4000
)

// QuestionnaireService serves the durable, reusable questionnaire link of a
// project.
type QuestionnaireService struct {
	Store     store.Store
	Issuer    *IssuerService
	Validator *ValidatorService
	Clock     clockx.Clock
}

// Link issues a new questionnaire link for the project, replacing the
// previous one.
func (s *QuestionnaireService) Link(
	ctx context.Context,
	rc domain.RequestContext,
	projectID string,
	ttl time.Duration,
) (domain.IssuedToken, error) {
	if _, err := ownedProject(ctx, s.Store.Resources(), rc, projectID); err != nil {
		return domain.IssuedToken{}, err
	}
	return s.Issuer.Issue(ctx, domain.IssueRequest{
		Resource:  domain.ProjectRef(projectID),
		Purpose:   domain.PurposeQuestionnaire,
		TTL:       ttl,
		CreatedBy: rc.Subject(),
	})
}

// Open returns the project behind a questionnaire link.
func (s *QuestionnaireService) Open(ctx context.Context, token string) (domain.Project, error) {
	r := s.Validator.Check(ctx, token, domain.PurposeQuestionnaire)
	if !r.Valid() {
		return domain.Project{}, domain.ErrLinkInvalid
	}
	return *r.Resource.Project, nil
}

type SubmitRequest struct {
	Email   string
	Answers map[string]string
}

// Submit stores one response. The link stays usable for further responses.
func (s *QuestionnaireService) Submit(ctx context.Context, token string, req SubmitRequest) (domain.QuestionnaireResponse, error) {
	log := slogx.FromContext(ctx)

	r := s.Validator.Check(ctx, token, domain.PurposeQuestionnaire)
	if !r.Valid() {
		return domain.QuestionnaireResponse{}, domain.ErrLinkInvalid
	}
	if err := validateAnswers(req.Answers); err != nil {
		return domain.QuestionnaireResponse{}, err
	}

	email := ""
	if strings.TrimSpace(req.Email) != "" {
		var err error
		if email, err = normalizeEmail(req.Email); err != nil {
			return domain.QuestionnaireResponse{}, err
		}
	}

	resp := domain.QuestionnaireResponse{
		ID:          idx.New().String(),
		ProjectID:   r.Resource.ProjectID(),
		BindingID:   r.BindingID,
		Email:       email,
		Answers:     req.Answers,
		SubmittedAt: nowFrom(s.Clock),
	}
	if err := s.Store.Responses().CreateResponse(ctx, resp); err != nil {
		log.Error("failed to store questionnaire response", slog.String("project_id", resp.ProjectID), slog.Any("error", err))
		return domain.QuestionnaireResponse{}, err
	}

	log.Info("questionnaire response stored",
		slog.String("response_id", resp.ID),
		slog.String("project_id", resp.ProjectID),
		slog.Int("answers", len(resp.Answers)),
	)
	return resp, nil
}

func validateAnswers(answers map[string]string) error {
	if len(answers) == 0 {
		return fmt.Errorf("%w: at least one answer is required", domain.ErrInvalidRequest)
	}
	if len(answers) > maxAnswers {
		return fmt.Errorf("%w: at most %d answers", domain.ErrInvalidRequest, maxAnswers)
	}
	for k, v := range answers {
		if k == "" || len(k) > maxAnswerKey {
			return fmt.Errorf("%w: answer keys must be 1 to %d bytes", domain.ErrInvalidRequest, maxAnswerKey)
		}
		if utf8.RuneCountInString(v) > maxAnswerLength {
			return fmt.Errorf("%w: answer %q is longer than %d characters", domain.ErrInvalidRequest, k, maxAnswerLength)
		}
	}
	return nil
}
