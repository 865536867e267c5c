package sqlite

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
)

type responsesRepo struct {
	db sqlx.ExtContext
}

func (r *responsesRepo) CreateResponse(ctx context.Context, resp domain.QuestionnaireResponse) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return err
	}
	q := sq.Insert("questionnaire_responses").
		Columns(responseColumns...).
		Values(
			resp.ID,
			resp.ProjectID,
			resp.BindingID,
			resp.Email,
			string(answers),
			toMillis(resp.SubmittedAt),
		)
	_, err = exec(ctx, r.db, q)
	return err
}

func (r *responsesRepo) ListResponses(ctx context.Context, projectID string) ([]domain.QuestionnaireResponse, error) {
	var rows []responseRow
	q := sq.Select(responseColumns...).
		From("questionnaire_responses").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("submitted_at", "id")
	if err := list(ctx, r.db, &rows, q); err != nil {
		return nil, err
	}

	out := make([]domain.QuestionnaireResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

var _ store.Responses = (*responsesRepo)(nil)
