package domain

import "time"

// QuestionnaireResponse is one submission through a questionnaire link.
type QuestionnaireResponse struct {
	ID          string
	ProjectID   string
	BindingID   string
	Email       string
	Answers     map[string]string
	SubmittedAt time.Time
}
