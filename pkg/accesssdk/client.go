package accesssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one linkgate instance. A Client with a Token acts as that
// owner; without one only guest and health calls succeed.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken returns a copy of c that sends token as a bearer JWT.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// call performs a request and decodes the response into out when the
// status matches want.
func (c *Client) call(ctx context.Context, method, path string, in, out any, want int) error {
	resp, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != want {
		return parseErrorResponse(resp, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func escape(s string) string { return url.PathEscape(s) }

// ============================================================================
// Health
// ============================================================================

func (c *Client) Liveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.call(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Readiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.call(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Owner
// ============================================================================

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	var out ProjectResponse
	if err := c.call(ctx, http.MethodPost, "/v1/projects", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.call(ctx, http.MethodDelete, "/v1/projects/"+escape(projectID), nil, nil, http.StatusNoContent)
}

func (c *Client) CreateInvite(ctx context.Context, projectID string, req CreateInviteRequest) (*InviteResponse, error) {
	var out InviteResponse
	path := "/v1/projects/" + escape(projectID) + "/invites"
	if err := c.call(ctx, http.MethodPost, path, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) QuestionnaireLink(ctx context.Context, projectID string, req QuestionnaireLinkRequest) (*LinkResponse, error) {
	var out LinkResponse
	path := "/v1/projects/" + escape(projectID) + "/questionnaire-link"
	if err := c.call(ctx, http.MethodPost, path, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokeToken(ctx context.Context, token string) error {
	return c.call(ctx, http.MethodPost, "/v1/tokens/revoke", RevokeTokenRequest{Token: token}, nil, http.StatusNoContent)
}

// ListGuests lists guests by status ("accepted", "pending" or "all").
func (c *Client) ListGuests(ctx context.Context, projectID, status string) ([]GuestResponse, error) {
	path := "/v1/projects/" + escape(projectID) + "/guests"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out GuestListResponse
	if err := c.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Guests, nil
}

func (c *Client) ListResponses(ctx context.Context, projectID string) ([]QuestionnaireResponseItem, error) {
	var out QuestionnaireResponseList
	path := "/v1/projects/" + escape(projectID) + "/responses"
	if err := c.call(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Responses, nil
}

// ============================================================================
// Guest
// ============================================================================

func (c *Client) OpenInvite(ctx context.Context, token string) (*InviteViewResponse, error) {
	var out InviteViewResponse
	if err := c.call(ctx, http.MethodGet, "/invite/"+escape(token), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AcceptInvite(ctx context.Context, token string, req AcceptInviteRequest) (*AcceptInviteResponse, error) {
	var out AcceptInviteResponse
	if err := c.call(ctx, http.MethodPost, "/invite/"+escape(token)+"/accept", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OpenQuestionnaire(ctx context.Context, token string) (*QuestionnaireViewResponse, error) {
	var out QuestionnaireViewResponse
	if err := c.call(ctx, http.MethodGet, "/questionnaire/"+escape(token), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitQuestionnaire(ctx context.Context, token string, req SubmitQuestionnaireRequest) (*SubmitQuestionnaireResponse, error) {
	var out SubmitQuestionnaireResponse
	if err := c.call(ctx, http.MethodPost, "/questionnaire/"+escape(token), req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
