package accesssdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes used in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeForbidden         = "forbidden"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeLinkInvalid       = "link_invalid"
	ErrorCodeRateLimited       = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// LinkInvalidDescription is the only explanation a guest ever gets for a
// rejected link.
const LinkInvalidDescription = "This link is no longer valid"

// APIError is a non-2xx response.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Description)
}

// Is matches on Code so errors.Is(err, ErrLinkInvalid) works on any
// response carrying that code.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrLinkInvalid    = &APIError{StatusCode: http.StatusGone, Code: ErrorCodeLinkInvalid}
	ErrInvalidRequest = &APIError{StatusCode: http.StatusBadRequest, Code: ErrorCodeInvalidRequest}
	ErrUnauthorized   = &APIError{StatusCode: http.StatusUnauthorized, Code: ErrorCodeInvalidToken}
	ErrForbidden      = &APIError{StatusCode: http.StatusForbidden, Code: ErrorCodeForbidden}
	ErrNotFound       = &APIError{StatusCode: http.StatusNotFound, Code: ErrorCodeNotFound}
	ErrRateLimited    = &APIError{StatusCode: http.StatusTooManyRequests, Code: ErrorCodeRateLimited}
)

func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        ErrorCodeServerError,
			Description: http.StatusText(resp.StatusCode),
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Code: er.Error, Description: er.ErrorDescription}
}
