package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
)

// LinkBuilder turns a token into the URL that is handed to a guest. The token
// is always the last path segment.
type LinkBuilder struct {
	base string
}

// NewLinkBuilder validates base, which must be an absolute http(s) URL.
func NewLinkBuilder(base string) (LinkBuilder, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return LinkBuilder{}, fmt.Errorf("public base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return LinkBuilder{}, fmt.Errorf("public base url %q must be an absolute http(s) url", base)
	}
	u.RawQuery, u.Fragment = "", ""
	return LinkBuilder{base: strings.TrimRight(u.String(), "/")}, nil
}

// PathPrefix is the route a purpose's links are served under.
func PathPrefix(p domain.Purpose) string {
	switch p {
	case domain.PurposeInvite:
		return "/invite/"
	case domain.PurposeQuestionnaire:
		return "/questionnaire/"
	case domain.PurposeMagicLink:
		return "/magic/"
	case domain.PurposePasswordReset:
		return "/reset/"
	}
	return "/link/"
}

func (b LinkBuilder) URL(p domain.Purpose, token string) string {
	return b.base + PathPrefix(p) + url.PathEscape(token)
}
