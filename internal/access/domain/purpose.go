package domain

import (
	"fmt"
	"strings"
)

// Purpose is the use-class of a link token. Tokens of different purposes
// are never interchangeable.
type Purpose string

const (
	PurposeInvite        Purpose = "invite"
	PurposeQuestionnaire Purpose = "questionnaire"
	PurposeMagicLink     Purpose = "magic_link"
	PurposePasswordReset Purpose = "password_reset"
)

// Purposes lists every known purpose in a stable order.
func Purposes() []Purpose {
	return []Purpose{PurposeInvite, PurposeQuestionnaire, PurposeMagicLink, PurposePasswordReset}
}

func (p Purpose) Valid() bool {
	switch p {
	case PurposeInvite, PurposeQuestionnaire, PurposeMagicLink, PurposePasswordReset:
		return true
	}
	return false
}

func (p Purpose) String() string { return string(p) }

// ParsePurpose accepts the canonical names plus "magic-link" and
// "password-reset" spellings used in URLs and the CLI.
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPurpose, s)
	}
	return p, nil
}
