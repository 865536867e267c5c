package domain

import "errors"

var (
	ErrUnknownPurpose      = errors.New("unknown purpose")
	ErrUnknownResourceType = errors.New("unknown resource type")
	ErrInvalidTTL          = errors.New("ttl must be positive")
	ErrInvalidRequest      = errors.New("invalid request")

	// ErrGenerationFailure means the secure random source failed. Issuance
	// must stop rather than fall back to anything weaker.
	ErrGenerationFailure = errors.New("token generation failed")

	ErrResourceNotFound = errors.New("resource not found")
	ErrForbidden        = errors.New("not the owner of this resource")

	ErrTokenNotFound = errors.New("token not found")
	ErrTokenRevoked  = errors.New("token has been revoked")
	ErrAlreadyUsed   = errors.New("token has already been used")
	ErrNotSingleUse  = errors.New("purpose is not single-use")

	// ErrLinkInvalid is the one error guests ever see for a rejected link.
	ErrLinkInvalid = errors.New("this link is no longer valid")
)
