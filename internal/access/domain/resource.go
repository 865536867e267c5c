package domain

import (
	"fmt"
	"strings"
	"time"
)

// ResourceType discriminates what a token grants access to.
type ResourceType string

const (
	ResourceProject ResourceType = "project"
	ResourceGuest   ResourceType = "guest"
)

func (t ResourceType) Valid() bool {
	return t == ResourceProject || t == ResourceGuest
}

func ParseResourceType(s string) (ResourceType, error) {
	t := ResourceType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResourceType, s)
	}
	return t, nil
}

// ResourceRef points at a resource without loading it.
type ResourceRef struct {
	Type ResourceType
	ID   string
}

func ProjectRef(id string) ResourceRef { return ResourceRef{Type: ResourceProject, ID: id} }
func GuestRef(id string) ResourceRef   { return ResourceRef{Type: ResourceGuest, ID: id} }

func (r ResourceRef) String() string { return string(r.Type) + ":" + r.ID }

// Project is a speech or event a guest can be invited to.
type Project struct {
	ID        string
	Title     string
	OwnerID   string
	CreatedAt time.Time
	DeletedAt *time.Time
}

type GuestStatus string

const (
	GuestPending  GuestStatus = "pending"
	GuestAccepted GuestStatus = "accepted"
)

// Guest is an invited person. Guests have no account; they are identified
// by the link they were sent and the email they were invited with.
type Guest struct {
	ID         string
	ProjectID  string
	Email      string
	Name       string
	Status     GuestStatus
	CreatedAt  time.Time
	AcceptedAt *time.Time
}

// Resource is a resolved ResourceRef. Exactly one of Project or Guest
// matches Ref.Type; a guest resource also carries its live project.
type Resource struct {
	Ref     ResourceRef
	Project *Project
	Guest   *Guest
}

// ProjectID returns the project the resource belongs to.
func (r Resource) ProjectID() string {
	switch {
	case r.Guest != nil:
		return r.Guest.ProjectID
	case r.Project != nil:
		return r.Project.ID
	}
	return ""
}
