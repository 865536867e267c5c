package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/mailing"
	"github.com/aussiebroadwan/linkgate/internal/access/metrics"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
	"github.com/aussiebroadwan/linkgate/pkg/clockx"
	"github.com/aussiebroadwan/linkgate/pkg/idx"
	"github.com/aussiebroadwan/linkgate/pkg/slogx"
)

// Mailer delivers invite emails.
type Mailer interface {
	SendInvite(ctx context.Context, inv mailing.Invite) error
}

type InviteService struct {
	Store     store.Store
	Issuer    *IssuerService
	Validator *ValidatorService
	Mailer    Mailer
	Clock     clockx.Clock
	Metrics   *metrics.Metrics

	// AutoAcceptOnEmailMatch lets an authenticated principal whose email
	// matches the invite's hint skip the consent step.
	AutoAcceptOnEmailMatch bool
}

type SendInviteRequest struct {
	Email     string
	Name      string
	TTL       time.Duration
	NoExpiry  bool
	SendEmail bool
}

type Invitation struct {
	Guest   domain.Guest
	Issued  domain.IssuedToken
	Emailed bool
}

// InviteView is what a guest sees on opening an invite link.
type InviteView struct {
	Project         domain.Project
	Guest           *domain.Guest
	ConsentRequired bool
	Accepted        bool
}

type AcceptRequest struct {
	Email string
	Name  string
}

type Acceptance struct {
	Project domain.Project
	Guest   domain.Guest
}

func normalizeEmail(s string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrInvalidRequest)
	}
	return domain.NormalizeHint(addr.Address), nil
}

// Send invites email to a project. Each email gets its own guest resource,
// so a new invite only replaces the link previously sent to the same person.
func (s *InviteService) Send(ctx context.Context, rc domain.RequestContext, projectID string, req SendInviteRequest) (Invitation, error) {
	log := slogx.FromContext(ctx)

	project, err := ownedProject(ctx, s.Store.Resources(), rc, projectID)
	if err != nil {
		return Invitation{}, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		log.Warn("invite with invalid email", slog.String("project_id", projectID))
		return Invitation{}, err
	}

	guest, err := s.guestFor(ctx, project.ID, email, strings.TrimSpace(req.Name))
	if err != nil {
		log.Error("failed to prepare guest", slog.String("project_id", projectID), slog.Any("error", err))
		return Invitation{}, err
	}

	issued, err := s.Issuer.Issue(ctx, domain.IssueRequest{
		Resource:      domain.GuestRef(guest.ID),
		Purpose:       domain.PurposeInvite,
		PrincipalHint: email,
		TTL:           req.TTL,
		NoExpiry:      req.NoExpiry,
		CreatedBy:     rc.Subject(),
	})
	if err != nil {
		return Invitation{}, err
	}

	inv := Invitation{Guest: guest, Issued: issued}
	if req.SendEmail && s.Mailer != nil {
		err := s.Mailer.SendInvite(ctx, mailing.Invite{
			To:           email,
			Name:         guest.Name,
			ProjectTitle: project.Title,
			URL:          issued.URL,
			ExpiresAt:    issued.Binding.ExpiresAt,
		})
		s.Metrics.MailSent(err)
		if err != nil {
			// The owner still gets the link back and can share it by hand.
			log.Error("failed to send invite email", slog.String("guest_id", guest.ID), slog.Any("error", err))
		} else {
			inv.Emailed = true
		}
	}
	return inv, nil
}

// guestFor returns the guest for (project, email), creating a pending one.
func (s *InviteService) guestFor(ctx context.Context, projectID, email, name string) (domain.Guest, error) {
	g, err := s.Store.Resources().GetGuestByEmail(ctx, projectID, email)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Guest{}, err
	}

	g = domain.Guest{
		ID:        idx.New().String(),
		ProjectID: projectID,
		Email:     email,
		Name:      name,
		Status:    domain.GuestPending,
		CreatedAt: nowFrom(s.Clock),
	}
	err = s.Store.Resources().CreateGuest(ctx, g)
	if errors.Is(err, store.ErrAlreadyExists) {
		return s.Store.Resources().GetGuestByEmail(ctx, projectID, email)
	}
	return g, err
}

// Open validates an invite link for display. With auto-accept enabled a
// matching signed-in principal is accepted straight away.
func (s *InviteService) Open(ctx context.Context, rc domain.RequestContext, token string) (InviteView, error) {
	r := s.Validator.Check(ctx, token, domain.PurposeInvite)
	if !r.Valid() {
		return InviteView{}, domain.ErrLinkInvalid
	}

	view := InviteView{Project: *r.Resource.Project, Guest: r.Resource.Guest, ConsentRequired: true}
	if !s.AutoAcceptOnEmailMatch || !domain.ElevatedTrust(r, rc.Principal) {
		return view, nil
	}

	acc, err := s.accept(ctx, rc, token, r, AcceptRequest{Email: rc.Principal.Email, Name: rc.Principal.Name})
	if err != nil {
		return InviteView{}, err
	}
	slogx.FromContext(ctx).Info("invite auto-accepted on email match", slog.String("guest_id", acc.Guest.ID))
	return InviteView{Project: acc.Project, Guest: &acc.Guest, Accepted: true}, nil
}

// Accept redeems an invite after the guest's explicit consent.
func (s *InviteService) Accept(ctx context.Context, rc domain.RequestContext, token string, req AcceptRequest) (Acceptance, error) {
	r := s.Validator.Check(ctx, token, domain.PurposeInvite)
	if !r.Valid() {
		return Acceptance{}, domain.ErrLinkInvalid
	}
	return s.accept(ctx, rc, token, r, req)
}

func (s *InviteService) accept(
	ctx context.Context,
	rc domain.RequestContext,
	token string,
	r domain.ValidationResult,
	req AcceptRequest,
) (Acceptance, error) {
	log := slogx.FromContext(ctx)
	now := nowFrom(s.Clock)
	name := strings.TrimSpace(req.Name)

	email, err := s.acceptingEmail(r, rc, req.Email)
	if err != nil {
		log.Warn("invite acceptance rejected", slog.String("binding_id", r.BindingID), slog.Any("error", err))
		return Acceptance{}, err
	}

	usedBy := rc.Subject()
	if usedBy == "" {
		usedBy = email
	}

	var guest domain.Guest
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.Issuer.markUsed(ctx, tx.Bindings(), token, usedBy); err != nil {
			return err
		}

		if r.Resource.Guest != nil {
			guest = *r.Resource.Guest
		} else {
			// Invite bound to the project itself: the guest appears on acceptance.
			g, err := tx.Resources().GetGuestByEmail(ctx, r.Resource.Project.ID, email)
			switch {
			case err == nil:
				guest = g
			case errors.Is(err, store.ErrNotFound):
				guest = domain.Guest{
					ID:        idx.New().String(),
					ProjectID: r.Resource.Project.ID,
					Email:     email,
					Name:      name,
					Status:    domain.GuestPending,
					CreatedAt: now,
				}
				if err := tx.Resources().CreateGuest(ctx, guest); err != nil {
					return err
				}
			default:
				return err
			}
		}

		if err := tx.Resources().AcceptGuest(ctx, guest.ID, name, now); err != nil {
			return err
		}
		guest.Status = domain.GuestAccepted
		if guest.AcceptedAt == nil {
			guest.AcceptedAt = &now
		}
		if name != "" {
			guest.Name = name
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyUsed) || errors.Is(err, domain.ErrTokenRevoked) || errors.Is(err, domain.ErrTokenNotFound) {
			return Acceptance{}, fmt.Errorf("%w: %w", domain.ErrLinkInvalid, err)
		}
		log.Error("failed to accept invite", slog.String("binding_id", r.BindingID), slog.Any("error", err))
		return Acceptance{}, err
	}

	log.Info("invite accepted",
		slog.String("binding_id", r.BindingID),
		slog.String("guest_id", guest.ID),
		slog.String("project_id", guest.ProjectID),
	)
	return Acceptance{Project: *r.Resource.Project, Guest: guest}, nil
}

// acceptingEmail decides which address the acceptance is recorded for. Only
// an email given explicitly is checked against the invitation; a signed-in
// principal's email is a last resort for invites that carry no address.
func (s *InviteService) acceptingEmail(r domain.ValidationResult, rc domain.RequestContext, given string) (string, error) {
	given = strings.TrimSpace(given)

	if g := r.Resource.Guest; g != nil {
		if given != "" && !strings.EqualFold(given, g.Email) {
			return "", fmt.Errorf("%w: email does not match the invitation", domain.ErrInvalidRequest)
		}
		return g.Email, nil
	}

	if given == "" {
		given = r.PrincipalHint
	}
	if given == "" && rc.Principal != nil {
		given = rc.Principal.Email
	}
	email, err := normalizeEmail(given)
	if err != nil {
		return "", err
	}
	if r.PrincipalHint != "" && email != r.PrincipalHint {
		return "", fmt.Errorf("%w: email does not match the invitation", domain.ErrInvalidRequest)
	}
	return email, nil
}
