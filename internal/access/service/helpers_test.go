package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/internal/access/mailing"
	"github.com/aussiebroadwan/linkgate/internal/access/metrics"
	"github.com/aussiebroadwan/linkgate/internal/access/store/drivers/sqlite"
	"github.com/aussiebroadwan/linkgate/pkg/clockx"
	"github.com/aussiebroadwan/linkgate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

const ownerID = "owner-1"

var owner = domain.RequestContext{Principal: &domain.Principal{Subject: ownerID, Email: "owner@example.com"}}

type env struct {
	store     *sqlite.Store
	clock     *clockx.Manual
	metrics   *metrics.Metrics
	issuer    *IssuerService
	validator *ValidatorService
	projects  *ProjectService
	invites   *InviteService
	quest     *QuestionnaireService
	mailer    *fakeMailer
}

func newEnv(t *testing.T) *env {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "linkgate.db"))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	fp, err := cryptox.NewFingerprinter([]byte("test-pepper-test-pepper-test-pep"))
	require.NoError(t, err)
	links, err := NewLinkBuilder("https://speeches.example")
	require.NoError(t, err)

	e := &env{
		store:   s,
		clock:   clockx.NewManual(epoch),
		metrics: metrics.New(),
		mailer:  &fakeMailer{},
	}
	policy := domain.DefaultPolicy()
	e.issuer = &IssuerService{Store: s, Fingerprinter: fp, Policy: policy, Links: links, Clock: e.clock, Metrics: e.metrics}
	e.validator = &ValidatorService{Store: s, Fingerprinter: fp, Policy: policy, Clock: e.clock, Metrics: e.metrics}
	e.projects = &ProjectService{Store: s, Issuer: e.issuer, Clock: e.clock, Metrics: e.metrics}
	e.invites = &InviteService{
		Store: s, Issuer: e.issuer, Validator: e.validator, Mailer: e.mailer, Clock: e.clock, Metrics: e.metrics,
	}
	e.quest = &QuestionnaireService{Store: s, Issuer: e.issuer, Validator: e.validator, Clock: e.clock}
	return e
}

// seedProject inserts a project with a fixed id owned by ownerID.
func (e *env) seedProject(t *testing.T, id string) domain.Project {
	t.Helper()
	p := domain.Project{ID: id, Title: "Project " + id, OwnerID: ownerID, CreatedAt: epoch}
	require.NoError(t, e.store.Resources().CreateProject(context.Background(), p))
	return p
}

func (e *env) issue(t *testing.T, ref domain.ResourceRef, purpose domain.Purpose, hint string, ttl time.Duration) domain.IssuedToken {
	t.Helper()
	it, err := e.issuer.Issue(context.Background(), domain.IssueRequest{
		Resource:      ref,
		Purpose:       purpose,
		PrincipalHint: hint,
		TTL:           ttl,
		CreatedBy:     ownerID,
	})
	require.NoError(t, err)
	return it
}

func (e *env) validate(token string, purpose domain.Purpose) domain.ValidationResult {
	return e.validator.Check(context.Background(), token, purpose)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailing.Invite
	err  error
}

func (m *fakeMailer) SendInvite(_ context.Context, inv mailing.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, inv)
	return nil
}
