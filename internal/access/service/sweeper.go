package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/metrics"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
	"github.com/aussiebroadwan/linkgate/pkg/clockx"
	"github.com/aussiebroadwan/linkgate/pkg/jwtx"
)

// SweeperService periodically publishes live-token counts and refreshes the
// identity provider's signing keys. It never deletes bindings.
type SweeperService struct {
	Store    store.Store
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Interval time.Duration
	Clock    clockx.Clock

	// Keys is refreshed from KeySource when both are set.
	Keys      *jwtx.KeySet
	KeySource jwtx.Source

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSweeperService defaults interval to five minutes.
func NewSweeperService(s store.Store, m *metrics.Metrics, logger *slog.Logger, interval time.Duration) *SweeperService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SweeperService{
		Store:    s,
		Metrics:  m,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background until Stop. Only the first call
// has an effect, and none after Stop.
func (s *SweeperService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.run()
	s.Logger.Info("sweeper started", "interval", s.Interval)
}

// Stop blocks until an in-flight sweep has finished. It is safe to call
// more than once and on a sweeper that was never started.
func (s *SweeperService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	close(s.stopCh)
	s.mu.Unlock()

	if started {
		<-s.doneCh
	}
	s.Logger.Info("sweeper stopped")
}

func (s *SweeperService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep does one pass. Each step is independent of the others.
func (s *SweeperService) Sweep(ctx context.Context) {
	now := nowFrom(s.Clock)

	counts, err := s.Store.Bindings().CountLiveBindings(ctx, now)
	if err != nil {
		s.Logger.Error("failed to count live bindings", "error", err)
	} else {
		live := make(map[string]int, len(counts))
		for p, n := range counts {
			live[string(p)] = n
		}
		s.Metrics.SetLive(live)
		s.Logger.Debug("live bindings counted", "counts", live)
	}

	if s.Keys != nil && (s.KeySource.URL != "" || s.KeySource.File != "") {
		if err := s.Keys.Refresh(ctx, s.KeySource); err != nil {
			s.Logger.Warn("failed to refresh signing keys", "error", err)
		}
	}

	s.Metrics.SweepCompleted(now.Unix())
}
