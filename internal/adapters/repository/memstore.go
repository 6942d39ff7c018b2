package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/pkg/metrics"
)

const defaultMetricsUpdateInterval = 10 * time.Second

type feed struct {
	game   model.Game
	events []model.TimelineEvent // sorted by Index, unique
}

// MemoryStore is an in-memory Store. Reads return copies so callers can
// run the tiering and segmentation passes without holding locks.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*feed
	total int

	maxEvents             int
	metricsUpdateInterval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a store and starts its metrics updater, which
// runs until ctx ends or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		games:                 make(map[string]*feed),
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stop:                  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// PutGame implements Store.PutGame.
func (s *MemoryStore) PutGame(_ context.Context, g model.Game) error {
	if g.ID == "" {
		return ErrInvalidGame
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.games[g.ID]; ok {
		f.game = mergeGame(f.game, g)
		return nil
	}
	s.games[g.ID] = &feed{game: g}
	return nil
}

// mergeGame keeps known fields when an update leaves them empty.
func mergeGame(old, g model.Game) model.Game {
	if g.League == "" {
		g.League = old.League
	}
	if g.HomeTeam == "" {
		g.HomeTeam = old.HomeTeam
	}
	if g.AwayTeam == "" {
		g.AwayTeam = old.AwayTeam
	}
	if g.HomeAbbr == "" {
		g.HomeAbbr = old.HomeAbbr
	}
	if g.AwayAbbr == "" {
		g.AwayAbbr = old.AwayAbbr
	}
	return g
}

// Append implements Store.Append. A re-sent index replaces the stored event.
func (s *MemoryStore) Append(_ context.Context, gameID string, ev model.TimelineEvent) error { //nolint:gocritic // hugeParam: events are values
	if gameID == "" {
		return ErrInvalidGame
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.games[gameID]
	if !ok {
		f = &feed{game: model.Game{ID: gameID}}
		s.games[gameID] = f
	}

	i := sort.Search(len(f.events), func(i int) bool { return f.events[i].Index >= ev.Index })
	if i < len(f.events) && f.events[i].Index == ev.Index {
		f.events[i] = ev
		return nil
	}
	if s.maxEvents > 0 && len(f.events) >= s.maxEvents {
		return fmt.Errorf("%s: %w", gameID, ErrFeedFull)
	}
	f.events = append(f.events, model.TimelineEvent{})
	copy(f.events[i+1:], f.events[i:])
	f.events[i] = ev
	s.total++
	return nil
}

// Feed implements Store.Feed.
func (s *MemoryStore) Feed(_ context.Context, gameID string) (model.Game, []model.TimelineEvent, error) {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.games[gameID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Game{}, nil, fmt.Errorf("%s: %w", gameID, ErrNotFound)
	}
	events := make([]model.TimelineEvent, len(f.events))
	copy(events, f.events)
	metrics.RecordViewLatency("feed_load", float64(time.Since(start).Microseconds())/1000)
	return f.game, events, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Events implements Store.Events.
func (s *MemoryStore) Events(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(s.metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.updateMetrics()
		}
	}
}

func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	games, total := len(s.games), s.total
	s.mu.RUnlock()
	metrics.UpdateGamesTracked(games)
	metrics.UpdateFeedEvents(total)
}
