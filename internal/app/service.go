// Package service provides the feed service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/courtside/internal/adapters/cache"
	eventqueue "github.com/okian/courtside/internal/adapters/mq/queue"
	workerpool "github.com/okian/courtside/internal/adapters/mq/worker"
	"github.com/okian/courtside/internal/adapters/repository"
	"github.com/okian/courtside/internal/adapters/resume"
	"github.com/okian/courtside/internal/domain/dedupe"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/sport"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

// Service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrGameNotFound = errors.New("game not found")
	ErrInvalidEvent = errors.New("invalid event")
	ErrNoPosition   = resume.ErrNotFound
	ErrBackpressure = eventqueue.ErrBackpressure
)

const stopTimeout = 10 * time.Second

// Service owns the ingest pipeline and the derived timeline views.
type Service struct {
	mu sync.RWMutex

	// Core components
	feeds      *repository.MemoryStore
	deduper    dedupe.Deduper
	eventQueue *eventqueue.InMemoryQueue
	workerPool *workerpool.Pool
	positions  resume.Store
	snapshots  cache.Writer

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	maxFeedEvents int
	runWindow     int
	maxMoment     int
	topPlayers    int
	runThresholds map[string]int
	resumePath    string
	redisAddr     string
	redisTTL      time.Duration

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxFeedEvents caps the events stored per game. Zero means no cap.
func WithMaxFeedEvents(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxFeedEvents = n
		}
	}
}

// WithRunWindow sets the scoring-run window used when building moments.
func WithRunWindow(n int) Option {
	return func(s *Service) {
		s.runWindow = n
	}
}

// WithMomentMaxEvents closes moments once they hold n events. Zero disables.
func WithMomentMaxEvents(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxMoment = n
		}
	}
}

// WithTopPlayers sets how many players per team a moment box score lists.
func WithTopPlayers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.topPlayers = n
		}
	}
}

// WithRunThresholds overrides sport run thresholds per league code. Any
// accepted alias ("nba", "basketball_nba") names the same league; codes
// without a sport profile are ignored.
func WithRunThresholds(m map[string]int) Option {
	return func(s *Service) {
		s.runThresholds = make(map[string]int, len(m))
		for k, v := range m {
			if sport.Known(k) {
				s.runThresholds[sport.For(k).League] = v
			}
		}
	}
}

// WithResumeDB sets the SQLite path for reading positions.
func WithResumeDB(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.resumePath = path
		}
	}
}

// WithRedis enables the snapshot cache. An empty addr keeps it disabled.
func WithRedis(addr string, ttl time.Duration) Option {
	return func(s *Service) {
		s.redisAddr = addr
		if ttl > 0 {
			s.redisTTL = ttl
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10_000,
		dedupeSize:    200_000,
		maxFeedEvents: 5_000,
		runWindow:     10,
		topPlayers:    2,
		runThresholds: map[string]int{},
		resumePath:    ":memory:",
		redisTTL:      cache.DefaultTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("feed")
	}

	s.logger.Info(ctx, "starting feed service...")

	positions, err := resume.Open(s.resumePath)
	if err != nil {
		return fmt.Errorf("open resume store: %w", err)
	}
	snapshots, err := cache.New(ctx, s.redisAddr, s.redisTTL)
	if err != nil {
		_ = positions.Close()
		return fmt.Errorf("connect snapshot cache: %w", err)
	}

	s.positions = positions
	s.snapshots = snapshots
	s.feeds = repository.NewMemoryStore(ctx, repository.WithMaxEvents(s.maxFeedEvents))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.feeds)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "feed service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("resumeDB", s.resumePath),
		logger.Bool("snapshots", s.redisAddr != ""),
	)

	return nil
}

// Stop drains the queue and closes all components.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping feed service...")

	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	if err := s.feeds.Close(); err != nil {
		s.logger.Warn(ctx, "closing feed store", logger.Error(err))
	}
	if err := s.positions.Close(); err != nil {
		s.logger.Warn(ctx, "closing resume store", logger.Error(err))
	}
	if err := s.snapshots.Close(); err != nil {
		s.logger.Warn(ctx, "closing snapshot cache", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "feed service stopped")
}

// Ingest registers game metadata and enqueues every event not seen
// before. It stops at the first event the queue rejects; events enqueued
// before that stay accepted.
func (s *Service) Ingest(ctx context.Context, game model.Game, events []model.TimelineEvent) (accepted, duplicates int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return 0, 0, ErrNotStarted
	}
	for i := range events {
		if events[i].Index < 0 {
			return 0, 0, fmt.Errorf("event %d: negative index %d: %w", i, events[i].Index, ErrInvalidEvent)
		}
	}

	game = withAbbreviations(game)
	if err := s.feeds.PutGame(ctx, game); err != nil {
		return 0, 0, fmt.Errorf("register game %q: %w", game.ID, err)
	}

	for i := range events {
		key := dedupe.Key(game.ID, events[i])
		if s.deduper.SeenAndRecord(ctx, key) {
			metrics.RecordEventDuplicate()
			duplicates++
			continue
		}
		if !s.eventQueue.Enqueue(ctx, eventqueue.Item{GameID: game.ID, Event: events[i]}) {
			s.deduper.Unrecord(ctx, key)
			s.logger.Warn(ctx, "ingest queue rejected event",
				logger.String("game", game.ID),
				logger.Int("index", events[i].Index),
			)
			return accepted, duplicates, fmt.Errorf("enqueue %s: %w", key, ErrBackpressure)
		}
		accepted++
	}

	s.logger.Debug(ctx, "ingested batch",
		logger.String("game", game.ID),
		logger.Int("accepted", accepted),
		logger.Int("duplicates", duplicates),
	)
	return accepted, duplicates, nil
}

// withAbbreviations fills missing team codes from the league's team table.
func withAbbreviations(g model.Game) model.Game {
	if g.HomeAbbr == "" && g.HomeTeam != "" {
		g.HomeAbbr = sport.Abbreviation(g.League, g.HomeTeam)
	}
	if g.AwayAbbr == "" && g.AwayTeam != "" {
		g.AwayAbbr = sport.Abbreviation(g.League, g.AwayTeam)
	}
	return g
}

// Resume returns the saved reading position for a game.
func (s *Service) Resume(ctx context.Context, gameID string) (model.ResumePosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.ResumePosition{}, ErrNotStarted
	}
	pos, err := s.positions.Get(ctx, gameID)
	switch {
	case errors.Is(err, resume.ErrNotFound):
		metrics.RecordResumeOperation("get", "miss")
		return model.ResumePosition{}, err
	case err != nil:
		metrics.RecordResumeOperation("get", "error")
		return model.ResumePosition{}, fmt.Errorf("load position for %q: %w", gameID, err)
	}
	metrics.RecordResumeOperation("get", "ok")
	return pos, nil
}

// SaveResume stores the reading position for a game.
func (s *Service) SaveResume(ctx context.Context, gameID string, pos model.ResumePosition) (model.ResumePosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.ResumePosition{}, ErrNotStarted
	}
	if pos.Index < 0 {
		return model.ResumePosition{}, fmt.Errorf("negative index %d: %w", pos.Index, ErrInvalidEvent)
	}
	pos.GameID = gameID
	if pos.UpdatedAt.IsZero() {
		pos.UpdatedAt = time.Now().UTC()
	}
	if err := s.positions.Put(ctx, pos); err != nil {
		metrics.RecordResumeOperation("put", "error")
		return model.ResumePosition{}, fmt.Errorf("save position for %q: %w", gameID, err)
	}
	metrics.RecordResumeOperation("put", "ok")
	return pos, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"snapshots":   s.redisAddr != "",
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		games := s.feeds.Count(ctx)

		stats["queueLength"] = queueLen
		stats["games"] = games
		stats["events"] = s.feeds.Events(ctx)
		stats["stored"] = s.workerPool.Stored()
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateGamesTracked(games)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
