package feedreplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/tiering"
	"github.com/okian/courtside/pkg/logger"
)

// job is one batch bound for one game.
type job struct {
	game   model.Game
	events []model.TimelineEvent
}

// Run executes a complete replay: generate, submit, wait, verify.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	applyDefaults(cfg)
	stats := &Stats{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	log := logger.Get().Named("replay")

	log.Info(ctx, "starting feed replay",
		logger.String("run_id", stats.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.String("league", cfg.League),
		logger.Int("games", cfg.Games),
		logger.Int("events_per_game", cfg.EventsPerGame),
		logger.Int("batch_size", cfg.BatchSize),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate feeds
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible test data
	feeds := make([]Feed, cfg.Games)
	for i := range feeds {
		feeds[i] = Generate(rng, fmt.Sprintf("%s-%02d", stats.RunID[:8], i+1), cfg.League, cfg.EventsPerGame)
		stats.EventsGenerated += len(feeds[i].Events)
	}
	stats.Games = len(feeds)

	// Step 3: Submit shuffled batches concurrently
	if err := submit(ctx, cfg, client, plan(rng, cfg, feeds), stats); err != nil {
		return stats, fmt.Errorf("event submission failed: %w", err)
	}

	// Step 4: Wait for the workers to store every event, then verify
	for _, f := range feeds {
		if err := verifyFeed(ctx, cfg, client, f, stats); err != nil {
			return stats, fmt.Errorf("game %s: %w", f.Game.ID, err)
		}
	}

	// Step 5: Resume position round trip
	if err := verifyResume(ctx, client, feeds[0]); err != nil {
		return stats, fmt.Errorf("resume round trip failed: %w", err)
	}

	// Step 6: Save feeds to file
	if cfg.OutputFile != "" {
		if err := saveFeeds(cfg.OutputFile, feeds); err != nil {
			log.Warn(ctx, "failed to save feeds to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logStats(ctx, log, stats)
	return stats, nil
}

func applyDefaults(cfg *Config) {
	if cfg.League == "" {
		cfg.League = DefaultLeague
	}
	if cfg.Games < 1 {
		cfg.Games = DefaultGames
	}
	if cfg.EventsPerGame < 1 {
		cfg.EventsPerGame = DefaultEventsPerGame
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Wait <= 0 {
		cfg.Wait = DefaultWait
	}
}

// plan interleaves every game's batches and re-queues a fraction of them
// at the end so the service sees redelivery.
func plan(rng *rand.Rand, cfg *Config, feeds []Feed) []job {
	var jobs []job
	for _, f := range feeds {
		for _, b := range Batches(rng, f.Events, cfg.BatchSize) {
			jobs = append(jobs, job{game: f.Game, events: b})
		}
	}
	rng.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })

	resent := int(float64(len(jobs)) * cfg.Resend)
	for i := 0; i < resent; i++ {
		jobs = append(jobs, jobs[rng.Intn(len(jobs)-i)])
	}
	return jobs
}

// submit posts jobs through a worker pool, retrying on backpressure.
func submit(ctx context.Context, cfg *Config, client *HTTPClient, jobs []job, stats *Stats) error {
	log := logger.Get().Named("replay")
	log.Info(ctx, "submitting batches", logger.Int("batches", len(jobs)), logger.Int("workers", cfg.Workers))

	var accepted, duplicates, retries, failed, posted int64

	ch := make(chan job, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ch {
				ack, tries, err := postWithRetry(ctx, client, j)
				atomic.AddInt64(&posted, 1)
				atomic.AddInt64(&retries, int64(tries-1))
				if err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "batch failed", logger.String("game_id", j.game.ID), logger.Error(err))
					continue
				}
				atomic.AddInt64(&accepted, int64(ack.Accepted))
				atomic.AddInt64(&duplicates, int64(ack.Duplicates))
				if cfg.Verbose {
					log.Debug(ctx, "batch posted",
						logger.String("game_id", j.game.ID),
						logger.Int("accepted", ack.Accepted),
						logger.Int("duplicates", ack.Duplicates))
				}
			}
		}()
	}

	func() {
		defer close(ch)
		for _, j := range jobs {
			select {
			case <-ctx.Done():
				return
			case ch <- j:
			}
		}
	}()
	wg.Wait()

	stats.BatchesPosted = int(posted)
	stats.Accepted = int(accepted)
	stats.Duplicates = int(duplicates)
	stats.Retries = int(retries)
	stats.Failed = int(failed)

	if err := ctx.Err(); err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d batches failed", stats.Failed)
	}
	return nil
}

func postWithRetry(ctx context.Context, client *HTTPClient, j job) (AckResponse, int, error) {
	var (
		ack AckResponse
		err error
	)
	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		ack, err = client.postBatch(ctx, j.game, j.events)
		if err == nil || !errors.Is(err, errBackpressure) {
			return ack, attempt, err
		}
		select {
		case <-ctx.Done():
			return ack, attempt, ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return ack, maxSubmitAttempts, err
}

// verifyFeed polls the groups view until every event is stored, then
// checks both views against the generated feed.
func verifyFeed(ctx context.Context, cfg *Config, client *HTTPClient, f Feed, stats *Stats) error {
	deadline := time.Now().Add(cfg.Wait)
	var groups GroupsResponse
	for {
		var err error
		groups, err = client.groups(ctx, f.Game.ID)
		if err != nil {
			return err
		}
		if len(tiering.Flatten(groups.Groups)) == len(f.Events) {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("stored %d of %d events after %s", len(tiering.Flatten(groups.Groups)), len(f.Events), cfg.Wait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	if err := VerifyGroups(f.Events, groups.Groups); err != nil {
		return fmt.Errorf("groups: %w", err)
	}

	moments, err := client.moments(ctx, f.Game.ID)
	if err != nil {
		return err
	}
	if err := VerifyMoments(f.Events, moments.Moments); err != nil {
		return fmt.Errorf("moments: %w", err)
	}

	stats.Groups += len(groups.Groups)
	stats.Moments += len(moments.Moments)
	stats.NotableMoments += moments.Notable
	return nil
}

// verifyResume saves a position half way through a feed and reads it back.
func verifyResume(ctx context.Context, client *HTTPClient, f Feed) error {
	mid := f.Events[len(f.Events)/2]
	want := model.ResumePosition{
		Index:  mid.Index,
		Period: mid.Period,
		Clock:  mid.Clock,
		Score:  FinalScore(f.Events[:len(f.Events)/2+1]),
	}
	if _, err := client.putResume(ctx, f.Game.ID, want); err != nil {
		return err
	}
	got, err := client.getResume(ctx, f.Game.ID)
	if err != nil {
		return err
	}
	if got.GameID != f.Game.ID || got.Index != want.Index || got.Score != want.Score {
		return fmt.Errorf("got %+v, want %+v", got, want)
	}
	return nil
}

// saveFeeds writes the generated feeds as indented JSON.
func saveFeeds(filename string, feeds []Feed) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(feeds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feeds: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}

func logStats(ctx context.Context, log logger.Logger, s *Stats) {
	log.Info(ctx, "replay completed",
		logger.String("run_id", s.RunID),
		logger.Int("games", s.Games),
		logger.Int("events", s.EventsGenerated),
		logger.Int("batches", s.BatchesPosted),
		logger.Int("accepted", s.Accepted),
		logger.Int("duplicates", s.Duplicates),
		logger.Int("retries", s.Retries),
		logger.Int("groups", s.Groups),
		logger.Int("moments", s.Moments),
		logger.Int("notable", s.NotableMoments),
		logger.Duration("duration", s.Duration))
}
