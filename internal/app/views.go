package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/courtside/internal/adapters/repository"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/segment"
	"github.com/okian/courtside/internal/domain/sport"
	"github.com/okian/courtside/internal/domain/tiering"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

// Groups returns the tiered groups for a game's current feed.
func (s *Service) Groups(ctx context.Context, gameID string) ([]model.TieredGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, events, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	groups := tiering.Group(events, s.profile(game.League))
	metrics.RecordViewLatency("groups", float64(time.Since(start).Microseconds())/1000)

	summary := tiering.Summarize(groups)
	counts := make(map[string]int, len(summary.Events))
	for tier, n := range summary.Events {
		counts[string(tier)] = n
	}
	metrics.RecordTierAssignments(counts)
	metrics.RecordGroupsBuilt(summary.Groups)

	if err := s.snapshots.WriteGroups(ctx, gameID, groups); err != nil {
		metrics.RecordSnapshotWrite("groups", "error")
		s.logger.Warn(ctx, "snapshot write failed", logger.String("game", gameID), logger.String("view", "groups"), logger.Error(err))
	} else {
		metrics.RecordSnapshotWrite("groups", "ok")
	}
	return groups, nil
}

// Moments returns the narrative moments for a game's current feed.
func (s *Service) Moments(ctx context.Context, gameID string) ([]model.Moment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, events, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}

	// Box scores are only built when the feed carries stat credits.
	var prior model.BoxScoreState
	for i := range events {
		if len(events[i].Credits) > 0 {
			prior = model.BoxScoreState{}
			break
		}
	}

	start := time.Now()
	moments := segment.Segment(events, prior,
		segment.WithGame(game),
		segment.WithProfile(s.profile(game.League)),
		segment.WithRunWindow(s.runWindow),
		segment.WithMaxEvents(s.maxMoment),
		segment.WithTopPlayers(s.topPlayers),
	)
	metrics.RecordViewLatency("moments", float64(time.Since(start).Microseconds())/1000)

	metrics.RecordMomentsBuilt(len(moments))
	for i := range moments {
		if moments[i].IsNotable {
			metrics.RecordNotableMoment(string(moments[i].Reason))
		}
	}

	if err := s.snapshots.WriteMoments(ctx, gameID, moments); err != nil {
		metrics.RecordSnapshotWrite("moments", "error")
		s.logger.Warn(ctx, "snapshot write failed", logger.String("game", gameID), logger.String("view", "moments"), logger.Error(err))
	} else {
		metrics.RecordSnapshotWrite("moments", "ok")
	}
	return moments, nil
}

// load returns the game metadata and ordered feed. Callers hold s.mu.
func (s *Service) load(ctx context.Context, gameID string) (model.Game, []model.TimelineEvent, error) {
	if !s.started {
		return model.Game{}, nil, ErrNotStarted
	}
	game, events, err := s.feeds.Feed(ctx, gameID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Game{}, nil, fmt.Errorf("%q: %w", gameID, ErrGameNotFound)
	}
	if err != nil {
		return model.Game{}, nil, fmt.Errorf("load feed %q: %w", gameID, err)
	}
	return game, events, nil
}

// profile selects the sport profile with any configured run threshold.
func (s *Service) profile(league string) *sport.Profile {
	p := sport.For(league)
	return p.WithRunThreshold(s.runThresholds[p.League])
}
