package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/george-michael9/Abrar-system/internal/cache"
	"github.com/george-michael9/Abrar-system/internal/metrics"
	"github.com/george-michael9/Abrar-system/internal/model"
	"github.com/george-michael9/Abrar-system/internal/repository"
	"github.com/george-michael9/Abrar-system/internal/scoring"
)

// LeaderboardRefresh recomputes standings for every ongoing event and
// stores the snapshot, the server-side counterpart of the console's
// 30-second polling timer.
func LeaderboardRefresh(store *repository.Store, snapshots *cache.Leaderboard, log *zap.SugaredLogger) Job {
	return func(ctx context.Context) error {
		if !snapshots.Enabled() {
			return nil
		}
		events, err := store.ListEvents(ctx, model.EventOngoing)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		in, err := LoadAggregationInput(ctx, store)
		if err != nil {
			return err
		}
		for _, event := range events {
			start := time.Now()
			result := scoring.Aggregate(event.ID, in)
			metrics.ObserveAggregation(time.Since(start))
			if err := snapshots.Set(ctx, event.ID, result); err != nil {
				log.Warnw("leaderboard snapshot write failed", "event", event.ID, "err", err)
			}
		}
		return nil
	}
}

// EventStatusRoll advances event statuses by clock time: upcoming events
// that started become ongoing, ongoing events that ended become completed.
func EventStatusRoll(store *repository.Store, log *zap.SugaredLogger) Job {
	return func(ctx context.Context) error {
		changed, err := store.RollEventStatuses(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		if changed > 0 {
			log.Infow("event statuses rolled", "changed", changed)
		}
		return nil
	}
}

// LoadAggregationInput fetches the full collections the aggregator joins.
func LoadAggregationInput(ctx context.Context, store *repository.Store) (scoring.Input, error) {
	scores, err := store.ListScores(ctx)
	if err != nil {
		return scoring.Input{}, err
	}
	teams, err := store.ListTeams(ctx)
	if err != nil {
		return scoring.Input{}, err
	}
	makhdoumeen, err := store.ListMakhdoumeen(ctx, "", false)
	if err != nil {
		return scoring.Input{}, err
	}
	classes, err := store.ListClasses(ctx)
	if err != nil {
		return scoring.Input{}, err
	}
	return scoring.Input{
		Scores:      scores,
		Teams:       teams,
		Makhdoumeen: makhdoumeen,
		Classes:     classes,
	}, nil
}
