package rating

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/events"
	"github.com/tranhuy105/ITSS-CongAn-sub000/internal/utils/logger"
)

const (
	TargetDish       = "dish"
	TargetRestaurant = "restaurant"

	reconcileConcurrency = 8
	defaultBackoff       = 100 * time.Millisecond
)

type (
	// Reporter receives aggregates that stayed stale after every attempt.
	Reporter interface {
		ReportInconsistency(ctx context.Context, target, targetID string, cause error)
	}

	Aggregator interface {
		RecomputeDishRating(ctx context.Context, dishID string) (domain.RatingSummary, error)
		RecomputeRestaurantRating(ctx context.Context, restaurantID string) (domain.RatingSummary, error)
		ReconcileAll(ctx context.Context) (domain.ReconcileResult, error)
	}

	aggregator struct {
		ratingRepository RatingRepository
		reporter         Reporter
		publisher        events.Publisher
		log              *logger.Logger
		attempts         int
		backoff          time.Duration
	}
)

func NewAggregator(
	ratingRepository RatingRepository,
	reporter Reporter,
	publisher events.Publisher,
	log *logger.Logger,
	attempts int,
) Aggregator {
	if attempts < 2 {
		attempts = 2
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &aggregator{
		ratingRepository: ratingRepository,
		reporter:         reporter,
		publisher:        publisher,
		log:              log.With("service", "RatingAggregator"),
		attempts:         attempts,
		backoff:          defaultBackoff,
	}
}

// Round keeps one decimal place.
func Round(avg float64) float64 {
	return math.Round(avg*10) / 10
}

func (a *aggregator) RecomputeDishRating(ctx context.Context, dishID string) (domain.RatingSummary, error) {
	return a.recompute(ctx, TargetDish, dishID, a.ratingRepository.DishStats, a.ratingRepository.SetDishRating)
}

func (a *aggregator) RecomputeRestaurantRating(ctx context.Context, restaurantID string) (domain.RatingSummary, error) {
	return a.recompute(ctx, TargetRestaurant, restaurantID, a.ratingRepository.RestaurantStats, a.ratingRepository.SetRestaurantRating)
}

func (a *aggregator) recompute(
	ctx context.Context,
	target, id string,
	stats func(context.Context, string) (Stats, error),
	set func(context.Context, string, float64, int) error,
) (domain.RatingSummary, error) {
	// a recompute started by a review write must finish even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	var lastErr error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		summary, err := a.recomputeOnce(ctx, id, stats, set)
		if err == nil {
			events.Emit(ctx, a.publisher, a.log, events.Event{
				Type:     events.RatingRecomputed,
				EntityID: id,
				Payload: map[string]any{
					"target":         target,
					"average_rating": summary.AverageRating,
					"review_count":   summary.ReviewCount,
				},
			})
			return summary, nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RatingSummary{}, err
		}

		lastErr = err
		a.log.Warn("rating recompute attempt failed", target+"_id", id, "attempt", attempt, "error", err)
		if attempt < a.attempts && a.backoff > 0 {
			time.Sleep(a.backoff * time.Duration(attempt))
		}
	}

	a.log.Error("rating aggregate left inconsistent", target+"_id", id, "attempts", a.attempts, "error", lastErr)
	if a.reporter != nil {
		a.reporter.ReportInconsistency(ctx, target, id, lastErr)
	}
	events.Emit(ctx, a.publisher, a.log, events.Event{
		Type:     events.RatingInconsistency,
		EntityID: id,
		Payload:  map[string]any{"target": target, "error": lastErr.Error()},
	})

	return domain.RatingSummary{}, &domain.ConsistencyError{
		Target:   target,
		TargetID: id,
		Attempts: a.attempts,
		Err:      lastErr,
	}
}

func (a *aggregator) recomputeOnce(
	ctx context.Context,
	id string,
	stats func(context.Context, string) (Stats, error),
	set func(context.Context, string, float64, int) error,
) (domain.RatingSummary, error) {
	s, err := stats(ctx, id)
	if err != nil {
		return domain.RatingSummary{}, err
	}

	summary := domain.RatingSummary{ReviewCount: int(s.Count)}
	if s.Count > 0 {
		summary.AverageRating = Round(s.Average)
	}

	if err := set(ctx, id, summary.AverageRating, summary.ReviewCount); err != nil {
		return domain.RatingSummary{}, err
	}
	return summary, nil
}

// ReconcileAll recomputes every dish and restaurant aggregate, soft-deleted
// ones included. Individual failures are counted, not returned.
func (a *aggregator) ReconcileAll(ctx context.Context) (domain.ReconcileResult, error) {
	dishIDs, err := a.ratingRepository.ListDishIDs(ctx)
	if err != nil {
		return domain.ReconcileResult{}, err
	}
	restaurantIDs, err := a.ratingRepository.ListRestaurantIDs(ctx)
	if err != nil {
		return domain.ReconcileResult{}, err
	}

	var dishes, restaurants, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)

	for _, id := range dishIDs {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := a.RecomputeDishRating(gctx, id); err != nil {
				failed.Add(1)
				return nil
			}
			dishes.Add(1)
			return nil
		})
	}
	for _, id := range restaurantIDs {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := a.RecomputeRestaurantRating(gctx, id); err != nil {
				failed.Add(1)
				return nil
			}
			restaurants.Add(1)
			return nil
		})
	}

	err = g.Wait()
	result := domain.ReconcileResult{
		Dishes:      int(dishes.Load()),
		Restaurants: int(restaurants.Load()),
		Failed:      int(failed.Load()),
	}
	a.log.Info("rating reconciliation finished",
		"dishes", result.Dishes, "restaurants", result.Restaurants, "failed", result.Failed)
	return result, err
}
