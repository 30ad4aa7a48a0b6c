package service

import (
	"context"
	"log"
	"time"

	"fitfam/internal/metrics"
	"fitfam/internal/models"
	"fitfam/internal/repository"
)

const featuredLockTTL = 30 * time.Second

// FeaturedFeed supplies the workouts published for a day
type FeaturedFeed interface {
	Enabled() bool
	FeaturedWorkouts(ctx context.Context, date models.Date) ([]models.NewWorkout, error)
}

// WorkoutService lists workouts, importing a day's featured workouts on first request
type WorkoutService struct {
	workouts *repository.WorkoutRepository
	feed     FeaturedFeed
	locker   Locker
}

// NewWorkoutService creates a new workout service. feed and locker may be nil.
func NewWorkoutService(workouts *repository.WorkoutRepository, feed FeaturedFeed, locker Locker) *WorkoutService {
	return &WorkoutService{workouts: workouts, feed: feed, locker: locker}
}

// FindAll lists workouts. A featuredDate filter with nothing stored for that
// day triggers an import from the feed before listing.
func (s *WorkoutService) FindAll(ctx context.Context, filter models.WorkoutFilter) ([]models.Workout, error) {
	if filter.FeaturedDate != nil && filter.FeaturedDate.Valid {
		if err := s.ensureFeatured(ctx, *filter.FeaturedDate); err != nil {
			// listing still works without the feed
			log.Printf("Warning: featured workout import for %s failed: %v", filter.FeaturedDate, err)
		}
	}
	return s.workouts.FindAll(ctx, filter)
}

func (s *WorkoutService) ensureFeatured(ctx context.Context, date models.Date) error {
	if s.feed == nil || !s.feed.Enabled() {
		return nil
	}

	has, err := s.workouts.HasFeatured(ctx, date)
	if err != nil || has {
		return err
	}

	key := "featured:" + date.String()
	if s.locker != nil {
		acquired, err := s.locker.Acquire(ctx, key, featuredLockTTL)
		if err != nil {
			return err
		}
		if !acquired {
			return nil
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
				log.Printf("Warning: failed to release lock %s: %v", key, err)
			}
		}()

		// another instance may have finished while we waited for the lock
		if has, err := s.workouts.HasFeatured(ctx, date); err != nil || has {
			return err
		}
	}

	workouts, err := s.feed.FeaturedWorkouts(ctx, date)
	if err != nil {
		return err
	}
	if len(workouts) == 0 {
		return nil
	}

	inserted, err := s.workouts.Import(ctx, workouts)
	if err != nil {
		return err
	}
	metrics.FeaturedImported(inserted)
	log.Printf("Imported %d featured workouts for %s", inserted, date)
	return nil
}
