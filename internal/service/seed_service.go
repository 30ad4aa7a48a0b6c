package service

import (
	"context"
	"fmt"
	"log"

	"fitfam/internal/models"
	"fitfam/internal/repository"
)

// Catalogue is the remote source of movements and benchmark workouts
type Catalogue interface {
	Movements(ctx context.Context) ([]models.Movement, error)
	Benchmarks(ctx context.Context, category string) ([]models.NewWorkout, error)
}

// SeedService loads the movement catalogue and benchmark workouts
type SeedService struct {
	catalogue    Catalogue
	movementRepo *repository.MovementRepository
	workoutRepo  *repository.WorkoutRepository
}

// NewSeedService creates a new seed service
func NewSeedService(catalogue Catalogue, movementRepo *repository.MovementRepository, workoutRepo *repository.WorkoutRepository) *SeedService {
	return &SeedService{
		catalogue:    catalogue,
		movementRepo: movementRepo,
		workoutRepo:  workoutRepo,
	}
}

// SeedMovements stores every movement in the catalogue and returns how many were read
func (s *SeedService) SeedMovements(ctx context.Context) (int, error) {
	movements, err := s.catalogue.Movements(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch movements: %w", err)
	}
	if err := s.movementRepo.Upsert(ctx, movements); err != nil {
		return 0, err
	}
	log.Printf("Stored %d movements", len(movements))
	return len(movements), nil
}

// SeedBenchmarks imports the benchmark workouts of each category, skipping
// ones already stored, and returns how many were inserted.
// Movements should be seeded first so the workouts get their tags.
func (s *SeedService) SeedBenchmarks(ctx context.Context, categories []string) (int, error) {
	total := 0
	for _, category := range categories {
		workouts, err := s.catalogue.Benchmarks(ctx, category)
		if err != nil {
			return total, fmt.Errorf("failed to fetch %s benchmarks: %w", category, err)
		}

		inserted, err := s.workoutRepo.Import(ctx, workouts)
		if err != nil {
			return total, err
		}
		log.Printf("Imported %d of %d %s benchmarks", inserted, len(workouts), category)
		total += inserted
	}
	return total, nil
}
