package repository

import (
	"context"
	"fmt"
	"strings"

	"fitfam/internal/apperror"
	"fitfam/internal/database"
	"fitfam/internal/models"
	"fitfam/internal/querybuilder"
)

var (
	workoutInsertFields = querybuilder.FieldMap{
		{Name: "swId", Column: "sw_id"},
		{Name: "name", Column: "wo_name"},
		{Name: "description", Column: "wo_description"},
		{Name: "category", Column: "category"},
		{Name: "scoreType", Column: "score_type"},
		{Name: "featuredDate", Column: "featured_date"},
		{Name: "createBy", Column: "create_by"},
	}

	workoutFilterFields = querybuilder.FieldMap{
		{Name: "swId", Column: "sw_id", Mode: querybuilder.PartialMatch},
		{Name: "name", Column: "wo_name", Mode: querybuilder.PartialMatch},
		{Name: "description", Column: "wo_description", Mode: querybuilder.PartialMatch},
		{Name: "category", Column: "category", Mode: querybuilder.PartialMatch},
		{Name: "scoreType", Column: "score_type", Mode: querybuilder.PartialMatch},
		{Name: "featuredDate", Column: "featured_date", Mode: querybuilder.DateEquals},
		{Name: "createBy", Column: "create_by", Mode: querybuilder.Equals},
	}

	workoutUpdateFields = querybuilder.FieldMap{
		{Name: "swId", Column: "sw_id"},
		{Name: "name", Column: "wo_name"},
		{Name: "description", Column: "wo_description"},
		{Name: "category", Column: "category"},
		{Name: "scoreType", Column: "score_type"},
		{Name: "featuredDate", Column: "featured_date"},
	}
)

const workoutColumns = `w.id, w.sw_id, w.wo_name, w.wo_description, w.category, w.score_type,
	w.create_date, w.modify_date, w.featured_date, w.create_by`

// WorkoutRepository handles database operations for workouts and their movement tags
type WorkoutRepository struct {
	db *database.DB
}

// NewWorkoutRepository creates a new workout repository
func NewWorkoutRepository(db *database.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func scanWorkout(s scanner) (*models.Workout, error) {
	w := &models.Workout{}
	err := s.Scan(
		&w.ID,
		&w.SwID,
		&w.Name,
		&w.Description,
		&w.Category,
		&w.ScoreType,
		&w.CreateDate,
		&w.ModifyDate,
		&w.FeaturedDate,
		&w.CreateBy,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Create inserts a workout and tags it with its movements
func (r *WorkoutRepository) Create(ctx context.Context, in models.NewWorkout) (*models.Workout, error) {
	var workout *models.Workout
	err := r.db.InTx(ctx, func(tx *database.Tx) error {
		id, err := r.insert(ctx, tx, in)
		if err != nil {
			return err
		}
		workout, err = r.find(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return workout, nil
}

// Import stores workouts fetched from the workout feed in one
// transaction. Workouts whose swId is already stored are skipped.
// It returns the number of workouts inserted.
func (r *WorkoutRepository) Import(ctx context.Context, workouts []models.NewWorkout) (int, error) {
	inserted := 0
	err := r.db.InTx(ctx, func(tx *database.Tx) error {
		for _, in := range workouts {
			if in.SwID != nil {
				var count int
				err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM workouts WHERE sw_id = ?", *in.SwID).Scan(&count)
				if err != nil {
					return fmt.Errorf("failed to check workout: %w", err)
				}
				if count > 0 {
					continue
				}
			}
			if _, err := r.insert(ctx, tx, in); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// HasFeatured reports whether featured workouts are stored for date
func (r *WorkoutRepository) HasFeatured(ctx context.Context, date models.Date) (bool, error) {
	query := "SELECT COUNT(*) FROM workouts WHERE category = ? AND " + r.db.Dialect.DateEquals("featured_date")

	var count int
	if err := r.db.QueryRowContext(ctx, query, models.CategoryFeatured, date.SQLDate()).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count featured workouts: %w", err)
	}
	return count > 0, nil
}

// FindAll returns workouts matching the filter ordered by name. The keyword
// matches name or description, and every listed movement must be tagged.
func (r *WorkoutRepository) FindAll(ctx context.Context, filter models.WorkoutFilter) ([]models.Workout, error) {
	dialect := r.db.Dialect

	var b querybuilder.Builder
	conditions := querybuilder.BuildFilterInto(&b, dialect, filter.Values(), workoutFilterFields)

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		b.Bind(querybuilder.Contains(keyword))
		b.Bind(querybuilder.Contains(keyword))
		conditions = append(conditions,
			"("+dialect.PartialMatch("wo_name")+" OR "+dialect.PartialMatch("wo_description")+")")
	}

	matching := "SELECT id FROM workouts"
	if len(conditions) > 0 {
		matching += " WHERE " + strings.Join(conditions, " AND ")
	}
	for _, movementID := range filter.MovementIDs {
		matching += " INTERSECT SELECT wo_id FROM workouts_movements WHERE movement_id = " + b.Bind(movementID)
	}

	query := "SELECT " + workoutColumns + " FROM workouts w JOIN (" + matching + ") m ON m.id = w.id ORDER BY w.wo_name, w.id"

	workouts, err := queryList(ctx, r.db, scanWorkout, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workouts: %w", err)
	}
	return workouts, nil
}

// Find returns a workout with its movements
func (r *WorkoutRepository) Find(ctx context.Context, id int64) (*models.Workout, error) {
	return r.find(ctx, r.db, id)
}

// Update applies a partial update
func (r *WorkoutRepository) Update(ctx context.Context, id int64, in models.WorkoutUpdate) (*models.Workout, error) {
	query, args, err := updateStatement("workouts", in.Values(), workoutUpdateFields, "id = ?", id)
	if err != nil {
		return nil, err
	}

	var workout *models.Workout
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			if tx.GetDialect().IsUniqueViolation(err) {
				return apperror.New(apperror.ErrDuplicate, "Duplicate swId", err)
			}
			return fmt.Errorf("failed to update workout: %w", err)
		}
		if err := affected(result, apperror.NotFound("workout", id)); err != nil {
			return err
		}
		workout, err = r.find(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return workout, nil
}

// Remove deletes a workout with its tags, postings, results and their comments
func (r *WorkoutRepository) Remove(ctx context.Context, id int64) error {
	return r.db.InTx(ctx, func(tx *database.Tx) error {
		statements := []string{
			"DELETE FROM comments WHERE result_id IN (SELECT id FROM results WHERE workout_id = ?)",
			"DELETE FROM results WHERE workout_id = ?",
			"DELETE FROM postings WHERE wo_id = ?",
			"DELETE FROM workouts_movements WHERE wo_id = ?",
		}
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("failed to remove workout dependents: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM workouts WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}
		return affected(result, apperror.NotFound("workout", id))
	})
}

func (r *WorkoutRepository) insert(ctx context.Context, q database.DBTX, in models.NewWorkout) (int64, error) {
	fragment, err := querybuilder.BuildInsert(in.Values(), workoutInsertFields)
	if err != nil {
		return 0, err
	}

	id, err := q.ExecReturningID(ctx, "INSERT INTO workouts "+fragment.SQL, fragment.Args...)
	if err != nil {
		if q.GetDialect().IsUniqueViolation(err) {
			return 0, apperror.New(apperror.ErrDuplicate, "Duplicate swId", err)
		}
		return 0, fmt.Errorf("failed to create workout: %w", err)
	}

	seen := make(map[string]bool)
	for _, movementID := range in.MovementIDs {
		if seen[movementID] {
			continue
		}
		seen[movementID] = true

		// unknown movement ids are skipped
		known, err := exists(ctx, q, "movements", movementID)
		if err != nil {
			return 0, err
		}
		if !known {
			continue
		}
		_, err = q.ExecContext(ctx, "INSERT INTO workouts_movements (wo_id, movement_id) VALUES (?, ?)", id, movementID)
		if err != nil {
			return 0, fmt.Errorf("failed to tag workout movement: %w", err)
		}
	}

	return id, nil
}

func (r *WorkoutRepository) find(ctx context.Context, q database.DBTX, id int64) (*models.Workout, error) {
	workout, err := scanWorkout(q.QueryRowContext(ctx, "SELECT "+workoutColumns+" FROM workouts w WHERE w.id = ?", id))
	if isNoRows(err) {
		return nil, apperror.NotFound("workout", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}

	query := `
		SELECT m.id, m.movement_name, m.youtube_id
		FROM workouts_movements wm
		JOIN movements m ON m.id = wm.movement_id
		WHERE wm.wo_id = ?
		ORDER BY m.movement_name
	`
	workout.Movements, err = queryList(ctx, q, scanMovement, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query workout movements: %w", err)
	}
	return workout, nil
}
