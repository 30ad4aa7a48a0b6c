package repository

import (
	"context"
	"fmt"

	"fitfam/internal/apperror"
	"fitfam/internal/database"
	"fitfam/internal/models"
	"fitfam/internal/querybuilder"
)

var (
	resultInsertFields = querybuilder.FieldMap{
		{Name: "userId", Column: "user_id"},
		{Name: "familyId", Column: "family_id"},
		{Name: "workoutId", Column: "workout_id"},
		{Name: "score", Column: "score"},
		{Name: "notes", Column: "notes"},
		{Name: "completeDate", Column: "complete_date"},
	}

	resultFilterFields = querybuilder.FieldMap{
		{Name: "userId", Column: "r.user_id", Mode: querybuilder.Equals},
		{Name: "familyId", Column: "r.family_id", Mode: querybuilder.Equals},
		{Name: "workoutId", Column: "r.workout_id", Mode: querybuilder.Equals},
		{Name: "score", Column: "r.score", Mode: querybuilder.Equals},
		{Name: "notes", Column: "r.notes", Mode: querybuilder.PartialMatch},
		{Name: "completeDate", Column: "r.complete_date", Mode: querybuilder.DateEquals},
	}

	resultUpdateFields = querybuilder.FieldMap{
		{Name: "score", Column: "score"},
		{Name: "notes", Column: "notes"},
		{Name: "completeDate", Column: "complete_date"},
	}
)

const resultSelect = `
	SELECT r.id, r.user_id, r.family_id, r.workout_id, w.wo_name, r.score, r.notes,
		r.create_date, r.modify_date, r.complete_date
	FROM results r
	JOIN workouts w ON w.id = r.workout_id
`

// ResultRepository handles database operations for workout results
type ResultRepository struct {
	db *database.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *database.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func scanResult(s scanner) (*models.Result, error) {
	res := &models.Result{}
	err := s.Scan(
		&res.ID,
		&res.UserID,
		&res.FamilyID,
		&res.WorkoutID,
		&res.WorkoutName,
		&res.Score,
		&res.Notes,
		&res.CreateDate,
		&res.ModifyDate,
		&res.CompleteDate,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Create records a result
func (r *ResultRepository) Create(ctx context.Context, in models.NewResult) (*models.Result, error) {
	fragment, err := querybuilder.BuildInsert(in.Values(), resultInsertFields)
	if err != nil {
		return nil, err
	}

	var result *models.Result
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		if err := requireExists(ctx, tx, "users", "user", in.UserID); err != nil {
			return err
		}
		if err := requireExists(ctx, tx, "families", "family", in.FamilyID); err != nil {
			return err
		}
		if err := requireExists(ctx, tx, "workouts", "workout", in.WorkoutID); err != nil {
			return err
		}

		id, err := tx.ExecReturningID(ctx, "INSERT INTO results "+fragment.SQL, fragment.Args...)
		if err != nil {
			return fmt.Errorf("failed to create result: %w", err)
		}
		result, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindAll returns results matching the filter, most recently completed first
func (r *ResultRepository) FindAll(ctx context.Context, filter models.ResultFilter) ([]models.Result, error) {
	where := querybuilder.BuildFilter(r.db.Dialect, filter.Values(), resultFilterFields)
	query := resultSelect + where.SQL + " ORDER BY r.complete_date DESC, r.id"

	results, err := queryList(ctx, r.db, scanResult, query, where.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	return results, nil
}

func (r *ResultRepository) Find(ctx context.Context, id int64) (*models.Result, error) {
	return r.get(ctx, r.db, id)
}

// Update applies a partial update
func (r *ResultRepository) Update(ctx context.Context, id int64, in models.ResultUpdate) (*models.Result, error) {
	query, args, err := updateStatement("results", in.Values(), resultUpdateFields, "id = ?", id)
	if err != nil {
		return nil, err
	}

	var result *models.Result
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update result: %w", err)
		}
		if err := affected(res, apperror.NotFound("result", id)); err != nil {
			return err
		}
		result, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes a result and its comments
func (r *ResultRepository) Remove(ctx context.Context, id int64) error {
	return r.db.InTx(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE result_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete result comments: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM results WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete result: %w", err)
		}
		return affected(res, apperror.NotFound("result", id))
	})
}

func (r *ResultRepository) get(ctx context.Context, q database.DBTX, id int64) (*models.Result, error) {
	result, err := scanResult(q.QueryRowContext(ctx, resultSelect+" WHERE r.id = ?", id))
	if isNoRows(err) {
		return nil, apperror.NotFound("result", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return result, nil
}
