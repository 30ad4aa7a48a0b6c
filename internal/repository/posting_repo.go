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
	postingInsertFields = querybuilder.FieldMap{
		{Name: "familyId", Column: "family_id"},
		{Name: "workoutId", Column: "wo_id"},
		{Name: "postDate", Column: "post_date"},
		{Name: "postBy", Column: "post_by"},
	}

	postingFilterFields = querybuilder.FieldMap{
		{Name: "familyId", Column: "p.family_id", Mode: querybuilder.Equals},
		{Name: "workoutId", Column: "p.wo_id", Mode: querybuilder.Equals},
		{Name: "postBy", Column: "p.post_by", Mode: querybuilder.Equals},
		{Name: "postDate", Column: "p.post_date", Mode: querybuilder.DateEquals},
	}

	postingUpdateFields = querybuilder.FieldMap{
		{Name: "postDate", Column: "post_date"},
	}
)

const postingSelect = `
	SELECT p.id, p.family_id, p.wo_id, p.create_date, p.modify_date, p.post_date, p.post_by,
		w.wo_name, w.wo_description, w.score_type
	FROM postings p
	JOIN workouts w ON w.id = p.wo_id
`

// PostingRepository handles database operations for postings
type PostingRepository struct {
	db *database.DB
}

// NewPostingRepository creates a new posting repository
func NewPostingRepository(db *database.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

func scanPosting(s scanner) (*models.Posting, error) {
	p := &models.Posting{}
	err := s.Scan(
		&p.ID,
		&p.FamilyID,
		&p.WorkoutID,
		&p.CreateDate,
		&p.ModifyDate,
		&p.PostDate,
		&p.PostBy,
		&p.WorkoutName,
		&p.WorkoutDescription,
		&p.ScoreType,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create posts a workout to a family
func (r *PostingRepository) Create(ctx context.Context, in models.NewPosting) (*models.Posting, error) {
	fragment, err := querybuilder.BuildInsert(in.Values(), postingInsertFields)
	if err != nil {
		return nil, err
	}

	var posting *models.Posting
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		if err := requireExists(ctx, tx, "families", "family", in.FamilyID); err != nil {
			return err
		}
		if err := requireExists(ctx, tx, "workouts", "workout", in.WorkoutID); err != nil {
			return err
		}

		id, err := tx.ExecReturningID(ctx, "INSERT INTO postings "+fragment.SQL, fragment.Args...)
		if err != nil {
			return fmt.Errorf("failed to create posting: %w", err)
		}
		posting, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posting, nil
}

// FindAll returns postings matching the filter, newest first
func (r *PostingRepository) FindAll(ctx context.Context, filter models.PostingFilter) ([]models.Posting, error) {
	where := querybuilder.BuildFilter(r.db.Dialect, filter.Values(), postingFilterFields)
	query := postingSelect + where.SQL + " ORDER BY p.post_date DESC, p.id"

	postings, err := queryList(ctx, r.db, scanPosting, query, where.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	return postings, nil
}

func (r *PostingRepository) Find(ctx context.Context, id int64) (*models.Posting, error) {
	return r.get(ctx, r.db, id)
}

// Update applies a partial update
func (r *PostingRepository) Update(ctx context.Context, id int64, in models.PostingUpdate) (*models.Posting, error) {
	query, args, err := updateStatement("postings", in.Values(), postingUpdateFields, "id = ?", id)
	if err != nil {
		return nil, err
	}

	var posting *models.Posting
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update posting: %w", err)
		}
		if err := affected(result, apperror.NotFound("posting", id)); err != nil {
			return err
		}
		posting, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posting, nil
}

func (r *PostingRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM postings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete posting: %w", err)
	}
	return affected(result, apperror.NotFound("posting", id))
}

func (r *PostingRepository) get(ctx context.Context, q database.DBTX, id int64) (*models.Posting, error) {
	posting, err := scanPosting(q.QueryRowContext(ctx, postingSelect+" WHERE p.id = ?", id))
	if isNoRows(err) {
		return nil, apperror.NotFound("posting", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}
	return posting, nil
}
