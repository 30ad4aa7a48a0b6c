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
	commentInsertFields = querybuilder.FieldMap{
		{Name: "resultId", Column: "result_id"},
		{Name: "userId", Column: "user_id"},
		{Name: "content", Column: "content"},
	}

	commentFilterFields = querybuilder.FieldMap{
		{Name: "resultId", Column: "result_id", Mode: querybuilder.Equals},
		{Name: "userId", Column: "user_id", Mode: querybuilder.Equals},
		{Name: "content", Column: "content", Mode: querybuilder.PartialMatch},
	}

	commentUpdateFields = querybuilder.FieldMap{
		{Name: "content", Column: "content"},
	}
)

const commentColumns = `id, result_id, user_id, content, create_date, modify_date`

// CommentRepository handles database operations for result comments
type CommentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func scanComment(s scanner) (*models.Comment, error) {
	c := &models.Comment{}
	if err := s.Scan(&c.ID, &c.ResultID, &c.UserID, &c.Content, &c.CreateDate, &c.ModifyDate); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CommentRepository) Create(ctx context.Context, in models.NewComment) (*models.Comment, error) {
	fragment, err := querybuilder.BuildInsert(in.Values(), commentInsertFields)
	if err != nil {
		return nil, err
	}

	var comment *models.Comment
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		if err := requireExists(ctx, tx, "results", "result", in.ResultID); err != nil {
			return err
		}
		if err := requireExists(ctx, tx, "users", "user", in.UserID); err != nil {
			return err
		}

		id, err := tx.ExecReturningID(ctx, "INSERT INTO comments "+fragment.SQL, fragment.Args...)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		comment, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// FindAll returns comments matching the filter, oldest first
func (r *CommentRepository) FindAll(ctx context.Context, filter models.CommentFilter) ([]models.Comment, error) {
	where := querybuilder.BuildFilter(r.db.Dialect, filter.Values(), commentFilterFields)
	query := "SELECT " + commentColumns + " FROM comments " + where.SQL + " ORDER BY create_date, id"

	comments, err := queryList(ctx, r.db, scanComment, query, where.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Find(ctx context.Context, id int64) (*models.Comment, error) {
	return r.get(ctx, r.db, id)
}

func (r *CommentRepository) Update(ctx context.Context, id int64, in models.CommentUpdate) (*models.Comment, error) {
	query, args, err := updateStatement("comments", in.Values(), commentUpdateFields, "id = ?", id)
	if err != nil {
		return nil, err
	}

	var comment *models.Comment
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}
		if err := affected(result, apperror.NotFound("comment", id)); err != nil {
			return err
		}
		comment, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *CommentRepository) Remove(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return affected(result, apperror.NotFound("comment", id))
}

func (r *CommentRepository) get(ctx context.Context, q database.DBTX, id int64) (*models.Comment, error) {
	comment, err := scanComment(q.QueryRowContext(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = ?", id))
	if isNoRows(err) {
		return nil, apperror.NotFound("comment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}
