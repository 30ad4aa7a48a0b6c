package repository

import (
	"context"
	"fmt"

	"fitfam/internal/database"
	"fitfam/internal/models"
	"fitfam/internal/querybuilder"
)

// MovementRepository handles the movement catalogue
type MovementRepository struct {
	db *database.DB
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *database.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func scanMovement(s scanner) (*models.Movement, error) {
	m := &models.Movement{}
	if err := s.Scan(&m.ID, &m.Name, &m.YoutubeID); err != nil {
		return nil, err
	}
	return m, nil
}

// FindAll returns movements ordered by name, optionally narrowed by a partial name
func (r *MovementRepository) FindAll(ctx context.Context, name string) ([]models.Movement, error) {
	query := "SELECT id, movement_name, youtube_id FROM movements"
	var args []any
	if name != "" {
		query += " WHERE " + r.db.Dialect.PartialMatch("movement_name")
		args = append(args, querybuilder.Contains(name))
	}
	query += " ORDER BY movement_name"

	movements, err := queryList(ctx, r.db, scanMovement, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	return movements, nil
}

// Upsert stores movements, replacing the name and video of ones already known
func (r *MovementRepository) Upsert(ctx context.Context, movements []models.Movement) error {
	return r.db.InTx(ctx, func(tx *database.Tx) error {
		for _, m := range movements {
			result, err := tx.ExecContext(ctx,
				"UPDATE movements SET movement_name = ?, youtube_id = ? WHERE id = ?",
				m.Name, m.YoutubeID, m.ID)
			if err != nil {
				return fmt.Errorf("failed to update movement %s: %w", m.ID, err)
			}
			if n, _ := result.RowsAffected(); n > 0 {
				continue
			}

			_, err = tx.ExecContext(ctx,
				"INSERT INTO movements (id, movement_name, youtube_id) VALUES (?, ?, ?)",
				m.ID, m.Name, m.YoutubeID)
			// a concurrent seed may have inserted it since the update
			if err != nil && !tx.GetDialect().IsUniqueViolation(err) {
				return fmt.Errorf("failed to insert movement %s: %w", m.ID, err)
			}
		}
		return nil
	})
}
