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
	familyInsertFields = querybuilder.FieldMap{
		{Name: "familyName", Column: "family_name"},
		{Name: "joinCode", Column: "join_code"},
		{Name: "imageUrl", Column: "image_url"},
		{Name: "bio", Column: "bio"},
	}

	familyFilterFields = querybuilder.FieldMap{
		{Name: "familyName", Column: "family_name", Mode: querybuilder.PartialMatch},
		{Name: "bio", Column: "bio", Mode: querybuilder.PartialMatch},
		{Name: "joinCode", Column: "join_code", Mode: querybuilder.Equals},
	}

	familyUpdateFields = querybuilder.FieldMap{
		{Name: "familyName", Column: "family_name"},
		{Name: "imageUrl", Column: "image_url"},
		{Name: "bio", Column: "bio"},
	}
)

// FamilyRepository handles database operations for families
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// scanFamily reads a family without its join code
func scanFamily(s scanner) (*models.Family, error) {
	f := &models.Family{}
	if err := s.Scan(&f.ID, &f.FamilyName, &f.ImageURL, &f.Bio, &f.CreateDate, &f.ModifyDate); err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts a family with the given join code. When creatorID is set the
// creator is added as an active admin member in the same transaction.
func (r *FamilyRepository) Create(ctx context.Context, in models.NewFamily, joinCode string, creatorID int64) (*models.Family, error) {
	values := in.Values()
	values.Set("joinCode", joinCode)

	fragment, err := querybuilder.BuildInsert(values, familyInsertFields)
	if err != nil {
		return nil, err
	}

	var family *models.Family
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		id, err := tx.ExecReturningID(ctx, "INSERT INTO families "+fragment.SQL, fragment.Args...)
		if err != nil {
			if tx.GetDialect().IsUniqueViolation(err) {
				return apperror.New(apperror.ErrDuplicate, "Duplicate join code", err)
			}
			return fmt.Errorf("failed to create family: %w", err)
		}

		if creatorID != 0 {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO users_families (user_id, family_id, mem_status, is_admin, primary_family)
				VALUES (?, ?, ?, ?, ?)
			`, creatorID, id, models.MemStatusActive, true, false)
			if err != nil {
				return fmt.Errorf("failed to add family creator: %w", err)
			}
		}

		family, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return family, nil
}

// FindAll returns families matching the filter. Join codes are not listed.
func (r *FamilyRepository) FindAll(ctx context.Context, filter models.FamilyFilter) ([]models.Family, error) {
	where := querybuilder.BuildFilter(r.db.Dialect, filter.Values(), familyFilterFields)
	query := "SELECT id, family_name, image_url, bio, create_date, modify_date FROM families " +
		where.SQL + " ORDER BY family_name, id"

	families, err := queryList(ctx, r.db, scanFamily, query, where.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	return families, nil
}

// Find returns a family with its join code and members
func (r *FamilyRepository) Find(ctx context.Context, id int64) (*models.Family, error) {
	family, err := r.get(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT uf.user_id, u.first_name, u.last_name, uf.mem_status, uf.is_admin
		FROM users_families uf
		JOIN users u ON u.id = uf.user_id
		WHERE uf.family_id = ?
		ORDER BY u.last_name, u.first_name
	`
	family.Users, err = queryList(ctx, r.db, func(s scanner) (*models.FamilyMember, error) {
		m := &models.FamilyMember{}
		return m, s.Scan(&m.UserID, &m.FirstName, &m.LastName, &m.MemStatus, &m.IsAdmin)
	}, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}

	return family, nil
}

// FindByJoinCode returns the family using code, or nil when there is none
func (r *FamilyRepository) FindByJoinCode(ctx context.Context, code string) (*models.Family, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM families WHERE join_code = ?", code).Scan(&id)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family by join code: %w", err)
	}
	return r.get(ctx, r.db, id)
}

// Update applies a partial update
func (r *FamilyRepository) Update(ctx context.Context, id int64, in models.FamilyUpdate) (*models.Family, error) {
	query, args, err := updateStatement("families", in.Values(), familyUpdateFields, "id = ?", id)
	if err != nil {
		return nil, err
	}

	var family *models.Family
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update family: %w", err)
		}
		if err := affected(result, apperror.NotFound("family", id)); err != nil {
			return err
		}
		family, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return family, nil
}

// Remove deletes a family along with its memberships, postings, results and their comments
func (r *FamilyRepository) Remove(ctx context.Context, id int64) error {
	return r.db.InTx(ctx, func(tx *database.Tx) error {
		statements := []string{
			"DELETE FROM comments WHERE result_id IN (SELECT id FROM results WHERE family_id = ?)",
			"DELETE FROM results WHERE family_id = ?",
			"DELETE FROM postings WHERE family_id = ?",
			"DELETE FROM users_families WHERE family_id = ?",
		}
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("failed to remove family dependents: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM families WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete family: %w", err)
		}
		return affected(result, apperror.NotFound("family", id))
	})
}

// get reads a family including its join code
func (r *FamilyRepository) get(ctx context.Context, q database.DBTX, id int64) (*models.Family, error) {
	f := &models.Family{}
	err := q.QueryRowContext(ctx, `
		SELECT id, family_name, join_code, image_url, bio, create_date, modify_date
		FROM families WHERE id = ?
	`, id).Scan(&f.ID, &f.FamilyName, &f.JoinCode, &f.ImageURL, &f.Bio, &f.CreateDate, &f.ModifyDate)
	if isNoRows(err) {
		return nil, apperror.NotFound("family", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return f, nil
}
