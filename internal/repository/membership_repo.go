package repository

import (
	"context"
	"errors"
	"fmt"

	"fitfam/internal/apperror"
	"fitfam/internal/database"
	"fitfam/internal/models"
	"fitfam/internal/querybuilder"
)

var (
	membershipInsertFields = querybuilder.FieldMap{
		{Name: "userId", Column: "user_id"},
		{Name: "familyId", Column: "family_id"},
		{Name: "memStatus", Column: "mem_status"},
		{Name: "isAdmin", Column: "is_admin"},
		{Name: "primaryFamily", Column: "primary_family"},
	}

	membershipFilterFields = querybuilder.FieldMap{
		{Name: "userId", Column: "user_id", Mode: querybuilder.Equals},
		{Name: "familyId", Column: "family_id", Mode: querybuilder.Equals},
		{Name: "memStatus", Column: "mem_status", Mode: querybuilder.Equals},
		{Name: "isAdmin", Column: "is_admin", Mode: querybuilder.Equals},
		{Name: "primaryFamily", Column: "primary_family", Mode: querybuilder.Equals},
	}

	membershipUpdateFields = querybuilder.FieldMap{
		{Name: "memStatus", Column: "mem_status"},
		{Name: "isAdmin", Column: "is_admin"},
		{Name: "primaryFamily", Column: "primary_family"},
	}
)

const membershipColumns = `user_id, family_id, mem_status, is_admin, primary_family, create_date, modify_date`

// MembershipRepository handles database operations for user/family links
type MembershipRepository struct {
	db *database.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *database.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func scanMembership(s scanner) (*models.Membership, error) {
	m := &models.Membership{}
	err := s.Scan(&m.UserID, &m.FamilyID, &m.MemStatus, &m.IsAdmin, &m.PrimaryFamily, &m.CreateDate, &m.ModifyDate)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create links a user to a family. The user and family must exist and
// must not already be linked.
func (r *MembershipRepository) Create(ctx context.Context, in models.NewMembership) (*models.Membership, error) {
	fragment, err := querybuilder.BuildInsert(in.Values(), membershipInsertFields)
	if err != nil {
		return nil, err
	}

	var membership *models.Membership
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		if err := requireExists(ctx, tx, "users", "user", in.UserID); err != nil {
			return err
		}
		if err := requireExists(ctx, tx, "families", "family", in.FamilyID); err != nil {
			return err
		}

		duplicate := apperror.Duplicate("User %d is already a member of family: %d", in.UserID, in.FamilyID)
		if _, err := r.get(ctx, tx, in.UserID, in.FamilyID); err == nil {
			return duplicate
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return err
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO users_families "+fragment.SQL, fragment.Args...); err != nil {
			if tx.GetDialect().IsUniqueViolation(err) {
				return duplicate
			}
			return fmt.Errorf("failed to create membership: %w", err)
		}

		membership, err = r.get(ctx, tx, in.UserID, in.FamilyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// FindAll returns memberships matching the filter
func (r *MembershipRepository) FindAll(ctx context.Context, filter models.MembershipFilter) ([]models.Membership, error) {
	where := querybuilder.BuildFilter(r.db.Dialect, filter.Values(), membershipFilterFields)
	query := "SELECT " + membershipColumns + " FROM users_families " + where.SQL + " ORDER BY user_id, family_id"

	memberships, err := queryList(ctx, r.db, scanMembership, query, where.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	return memberships, nil
}

// Find returns the membership of userID in familyID
func (r *MembershipRepository) Find(ctx context.Context, userID, familyID int64) (*models.Membership, error) {
	return r.get(ctx, r.db, userID, familyID)
}

// Update applies a partial update
func (r *MembershipRepository) Update(ctx context.Context, userID, familyID int64, in models.MembershipUpdate) (*models.Membership, error) {
	query, args, err := updateStatement("users_families", in.Values(), membershipUpdateFields,
		"user_id = ? AND family_id = ?", userID, familyID)
	if err != nil {
		return nil, err
	}

	var membership *models.Membership
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}
		if err := affected(result, membershipNotFound(userID, familyID)); err != nil {
			return err
		}
		membership, err = r.get(ctx, tx, userID, familyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// Remove deletes a membership
func (r *MembershipRepository) Remove(ctx context.Context, userID, familyID int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users_families WHERE user_id = ? AND family_id = ?", userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	return affected(result, membershipNotFound(userID, familyID))
}

func (r *MembershipRepository) get(ctx context.Context, q database.DBTX, userID, familyID int64) (*models.Membership, error) {
	row := q.QueryRowContext(ctx, "SELECT "+membershipColumns+" FROM users_families WHERE user_id = ? AND family_id = ?", userID, familyID)
	m, err := scanMembership(row)
	if isNoRows(err) {
		return nil, membershipNotFound(userID, familyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

func membershipNotFound(userID, familyID int64) error {
	return apperror.NotFound("membership", models.MembershipKey(userID, familyID))
}
