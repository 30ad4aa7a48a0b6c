package repository

import (
	"context"
	"fmt"
	"strings"

	"fitfam/internal/apperror"
	"fitfam/internal/database"
	"fitfam/internal/models"
	"fitfam/internal/querybuilder"
	"fitfam/internal/security"
)

var (
	userInsertFields = querybuilder.FieldMap{
		{Name: "email", Column: "email"},
		{Name: "password", Column: "user_password"},
		{Name: "firstName", Column: "first_name"},
		{Name: "lastName", Column: "last_name"},
		{Name: "isAdmin", Column: "is_admin"},
		{Name: "userStatus", Column: "user_status"},
		{Name: "imageUrl", Column: "image_url"},
		{Name: "bio", Column: "bio"},
	}

	userFilterFields = querybuilder.FieldMap{
		{Name: "email", Column: "email", Mode: querybuilder.PartialMatch},
		{Name: "firstName", Column: "first_name", Mode: querybuilder.PartialMatch},
		{Name: "lastName", Column: "last_name", Mode: querybuilder.PartialMatch},
		{Name: "bio", Column: "bio", Mode: querybuilder.PartialMatch},
		{Name: "isAdmin", Column: "is_admin", Mode: querybuilder.Equals},
		{Name: "userStatus", Column: "user_status", Mode: querybuilder.Equals},
	}

	userUpdateFields = querybuilder.FieldMap{
		{Name: "password", Column: "user_password"},
		{Name: "firstName", Column: "first_name"},
		{Name: "lastName", Column: "last_name"},
		{Name: "userStatus", Column: "user_status"},
		{Name: "imageUrl", Column: "image_url"},
		{Name: "bio", Column: "bio"},
	}
)

const userColumns = `id, email, user_password, first_name, last_name, is_admin, user_status,
	image_url, bio, create_date, modify_date`

// UserRepository handles database operations for users
type UserRepository struct {
	db         *database.DB
	bcryptCost int
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB, bcryptCost int) *UserRepository {
	return &UserRepository{db: db, bcryptCost: bcryptCost}
}

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&u.FirstName,
		&u.LastName,
		&u.IsAdmin,
		&u.UserStatus,
		&u.ImageURL,
		&u.Bio,
		&u.CreateDate,
		&u.ModifyDate,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create hashes the password and inserts a new user
func (r *UserRepository) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)

	hash, err := security.HashPassword(in.Password, r.bcryptCost)
	if err != nil {
		return nil, err
	}
	values := in.Values()
	values.Set("password", hash)

	fragment, err := querybuilder.BuildInsert(values, userInsertFields)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		existing, err := r.findByEmail(ctx, tx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.Duplicate("Duplicate email: %s", in.Email)
		}

		id, err := tx.ExecReturningID(ctx, "INSERT INTO users "+fragment.SQL, fragment.Args...)
		if err != nil {
			if tx.GetDialect().IsUniqueViolation(err) {
				return apperror.New(apperror.ErrDuplicate, "Duplicate email: "+in.Email, err)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		user, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindAll returns users matching the filter, ordered by name
func (r *UserRepository) FindAll(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	where := querybuilder.BuildFilter(r.db.Dialect, filter.Values(), userFilterFields)
	query := "SELECT " + userColumns + " FROM users " + where.SQL + " ORDER BY last_name, first_name, id"

	users, err := queryList(ctx, r.db, scanUser, query, where.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return users, nil
}

// Find returns a user with the families they belong to
func (r *UserRepository) Find(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.get(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT uf.family_id, f.family_name, uf.mem_status, uf.is_admin, uf.primary_family
		FROM users_families uf
		JOIN families f ON f.id = uf.family_id
		WHERE uf.user_id = ?
		ORDER BY f.family_name
	`
	user.Families, err = queryList(ctx, r.db, func(s scanner) (*models.UserFamily, error) {
		f := &models.UserFamily{}
		return f, s.Scan(&f.FamilyID, &f.FamilyName, &f.MemStatus, &f.IsAdmin, &f.PrimaryFamily)
	}, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query user families: %w", err)
	}

	return user, nil
}

// FindByEmail returns the user with the given email, or nil when there is none
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findByEmail(ctx, r.db, email)
}

func (r *UserRepository) findByEmail(ctx context.Context, q database.DBTX, email string) (*models.User, error) {
	row := q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER(?)", strings.TrimSpace(email))
	user, err := scanUser(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Authenticate checks an email and password pair
func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !security.CheckPassword(user.Password, password) {
		return nil, apperror.Unauthorized("Invalid email/password")
	}
	if user.UserStatus == models.UserStatusBlocked {
		return nil, apperror.Unauthorized("Account is blocked")
	}
	return user, nil
}

// Update applies a partial update, hashing a new password if one is given
func (r *UserRepository) Update(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	if in.Password != nil {
		hash, err := security.HashPassword(*in.Password, r.bcryptCost)
		if err != nil {
			return nil, err
		}
		in.Password = &hash
	}

	query, args, err := updateStatement("users", in.Values(), userUpdateFields, "id = ?", id)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = r.db.InTx(ctx, func(tx *database.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if err := affected(result, apperror.NotFound("user", id)); err != nil {
			return err
		}
		user, err = r.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Remove deletes a user together with their memberships, results and comments.
// Postings and workouts they created are kept without an author.
func (r *UserRepository) Remove(ctx context.Context, id int64) error {
	return r.db.InTx(ctx, func(tx *database.Tx) error {
		statements := []string{
			"DELETE FROM comments WHERE user_id = ? OR result_id IN (SELECT id FROM results WHERE user_id = ?)",
			"DELETE FROM results WHERE user_id = ?",
			"DELETE FROM users_families WHERE user_id = ?",
			"UPDATE postings SET post_by = NULL WHERE post_by = ?",
			"UPDATE workouts SET create_by = NULL WHERE create_by = ?",
		}
		for _, stmt := range statements {
			args := make([]any, strings.Count(stmt, "?"))
			for i := range args {
				args[i] = id
			}
			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return fmt.Errorf("failed to remove user dependents: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return affected(result, apperror.NotFound("user", id))
	})
}

func (r *UserRepository) get(ctx context.Context, q database.DBTX, id int64) (*models.User, error) {
	user, err := scanUser(q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if isNoRows(err) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
