package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sampleapp/accounts/internal/core/domain/result"
	"github.com/sampleapp/accounts/internal/core/domain/user"
	"github.com/sampleapp/accounts/internal/core/ports"
	"github.com/sampleapp/accounts/internal/infrastructure/db"
)

const userColumns = "id, username, email, password_hash, email_validated, created_at, updated_at"

// UserRepository implements the user repository interface over Postgres.
type UserRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(database *db.Database, logger *logrus.Logger) ports.UserRepository {
	return &UserRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new user with a fresh id and email_validated=false.
// Missing arguments are a caller error. A duplicate username or email
// surfaces as a unique-violation error, not a status; the repository does
// not pre-check uniqueness.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (*user.Result, error) {
	if username == "" || email == "" || passwordHash == "" {
		return &user.Result{Status: result.Invalid}, nil
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, email_validated)
		VALUES ($1, $2, $3, $4, false)
		RETURNING ` + userColumns

	users := make([]user.User, 0, 1)
	if err := r.db.DB.SelectContext(ctx, &users, query, uuid.New(), username, email, passwordHash); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"username": username, "email": email}).WithError(err).Error("db: failed to create user")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"user_id": users[0].ID, "username": username}).Info("db: user created")
	}

	return &user.Result{Status: result.Created, Users: users}, nil
}

// Update applies only the supplied fields and always refreshes updated_at.
// A missing id, an empty field set, or a nonexistent row all report
// INVALID.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, params user.UpdateParams) (*user.Result, error) {
	if id == uuid.Nil || params.Empty() {
		return &user.Result{Status: result.Invalid}, nil
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Username != nil {
		set("username", *params.Username)
	}
	if params.Email != nil {
		set("email", *params.Email)
	}
	if params.PasswordHash != nil {
		set("password_hash", *params.PasswordHash)
	}
	if params.EmailValidated != nil {
		set("email_validated", *params.EmailValidated)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args), userColumns)

	users := make([]user.User, 0, 1)
	if err := r.db.DB.SelectContext(ctx, &users, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": id}).WithError(err).Error("db: failed to update user")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if len(users) == 0 {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": id}).Debug("db: update affected 0 rows - user not found")
		}
		return &user.Result{Status: result.Invalid}, nil
	}

	return &user.Result{Status: result.Success, Users: users}, nil
}

// Get returns all users matching any of the filter's conditions. Zero
// matches is a normal SUCCESS; a filter with no usable condition is
// INVALID.
func (r *UserRepository) Get(ctx context.Context, filter user.Filter) (*user.Result, error) {
	conds := userConditions(filter)
	if len(conds) == 0 {
		return &user.Result{Status: result.Invalid}, nil
	}

	where, args := whereOr(conds)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s`, userColumns, where)

	users := make([]user.User, 0)
	if err := r.db.DB.SelectContext(ctx, &users, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to get users")
		}
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return &user.Result{Status: result.Success, Users: users}, nil
}

// Delete removes all users matching any of the filter's conditions and
// returns the removed rows. Zero matches is a normal DELETED.
func (r *UserRepository) Delete(ctx context.Context, filter user.Filter) (*user.Result, error) {
	conds := userConditions(filter)
	if len(conds) == 0 {
		return &user.Result{Status: result.Invalid}, nil
	}

	where, args := whereOr(conds)
	query := fmt.Sprintf(`DELETE FROM users WHERE %s RETURNING %s`, where, userColumns)

	users := make([]user.User, 0)
	if err := r.db.DB.SelectContext(ctx, &users, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to delete users")
		}
		return nil, fmt.Errorf("failed to delete users: %w", err)
	}
	if r.logger != nil && len(users) > 0 {
		r.logger.WithFields(logrus.Fields{"rows": len(users)}).Info("db: users deleted")
	}

	return &user.Result{Status: result.Deleted, Users: users}, nil
}

// Put routes to Update when an id is present and to Create otherwise. Pure
// dispatch, no validation of its own.
func (r *UserRepository) Put(ctx context.Context, params user.Params) (*user.Result, error) {
	if params.ID != uuid.Nil {
		return r.Update(ctx, params.ID, params.UpdateParams)
	}
	return r.Create(ctx, deref(params.Username), deref(params.Email), deref(params.PasswordHash))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
