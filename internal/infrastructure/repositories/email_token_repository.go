package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sampleapp/accounts/internal/core/domain/result"
	"github.com/sampleapp/accounts/internal/core/domain/user"
	"github.com/sampleapp/accounts/internal/core/ports"
	"github.com/sampleapp/accounts/internal/infrastructure/db"
)

const tokenColumns = "id, user_id, token, created_at"

// EmailTokenRepository stores email-verification tokens in Postgres.
type EmailTokenRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewEmailTokenRepository creates a new email token repository
func NewEmailTokenRepository(database *db.Database, logger *logrus.Logger) ports.EmailTokenRepository {
	return &EmailTokenRepository{db: database, logger: logger}
}

// Create persists a token for a user. Existing tokens for the same user
// stay live; re-issuance never invalidates them.
func (r *EmailTokenRepository) Create(ctx context.Context, userID uuid.UUID, token string) (*user.TokenResult, error) {
	if userID == uuid.Nil || token == "" {
		return &user.TokenResult{Status: result.Invalid}, nil
	}

	query := `
		INSERT INTO user_email_tokens (id, user_id, token)
		VALUES ($1, $2, $3)
		RETURNING ` + tokenColumns

	tokens := make([]user.EmailToken, 0, 1)
	if err := r.db.DB.SelectContext(ctx, &tokens, query, uuid.New(), userID, token); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to create email token")
		}
		return nil, fmt.Errorf("failed to create email token: %w", err)
	}

	return &user.TokenResult{Status: result.Created, Tokens: tokens}, nil
}

// Get returns tokens matching any of the filter's conditions, newest
// first. Zero matches is a normal SUCCESS.
func (r *EmailTokenRepository) Get(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error) {
	conds := tokenConditions(filter)
	if len(conds) == 0 {
		return &user.TokenResult{Status: result.Invalid}, nil
	}

	where, args := whereOr(conds)
	query := fmt.Sprintf(`SELECT %s FROM user_email_tokens WHERE %s ORDER BY created_at DESC`, tokenColumns, where)

	tokens := make([]user.EmailToken, 0)
	if err := r.db.DB.SelectContext(ctx, &tokens, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to get email tokens")
		}
		return nil, fmt.Errorf("failed to get email tokens: %w", err)
	}

	return &user.TokenResult{Status: result.Success, Tokens: tokens}, nil
}

// Delete removes tokens matching any of the filter's conditions and
// returns the removed rows.
func (r *EmailTokenRepository) Delete(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error) {
	conds := tokenConditions(filter)
	if len(conds) == 0 {
		return &user.TokenResult{Status: result.Invalid}, nil
	}

	where, args := whereOr(conds)
	query := fmt.Sprintf(`DELETE FROM user_email_tokens WHERE %s RETURNING %s`, where, tokenColumns)

	tokens := make([]user.EmailToken, 0)
	if err := r.db.DB.SelectContext(ctx, &tokens, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to delete email tokens")
		}
		return nil, fmt.Errorf("failed to delete email tokens: %w", err)
	}

	return &user.TokenResult{Status: result.Deleted, Tokens: tokens}, nil
}

// SweepExpired removes every token older than maxAge and returns the
// removed rows. A maintenance operation, not a lookup: it always reports
// DELETED, even when nothing was old enough.
func (r *EmailTokenRepository) SweepExpired(ctx context.Context, maxAge time.Duration) (*user.TokenResult, error) {
	cutoff := time.Now().Add(-maxAge)
	query := `DELETE FROM user_email_tokens WHERE created_at < $1 RETURNING ` + tokenColumns

	tokens := make([]user.EmailToken, 0)
	if err := r.db.DB.SelectContext(ctx, &tokens, query, cutoff); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to sweep expired email tokens")
		}
		return nil, fmt.Errorf("failed to sweep expired email tokens: %w", err)
	}
	if r.logger != nil && len(tokens) > 0 {
		r.logger.WithFields(logrus.Fields{"rows": len(tokens)}).Info("db: swept expired email tokens")
	}

	return &user.TokenResult{Status: result.Deleted, Tokens: tokens}, nil
}
