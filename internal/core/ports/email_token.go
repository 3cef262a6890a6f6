package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sampleapp/accounts/internal/core/domain/user"
)

// EmailTokenRepository stores email-verification tokens. Issuing a new
// token never invalidates older ones; SweepExpired is the only bulk
// reclamation path.
type EmailTokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token string) (*user.TokenResult, error)
	Get(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error)
	Delete(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error)
	SweepExpired(ctx context.Context, maxAge time.Duration) (*user.TokenResult, error)
}
