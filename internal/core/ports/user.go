package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/sampleapp/accounts/internal/core/domain/user"
)

// UserRepository defines the data operations over user accounts. Expected
// business outcomes travel in the returned Result's Status; only
// infrastructure failures come back as errors.
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*user.Result, error)
	Update(ctx context.Context, id uuid.UUID, params user.UpdateParams) (*user.Result, error)
	Get(ctx context.Context, filter user.Filter) (*user.Result, error)
	Delete(ctx context.Context, filter user.Filter) (*user.Result, error)
	Put(ctx context.Context, params user.Params) (*user.Result, error)
}

// RegistrationService orchestrates the registration workflow and the
// out-of-flow verification steps.
type RegistrationService interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.RegistrationResult, error)
	VerifyEmail(ctx context.Context, token string) (*user.RegistrationResult, error)
	ResendVerification(ctx context.Context, userID uuid.UUID) (*user.RegistrationResult, error)
}
