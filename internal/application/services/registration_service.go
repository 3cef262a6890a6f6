package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sampleapp/accounts/internal/core/domain/result"
	"github.com/sampleapp/accounts/internal/core/domain/user"
	"github.com/sampleapp/accounts/internal/core/ports"
	"github.com/sampleapp/accounts/internal/utils"
)

const verificationSubject = "Sample email verification"

// RegistrationService coordinates the registration workflow: duplicate
// check, user creation, token issuance and verification mail. User
// creation and mail delivery are deliberately non-transactional; a mail
// failure leaves the user row in place and the caller resends via
// ResendVerification.
type RegistrationService struct {
	users       ports.UserRepository
	tokens      ports.EmailTokenRepository
	mail        ports.MailSender
	hasher      ports.PasswordHasher
	logger      *logrus.Logger
	baseURL     string
	tokenLength int
}

func NewRegistrationService(users ports.UserRepository, tokens ports.EmailTokenRepository, mail ports.MailSender, hasher ports.PasswordHasher, logger *logrus.Logger, baseURL string, tokenLength int) ports.RegistrationService {
	return &RegistrationService{
		users:       users,
		tokens:      tokens,
		mail:        mail,
		hasher:      hasher,
		logger:      logger,
		baseURL:     baseURL,
		tokenLength: tokenLength,
	}
}

// Register runs the registration workflow. The duplicate check and the
// insert are not mutually exclusive across concurrent callers; the unique
// constraints on username and email close that race, and the resulting
// error is the caller's alternate conflict signal.
func (s *RegistrationService) Register(ctx context.Context, req *user.RegisterRequest) (*user.RegistrationResult, error) {
	existing, err := s.users.Get(ctx, user.Filter{
		Usernames: oneOf(req.Username),
		Emails:    oneOf(req.Email),
	})
	if err != nil {
		return nil, err
	}
	if !existing.Status.Successful() {
		return &user.RegistrationResult{Status: existing.Status}, nil
	}
	if len(existing.Users) > 0 {
		return &user.RegistrationResult{
			Status:          result.Conflict,
			ConflictingUser: &existing.Users[0],
		}, nil
	}

	if req.Password == "" {
		return &user.RegistrationResult{Status: result.Invalid}, nil
	}
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, req.Username, req.Email, passwordHash)
	if err != nil {
		return nil, err
	}
	if !created.Status.Successful() {
		return &user.RegistrationResult{Status: created.Status}, nil
	}
	newUser := created.Users[0]

	if status := s.issueVerification(ctx, &newUser); !status.Successful() {
		// The user row stays; the caller can retry just the mail step.
		return &user.RegistrationResult{
			Status:  status,
			Message: "Failed to send verification email",
			User:    &newUser,
		}, nil
	}

	return &user.RegistrationResult{Status: created.Status, User: &newUser}, nil
}

// VerifyEmail completes verification for a presented token: mark the
// owning user validated, then delete the consumed token. The two steps
// report independently: an update failure keeps the token for a retry,
// while a delete failure after a successful update only leaves a stale
// token for the expiry sweep. Re-validating an already-validated user
// still succeeds.
func (s *RegistrationService) VerifyEmail(ctx context.Context, token string) (*user.RegistrationResult, error) {
	if token == "" {
		return &user.RegistrationResult{Status: result.Invalid}, nil
	}

	found, err := s.tokens.Get(ctx, user.TokenFilter{Tokens: []string{token}})
	if err != nil {
		return nil, err
	}
	if !found.Status.Successful() {
		return &user.RegistrationResult{Status: found.Status}, nil
	}
	if len(found.Tokens) == 0 {
		return &user.RegistrationResult{Status: result.Invalid, Message: "unknown verification token"}, nil
	}
	record := found.Tokens[0]

	validated := true
	updated, err := s.users.Update(ctx, record.UserID, user.UpdateParams{EmailValidated: &validated})
	if err != nil {
		return nil, err
	}
	if !updated.Status.Successful() {
		return &user.RegistrationResult{Status: updated.Status}, nil
	}
	verifiedUser := updated.Users[0]

	// Only the consumed token is invalidated; other live tokens for the
	// user stay until the sweep.
	if _, err := s.tokens.Delete(ctx, user.TokenFilter{IDs: []uuid.UUID{record.ID}}); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"token_id": record.ID, "user_id": record.UserID}).WithError(err).Warn("failed to delete consumed verification token")
		}
	}

	return &user.RegistrationResult{Status: result.Success, User: &verifiedUser}, nil
}

// ResendVerification issues a fresh token for an existing user and sends
// the verification mail again. Prior tokens stay valid.
func (s *RegistrationService) ResendVerification(ctx context.Context, userID uuid.UUID) (*user.RegistrationResult, error) {
	if userID == uuid.Nil {
		return &user.RegistrationResult{Status: result.Invalid}, nil
	}

	found, err := s.users.Get(ctx, user.Filter{IDs: []uuid.UUID{userID}})
	if err != nil {
		return nil, err
	}
	if !found.Status.Successful() {
		return &user.RegistrationResult{Status: found.Status}, nil
	}
	if len(found.Users) == 0 {
		return &user.RegistrationResult{Status: result.Invalid, Message: "unknown user"}, nil
	}
	u := found.Users[0]

	if status := s.issueVerification(ctx, &u); !status.Successful() {
		return &user.RegistrationResult{
			Status:  status,
			Message: "Failed to send verification email",
			User:    &u,
		}, nil
	}

	return &user.RegistrationResult{Status: result.Created, User: &u}, nil
}

// issueVerification generates an opaque token, persists it and mails the
// verification link. Infrastructure failures are absorbed into FAILED
// here: the user row already exists and must not be rolled back.
func (s *RegistrationService) issueVerification(ctx context.Context, u *user.User) result.Status {
	token, err := utils.GenerateToken(s.tokenLength)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Error("failed to generate verification token")
		}
		return result.Failed
	}

	stored, err := s.tokens.Create(ctx, u.ID, token)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Error("failed to store verification token")
		}
		return result.Failed
	}
	if !stored.Status.Successful() {
		return stored.Status
	}

	return s.mail.Send(ctx, &ports.MailMessage{
		To:      u.Email,
		Subject: verificationSubject,
		Text: fmt.Sprintf(`Dearest %s,

We are overjoyed to have you register. Please follow the link to verify your email address.

%s/verify/%s

Have a great day.
The Sample App team.`, u.Username, s.baseURL, token),
	})
}

func oneOf(value string) []string {
	if value == "" {
		return nil
	}
	return []string{value}
}
