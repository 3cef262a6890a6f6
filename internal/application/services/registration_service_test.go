package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/sampleapp/accounts/internal/application/services"
	"github.com/sampleapp/accounts/internal/core/domain/result"
	"github.com/sampleapp/accounts/internal/core/domain/user"
	"github.com/sampleapp/accounts/internal/core/ports"
)

type userRepoMock struct {
	createFn func(ctx context.Context, username, email, passwordHash string) (*user.Result, error)
	updateFn func(ctx context.Context, id uuid.UUID, params user.UpdateParams) (*user.Result, error)
	getFn    func(ctx context.Context, filter user.Filter) (*user.Result, error)
	deleteFn func(ctx context.Context, filter user.Filter) (*user.Result, error)
}

func (m *userRepoMock) Create(ctx context.Context, username, email, passwordHash string) (*user.Result, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, email, passwordHash)
	}
	return &user.Result{Status: result.Created, Users: []user.User{{ID: uuid.New(), Username: username, Email: email, PasswordHash: passwordHash}}}, nil
}
func (m *userRepoMock) Update(ctx context.Context, id uuid.UUID, params user.UpdateParams) (*user.Result, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, params)
	}
	return &user.Result{Status: result.Success, Users: []user.User{{ID: id}}}, nil
}
func (m *userRepoMock) Get(ctx context.Context, filter user.Filter) (*user.Result, error) {
	if m.getFn != nil {
		return m.getFn(ctx, filter)
	}
	return &user.Result{Status: result.Success, Users: []user.User{}}, nil
}
func (m *userRepoMock) Delete(ctx context.Context, filter user.Filter) (*user.Result, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, filter)
	}
	return &user.Result{Status: result.Deleted, Users: []user.User{}}, nil
}
func (m *userRepoMock) Put(ctx context.Context, params user.Params) (*user.Result, error) {
	return &user.Result{Status: result.Invalid}, nil
}

type tokenRepoMock struct {
	createFn func(ctx context.Context, userID uuid.UUID, token string) (*user.TokenResult, error)
	getFn    func(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error)
	deleteFn func(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error)
	created  []user.EmailToken
	deleted  []user.TokenFilter
}

func (m *tokenRepoMock) Create(ctx context.Context, userID uuid.UUID, token string) (*user.TokenResult, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token)
	}
	record := user.EmailToken{ID: uuid.New(), UserID: userID, Token: token, Created: time.Now()}
	m.created = append(m.created, record)
	return &user.TokenResult{Status: result.Created, Tokens: []user.EmailToken{record}}, nil
}
func (m *tokenRepoMock) Get(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error) {
	if m.getFn != nil {
		return m.getFn(ctx, filter)
	}
	return &user.TokenResult{Status: result.Success, Tokens: []user.EmailToken{}}, nil
}
func (m *tokenRepoMock) Delete(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error) {
	m.deleted = append(m.deleted, filter)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, filter)
	}
	return &user.TokenResult{Status: result.Deleted, Tokens: []user.EmailToken{}}, nil
}
func (m *tokenRepoMock) SweepExpired(ctx context.Context, maxAge time.Duration) (*user.TokenResult, error) {
	return &user.TokenResult{Status: result.Deleted, Tokens: []user.EmailToken{}}, nil
}

type mailMock struct {
	sendFn func(ctx context.Context, msg *ports.MailMessage) result.Status
	sent   []*ports.MailMessage
}

func (m *mailMock) Send(ctx context.Context, msg *ports.MailMessage) result.Status {
	m.sent = append(m.sent, msg)
	if m.sendFn != nil {
		return m.sendFn(ctx, msg)
	}
	return result.Success
}

type hasherMock struct{}

func (hasherMock) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func newService(users *userRepoMock, tokens *tokenRepoMock, mail *mailMock) ports.RegistrationService {
	return impl.NewRegistrationService(users, tokens, mail, hasherMock{}, logrus.New(), "https://sample.com", 48)
}

func TestRegisterHappyPath(t *testing.T) {
	tokens := &tokenRepoMock{}
	mail := &mailMock{}
	svc := newService(&userRepoMock{}, tokens, mail)

	res, err := svc.Register(context.Background(), &user.RegisterRequest{
		Username: "alice",
		Email:    "a@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, result.Created, res.Status)
	require.NotNil(t, res.User)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "hashed:secret1", res.User.PasswordHash, "repository received the hash, not the password")

	require.Len(t, tokens.created, 1, "exactly one verification token issued")
	token := tokens.created[0].Token
	assert.NotEmpty(t, token)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "a@example.com", mail.sent[0].To)
	assert.Contains(t, mail.sent[0].Text, "/verify/"+token, "mail body carries the exact verification path")
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	existing := user.User{ID: uuid.New(), Username: "alice", Email: "a@example.com"}
	users := &userRepoMock{
		getFn: func(ctx context.Context, filter user.Filter) (*user.Result, error) {
			assert.Equal(t, []string{"alice"}, filter.Usernames)
			assert.Equal(t, []string{"b@example.com"}, filter.Emails)
			return &user.Result{Status: result.Success, Users: []user.User{existing}}, nil
		},
		createFn: func(ctx context.Context, username, email, passwordHash string) (*user.Result, error) {
			t.Fatal("create must not run on conflict")
			return nil, nil
		},
	}
	tokens := &tokenRepoMock{}
	svc := newService(users, tokens, &mailMock{})

	res, err := svc.Register(context.Background(), &user.RegisterRequest{
		Username: "alice",
		Email:    "b@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, result.Conflict, res.Status)
	require.NotNil(t, res.ConflictingUser)
	assert.Equal(t, "alice", res.ConflictingUser.Username)
	assert.Empty(t, tokens.created)
}

func TestRegisterMissingPassword(t *testing.T) {
	users := &userRepoMock{
		createFn: func(ctx context.Context, username, email, passwordHash string) (*user.Result, error) {
			t.Fatal("create must not run without a password")
			return nil, nil
		},
	}
	svc := newService(users, &tokenRepoMock{}, &mailMock{})

	res, err := svc.Register(context.Background(), &user.RegisterRequest{
		Username: "alice",
		Email:    "a@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, result.Invalid, res.Status)
	assert.Nil(t, res.User)
}

func TestRegisterNoIdentifyingFields(t *testing.T) {
	users := &userRepoMock{
		getFn: func(ctx context.Context, filter user.Filter) (*user.Result, error) {
			return &user.Result{Status: result.Invalid}, nil
		},
	}
	svc := newService(users, &tokenRepoMock{}, &mailMock{})

	res, err := svc.Register(context.Background(), &user.RegisterRequest{Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, result.Invalid, res.Status)
}

func TestRegisterMailFailureKeepsUser(t *testing.T) {
	mail := &mailMock{
		sendFn: func(ctx context.Context, msg *ports.MailMessage) result.Status {
			return result.Failed
		},
	}
	tokens := &tokenRepoMock{}
	svc := newService(&userRepoMock{}, tokens, mail)

	res, err := svc.Register(context.Background(), &user.RegisterRequest{
		Username: "alice",
		Email:    "a@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, result.Failed, res.Status)
	assert.Equal(t, "Failed to send verification email", res.Message)
	require.NotNil(t, res.User, "the created user is carried, not rolled back")
	assert.Equal(t, "alice", res.User.Username)
	assert.Len(t, tokens.created, 1)
}

func TestRegisterTokenStoreFailureKeepsUser(t *testing.T) {
	tokens := &tokenRepoMock{
		createFn: func(ctx context.Context, userID uuid.UUID, token string) (*user.TokenResult, error) {
			return nil, errors.New("connection lost")
		},
	}
	mail := &mailMock{}
	svc := newService(&userRepoMock{}, tokens, mail)

	res, err := svc.Register(context.Background(), &user.RegisterRequest{
		Username: "alice",
		Email:    "a@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, result.Failed, res.Status)
	assert.Equal(t, "Failed to send verification email", res.Message)
	assert.NotNil(t, res.User)
	assert.Empty(t, mail.sent, "no mail without a stored token")
}

func TestVerifyEmailHappyPath(t *testing.T) {
	record := user.EmailToken{ID: uuid.New(), UserID: uuid.New(), Token: "tok-123"}
	tokens := &tokenRepoMock{
		getFn: func(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error) {
			assert.Equal(t, []string{"tok-123"}, filter.Tokens)
			return &user.TokenResult{Status: result.Success, Tokens: []user.EmailToken{record}}, nil
		},
	}
	var updatedWith user.UpdateParams
	users := &userRepoMock{
		updateFn: func(ctx context.Context, id uuid.UUID, params user.UpdateParams) (*user.Result, error) {
			assert.Equal(t, record.UserID, id)
			updatedWith = params
			return &user.Result{Status: result.Success, Users: []user.User{{ID: id, EmailValidated: true}}}, nil
		},
	}
	svc := newService(users, tokens, &mailMock{})

	res, err := svc.VerifyEmail(context.Background(), "tok-123")
	require.NoError(t, err)

	assert.Equal(t, result.Success, res.Status)
	require.NotNil(t, updatedWith.EmailValidated)
	assert.True(t, *updatedWith.EmailValidated)
	assert.Nil(t, updatedWith.Username, "only emailValidated is touched")

	require.Len(t, tokens.deleted, 1, "only the consumed token is deleted")
	assert.Equal(t, []uuid.UUID{record.ID}, tokens.deleted[0].IDs)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	svc := newService(&userRepoMock{}, &tokenRepoMock{}, &mailMock{})

	res, err := svc.VerifyEmail(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, result.Invalid, res.Status)

	res, err = svc.VerifyEmail(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, result.Invalid, res.Status)
}

func TestVerifyEmailUpdateFailureKeepsToken(t *testing.T) {
	record := user.EmailToken{ID: uuid.New(), UserID: uuid.New(), Token: "tok-123"}
	tokens := &tokenRepoMock{
		getFn: func(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error) {
			return &user.TokenResult{Status: result.Success, Tokens: []user.EmailToken{record}}, nil
		},
	}
	users := &userRepoMock{
		updateFn: func(ctx context.Context, id uuid.UUID, params user.UpdateParams) (*user.Result, error) {
			// the owning user row is gone
			return &user.Result{Status: result.Invalid}, nil
		},
	}
	svc := newService(users, tokens, &mailMock{})

	res, err := svc.VerifyEmail(context.Background(), "tok-123")
	require.NoError(t, err)

	assert.Equal(t, result.Invalid, res.Status)
	assert.Empty(t, tokens.deleted, "token kept so the caller can retry")
}

func TestVerifyEmailDeleteFailureStillSucceeds(t *testing.T) {
	record := user.EmailToken{ID: uuid.New(), UserID: uuid.New(), Token: "tok-123"}
	tokens := &tokenRepoMock{
		getFn: func(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error) {
			return &user.TokenResult{Status: result.Success, Tokens: []user.EmailToken{record}}, nil
		},
		deleteFn: func(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error) {
			return nil, errors.New("connection lost")
		},
	}
	svc := newService(&userRepoMock{}, tokens, &mailMock{})

	res, err := svc.VerifyEmail(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, result.Success, res.Status, "a stale token is left for the sweep")
}

func TestVerifyEmailIdempotentForValidatedUser(t *testing.T) {
	record := user.EmailToken{ID: uuid.New(), UserID: uuid.New(), Token: "tok-123"}
	tokens := &tokenRepoMock{
		getFn: func(ctx context.Context, filter user.TokenFilter) (*user.TokenResult, error) {
			return &user.TokenResult{Status: result.Success, Tokens: []user.EmailToken{record}}, nil
		},
	}
	users := &userRepoMock{
		updateFn: func(ctx context.Context, id uuid.UUID, params user.UpdateParams) (*user.Result, error) {
			// already validated; the update is a no-op at the data level
			return &user.Result{Status: result.Success, Users: []user.User{{ID: id, EmailValidated: true}}}, nil
		},
	}
	svc := newService(users, tokens, &mailMock{})

	res, err := svc.VerifyEmail(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, result.Success, res.Status)
}

func TestResendVerification(t *testing.T) {
	target := user.User{ID: uuid.New(), Username: "alice", Email: "a@example.com"}
	users := &userRepoMock{
		getFn: func(ctx context.Context, filter user.Filter) (*user.Result, error) {
			assert.Equal(t, []uuid.UUID{target.ID}, filter.IDs)
			return &user.Result{Status: result.Success, Users: []user.User{target}}, nil
		},
	}
	tokens := &tokenRepoMock{}
	mail := &mailMock{}
	svc := newService(users, tokens, mail)

	res, err := svc.ResendVerification(context.Background(), target.ID)
	require.NoError(t, err)

	assert.Equal(t, result.Created, res.Status)
	require.Len(t, tokens.created, 1)
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].Text, fmt.Sprintf("/verify/%s", tokens.created[0].Token))
}

func TestResendVerificationUnknownUser(t *testing.T) {
	svc := newService(&userRepoMock{}, &tokenRepoMock{}, &mailMock{})

	res, err := svc.ResendVerification(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, result.Invalid, res.Status)

	res, err = svc.ResendVerification(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, result.Invalid, res.Status)
}

func TestVerificationMailBody(t *testing.T) {
	mail := &mailMock{}
	svc := newService(&userRepoMock{}, &tokenRepoMock{}, mail)

	_, err := svc.Register(context.Background(), &user.RegisterRequest{
		Username: "alice",
		Email:    "a@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	require.Len(t, mail.sent, 1)
	msg := mail.sent[0]
	assert.Equal(t, "Sample email verification", msg.Subject)
	assert.True(t, strings.HasPrefix(msg.Text, "Dearest alice,"))
	assert.Contains(t, msg.Text, "https://sample.com/verify/")
}
