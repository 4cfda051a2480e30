// Package account orchestrates registration, login, and account management on
// top of the user store and the security primitives in internal/sec.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/groovix/groovix/internal/sec"
	"github.com/groovix/groovix/internal/storage"
	"github.com/groovix/groovix/internal/storage/db"
)

var (
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is returned when the account's active flag is off. It
	// is checked before the password so a locked account rejects uniformly.
	ErrAccountLocked = errors.New("account is locked")
)

// Summary is the subset of user fields safe to return to clients. The
// password hash is deliberately unreachable from here.
type Summary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newSummary(user db.User) Summary {
	return Summary{
		ID:    strconv.FormatUint(user.ID, 10),
		Email: user.Email,
		Name:  user.Name,
	}
}

// Service implements the account operations. It holds no per-request state;
// every method is safe for concurrent use.
type Service struct {
	users  storage.Users
	secret []byte
	logger *slog.Logger
}

// NewService creates a Service backed by the given user store. The secret
// signs session tokens; it may be empty, in which case Login fails with
// [sec.ErrNoSigningSecret] until the deployment is fixed.
func NewService(users storage.Users, secret []byte, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		secret: secret,
		logger: logger,
	}
}

// Register creates a new account. The duplicate-email check runs before
// creation; the store's unique index closes the remaining race window. The
// plaintext password is hashed before it is handed to the store and is never
// logged or returned.
func (s *Service) Register(ctx context.Context, email, password, name string) (Summary, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return Summary{}, storage.ErrAlreadyExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return Summary{}, fmt.Errorf("failed to check for existing user: %w", err)
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, db.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		return Summary{}, err
	}

	s.logger.InfoContext(ctx, "user registered", slog.Uint64("id", user.ID))
	return newSummary(user), nil
}

// Login verifies the credentials and issues a session token. Failure modes in
// order: [storage.ErrNotFound] for an unknown email, [ErrAccountLocked] for a
// deactivated account (checked before the password comparison),
// [ErrInvalidCredentials] for a password mismatch, and
// [sec.ErrNoSigningSecret] when the server has no signing secret.
func (s *Service) Login(ctx context.Context, email, password string) (Summary, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return Summary{}, "", err
	}
	if !user.Active {
		return Summary{}, "", ErrAccountLocked
	}
	if err := sec.ComparePassword(password, user.PasswordHash); err != nil {
		return Summary{}, "", ErrInvalidCredentials
	}

	token, err := sec.IssueSession(user.ID, s.secret)
	if err != nil {
		return Summary{}, "", err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Uint64("id", user.ID))
	return newSummary(user), token, nil
}

// CurrentUser returns the summary for the given user ID, normally the
// identity attached by the session middleware.
func (s *Service) CurrentUser(ctx context.Context, userID uint64) (Summary, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return newSummary(user), nil
}

// ListUsers returns summaries for all users, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]Summary, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, len(users))
	for i, user := range users {
		summaries[i] = newSummary(user)
	}
	return summaries, nil
}

// Update applies a partial update to the target user. There is no ownership
// check: any authenticated caller may update any record. Kept for wire-contract
// compatibility with existing clients, but it is a known defect, not a feature.
func (s *Service) Update(ctx context.Context, params storage.UpdateUserParams) error {
	if err := s.users.UpdateUser(ctx, params); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user updated", slog.Uint64("id", params.ID))
	return nil
}
