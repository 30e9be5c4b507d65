package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"planner-server/auth"
	"planner-server/common"
	"planner-server/entities"
	"planner-server/repositories"
)

// dummyHash is verified against when the username is unknown so a failed
// login costs the same with or without a matching user.
var dummyHash = sync.OnceValue(func() string {
	h, _ := auth.HashPassword("planner-dummy-password")
	return h
})

type AuthUseCase struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthUseCase(users repositories.UserRepository, secret []byte, ttl time.Duration) *AuthUseCase {
	return &AuthUseCase{
		users:  users,
		secret: secret,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user with a hashed password.
func (uc *AuthUseCase) Register(ctx context.Context, username, email, password string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &entities.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("username %q: %w", username, common.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials and returns the matching user.
func (uc *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := uc.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.VerifyPassword(password, dummyHash())
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// IssueSession returns a signed session token for userID.
func (uc *AuthUseCase) IssueSession(userID string) (string, error) {
	return auth.GenerateToken(userID, uc.secret, uc.ttl, uc.now())
}

// SessionTTL is how long issued sessions stay valid.
func (uc *AuthUseCase) SessionTTL() time.Duration {
	return uc.ttl
}

// CurrentIdentity resolves a session token to the id of an existing user.
func (uc *AuthUseCase) CurrentIdentity(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrUnauthorized
	}
	userID, err := auth.UserIDFromToken(token, uc.secret)
	if err != nil {
		return "", err
	}
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}
	return userID, nil
}

// User returns the user with id.
func (uc *AuthUseCase) User(ctx context.Context, id string) (*entities.User, error) {
	return uc.users.GetByID(ctx, id)
}
