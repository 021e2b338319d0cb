package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"taskmanager/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength        = 5
	// profile edits allow shorter names than registration
	minUpdatedUsernameLength = 3
	invalidLogin             = "Invalid email or password"
)

type UserService struct {
	store  UserStore
	tokens *TokenService
	cost   int
	now    func() time.Time
}

func NewUserService(store UserStore, tokens *TokenService, cost int) *UserService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{store: store, tokens: tokens, cost: cost, now: time.Now}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
}

// AuthResult is what registration and login hand back to the client.
type AuthResult struct {
	Token string
	User  *model.User
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)
	if len(username) < minUsernameLength {
		return nil, ValidationError("Validation error", map[string]any{
			"username": "Username is too short",
		})
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ConflictError("Email already registered")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil, ConflictError("Username already taken")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &model.User{
		UserID:    uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ConflictError("Username or email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, AuthError(invalidLogin)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, AuthError(invalidLogin)
	}

	return s.issue(user)
}

func (s *UserService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// GetByID resolves the user a token points at.
func (s *UserService) GetByID(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError("User not found", map[string]any{
				"message": "The account for this token no longer exists",
			})
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, user *model.User, in UpdateUserInput) (*model.User, error) {
	updated := *user
	changed := false

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if utf8.RuneCountInString(username) < minUpdatedUsernameLength {
			return nil, ValidationError("Invalid Format", map[string]any{
				"username": fmt.Sprintf("username must be at least %d characters long", minUpdatedUsernameLength),
			})
		}
		existing, err := s.store.GetUserByUsername(ctx, username)
		switch {
		case err == nil && existing.UserID != user.UserID:
			return nil, ConflictError("Username already taken")
		case err != nil && !errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("check existing username: %w", err)
		}
		updated.Username = username
		changed = true
	}

	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email := NormalizeEmail(*in.Email)
		existing, err := s.store.GetUserByEmail(ctx, email)
		switch {
		case err == nil && existing.UserID != user.UserID:
			return nil, ConflictError("Email already registered")
		case err != nil && !errors.Is(err, ErrNotFound):
			return nil, fmt.Errorf("check existing email: %w", err)
		}
		updated.Email = email
		changed = true
	}

	if in.Password != nil && *in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updated.Password = string(hashed)
		changed = true
	}

	if !changed {
		return nil, ValidationError("No fields to update", map[string]any{})
	}

	updated.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateUser(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, NotFoundError("User not found", nil)
		case errors.Is(err, ErrConflict):
			return nil, ConflictError("Username or email already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &updated, nil
}

// Delete removes the account and everything it owns.
func (s *UserService) Delete(ctx context.Context, user *model.User) error {
	if err := s.store.DeleteUserCascade(ctx, user.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFoundError("User not found", nil)
		}
		return fmt.Errorf("delete user %s: %w", user.UserID, err)
	}
	return nil
}
