package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
	"github.com/kalviumcommunity/Medical-Appointments/modules/store"
)

var (
	// ErrInvalidCredentials is returned for a bad password and for an unknown
	// email alike, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserExists is returned when the email is already taken.
	ErrUserExists = errors.New("user with this email already exists")
	// ErrNameRequired is returned when the name is missing.
	ErrNameRequired = errors.New("name is required")
	// ErrInvalidEmail is returned when the email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrPasswordRequired is returned when the password is empty.
	ErrPasswordRequired = errors.New("password is required")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrRoleConflict is returned when a caller-supplied role contradicts the
	// role derived from the email domain. The derived role is authoritative.
	ErrRoleConflict = errors.New("requested role does not match email domain")
)

// AuthService composes the password hasher, token manager and user store into
// the signup and login flows.
type AuthService struct {
	users  store.UserStore
	hasher *PasswordHasher
	jwt    *JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users store.UserStore, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Signup creates a new user account. The role is derived from the email
// domain; an explicit role is accepted only when it agrees with the derived
// one. The returned user never carries a usable password.
func (s *AuthService) Signup(ctx context.Context, name, email, password string, explicitRole user.Role) (*user.User, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	role := DeriveRole(email)
	if explicitRole != "" && explicitRole != role {
		return nil, ErrRoleConflict
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		// Two concurrent signups can both pass the existence check; the
		// store's unique constraint is the authority.
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Login authenticates a user and returns a signed identity token plus the
// safe user record.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	if email == "" {
		return "", nil, ErrInvalidEmail
	}
	if password == "" {
		return "", nil, ErrPasswordRequired
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.Issue(u.ID, u.Role)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

// ValidateToken verifies an identity token and returns the embedded claim.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*user.Claims, error) {
	claims, err := s.jwt.Verify(token)
	if err != nil {
		return nil, err
	}
	return &user.Claims{
		UserID: claims.UserID,
		Role:   claims.Role,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*user.User, error) {
	return s.users.FindByID(ctx, userID)
}
