package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/writeflow/authsvc/internal/domain/user"
	"github.com/writeflow/authsvc/internal/security"
	"github.com/writeflow/authsvc/internal/token"
)

// IdentityStore is the durable collaborator holding user records. Uniqueness
// on email is enforced by the store itself, not just by the service's
// pre-check, so concurrent signups race safely.
type IdentityStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Insert(ctx context.Context, u user.User) (user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
}

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Service orchestrates signup, login, token refresh and current-user
// resolution. Each call is an independent request/response transition; the
// only shared mutable state is the store.
type Service struct {
	store  IdentityStore
	hasher *security.Hasher
	codec  *token.Codec

	// fallbackHash is compared against when login hits an unknown email,
	// so both failure paths burn one bcrypt verification.
	fallbackHash string
}

func NewService(store IdentityStore, hasher *security.Hasher, codec *token.Codec) (*Service, error) {
	fallback, err := hasher.Hash(uuid.NewString())

	if err != nil {
		return nil, fmt.Errorf("prepare fallback hash: %w", err)
	}

	return &Service{
		store:        store,
		hasher:       hasher,
		codec:        codec,
		fallbackHash: fallback,
	}, nil
}

// SignUp registers a new user. An empty role defaults to Author. The
// returned record never carries the password hash.
func (s *Service) SignUp(ctx context.Context, email, password string, role user.Role) (user.User, error) {
	if role == "" {
		role = user.DefaultRole
	}

	if !role.Valid() {
		return user.User{}, user.ErrUnknownRole
	}

	// Pre-check for a friendly error; the insert below is the
	// authoritative uniqueness gate.
	_, err := s.store.GetByEmail(ctx, email)

	if err == nil {
		return user.User{}, ErrEmailTaken
	}

	if !errors.Is(err, ErrUserNotFound) {
		return user.User{}, fmt.Errorf("identity lookup: %w", err)
	}

	hash, err := s.hasher.Hash(password)

	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.store.Insert(ctx, user.User{
		Email:          email,
		HashedPassword: hash,
		IsActive:       true,
		Role:           role,
	})

	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return user.User{}, ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	created.HashedPassword = ""

	return created, nil
}

// Login verifies the password and issues a fresh token pair. Unknown email,
// wrong password and deactivated account all fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.store.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a comparison anyway to keep timing close to the
			// wrong-password path.
			s.hasher.Check(password, s.fallbackHash)
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("identity lookup: %w", err)
	}

	if !s.hasher.Check(password, u.HashedPassword) {
		return TokenPair{}, ErrInvalidCredentials
	}

	if !u.IsActive {
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.issuePair(u.Email, u.Role.String())
}

// Refresh decodes a refresh token and mints a new pair from its claims.
// The store is deliberately not consulted here: role and active status are
// trusted as of issuance and re-checked whenever the access token is used.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken, token.KindRefresh)

	if err != nil {
		return TokenPair{}, token.ErrInvalidToken
	}

	return s.issuePair(claims.Subject, claims.Role)
}

// CurrentUser resolves an access token to a live user record. This is the
// one path that re-validates against current store state, and it runs on
// every protected request.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (user.User, error) {
	claims, err := s.codec.Decode(accessToken, token.KindAccess)

	if err != nil {
		return user.User{}, token.ErrInvalidToken
	}

	u, err := s.store.GetByEmail(ctx, claims.Subject)

	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return user.User{}, ErrUnauthorized
		}
		return user.User{}, fmt.Errorf("identity lookup: %w", err)
	}

	if !u.IsActive {
		return user.User{}, ErrUnauthorized
	}

	u.HashedPassword = ""

	return u, nil
}

// SetUserRole changes a user's role. Admin-only at the transport layer.
func (s *Service) SetUserRole(ctx context.Context, email string, role user.Role) (user.User, error) {
	if !role.Valid() {
		return user.User{}, user.ErrUnknownRole
	}

	u, err := s.store.GetByEmail(ctx, email)

	if err != nil {
		return user.User{}, err
	}

	u.Role = role

	updated, err := s.store.Update(ctx, u)

	if err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	updated.HashedPassword = ""

	return updated, nil
}

// SetUserActive activates or deactivates a user. Once deactivated, login and
// access-token resolution both fail until reactivated.
func (s *Service) SetUserActive(ctx context.Context, email string, active bool) (user.User, error) {
	u, err := s.store.GetByEmail(ctx, email)

	if err != nil {
		return user.User{}, err
	}

	u.IsActive = active

	updated, err := s.store.Update(ctx, u)

	if err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	updated.HashedPassword = ""

	return updated, nil
}

func (s *Service) issuePair(sub, role string) (TokenPair, error) {
	access, err := s.codec.Issue(sub, role, token.KindAccess)

	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.codec.Issue(sub, role, token.KindRefresh)

	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
