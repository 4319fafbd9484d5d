package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/officehours_backend/config"
	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/officehours_backend/pkg/paseto"
	"github.com/Alijeyrad/officehours_backend/pkg/util/password"
)

const (
	minPasswordLen          = 8
	defaultMaxLoginAttempts = 5
	defaultLockout          = 15 * time.Minute
)

// redisKeySession returns the Redis key for a session.
func redisKeySession(sessionID string) string { return "session:" + sessionID }

// redisKeyLoginFailures returns the Redis key counting failed logins for an email.
func redisKeyLoginFailures(email string) string { return "login:failures:" + email }

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
}

type LoginRequest struct {
	Email    string
	Password string
}

type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds until access token expires
}

type LoginResult struct {
	AuthTokens
	User *repo.User
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*repo.User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	ValidateSession(ctx context.Context, sessionID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	db          *repo.Client
	rdb         *redis.Client
	paseto      *pasetotoken.Manager
	hasher      *password.Hasher
	authz       authorize.IAuthorization
	maxAttempts int64
	lockout     time.Duration
}

func New(
	db *repo.Client,
	rdb *redis.Client,
	paseto *pasetotoken.Manager,
	hasher *password.Hasher,
	authz authorize.IAuthorization,
	cfg *config.Config,
) Service {
	s := &authService{
		db:          db,
		rdb:         rdb,
		paseto:      paseto,
		hasher:      hasher,
		authz:       authz,
		maxAttempts: defaultMaxLoginAttempts,
		lockout:     defaultLockout,
	}
	if cfg != nil {
		if n := cfg.Authentication.Lockout.MaxAttempts; n > 0 {
			s.maxAttempts = int64(n)
		}
		if m := cfg.Authentication.Lockout.DurationMinutes; m > 0 {
			s.lockout = time.Duration(m) * time.Minute
		}
	}
	return s
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*repo.User, error) {
	req, err := normalizeRegister(req)
	if err != nil {
		return nil, err
	}

	passHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &repo.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passHash,
		Role:         repo.Role(req.Role),
		Department:   req.Department,
	}

	err = s.db.WithTx(ctx, func(q *repo.Queries) error {
		if err := q.CreateUser(ctx, u); err != nil {
			if repo.IsDuplicate(err) {
				return ErrEmailAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		if err := authorize.AssignUserRole(ctx, s.authz, u.ID.String(), string(u.Role)); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func normalizeRegister(req RegisterRequest) (RegisterRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Department = strings.TrimSpace(req.Department)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return req, err
	}
	req.Email = email

	if req.Name == "" {
		return req, ErrNameRequired
	}
	if !repo.Role(req.Role).Valid() {
		return req, ErrInvalidRole
	}
	if len(req.Password) < minPasswordLen {
		return req, ErrPasswordTooShort
	}
	return req, nil
}

// normalizeEmail accepts a bare address only, lowercased.
func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	failKey := redisKeyLoginFailures(email)
	failures, err := s.rdb.Get(ctx, failKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get login failures: %w", err)
	}
	if failures >= s.maxAttempts {
		return nil, ErrAccountLocked
	}

	u, err := s.db.UserByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			s.recordFailedLogin(ctx, failKey)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Verify(u.PasswordHash, req.Password); err != nil {
		s.recordFailedLogin(ctx, failKey)
		return nil, ErrInvalidCredentials
	}

	if err := s.rdb.Del(ctx, failKey).Err(); err != nil {
		slog.Warn("failed to reset login failures", "user_id", u.ID, "error", err)
	}
	if s.hasher.NeedsRehash(u.PasswordHash) {
		slog.Info("password hash uses outdated parameters", "user_id", u.ID)
	}

	tokens, err := s.createSession(ctx, u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AuthTokens: *tokens, User: u}, nil
}

// recordFailedLogin counts a failure; the window starts at the first failure.
func (s *authService) recordFailedLogin(ctx context.Context, key string) {
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("failed to record login failure", "error", err)
		return
	}
	if n == 1 || n == s.maxAttempts {
		s.rdb.Expire(ctx, key, s.lockout)
	}
}

// ---------------------------------------------------------------------------
// RefreshTokens
// ---------------------------------------------------------------------------

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.paseto.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != pasetotoken.TokenTypeRefresh || claims.SessionID == nil {
		return nil, ErrInvalidToken
	}

	sessionKey := redisKeySession(claims.SessionID.String())

	owner, err := s.rdb.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	if owner != claims.UserID.String() {
		return nil, ErrInvalidToken
	}

	s.rdb.Expire(ctx, sessionKey, s.paseto.RefreshTTL())

	// Refresh token stays the same until logout.
	access, err := s.paseto.IssueAccess(claims.Subject())
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
	}, nil
}

// ---------------------------------------------------------------------------
// Logout / sessions
// ---------------------------------------------------------------------------

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.rdb.Del(ctx, redisKeySession(sessionID.String())).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		slog.Debug("logout: session not found in Redis (already expired)", "session_id", sessionID)
	}
	return nil
}

func (s *authService) ValidateSession(ctx context.Context, sessionID uuid.UUID) error {
	n, err := s.rdb.Exists(ctx, redisKeySession(sessionID.String())).Result()
	if err != nil {
		return fmt.Errorf("redis check session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *authService) createSession(ctx context.Context, u *repo.User) (*AuthTokens, error) {
	sessionID := uuid.Must(uuid.NewV7())

	sessionKey := redisKeySession(sessionID.String())
	if err := s.rdb.Set(ctx, sessionKey, u.ID.String(), s.paseto.RefreshTTL()).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	sub := pasetotoken.Subject{UserID: u.ID, Role: string(u.Role), SessionID: &sessionID}
	access, err := s.paseto.IssueAccess(sub)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.paseto.IssueRefresh(sub)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
	}, nil
}
