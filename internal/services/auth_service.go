package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"healthhub/internal/common"
	"healthhub/internal/models"
	"healthhub/internal/repositories"
)

// AuthService validates opaque bearer credentials against the session store
// and issues new sessions at login. Expiry is evaluated on every call; a
// previously valid token fails the moment the clock passes expires_at.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Authenticate(ctx context.Context, authorizationHeader string) (uuid.UUID, error)
}

type authService struct {
	users      repositories.AdminUserRepository
	sessions   repositories.SessionRepository
	sessionTTL time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

func NewAuthService(users repositories.AdminUserRepository, sessions repositories.SessionRepository, sessionTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Login verifies the admin's password and creates a session with an opaque
// random token. Wrong email and wrong password are indistinguishable to the
// caller.
func (s *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.users.GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUnauthenticated
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrUnauthenticated
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("admin logged in")
	return session, nil
}

// Authenticate validates an Authorization header of the exact shape
// "Bearer <token>" and returns the owning user id. It performs no tenant
// checks and has no side effects; expiry is not refreshed or slid.
func (s *authService) Authenticate(ctx context.Context, authorizationHeader string) (uuid.UUID, error) {
	token, ok := parseBearer(authorizationHeader)
	if !ok {
		return uuid.Nil, common.ErrUnauthenticated
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, common.ErrUnauthenticated
		}
		return uuid.Nil, err
	}

	if session.Expired(s.now()) {
		return uuid.Nil, common.ErrUnauthenticated
	}

	return session.UserID, nil
}

func parseBearer(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
