package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/beaver-systems/beaver/internal/logging"
	"github.com/beaver-systems/beaver/internal/models"
	"github.com/beaver-systems/beaver/internal/repository"
)

// AuthService owns account bootstrap, sign in/out and token lifecycle.
// Access tokens are short-lived JWTs; refresh tokens are opaque session
// rows that are rotated on every refresh.
type AuthService struct {
	store      Store
	tokens     *tokenGenerator
	sessionTTL time.Duration
	logger     *logging.Logger
}

func NewAuthService(store Store, jwtSecret string, accessTTL, sessionTTL time.Duration, logger *logging.Logger) *AuthService {
	return &AuthService{
		store:      store,
		tokens:     newTokenGenerator(jwtSecret, accessTTL),
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// CreateAdmin bootstraps the first admin account. It only works while no
// admin exists, so an open deployment cannot be hijacked after setup.
func (s *AuthService) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.User, error) {
	if req.Username == "" {
		return nil, invalidf("username is a required field.")
	}
	if req.Password == "" {
		return nil, invalidf("password is a required field.")
	}

	n, err := s.store.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, invalidf("an admin account already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, conflictf("username is already taken.")
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "admin account created", logging.UserID(user.ID))
	return user, nil
}

// SignIn verifies credentials and opens a session. The same message covers
// unknown users and wrong passwords.
func (s *AuthService) SignIn(ctx context.Context, req *models.SignInRequest) (*models.SignInResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, invalidf("username and password are required.")
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, unauthorizedf("invalid username or password.")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, unauthorizedf("invalid username or password.")
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refresh, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user signed in", logging.UserID(user.ID))
	return &models.SignInResponse{User: *user, AccessToken: access, RefreshToken: refresh}, nil
}

// SignOut revokes one refresh session. Unknown tokens are not an error;
// sign-out is idempotent.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	err := s.store.DeleteSession(ctx, refreshToken)
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return err
	}
	return nil
}

// Refresh exchanges a live refresh token for a new access token and a
// rotated refresh token. The old session is revoked first so a replayed
// token fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	if refreshToken == "" {
		return nil, unauthorizedf("invalid refresh token.")
	}

	session, err := s.store.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, unauthorizedf("invalid refresh token.")
		}
		return nil, err
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteSession(ctx, refreshToken); err != nil &&
		!errors.Is(err, repository.ErrSessionNotFound) {
		return nil, err
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	rotated, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.RefreshResponse{AccessToken: access, RefreshToken: rotated}, nil
}

// ValidateAccessToken satisfies the auth middleware's TokenValidator.
func (s *AuthService) ValidateAccessToken(token string) (int64, error) {
	userID, _, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return 0, unauthorizedf("invalid access token.")
	}
	return userID, nil
}

// PurgeExpiredSessions clears out dead sessions, for the maintenance loop.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx)
}

func (s *AuthService) openSession(ctx context.Context, userID int64) (string, error) {
	token, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return "", err
	}
	session := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}
