// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, credential verification, issuing
// and rotating session tokens, and the password-reset lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dsmirnov/authd/internal/common"
	"github.com/dsmirnov/authd/internal/dbx"
	"github.com/dsmirnov/authd/internal/logging"
	"github.com/dsmirnov/authd/internal/server/auth"
	"github.com/dsmirnov/authd/internal/server/config"
	"github.com/dsmirnov/authd/internal/server/models"
	"github.com/dsmirnov/authd/internal/server/notify"
	"github.com/dsmirnov/authd/internal/server/repositories/repomanager"
)

// opaque token size in random bytes (hex doubles it), 256 bits of entropy
const tokenByteSize = 32

// dummyPasswordHash is verified when the user does not exist so that lookup
// failures and password mismatches take about the same time. It is a
// well-formed argon2id hash that matches no password.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// TokenPair bundles a short-lived signed access token and the long-lived
// opaque session token that backs it.
type TokenPair struct {
	AccessToken  string
	SessionToken string
}

// AuthService provides the credential and token operations:
//   - Register: create users with hashed passwords
//   - Login: verify credentials and mint a token pair
//   - Refresh: rotate a session token and mint a new pair
//   - Logout: revoke a session token
//   - ForgotPassword / ResetPassword: time-boxed single-use reset flow
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	hasher                       auth.PasswordHasher
	notifier                     notify.Notifier
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	sessionTokenValidityDuration time.Duration
	resetTokenValidityDuration   time.Duration
	resetLinkBaseURL             string
}

// NewAuthService constructs an AuthService from its collaborators and server
// config. All state, including the signing secret, is injected here; the
// service itself stays stateless between calls.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	notifier notify.Notifier, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		hasher:                       hasher,
		notifier:                     notifier,
		logger:                       logger.With("module", "auth_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		sessionTokenValidityDuration: cfg.SessionTokenValidityDuration,
		resetTokenValidityDuration:   cfg.ResetTokenValidityDuration,
		resetLinkBaseURL:             cfg.ResetLinkBaseURL,
	}
}

// Register hashes the password with a fresh salt and persists a new user.
// A username collision yields common.ErrUserAlreadyExists.
func (s *AuthService) Register(ctx context.Context, username, password, name string, email, phone *string) (*models.User, error) {

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrPasswordHash
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Name:         name,
		Email:        email,
		Phone:        phone,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and, on success, mints a fresh token pair.
// An unknown username, an unparsable stored hash, and a password mismatch are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the timing profile close to the found-user path
			_, _ = s.hasher.Verify(password, dummyPasswordHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored hash unparsable", "username", username, "error", err)
		return nil, common.ErrInvalidCredentials
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// Refresh validates a session token, rotates it transactionally, and returns
// a fresh TokenPair. Unknown and expired tokens both yield ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, sessionToken string) (*TokenPair, error) {

	repo := s.repomanager.Sessions(s.db)

	session, err := repo.Find(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching session: %w", err)
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, common.ErrInvalidToken
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Sessions(tx).Delete(ctx, sessionToken); err != nil {
			return fmt.Errorf("error deleting session: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, session.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout revokes the session token. Revoking an unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	if err := s.repomanager.Sessions(s.db).Delete(ctx, sessionToken); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// ForgotPassword mints a time-boxed reset token for the user and stores it
// durably before handing the reset link to the notifier. A missing user
// yields common.ErrUserNotFound. Notifier failures are logged, not returned:
// the token already exists and the caller learns nothing either way.
func (s *AuthService) ForgotPassword(ctx context.Context, username string) error {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("error searching user: %w", err)
	}

	token, err := common.MakeRandHexString(tokenByteSize)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.repomanager.ResetTokens(s.db).Create(ctx, user.ID, token, s.resetTokenValidityDuration); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s?token=%s", s.resetLinkBaseURL, token)
	if err := s.notifier.SendPasswordReset(ctx, user, resetLink); err != nil {
		s.logger.Warn(ctx, "reset notification failed", "username", username, "error", err)
	}

	return nil
}

// ResetPassword consumes the reset token and replaces the owning user's
// password hash in a single transaction. Consuming happens first, through a
// conditional delete, so a concurrent reset with the same token cannot
// succeed twice. A missing or expired token yields common.ErrInvalidToken.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return common.ErrPasswordHash
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userID, err := s.repomanager.ResetTokens(tx).Consume(ctx, token, time.Now())
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error consuming reset token: %w", err)
		}

		if err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, passwordHash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}

		return nil
	})
}

// PurgeExpiredResetTokens sweeps reset tokens whose expiry has passed.
// Expired tokens are already unusable; this only keeps the table small.
func (s *AuthService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	n, err := s.repomanager.ResetTokens(s.db).PurgeExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("error purging reset tokens: %w", err)
	}
	return n, nil
}

// --- helpers below ---

func (s *AuthService) generateAccessToken(userID int64) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *AuthService) generateSessionToken() (string, error) {
	return common.MakeRandHexString(tokenByteSize)
}

func (s *AuthService) generateTokenPair(ctx context.Context, userID int64, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	session, err := s.generateSessionToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.Sessions(tx).Create(ctx, userID, session, s.sessionTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, SessionToken: session}, nil
}
