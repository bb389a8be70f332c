// Package services contains the business logic of the task-list server:
// account registration and login, request identity resolution, and
// ownership-scoped list/task operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/logging"
	"github.com/dmitrijs2005/tasklist/internal/server/auth"
	"github.com/dmitrijs2005/tasklist/internal/server/config"
	"github.com/dmitrijs2005/tasklist/internal/server/models"
	"github.com/dmitrijs2005/tasklist/internal/server/repositories/repomanager"
)

// Credentials is the credential material extracted from one request. Either
// scheme may be empty; Token takes precedence when both are set.
type Credentials struct {
	Token    string
	Email    string
	Password string
}

// LoginResult is what a successful login hands back to the transport.
type LoginResult struct {
	Token            string
	ExpiresInMinutes int
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		logger:                      l.With("module", "user_service"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
}

// Register creates a new account. Email is mandatory and must be unique;
// username is optional and must be unique when supplied. The password
// complexity policy is enforced here and nowhere else; every violated rule is
// reported, each wrapping common.ErrorValidation.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, error) {

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}

	if errs := auth.ValidatePassword(password); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorEmailExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	if username != "" {
		if _, err := repo.GetByUsername(ctx, username); err == nil {
			return nil, common.ErrorUsernameExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInternal
		}
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     sql.NullString{String: username, Valid: username != ""},
		PasswordHash: hash,
		IsActive:     true,
		IsVerified:   false,
	}

	// the unique indexes back-stop registrations racing past the pre-checks
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorEmailExists) || errors.Is(err, common.ErrorUsernameExists) {
			return nil, err
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Login authenticates by email and issues an access token. An unknown email
// and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	return s.finishLogin(ctx, user, err, password)
}

// LoginByUsername authenticates by username, the backward-compatible
// identifier mode.
func (s *UserService) LoginByUsername(ctx context.Context, username, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	return s.finishLogin(ctx, user, err, password)
}

func (s *UserService) finishLogin(ctx context.Context, user *models.User, lookupErr error, password string) (*LoginResult, error) {
	if lookupErr != nil {
		if errors.Is(lookupErr, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error looking up user", "error", lookupErr)
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "error generating token", "error", err)
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		Token:            token,
		ExpiresInMinutes: int(s.accessTokenValidityDuration.Minutes()),
	}, nil
}

// ResolveIdentity merges the two credential schemes into one authenticated
// user. The token scheme is tried first; a token that does not verify, names
// an unknown account, or names an inactive account does not authenticate and
// the resolver falls back to the basic scheme. If neither scheme
// authenticates, common.ErrorUnauthorized is returned.
func (s *UserService) ResolveIdentity(ctx context.Context, creds Credentials) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if creds.Token != "" {
		userID, err := auth.GetUserIDFromToken(creds.Token, s.jwtSecret)
		if err == nil {
			user, err := repo.GetByID(ctx, userID)
			if err == nil && user.IsActive {
				return user, nil
			}
			// deleted or deactivated account invalidates an otherwise
			// valid token without revocation bookkeeping
			if err != nil && !errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorInternal
			}
			s.logger.Debug(ctx, "token names unusable account", "user_id", userID)
		} else {
			s.logger.Debug(ctx, "token did not verify", "reason", err)
		}
	}

	if creds.Email != "" {
		user, err := repo.GetByEmail(ctx, creds.Email)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorInternal
			}
		} else if auth.CheckPassword(creds.Password, user.PasswordHash) {
			return user, nil
		}
	}

	return nil, common.ErrorUnauthorized
}

// ResolveActiveIdentity is the active-account gate over ResolveIdentity: a
// resolved-but-inactive account is rejected with common.ErrorInactiveUser,
// distinct from the unauthenticated outcome.
func (s *UserService) ResolveActiveIdentity(ctx context.Context, creds Credentials) (*models.User, error) {
	user, err := s.ResolveIdentity(ctx, creds)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrorInactiveUser
	}
	return user, nil
}
