package service

import (
	"context"
	"errors"

	"github.com/vmorozov/customer-hub/internal/common/clock"
	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
	commoncrypto "github.com/vmorozov/customer-hub/internal/common/crypto"
	"github.com/vmorozov/customer-hub/internal/common/logger"
	"github.com/vmorozov/customer-hub/internal/observability/metrics"
	userdomain "github.com/vmorozov/customer-hub/internal/user/domain"
	userrepo "github.com/vmorozov/customer-hub/internal/user/repository"
)

type AuthService struct {
	repo   userrepo.Repository
	hasher commoncrypto.PasswordHasher
	idGen  commoncrypto.IDGenerator
	issuer *TokenIssuer
	clock  clock.Clock
	log    *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGen commoncrypto.IDGenerator,
	issuer *TokenIssuer,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		idGen:  idGen,
		issuer: issuer,
		clock:  clk,
		log:    log,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  userdomain.Summary
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	email := NormalizeEmail(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "register_attempt",
	}).Info("register attempt")

	if fields := validateRegistration(input.Email, input.Password); len(fields) > 0 {
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "register_validation_failed",
		}).Warn("register validation failed")
		return AuthResult{}, ErrValidation.WithFields(fields)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return AuthResult{}, commonerrors.InternalError("Server error during registration", err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return AuthResult{}, commonerrors.InternalError("Server error during registration", err)
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
		UpdatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "register_email_exists",
			}).Warn("register failed: email already exists")
			return AuthResult{}, ErrEmailTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, commonerrors.InternalError("Server error during registration", err)
	}

	token, err := s.issuer.Issue(string(user.ID))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   email,
			"user_id": string(user.ID),
			"action":  "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.InternalError("Server error during registration", err)
	}

	metrics.RegistrationsTotal.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"email":   email,
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")

	return AuthResult{User: user.Summary(), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := NormalizeEmail(input.Email)

	s.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "login_attempt",
	}).Info("login attempt")

	if fields := validateLogin(input.Email, input.Password); len(fields) > 0 {
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_validation_failed",
		}).Warn("login validation failed")
		return AuthResult{}, ErrValidation.WithFields(fields)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			// Same response as a wrong password so the endpoint does not
			// reveal which emails are registered.
			s.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			metrics.LoginFailures.Inc()
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, commonerrors.InternalError("Server error during login", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginFailures.Inc()
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(string(user.ID))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   email,
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.InternalError("Server error during login", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   email,
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return AuthResult{User: user.Summary(), Token: token}, nil
}
