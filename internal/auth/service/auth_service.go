package service

import (
	"context"
	"errors"

	"github.com/gnr-surgicals/inventory/internal/account/domain"
	accountrepo "github.com/gnr-surgicals/inventory/internal/account/repository"
	"github.com/gnr-surgicals/inventory/internal/common/clock"
	commoncrypto "github.com/gnr-surgicals/inventory/internal/common/crypto"
	commonerrors "github.com/gnr-surgicals/inventory/internal/common/errors"
	"github.com/gnr-surgicals/inventory/internal/common/logger"
	"github.com/gnr-surgicals/inventory/internal/common/resilience"
)

type Deps struct {
	Repo        accountrepo.Repository
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Tokens      TokenSigner
	Clock       clock.Clock
	Breaker     *resilience.CircuitBreaker
	Log         *logger.Logger
}

type AuthService struct {
	repo        accountrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	tokens      TokenSigner
	clock       clock.Clock
	breaker     *resilience.CircuitBreaker
	log         *logger.Logger
}

func NewAuthService(deps Deps) *AuthService {
	c := deps.Clock
	if c == nil {
		c = clock.NewRealClock()
	}
	return &AuthService{
		repo:        deps.Repo,
		hasher:      deps.Hasher,
		idGenerator: deps.IDGenerator,
		tokens:      deps.Tokens,
		clock:       c,
		breaker:     deps.Breaker,
		log:         deps.Log,
	}
}

type RegisterInput struct {
	Username string
	Password string
	Name     string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	User  domain.Public `json:"user"`
	Token string        `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	reg, err := normalizeRegistration(input)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return AuthResult{}, err
	}

	var exists bool
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		exists, err = s.repo.ExistsByUsername(ctx, reg.username)
		return err
	})
	if err != nil {
		return AuthResult{}, storeError(err)
	}
	if exists {
		s.log.WithFields(ctx, logger.Fields{
			"username": reg.username,
			"action":   "register_username_exists",
		}).Warn("register failed: already exists")
		return AuthResult{}, ErrUsernameTaken
	}

	account, err := s.newAccount(ctx, reg)
	if err != nil {
		return AuthResult{}, err
	}

	err = s.call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, account)
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			s.log.WithFields(ctx, logger.Fields{
				"username": reg.username,
				"action":   "register_username_race",
			}).Warn("register failed: username inserted concurrently")
			return AuthResult{}, ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": reg.username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, storeError(err)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	incrementAccountsRegistered()
	s.log.WithFields(ctx, logger.Fields{
		"username":   account.Username,
		"account_id": string(account.ID),
		"action":     "register_success",
	}).Info("register success")

	return AuthResult{User: account.Public(), Token: token}, nil
}

// Login returns ErrInvalidCredentials for both an unknown username and a
// wrong password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	username, password, err := normalizeLogin(input)
	if err != nil {
		incrementLoginAttempts("invalid_input")
		return AuthResult{}, err
	}

	var account domain.Account
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.repo.FindByUsername(ctx, username)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			incrementLoginAttempts("unknown_user")
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "login_unknown_user",
			}).Warn("login failed")
			return AuthResult{}, ErrInvalidCredentials
		}
		incrementLoginAttempts("error")
		return AuthResult{}, storeError(err)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		incrementLoginAttempts("wrong_password")
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_wrong_password",
		}).Warn("login failed")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		incrementLoginAttempts("error")
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	incrementLoginAttempts("success")
	s.log.WithFields(ctx, logger.Fields{
		"username":   account.Username,
		"account_id": string(account.ID),
		"action":     "login_success",
	}).Info("login success")

	return AuthResult{User: account.Public(), Token: token}, nil
}

// Provision replaces any account with the same username by a fresh one. It
// backs the create-user operator command and issues no token.
func (s *AuthService) Provision(ctx context.Context, input RegisterInput) (domain.Public, bool, error) {
	reg, err := normalizeRegistration(input)
	if err != nil {
		return domain.Public{}, false, err
	}

	var replaced bool
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		replaced, err = s.repo.DeleteByUsername(ctx, reg.username)
		return err
	})
	if err != nil {
		return domain.Public{}, false, storeError(err)
	}

	account, err := s.newAccount(ctx, reg)
	if err != nil {
		return domain.Public{}, false, err
	}
	err = s.call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, account)
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return domain.Public{}, false, ErrUsernameTaken
		}
		return domain.Public{}, false, storeError(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": account.Username,
		"replaced": replaced,
		"action":   "account_provisioned",
	}).Info("account provisioned")

	return account.Public(), replaced, nil
}

func (s *AuthService) newAccount(ctx context.Context, reg registration) (domain.Account, error) {
	hash, err := s.hasher.Hash(reg.password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": reg.username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return domain.Account{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Account{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	return domain.Account{
		ID:           domain.ID(id),
		Username:     reg.username,
		Name:         reg.name,
		PasswordHash: hash,
		Role:         domain.DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// call runs fn through the breaker. Store sentinels become domain errors
// inside it so a missing account or a duplicate username is not a failure.
func (s *AuthService) call(ctx context.Context, fn func(context.Context) error) error {
	wrapped := func(ctx context.Context) error {
		return expected(fn(ctx))
	}
	if s.breaker == nil {
		return wrapped(ctx)
	}
	return s.breaker.Call(ctx, wrapped)
}
