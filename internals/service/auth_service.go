package service

import (
	"context"
	"errors"
	"time"

	"university-library/internals/models"
	"university-library/internals/repository"
	logger "university-library/loggers"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

// SignUpInput is the payload for account creation.
type SignUpInput struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	UniversityID int64  `json:"university_id" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
}

// AuthService owns sign-up and credential verification. Sessions themselves
// (token pair, cookies) are issued by the middleware package.
type AuthService struct {
	users    repository.UserRepository
	cache    CredentialCache
	limiter  RateLimiter
	notifier Notifier
}

func NewAuthService(users repository.UserRepository, cache CredentialCache, limiter RateLimiter, notifier Notifier) *AuthService {
	return &AuthService{users: users, cache: cache, limiter: limiter, notifier: notifier}
}

// SignUp creates a PENDING account. Duplicate email or university id is a
// conflict. The onboarding notification is fired in the background and never
// gates the result.
func (s *AuthService) SignUp(ctx context.Context, clientIP string, input SignUpInput) (*models.User, error) {
	if err := s.checkRateLimit(ctx, clientIP); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmailOrUniversityID(ctx, input.Email, input.UniversityID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     input.FullName,
		Email:        input.Email,
		UniversityID: input.UniversityID,
		Password:     string(hash),
		Status:       models.StatusPending,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, user.Email, user.Password); err != nil {
		logger.Logger.Warn("failed to insert credentials in redis cache: ", err)
	}

	go s.notifyOnboarding(user)

	return user, nil
}

// SignIn verifies credentials against the redis cache first and falls back
// to the database on a miss. The resolved hash is written back to the cache.
func (s *AuthService) SignIn(ctx context.Context, clientIP, email, password string) (*models.User, error) {
	if err := s.checkRateLimit(ctx, clientIP); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := s.cache.Get(ctx, email)
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		logger.Logger.Warn("credential cache unavailable, falling back to database: ", err)
		err = ErrCacheMiss
	}
	if errors.Is(err, ErrCacheMiss) {
		user, dbErr := s.users.FindByEmail(ctx, email)
		if dbErr != nil {
			if errors.Is(dbErr, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, dbErr
		}
		hash = user.Password
		if cacheErr := s.cache.Set(ctx, email, hash); cacheErr != nil {
			logger.Logger.Warn("failed to refresh credential cache: ", cacheErr)
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) checkRateLimit(ctx context.Context, clientIP string) error {
	allowed, err := s.limiter.Allow(ctx, clientIP)
	if err != nil {
		// a broken limiter should not lock everyone out
		logger.Logger.Warn("rate limiter unavailable: ", err)
		return nil
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}

func (s *AuthService) notifyOnboarding(user *models.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err := s.notifier.Notify(ctx, Event{
		Type:     "user.signed_up",
		Email:    user.Email,
		FullName: user.FullName,
	})
	if err != nil {
		logger.Logger.Warn("onboarding notification failed: ", err)
	}
}
