package services

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/pkg/auth"
	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/metrics"
)

// MinPasswordLength is the shortest accepted new password, in characters.
const MinPasswordLength = 6

// adminSubject is the token subject of the singleton admin user.
const adminSubject = "admin"

type AuthService struct {
	repo         *repositories.StoreRepository
	signer       *auth.Signer
	failureDelay time.Duration
}

// NewAuthService returns an AuthService that waits failureDelay before
// answering a wrong password.
func NewAuthService(repo *repositories.StoreRepository, signer *auth.Signer, failureDelay time.Duration) *AuthService {
	return &AuthService{repo: repo, signer: signer, failureDelay: failureDelay}
}

// Login checks password against the stored hash and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, password string) (string, models.PublicUser, error) {
	if password == "" {
		return "", models.PublicUser{}, fail(ErrValidation, "Password is required")
	}

	user, err := s.repo.User(ctx)
	if err != nil {
		return "", models.PublicUser{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		logger.WithCtx(ctx).Warn("failed admin login")
		s.wait(ctx)
		return "", models.PublicUser{}, fail(ErrUnauthorized, "Invalid password")
	}

	token, err := s.signer.GenerateToken(adminSubject)
	if err != nil {
		return "", models.PublicUser{}, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return token, user.Public(), nil
}

// ChangePassword re-verifies current and stores a hash of next.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return fail(ErrValidation, "All password fields are required")
	}

	err := s.repo.SaveUser(ctx, func(u *models.User) error {
		if !auth.CheckPassword(u.Password, current) {
			return fail(ErrUnauthorized, "Current password is incorrect")
		}
		if utf8.RuneCountInString(next) < MinPasswordLength {
			return fail(ErrValidation, "New password must be at least 6 characters")
		}

		hash, err := auth.HashPassword(next)
		if err != nil {
			return err
		}
		u.Password = hash
		u.LastPasswordChange = time.Now().UTC()
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("admin password changed")
	return nil
}

func (s *AuthService) wait(ctx context.Context) {
	if s.failureDelay <= 0 {
		return
	}
	t := time.NewTimer(s.failureDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
