package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/auth"
)

var signer = auth.NewSigner("test-secret")

func newAuth(t *testing.T, delay time.Duration) *services.AuthService {
	t.Helper()
	repo, _ := newRepo(t)
	return services.NewAuthService(repo, signer, delay)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc := newAuth(t, 0)

	token, user, err := svc.Login(context.Background(), testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user.Name)

	claims, err := signer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestLogin_EmptyPassword(t *testing.T) {
	svc := newAuth(t, 0)

	_, _, err := svc.Login(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.EqualError(t, err, "Password is required")
}

func TestLogin_WrongPasswordWaits(t *testing.T) {
	svc := newAuth(t, 50*time.Millisecond)

	start := time.Now()
	_, _, err := svc.Login(context.Background(), "wrong")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	assert.EqualError(t, err, "Invalid password")
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestLogin_DelayHonoursCancellation(t *testing.T) {
	svc := newAuth(t, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := svc.Login(ctx, "wrong")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t, 0)

	err := svc.ChangePassword(ctx, "", "newpass")
	assert.EqualError(t, err, "All password fields are required")

	err = svc.ChangePassword(ctx, "wrong", "newpass")
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	assert.EqualError(t, err, "Current password is incorrect")

	err = svc.ChangePassword(ctx, testPassword, "12345")
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.EqualError(t, err, "New password must be at least 6 characters")

	require.NoError(t, svc.ChangePassword(ctx, testPassword, "123456"))

	_, _, err = svc.Login(ctx, testPassword)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
	_, _, err = svc.Login(ctx, "123456")
	assert.NoError(t, err)
}
