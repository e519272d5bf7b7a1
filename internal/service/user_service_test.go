package service_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
)

func newUserService(t *testing.T) service.UserService {
	t.Helper()
	db := newTestDB(t)
	txManager := repository.NewTransactionManager(db)
	auditService := service.NewAuditService(repository.NewAuditRepository(db))
	return service.NewUserService(repository.NewUserRepository(db), auditService, txManager)
}

// Login must sign with the same secret the auth middleware verifies with,
// including the release-mode guard, so the lookup lives in one place.
func TestLoginTokenVerifiesWithMiddlewareSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	users := newUserService(t)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, service.CreateUserRequest{
		Username: "jwt-check",
		Email:    "jwt-check@example.com",
		Password: "s3cret-pass",
		Role:     "staff",
	})
	require.NoError(t, err)

	tokens, _, err := users.Login(ctx, service.LoginUserRequest{
		Email:    "jwt-check@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	parsed, err := jwt.Parse(tokens.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return middleware.GetJWTSecret(), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, created.ID.String(), claims["sub"])
	assert.Equal(t, "staff", claims["role"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	users := newUserService(t)
	ctx := context.Background()

	_, err := users.CreateUser(ctx, service.CreateUserRequest{
		Username: "pw-check",
		Email:    "pw-check@example.com",
		Password: "right-pass",
		Role:     "staff",
	})
	require.NoError(t, err)

	_, _, err = users.Login(ctx, service.LoginUserRequest{
		Email:    "pw-check@example.com",
		Password: "wrong-pass",
	})
	require.Error(t, err)
}
