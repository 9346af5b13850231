package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/app/models/dto"
	"github.com/mete/schoolhub/internal/pkg/apperrors"
	"github.com/mete/schoolhub/internal/pkg/auth"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	hash, err := auth.HashPassword("Student123!")
	require.NoError(t, err)

	users := newFakeUserStore(&models.User{
		ID:           studentID,
		FirstName:    "Can",
		LastName:     "Ozturk",
		Email:        "can@school.test",
		PasswordHash: hash,
		Role:         models.RoleStudent,
	})
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "schoolhub.test",
	})
	return NewAuthService(users, jwtService)
}

func TestLogin(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "can@school.test",
		Password: "Student123!",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int(time.Hour.Seconds()), resp.ExpiresIn)
	assert.Equal(t, studentID, resp.UserID)
	assert.Equal(t, "Can Ozturk", resp.Name)
	assert.Equal(t, "student", resp.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "can@school.test",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@school.test",
		Password: "Student123!",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials,
		"unknown email must be indistinguishable from a wrong password")
}
