package auth

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository/kv"
	"github.com/alshifa-clinic/booking-api/internal/store"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
)

func newService(t *testing.T) *Service {
	t.Helper()
	st := store.New(store.NewMemoryKV(), nil, zerolog.Nop(), nil)
	users := kv.NewUserRepository(st)
	return NewService(users, Config{Secret: "test-secret", ExpiryHours: 1})
}

func register(t *testing.T, svc *Service) *model.TokenResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Sara Hassan",
		Email:    "sara@example.com",
		Phone:    "0501234567",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterIssuesPatientToken(t *testing.T) {
	svc := newService(t)

	resp := register(t, svc)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, model.RolePatient, resp.User.Role)
	assert.NotEqual(t, "s3cret-password", resp.User.PasswordHash)

	actor, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, actor.ID)
	assert.Equal(t, "Sara Hassan", actor.Name)
	assert.Equal(t, model.RolePatient, actor.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Someone Else",
		Email:    "sara@example.com",
		Password: "another-password",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.CodeOf(err))
}

func TestLogin(t *testing.T) {
	svc := newService(t)
	register(t, svc)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &model.LoginRequest{Email: "sara@example.com", Password: "s3cret-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "sara@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "s3cret-password"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	svc := newService(t)
	resp := register(t, svc)

	other := NewService(nil, Config{Secret: "different-secret", ExpiryHours: 1})
	_, err := other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))

	_, err = svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}
