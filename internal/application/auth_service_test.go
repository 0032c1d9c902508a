package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	"github.com/shoplite/shoplite-api/pkg/helpers"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(users, jwt, nil, testLogger(), nil, "Shoplite")
	return svc, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "s3cretpass", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "s3cretpass", u.Password, "password must be stored hashed")

	res, pair, err := svc.Login(ctx, "a@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, entity.RoleCustomer, res.Role)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "s3cretpass", Name: "Alice"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "otherpass1", Name: "Imposter"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "s3cretpass", Name: "Alice"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "a@example.com", "wrongwrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "s3cretpass", Name: "Alice"})
	require.NoError(t, err)

	users.mu.Lock()
	users.users[u.ID].IsActive = false
	users.mu.Unlock()

	_, err = svc.Authenticate(ctx, "a@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "s3cretpass", Name: "Alice"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID, "wrongwrong", "newpassword1")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "s3cretpass", "newpassword1"))

	_, err = svc.Authenticate(ctx, "a@example.com", "newpassword1")
	assert.NoError(t, err)
}

func TestUpdateProfileShipping(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "s3cretpass", Name: "Alice"})
	require.NoError(t, err)

	got, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{
		Name:        "Alice B",
		AddressLine: "1 Main St",
		City:        "Springfield",
		Country:     "US",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
	assert.Equal(t, "1 Main St", got.AddressLine)

	// empty name keeps the old one, address fields are overwritten
	got, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{AddressLine: "2 Oak Ave"})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
	assert.Equal(t, "2 Oak Ave", got.AddressLine)
	assert.Equal(t, "", got.City)
}
