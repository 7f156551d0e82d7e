package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmpolStack/AccessControlPlatform/internal/config"
	"github.com/AmpolStack/AccessControlPlatform/internal/dto"
	"github.com/AmpolStack/AccessControlPlatform/internal/hashing"
	"github.com/AmpolStack/AccessControlPlatform/internal/model"
)

func newAuthFixture(t *testing.T) (AuthService, *memUserRepo, *memEstablishmentRepo) {
	t.Helper()
	users := newMemUserRepo()
	estabs := newMemEstablishmentRepo()
	hasher := hashing.New(4)

	estabs.add(&model.Establishment{Name: "Main Hall", MaxCapacity: intPtr(100), Active: true})

	hash, err := hasher.Hash("hunter2hunter2")
	require.NoError(t, err)
	users.add(&model.User{
		Email:            "ana@example.com",
		PasswordHash:     hash,
		FullName:         "Ana Torres",
		IdentityDocument: "11111111",
		Role:             model.RoleManager,
		EstablishmentID:  1,
		Active:           true,
	})

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
		BcryptCost:         4,
	}
	return NewAuthService(users, estabs, hasher, cfg), users, estabs
}

func TestLoginSuccess(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "Ana Torres", resp.User.FullName)
	assert.Equal(t, "Main Hall", resp.User.EstablishmentName)
	assert.Equal(t, 100, *resp.User.MaxCapacity)
	assert.NotNil(t, users.users[1].LastLoginAt)
}

func TestLoginCaseInsensitiveEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ANA@Example.COM",
		Password: "hunter2hunter2",
	})
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "nope",
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestLoginUnknownOrInactiveUser(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())

	users.users[1].Active = false
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter2hunter2"})
	require.Error(t, err)
	// Same message whether the account is missing or deactivated.
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestLoginCorruptStoredHash(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	users.users[1].PasswordHash = "garbage"

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "hunter2hunter2",
	})
	require.Error(t, err)
	// The corrupt hash must not leak; the caller sees a normal rejection.
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not.a.token")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	users.users[1].Active = false
	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestChangePassword(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	ctx := context.Background()
	users.users[1].MustChangePassword = true

	err := svc.ChangePassword(ctx, 1, dto.ChangePasswordRequest{
		CurrentPassword: "hunter2hunter2",
		NewPassword:     "betterpassword",
	})
	require.NoError(t, err)
	assert.False(t, users.users[1].MustChangePassword)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "betterpassword"})
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), 1, dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "betterpassword",
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateUser(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:            "beto@example.com",
		Password:         "hunter2hunter2",
		FullName:         "Beto Silva",
		IdentityDocument: "22222222",
		Role:             model.RoleEmployee,
		EstablishmentID:  1,
	})
	require.NoError(t, err)
	assert.True(t, resp.MustChangePassword)
	assert.True(t, resp.Active)

	stored := users.users[resp.ID]
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:            "ana@example.com",
		Password:         "hunter2hunter2",
		FullName:         "Other Ana",
		IdentityDocument: "99999999",
		Role:             model.RoleEmployee,
		EstablishmentID:  1,
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateUserDuplicateDocument(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:            "new@example.com",
		Password:         "hunter2hunter2",
		FullName:         "New User",
		IdentityDocument: "11111111",
		Role:             model.RoleEmployee,
		EstablishmentID:  1,
	})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCreateUserUnknownEstablishment(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:            "new@example.com",
		Password:         "hunter2hunter2",
		FullName:         "New User",
		IdentityDocument: "33333333",
		Role:             model.RoleEmployee,
		EstablishmentID:  42,
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateUserFieldLevel(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	resp, err := svc.UpdateUser(context.Background(), 1, dto.UpdateUserRequest{
		FullName: "Ana T. Vargas",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana T. Vargas", resp.FullName)
	assert.Equal(t, model.RoleAdmin, resp.Role)
	// untouched fields survive
	assert.Equal(t, "ana@example.com", resp.Email)
	assert.Equal(t, "11111111", users.users[1].IdentityDocument)
}

func TestUpdateUserPasswordForcesRotation(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	_, err := svc.UpdateUser(context.Background(), 1, dto.UpdateUserRequest{
		Password: "adminreset123",
	})
	require.NoError(t, err)
	assert.True(t, users.users[1].MustChangePassword)
}

func TestListUsersFiltersInactive(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	users.add(&model.User{
		Email: "gone@example.com", FullName: "Gone", IdentityDocument: "44444444",
		Role: model.RoleEmployee, EstablishmentID: 1, Active: false,
	})
	ctx := context.Background()

	active, err := svc.ListUsers(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.ListUsers(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeactivateReactivateDeleteUser(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.DeactivateUser(ctx, 1))
	assert.False(t, users.users[1].Active)

	require.NoError(t, svc.ReactivateUser(ctx, 1))
	assert.True(t, users.users[1].Active)

	require.NoError(t, svc.DeleteUser(ctx, 1))
	_, exists := users.users[1]
	assert.False(t, exists)

	err := svc.DeleteUser(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
