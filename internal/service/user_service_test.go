package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devravindu/upsupply-vms/internal/apperror"
	"github.com/devravindu/upsupply-vms/internal/model"
)

func TestCreateUserAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.CreateUser(ctx, CreateUserRequest{
		Username: "jordan",
		Email:    "jordan@upsupply.example",
		Password: "s3cret-pass",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, user.Role)

	token, err := f.users.Login(ctx, LoginUserRequest{
		Email:    "jordan@upsupply.example",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)

	_, err = f.users.Login(ctx, LoginUserRequest{
		Email:    "jordan@upsupply.example",
		Password: "wrong-pass",
	})
	assert.Error(t, err)

	_, err = f.users.Login(ctx, LoginUserRequest{
		Email:    "nobody@upsupply.example",
		Password: "s3cret-pass",
	})
	assert.Error(t, err)
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, CreateUserRequest{
		Username: "x", Email: "x@example.com", Password: "password", Role: "superuser",
	})
	assert.True(t, apperror.IsValidation(err), "unknown role")

	_, err = f.users.CreateUser(ctx, CreateUserRequest{
		Username: "taken", Email: "taken@example.com", Password: "password", Role: model.RoleVendor,
	})
	require.NoError(t, err)

	_, err = f.users.CreateUser(ctx, CreateUserRequest{
		Username: "taken", Email: "other@example.com", Password: "password", Role: model.RoleVendor,
	})
	assert.True(t, apperror.IsValidation(err), "duplicate username")

	_, err = f.users.CreateUser(ctx, CreateUserRequest{
		Username: "other", Email: "taken@example.com", Password: "password", Role: model.RoleVendor,
	})
	assert.True(t, apperror.IsValidation(err), "duplicate email")
}
