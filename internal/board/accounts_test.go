package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/errcode"
)

func registerRequest(email, role string) RegisterRequest {
	return RegisterRequest{
		Name:                 "Ada",
		Email:                email,
		Password:             "secret-pass",
		PasswordConfirmation: "secret-pass",
		Role:                 role,
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var e *errcode.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errcode.KindValidation, e.Kind)
	fields := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	user, err := svc.Accounts.Register(ctx, registerRequest(" Ada@Example.com ", database.RoleCandidate))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, database.RoleCandidate, user.Role)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)

	got, err := svc.Accounts.Authenticate(ctx, LoginRequest{Email: "ADA@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, wrongPass := svc.Accounts.Authenticate(ctx, LoginRequest{Email: "ada@example.com", Password: "nope-nope"})
	_, unknown := svc.Accounts.Authenticate(ctx, LoginRequest{Email: "bob@example.com", Password: "secret-pass"})
	assert.True(t, errcode.Is(wrongPass, errcode.KindUnauthenticated))
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Accounts.Register(ctx, registerRequest("admin@example.com", database.RoleAdmin))
	assert.Equal(t, []string{"role"}, fieldsOf(t, err), "admins cannot self-register")

	req := registerRequest("bad", database.RoleEmployer)
	req.PasswordConfirmation = "different"
	req.Phone = ptr("0123456789012345678901")
	_, err = svc.Accounts.Register(ctx, req)
	assert.Equal(t, []string{"email", "password", "phone"}, fieldsOf(t, err))

	_, err = svc.Accounts.Register(ctx, registerRequest("taken@example.com", database.RoleEmployer))
	require.NoError(t, err)
	_, err = svc.Accounts.Register(ctx, registerRequest("TAKEN@example.com", database.RoleCandidate))
	assert.Equal(t, []string{"email"}, fieldsOf(t, err))
}

func TestChangePasswordClearsForcedChange(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user, err := svc.Accounts.Register(ctx, registerRequest("admin@example.com", database.RoleEmployer))
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("must_change_password", true).Error)
	actor := auth.Actor{UserID: user.ID, Role: auth.RoleEmployer, MustChangePassword: true}

	err = svc.Accounts.ChangePassword(ctx, actor, ChangePasswordRequest{
		CurrentPassword: "wrong-pass", NewPassword: "another-pass", NewPasswordConfirmation: "another-pass",
	})
	assert.Equal(t, []string{"current_password"}, fieldsOf(t, err))

	err = svc.Accounts.ChangePassword(ctx, actor, ChangePasswordRequest{
		CurrentPassword: "secret-pass", NewPassword: "another-pass", NewPasswordConfirmation: "another-pass",
	})
	require.NoError(t, err)

	reloaded, err := svc.Accounts.Profile(ctx, actor)
	require.NoError(t, err)
	assert.False(t, reloaded.MustChangePassword)
	_, err = svc.Accounts.Authenticate(ctx, LoginRequest{Email: "admin@example.com", Password: "another-pass"})
	assert.NoError(t, err)
}

func TestLookupDeletedUserIsUnauthenticated(t *testing.T) {
	svc, _ := newTestServices(t)
	_, err := svc.Accounts.Lookup(context.Background(), 999)
	assert.True(t, errcode.Is(err, errcode.KindUnauthenticated))
}
