package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/user"
	emailsvc "github.com/unimatric/admissions/services/email"
	inmemdb "github.com/unimatric/admissions/storage/database/inmem"
	"github.com/unimatric/admissions/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository, *emailsvc.ConsoleServiceMock) {
	t.Helper()
	conf := testutil.NewConfig()
	testutil.ParseEmailTemplates(conf)
	repo := inmemdb.NewUserRepository(inmemdb.Open())
	mailSvc := emailsvc.NewConsoleServiceMock(testutil.NewLogger(conf), conf)
	return user.NewService(repo, mailSvc, testutil.NewActivityLogger(), conf), repo, mailSvc
}

func newApplicant() user.NewUser {
	return user.NewUser{
		ID:              "12345678ab",
		Role:            user.RoleApplicant,
		FullName:        "John Doe",
		Email:           "john@example.com",
		Gender:          user.GenderMale,
		Password:        "Password123",
		PasswordConfirm: "Password123",
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	usr, err := svc.Register(ctx, newApplicant())
	require.NoError(t, err)
	assert.True(t, usr.IsActive)
	assert.Equal(t, user.RoleApplicant, usr.Role)
	assert.NoError(t, usr.CheckPassword("Password123"))
	assert.False(t, usr.CreatedAt.IsZero())

	_, err = svc.Register(ctx, newApplicant())
	require.True(t, core.IsValidationError(err))
	assert.Equal(t, map[string]string{"id": user.ErrUserExists.Error()}, errors.Cause(err).(*core.ValidationError).FieldMap())

	dup := newApplicant()
	dup.ID = "87654321cd"
	_, err = svc.Register(ctx, dup)
	require.True(t, core.IsValidationError(err))
	assert.Equal(t, map[string]string{"email": user.ErrEmailExists.Error()}, errors.Cause(err).(*core.ValidationError).FieldMap())
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setup(t)
	testutil.CreateUser(t, repo, "12345678ab", user.RoleApplicant, "John Doe", "john@example.com", user.GenderMale, "Password123", true)
	testutil.CreateUser(t, repo, "sp-0001", user.RoleAdmin, "Ada Admin", "ada@futa.edu.ng", user.GenderFemale, "AdminPass123", true)
	testutil.CreateUser(t, repo, "99999999zz", user.RoleApplicant, "Gone", "gone@example.com", user.GenderMale, "Password123", false)

	tests := []struct {
		name      string
		idOrEmail string
		role      string
		pwd       string
		wantID    string
		wantErr   error
	}{
		{name: "by id", idOrEmail: "12345678ab", role: user.RoleApplicant, pwd: "Password123", wantID: "12345678ab"},
		{name: "by id case-insensitive", idOrEmail: " 12345678AB ", role: user.RoleApplicant, pwd: "Password123", wantID: "12345678ab"},
		{name: "by email", idOrEmail: "ada@futa.edu.ng", role: user.RoleAdmin, pwd: "AdminPass123", wantID: "sp-0001"},
		{name: "any role", idOrEmail: "sp-0001", pwd: "AdminPass123", wantID: "sp-0001"},
		{name: "wrong role", idOrEmail: "12345678ab", role: user.RoleAdmin, pwd: "Password123", wantErr: user.ErrAuthenticationFailure},
		{name: "wrong password", idOrEmail: "12345678ab", role: user.RoleApplicant, pwd: "Password124", wantErr: user.ErrAuthenticationFailure},
		{name: "unknown", idOrEmail: "00000000aa", pwd: "Password123", wantErr: user.ErrAuthenticationFailure},
		{name: "inactive", idOrEmail: "99999999zz", pwd: "Password123", wantErr: user.ErrAccountDeactivated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.idOrEmail, tt.role, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, usr.ID)
			assert.False(t, usr.LastLogin.IsZero())
		})
	}
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	svc, repo, mailSvc := setup(t)
	testutil.CreateUser(t, repo, "12345678ab", user.RoleApplicant, "John Doe", "john@example.com", user.GenderMale, "Password123", true)

	// unknown emails are ignored
	require.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Len(t, mailSvc.SentMessages(), 0)

	require.NoError(t, svc.RequestPasswordReset(ctx, " JOHN@example.com"))
	msgs := mailSvc.SentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "john@example.com", msgs[0].To[0].Address)
	data := msgs[0].TemplateData.(map[string]interface{})
	uid, token := data["UID"].(string), data["Token"].(string)
	assert.True(t, strings.Contains(msgs[0].TextContent, token))

	_, err := svc.ResetPassword(ctx, user.ResetUserPassword{UID: uid, Token: "nope-nope", Password: "NewPass123"})
	assert.True(t, core.IsValidationError(err))
	_, err = svc.ResetPassword(ctx, user.ResetUserPassword{UID: "!!", Token: token, Password: "NewPass123"})
	assert.True(t, core.IsValidationError(err))

	usr, err := svc.ResetPassword(ctx, user.ResetUserPassword{UID: uid, Token: token, Password: "NewPass123"})
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword("NewPass123"))

	// a token is single use: the password hash changed
	_, err = svc.ResetPassword(ctx, user.ResetUserPassword{UID: uid, Token: token, Password: "OtherPass123"})
	assert.True(t, core.IsValidationError(err))

	_, err = svc.Authenticate(ctx, "12345678ab", user.RoleApplicant, "NewPass123")
	assert.NoError(t, err)
}

func TestService_SeedDevUsers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	require.NoError(t, svc.SeedDevUsers(ctx))
	require.NoError(t, svc.SeedDevUsers(ctx)) // idempotent

	for _, nu := range user.DevUsers() {
		usr, err := svc.Authenticate(ctx, nu.ID, nu.Role, nu.Password)
		require.NoError(t, err)
		assert.Equal(t, nu.FullName, usr.FullName)
	}
}
