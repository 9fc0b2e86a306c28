package service

import (
	"context"
	"testing"

	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/web/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	db := setup(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerForm("ada@example.com"), model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.Password)

	// same email as admin is still a conflict
	_, err = svc.Register(ctx, registerForm("ada@example.com"), model.RoleAdmin)
	assert.True(t, common.Is(err, common.KindConflict))

	admin, err := svc.Register(ctx, registerForm("root@example.com"), model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(setup(t), testSecret)
	form := registerForm("not-an-email")
	form.Password = "12345"

	_, err := svc.Register(context.Background(), form, model.RoleUser)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "password")
}

func TestLogin(t *testing.T) {
	db := setup(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()
	u := mustRegister(t, db, "ada@example.com", model.RoleAdmin)

	token, logged, err := svc.Login(ctx, &entity.LoginForm{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.Id, logged.Id)

	who, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.Id, who.UserId)
	assert.Equal(t, model.RoleAdmin, who.Role)

	_, _, err = svc.Login(ctx, &entity.LoginForm{Email: "ada@example.com", Password: "wrong-1"})
	assert.True(t, common.Is(err, common.KindAuthentication))

	_, _, err = svc.Login(ctx, &entity.LoginForm{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, common.Is(err, common.KindNotFound))
}

func TestTokenHasNoExpiry(t *testing.T) {
	db := setup(t)
	svc := NewAuthService(db, testSecret)
	u := mustRegister(t, db, "ada@example.com", model.RoleUser)

	token, err := svc.IssueToken(u)
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.Equal(t, model.RoleUser, claims.Role)
}

func TestVerifyTokenRejects(t *testing.T) {
	db := setup(t)
	svc := NewAuthService(db, testSecret)
	u := mustRegister(t, db, "ada@example.com", model.RoleUser)

	other, err := NewAuthService(db, "another-secret").IssueToken(u)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: model.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "root", RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing":   "",
		"malformed": "not.a.jwt",
		"wrong key": other,
		"alg none":  unsigned,
		"bad role":  badRole,
	} {
		_, err := svc.VerifyToken(token)
		assert.True(t, common.Is(err, common.KindAuthentication), name)
	}
}

func TestProfile(t *testing.T) {
	db := setup(t)
	svc := NewAuthService(db, testSecret)
	u := mustRegister(t, db, "ada@example.com", model.RoleUser)

	got, err := svc.Profile(context.Background(), &Identity{UserId: u.Id, Role: model.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)

	_, err = svc.Profile(context.Background(), &Identity{UserId: u.Id, Role: model.RoleAdmin})
	assert.True(t, common.Is(err, common.KindNotFound))
}

func TestChangePassword(t *testing.T) {
	db := setup(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()
	u := mustRegister(t, db, "ada@example.com", model.RoleUser)

	err := svc.ChangePassword(ctx, u.Id, &entity.ChangePasswordForm{OldPassword: "secret1"})
	assert.True(t, common.Is(err, common.KindValidation))

	err = svc.ChangePassword(ctx, u.Id, &entity.ChangePasswordForm{OldPassword: "secret1", NewPassword: "newpass1", ConfirmPassword: "newpass2"})
	assert.True(t, common.Is(err, common.KindValidation))

	err = svc.ChangePassword(ctx, u.Id, &entity.ChangePasswordForm{OldPassword: "secret1", NewPassword: "abc", ConfirmPassword: "abc"})
	assert.True(t, common.Is(err, common.KindValidation))

	err = svc.ChangePassword(ctx, u.Id, &entity.ChangePasswordForm{OldPassword: "wrong-1", NewPassword: "newpass1", ConfirmPassword: "newpass1"})
	assert.True(t, common.Is(err, common.KindAuthentication))

	require.NoError(t, svc.ChangePassword(ctx, u.Id, &entity.ChangePasswordForm{OldPassword: "secret1", NewPassword: "newpass1", ConfirmPassword: "newpass1"}))

	_, _, err = svc.Login(ctx, &entity.LoginForm{Email: "ada@example.com", Password: "secret1"})
	assert.True(t, common.Is(err, common.KindAuthentication))
	_, _, err = svc.Login(ctx, &entity.LoginForm{Email: "ada@example.com", Password: "newpass1"})
	assert.NoError(t, err)
}
