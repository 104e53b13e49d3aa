package service

import (
	"strings"
	"testing"
	"time"

	"portfolio_backend/internal/config"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthTestService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthTestService(db)

	user := &model.User{Name: "ada", Email: "ada@example.com", Password: "s3cret-pass"}
	require.NoError(t, svc.Register(user))

	t.Run("password stored hashed", func(t *testing.T) {
		var stored model.User
		require.NoError(t, db.First(&stored, user.ID).Error)
		assert.NotEqual(t, "s3cret-pass", stored.Password)
		assert.True(t, strings.HasPrefix(stored.Password, "$2"))
	})

	t.Run("default role is student", func(t *testing.T) {
		assert.Equal(t, model.Student, user.Role)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		again := &model.User{Name: "ada2", Email: "ada@example.com", Password: "other"}
		assert.ErrorIs(t, svc.Register(again), util.ErrEmailRegistered)
	})
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthTestService(db)
	require.NoError(t, svc.Register(&model.User{Name: "ada", Email: "ada@example.com", Password: "s3cret-pass"}))

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login("nobody@example.com", "whatever")
		assert.EqualError(t, err, "邮箱或密码错误")
	})

	t.Run("wrong password", func(t *testing.T) {
		// 未知邮箱和错误密码返回同一条消息，不暴露账号是否存在
		_, _, err := svc.Login("ada@example.com", "wrong")
		assert.EqualError(t, err, "邮箱或密码错误")
	})

	t.Run("issues a parseable token", func(t *testing.T) {
		token, user, err := svc.Login("ada@example.com", "s3cret-pass")
		require.NoError(t, err)
		require.NotNil(t, user)

		claims, err := util.ParseJWT(token, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.Equal(t, model.Student, claims.Role)
	})

	t.Run("token rejects the wrong secret", func(t *testing.T) {
		token, _, err := svc.Login("ada@example.com", "s3cret-pass")
		require.NoError(t, err)

		_, err = util.ParseJWT(token, "other-secret")
		assert.Error(t, err)
	})

	t.Run("disabled account cannot login", func(t *testing.T) {
		var user model.User
		require.NoError(t, db.Where("email = ?", "ada@example.com").First(&user).Error)
		_, err := svc.SetUserDisabled(user.ID, true)
		require.NoError(t, err)

		_, _, err = svc.Login("ada@example.com", "s3cret-pass")
		assert.EqualError(t, err, "账号已被禁用")
	})
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthTestService(db)
	user := &model.User{Name: "ada", Email: "ada@example.com", Password: "old-pass-123"}
	require.NoError(t, svc.Register(user))

	t.Run("missing user", func(t *testing.T) {
		assert.ErrorIs(t, svc.ChangePassword(999, "x", "y"), util.ErrUserNotFound)
	})

	t.Run("wrong old password", func(t *testing.T) {
		assert.EqualError(t, svc.ChangePassword(user.ID, "nope", "new-pass-456"), "旧密码不正确")
	})

	t.Run("old password stops working after change", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(user.ID, "old-pass-123", "new-pass-456"))

		_, _, err := svc.Login("ada@example.com", "old-pass-123")
		assert.Error(t, err)
		_, _, err = svc.Login("ada@example.com", "new-pass-456")
		assert.NoError(t, err)
	})
}
