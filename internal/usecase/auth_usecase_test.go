package usecase_test

import (
	"context"
	"testing"
	"time"

	"dreamdrape/internal/config"
	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"
	"dreamdrape/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

var testCfg = config.Config{JWTSecret: "unit-test-secret"}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func newAuthFixture() (*usecase.AuthUsecase, *UserRepoMock, *RefreshTokenRepoMock, *AuditRepoMock) {
	users := new(UserRepoMock)
	tokens := new(RefreshTokenRepoMock)
	auditRepo := new(AuditRepoMock)
	uc := usecase.NewAuthUsecase(testCfg, users, tokens, usecase.NewAuditRecorder(auditRepo))
	return uc, users, tokens, auditRepo
}

func TestAuth_Login_Success_ResetsFailureCounter(t *testing.T) {
	ctx := context.Background()
	uc, users, tokens, auditRepo := newAuthFixture()

	locked := time.Now().Add(-time.Hour) // 期限切れのロックは無視される
	user := model.User{
		ID:                  1,
		Email:               "a@example.com",
		PasswordHash:        hashPassword(t, "Passw0rdX"),
		Role:                model.RoleUser,
		IsActive:            true,
		FailedLoginAttempts: 3,
		LockedUntil:         &locked,
	}

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.FailedLoginAttempts == 0 && u.LockedUntil == nil && u.LastLoginAt != nil
	})).Return(nil)
	tokens.On("Create", mock.Anything, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.UserID == 1 && rt.TokenHash != "" && rt.ExpiresAt.After(time.Now())
	})).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Login(ctx, usecase.LoginInput{Email: "a@example.com", Password: "Passw0rdX"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.Token.AccessToken)
	assert.NotEmpty(t, out.Token.RefreshToken)
	assert.Equal(t, int64(1), out.User.ID)

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuth_Login_WrongPassword_IncrementsCounter(t *testing.T) {
	ctx := context.Background()
	uc, users, _, auditRepo := newAuthFixture()

	user := model.User{
		ID:                  1,
		Email:               "a@example.com",
		PasswordHash:        hashPassword(t, "Passw0rdX"),
		IsActive:            true,
		FailedLoginAttempts: 1,
	}

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.FailedLoginAttempts == 2 && u.LockedUntil == nil
	})).Return(nil)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Login(ctx, usecase.LoginInput{Email: "a@example.com", Password: "wrong"})
	assertErrContains(t, err, "invalid email or password")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)

	users.AssertExpectations(t)
}

// 5回目の失敗でロックされ、account_lockedの監査ログが残る
func TestAuth_Login_FifthFailure_LocksAccount(t *testing.T) {
	ctx := context.Background()
	uc, users, _, auditRepo := newAuthFixture()

	user := model.User{
		ID:                  1,
		Email:               "a@example.com",
		PasswordHash:        hashPassword(t, "Passw0rdX"),
		IsActive:            true,
		FailedLoginAttempts: 4,
	}

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.FailedLoginAttempts == 5 && u.LockedUntil != nil && u.LockedUntil.After(time.Now())
	})).Return(nil)

	lockedLogged := false
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		if l.Action == model.AuditActionAccountLocked {
			lockedLogged = true
		}
		return true
	})).Return(nil)

	_, err := uc.Login(ctx, usecase.LoginInput{Email: "a@example.com", Password: "wrong"})
	assertErrContains(t, err, "account locked")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 403, he.Status)
	assert.True(t, lockedLogged)

	users.AssertExpectations(t)
}

// ロック中は正しいパスワードでも403
func TestAuth_Login_WhileLocked_RejectsCorrectPassword(t *testing.T) {
	ctx := context.Background()
	uc, users, _, auditRepo := newAuthFixture()

	until := time.Now().Add(10 * time.Minute)
	user := model.User{
		ID:                  1,
		Email:               "a@example.com",
		PasswordHash:        hashPassword(t, "Passw0rdX"),
		IsActive:            true,
		FailedLoginAttempts: 5,
		LockedUntil:         &until,
	}

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(user, nil)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Login(ctx, usecase.LoginInput{Email: "a@example.com", Password: "Passw0rdX"})
	assertErrContains(t, err, "account locked")

	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuth_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	uc, users, _, auditRepo := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionFailedLogin && l.UserID == nil
	})).Return(nil)

	_, err := uc.Login(ctx, usecase.LoginInput{Email: "nobody@example.com", Password: "x"})
	assertErrContains(t, err, "invalid email or password")

	auditRepo.AssertExpectations(t)
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	uc, users, _, _ := newAuthFixture()

	users.On("FindByEmail", mock.Anything, "a@example.com").Return(model.User{ID: 1}, nil)

	_, err := uc.Register(ctx, usecase.RegisterInput{
		Username: "newuser", Email: "a@example.com", Password: "Passw0rdX",
		FirstName: "A", LastName: "B",
	})
	assertErrContains(t, err, "email already registered")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

// ローテーション：使用済みトークンの再提示で全トークンが失効する
func TestAuth_Refresh_ReuseDetected_RevokesAll(t *testing.T) {
	ctx := context.Background()
	uc, _, tokens, _ := newAuthFixture()

	used := time.Now().Add(-time.Minute)
	tokens.On("FindByTokenHash", mock.Anything, mock.Anything).Return(model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		ExpiresAt: time.Now().Add(time.Hour),
		UsedAt:    &used,
	}, nil)
	tokens.On("RevokeAllByUserID", mock.Anything, int64(1), mock.Anything).Return(nil)

	_, err := uc.Refresh(ctx, usecase.RefreshInput{RefreshToken: "stolen-token"})
	assertErrContains(t, err, "unauthorized")

	tokens.AssertExpectations(t)
}

func TestAuth_Refresh_Expired(t *testing.T) {
	ctx := context.Background()
	uc, _, tokens, _ := newAuthFixture()

	tokens.On("FindByTokenHash", mock.Anything, mock.Anything).Return(model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Hour),
	}, nil)

	_, err := uc.Refresh(ctx, usecase.RefreshInput{RefreshToken: "old-token"})
	assertErrContains(t, err, "unauthorized")

	tokens.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_Refresh_Valid_RotatesToken(t *testing.T) {
	ctx := context.Background()
	uc, users, tokens, _ := newAuthFixture()

	tokens.On("FindByTokenHash", mock.Anything, mock.Anything).Return(model.RefreshToken{
		ID:        "rt-1",
		UserID:    1,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{
		ID: 1, Role: model.RoleUser, IsActive: true,
	}, nil)
	tokens.On("MarkUsed", mock.Anything, "rt-1", mock.Anything).Return(nil)
	tokens.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Refresh(ctx, usecase.RefreshInput{RefreshToken: "valid-token"})
	assert.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)

	tokens.AssertExpectations(t)
}

func TestAuth_ChangePassword_WrongCurrent(t *testing.T) {
	ctx := context.Background()
	uc, users, tokens, _ := newAuthFixture()

	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{
		ID: 1, PasswordHash: hashPassword(t, "Passw0rdX"),
	}, nil)

	err := uc.ChangePassword(ctx, 1, usecase.ChangePasswordInput{
		CurrentPassword: "nope", NewPassword: "NewPassw0rd",
	})
	assertErrContains(t, err, "current password is incorrect")

	tokens.AssertNotCalled(t, "RevokeAllByUserID", mock.Anything, mock.Anything, mock.Anything)
}
