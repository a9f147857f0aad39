package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dreamdrape/internal/config"
	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 14 * 24 * time.Hour

	//連続失敗がここに達したらロック
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

type AuthUsecase struct {
	cfg    config.Config
	users  repo.UserRepository
	tokens repo.RefreshTokenRepository
	audit  *AuditRecorder
}

func NewAuthUsecase(
	cfg config.Config,
	users repo.UserRepository,
	tokens repo.RefreshTokenRepository,
	audit *AuditRecorder,
) *AuthUsecase {
	return &AuthUsecase{cfg: cfg, users: users, tokens: tokens, audit: audit}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Meta      RequestMeta
}

type UserOutput struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type TokenOutput struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

type LoginOutput struct {
	User  UserOutput  `json:"user"`
	Token TokenOutput `json:"token"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	//email・username重複チェック
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return UserOutput{}, NewHTTPError(http.StatusConflict, "email already registered")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if _, err := u.users.FindByUsername(ctx, username); err == nil {
		return UserOutput{}, NewHTTPError(http.StatusConflict, "username already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//平文は保存しない
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(pwHash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusConflict, "user already exists")
	}

	u.audit.Record(ctx, &user.ID, model.AuditActionRegister, model.AuditResourceUser, user.ID, "", in.Meta)

	return toUserOutput(*user), nil
}

type LoginInput struct {
	Email    string
	Password string
	Meta     RequestMeta
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		//存在しないアカウントへの試行も記録する
		u.audit.Record(ctx, nil, model.AuditActionFailedLogin, model.AuditResourceUser, 0,
			"unknown email: "+email, in.Meta)
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()

	//ロック中は正しいパスワードでも拒否
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		u.audit.Record(ctx, &user.ID, model.AuditActionFailedLogin, model.AuditResourceUser, user.ID,
			"login attempt while locked", in.Meta)
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "account locked, try again later")
	}

	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusForbidden, "account disabled")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return LoginOutput{}, u.recordFailedLogin(ctx, &user, in.Meta)
	}

	//成功：カウンタとロックをリセット
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, &user); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token, err := u.issueTokens(ctx, user, in.Meta.UserAgent, now)
	if err != nil {
		return LoginOutput{}, err
	}

	u.audit.Record(ctx, &user.ID, model.AuditActionLogin, model.AuditResourceUser, user.ID, "", in.Meta)

	return LoginOutput{User: toUserOutput(user), Token: token}, nil
}

// 失敗カウンタを進め、閾値でロックする。戻り値は常に401/403のHTTPError。
func (u *AuthUsecase) recordFailedLogin(ctx context.Context, user *model.User, meta RequestMeta) error {
	user.FailedLoginAttempts++

	locked := false
	if user.FailedLoginAttempts >= maxFailedLogins {
		until := time.Now().Add(lockoutDuration)
		user.LockedUntil = &until
		locked = true
	}

	if err := u.users.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit.Record(ctx, &user.ID, model.AuditActionFailedLogin, model.AuditResourceUser, user.ID,
		fmt.Sprintf("attempt %d", user.FailedLoginAttempts), meta)

	if locked {
		u.audit.Record(ctx, &user.ID, model.AuditActionAccountLocked, model.AuditResourceUser, user.ID,
			fmt.Sprintf("locked for %s after %d failures", lockoutDuration, user.FailedLoginAttempts), meta)
		return NewHTTPError(http.StatusForbidden, "account locked, try again later")
	}
	return NewHTTPError(http.StatusUnauthorized, "invalid email or password")
}

type RefreshInput struct {
	RefreshToken string
	Meta         RequestMeta
}

func (u *AuthUsecase) Refresh(ctx context.Context, in RefreshInput) (TokenOutput, error) {
	if in.RefreshToken == "" {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	stored, err := u.tokens.FindByTokenHash(ctx, hashToken(in.RefreshToken))
	if errors.Is(err, repo.ErrNotFound) {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()
	if stored.RevokedAt != nil || now.After(stored.ExpiresAt) {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//使用済みの再提示＝盗難の疑い。全トークンを無効化する。
	if stored.UsedAt != nil {
		_ = u.tokens.RevokeAllByUserID(ctx, stored.UserID, now)
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, stored.UserID)
	if err != nil || !user.IsActive {
		return TokenOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.tokens.MarkUsed(ctx, stored.ID, now); err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.issueTokens(ctx, user, in.Meta.UserAgent, now)
}

type LogoutInput struct {
	RefreshToken string
	Meta         RequestMeta
}

func (u *AuthUsecase) Logout(ctx context.Context, userID int64, in LogoutInput) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if in.RefreshToken != "" {
		stored, err := u.tokens.FindByTokenHash(ctx, hashToken(in.RefreshToken))
		if err == nil && stored.UserID == userID {
			_ = u.tokens.Revoke(ctx, stored.ID, time.Now())
		}
	}

	u.audit.Record(ctx, &userID, model.AuditActionLogout, model.AuditResourceUser, userID, "", in.Meta)
	return nil
}

type ProfileOutput struct {
	UserOutput
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

func (u *AuthUsecase) GetProfile(ctx context.Context, userID int64) (ProfileOutput, error) {
	if userID <= 0 {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProfileOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProfileOutput(user), nil
}

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
	City      string
	State     string
	Pincode   string
	Country   string
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (ProfileOutput, error) {
	if userID <= 0 {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProfileOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Phone = strings.TrimSpace(in.Phone)
	user.Address = strings.TrimSpace(in.Address)
	user.City = strings.TrimSpace(in.City)
	user.State = strings.TrimSpace(in.State)
	user.Pincode = strings.TrimSpace(in.Pincode)
	if c := strings.TrimSpace(in.Country); c != "" {
		user.Country = c
	}

	if err := u.users.Update(ctx, &user); err != nil {
		return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProfileOutput(user), nil
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	Meta            RequestMeta
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, userID int64, in ChangePasswordInput) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return NewHTTPError(http.StatusBadRequest, "current password is incorrect")
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	user.PasswordHash = string(pwHash)

	if err := u.users.Update(ctx, &user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//既存セッションは失効させる
	_ = u.tokens.RevokeAllByUserID(ctx, userID, time.Now())

	u.audit.Record(ctx, &userID, model.AuditActionChangePassword, model.AuditResourceUser, userID, "", in.Meta)
	return nil
}

// アクセスJWT＋リフレッシュトークンを発行する。
func (u *AuthUsecase) issueTokens(ctx context.Context, user model.User, userAgent string, now time.Time) (TokenOutput, error) {
	expiresAt := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"tv":   user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	plainRefresh, err := generateSecureToken(32)
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	err = u.tokens.Create(ctx, model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashToken(plainRefresh),
		UserAgent: userAgent,
		ExpiresAt: now.Add(refreshTokenTTL),
	})
	if err != nil {
		return TokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return TokenOutput{
		AccessToken:  signed,
		ExpiresIn:    int(accessTokenTTL.Seconds()),
		RefreshToken: plainRefresh,
	}, nil
}

func generateSecureToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func toUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
	}
}

func toProfileOutput(u model.User) ProfileOutput {
	return ProfileOutput{
		UserOutput: toUserOutput(u),
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		State:      u.State,
		Pincode:    u.Pincode,
		Country:    u.Country,
	}
}
