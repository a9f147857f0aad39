package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"
)

type AdminUserUsecase struct {
	users  repo.UserRepository
	tokens repo.RefreshTokenRepository
	audit  *AuditRecorder
}

func NewAdminUserUsecase(users repo.UserRepository, tokens repo.RefreshTokenRepository, audit *AuditRecorder) *AdminUserUsecase {
	return &AdminUserUsecase{users: users, tokens: tokens, audit: audit}
}

type AdminUserListOutput struct {
	Items []model.User `json:"items"`
	Total int64        `json:"total"`
}

func (u *AdminUserUsecase) List(ctx context.Context, q repo.UserListQuery) (AdminUserListOutput, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	users, total, err := u.users.List(ctx, q)
	if err != nil {
		return AdminUserListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return AdminUserListOutput{Items: users, Total: total}, nil
}

type AdminUpdateUserInput struct {
	IsActive *bool
	Role     *string
}

func (u *AdminUserUsecase) Update(ctx context.Context, adminUserID, userID int64, in AdminUpdateUserInput, meta RequestMeta) (model.User, error) {
	//自分自身の権限剥奪・無効化は禁止
	if adminUserID == userID {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "cannot modify your own account")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var changes string
	deactivated := false
	if in.IsActive != nil && *in.IsActive != user.IsActive {
		changes += fmt.Sprintf("is_active %t -> %t; ", user.IsActive, *in.IsActive)
		user.IsActive = *in.IsActive
		deactivated = !user.IsActive
	}
	if in.Role != nil {
		role := model.Role(*in.Role)
		if role != model.RoleUser && role != model.RoleAdmin {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "unknown role")
		}
		if role != user.Role {
			changes += fmt.Sprintf("role %s -> %s; ", user.Role, role)
			user.Role = role
		}
	}

	if err := u.users.Update(ctx, &user); err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//無効化したらセッションも切る
	if deactivated {
		if _, err := u.users.IncrementTokenVersion(ctx, userID); err == nil {
			_ = u.tokens.RevokeAllByUserID(ctx, userID, time.Now())
		}
	}

	if changes != "" {
		u.audit.Record(ctx, &adminUserID, model.AuditActionUpdateUser, model.AuditResourceUser, userID, changes, meta)
	}
	return user, nil
}

// ForceLogoutはtoken_versionを進めて既発行のアクセストークンを全て無効化する。
func (u *AdminUserUsecase) ForceLogout(ctx context.Context, adminUserID, userID int64, meta RequestMeta) error {
	_, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	newVersion, err := u.users.IncrementTokenVersion(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//リフレッシュ側も道連れにする
	_ = u.tokens.RevokeAllByUserID(ctx, userID, time.Now())

	u.audit.Record(ctx, &adminUserID, model.AuditActionForceLogout, model.AuditResourceUser, userID,
		fmt.Sprintf("token version bumped to %d", newVersion), meta)
	return nil
}
