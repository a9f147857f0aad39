package usecase

import (
	"context"
	"log"
	"net/http"
	"time"

	"dreamdrape/internal/domain/model"
	repo "dreamdrape/internal/repository"
)

// リクエスト由来のメタ情報。handlerが詰めてusecaseへ渡す。
type RequestMeta struct {
	IP        string
	UserAgent string
}

// 監査ログの書き込み口。失敗してもリクエストは失敗させない。
type AuditRecorder struct {
	repo repo.AuditLogRepository
}

func NewAuditRecorder(r repo.AuditLogRepository) *AuditRecorder {
	return &AuditRecorder{repo: r}
}

func (a *AuditRecorder) Record(
	ctx context.Context,
	userID *int64,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	details string,
	meta RequestMeta,
) {
	ua := meta.UserAgent
	if len(ua) > 255 {
		ua = ua[:255]
	}

	err := a.repo.Create(ctx, model.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		IP:           meta.IP,
		UserAgent:    ua,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		//監査ログが書けなくても本処理は止めない
		log.Printf("audit log write failed: action=%s err=%v", action, err)
	}
}

// 管理画面の監査ログ閲覧。
type AuditUsecase struct {
	repo repo.AuditLogRepository
}

func NewAuditUsecase(r repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{repo: r}
}

type AuditListOutput struct {
	Items []model.AuditLog `json:"items"`
	Total int64            `json:"total"`
}

func (u *AuditUsecase) List(ctx context.Context, f repo.AuditLogFilter) (AuditListOutput, error) {
	items, total, err := u.repo.List(ctx, f)
	if err != nil {
		return AuditListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return AuditListOutput{Items: items, Total: total}, nil
}
