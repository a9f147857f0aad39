package model

import "time"

type AuditAction string

const (
	AuditActionRegister          AuditAction = "register"
	AuditActionLogin             AuditAction = "login"
	AuditActionFailedLogin       AuditAction = "failed_login"
	AuditActionAccountLocked     AuditAction = "account_locked"
	AuditActionLogout            AuditAction = "logout"
	AuditActionChangePassword    AuditAction = "change_password"
	AuditActionPlaceOrder        AuditAction = "place_order"
	AuditActionCancelOrder       AuditAction = "cancel_order"
	AuditActionCreateProduct     AuditAction = "create_product"
	AuditActionUpdateProduct     AuditAction = "update_product"
	AuditActionDeleteProduct     AuditAction = "delete_product"
	AuditActionUpdateStock       AuditAction = "update_stock"
	AuditActionUpdateOrderStatus AuditAction = "update_order_status"
	AuditActionUpdateUser        AuditAction = "update_user"
	AuditActionForceLogout       AuditAction = "force_logout"
	AuditActionApproveReview     AuditAction = "approve_review"
	AuditActionDeleteReview      AuditAction = "delete_review"
)

type AuditResourceType string

const (
	AuditResourceUser    AuditResourceType = "user"
	AuditResourceProduct AuditResourceType = "product"
	AuditResourceOrder   AuditResourceType = "order"
	AuditResourceReview  AuditResourceType = "review"
)

// 監査ログ。追記のみで、削除は保持期限のクリーンアップだけ。
// UserIDは未ログイン操作（ログイン失敗など）のためにNULL可。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *int64            `gorm:"index" json:"user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);index" json:"resource_type"`
	ResourceID   int64             `gorm:"index" json:"resource_id"`
	Details      string            `gorm:"type:text" json:"details"`
	IP           string            `gorm:"type:varchar(45)" json:"ip"`
	UserAgent    string            `gorm:"type:varchar(255)" json:"user_agent"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}
