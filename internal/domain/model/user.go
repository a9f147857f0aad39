package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// 会員。配送先のデフォルト値もここに持つ（チェックアウトのプリフィル用）。
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName     string `gorm:"type:varchar(50);not null" json:"last_name"`
	Phone        string `gorm:"type:varchar(15)" json:"phone"`

	//配送先プリフィル
	Address string `gorm:"type:text" json:"address"`
	City    string `gorm:"type:varchar(50)" json:"city"`
	State   string `gorm:"type:varchar(50)" json:"state"`
	Pincode string `gorm:"type:varchar(10)" json:"pincode"`
	Country string `gorm:"type:varchar(50);default:'India'" json:"country"`

	Role         Role `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive     bool `gorm:"not null;default:true" json:"is_active"`
	TokenVersion int  `gorm:"not null;default:0" json:"token_version"`

	//連続ログイン失敗カウンタ。5回でLockedUntilまでロック。
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
