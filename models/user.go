package models

import "time"

const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"

	UserStatusActive = "active"
	UserStatusBanned = "banned"
)

type Users struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"id"`
	Email        string    `gorm:"column:email;size:255;index" json:"email"`
	Nickname     string    `gorm:"column:nickname;size:64" json:"nickname"`
	Role         string    `gorm:"column:role;size:16;default:user" json:"role"`
	Status       string    `gorm:"column:status;size:16;default:active" json:"status"`
	ReferralCode *string   `gorm:"column:referral_code;size:32;uniqueIndex" json:"referral_code"`
	ReferredBy   *uint64   `gorm:"column:referred_by;index" json:"referred_by"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Users) TableName() string {
	return "users"
}
