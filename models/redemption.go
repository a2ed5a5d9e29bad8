package models

import "time"

// RedemptionRequest 用户的积分兑换申请
type RedemptionRequest struct {
	ID             uint64     `gorm:"primaryKey;column:id" json:"id"`
	UserID         uint64     `gorm:"column:user_id;not null;index" json:"user_id"`
	SubscriptionID uint64     `gorm:"column:subscription_id;not null;index" json:"subscription_id"`
	PointsSpent    int64      `gorm:"column:points_spent;not null" json:"points_spent"`
	Status         string     `gorm:"column:status;size:16;not null;default:pending;index" json:"status"`
	ActivationCode string     `gorm:"column:activation_code;size:255" json:"activation_code,omitempty"`
	Instructions   string     `gorm:"column:instructions;size:1024" json:"instructions,omitempty"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at"`
	ExpiresAt      *time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RedemptionRequest) TableName() string {
	return "redemption_requests"
}

// AllModels 迁移用
func AllModels() []any {
	return []any{
		&Users{},
		&UserPoint{},
		&PointsLog{},
		&Referral{},
		&ReferralEarning{},
		&Subscription{},
		&RedemptionRequest{},
	}
}
