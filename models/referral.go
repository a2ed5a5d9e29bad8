package models

import "time"

const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
)

// Referral 邀请关系边：referrer 在第 Level 层邀请了 referred
type Referral struct {
	ID            uint64     `gorm:"primaryKey;column:id" json:"id"`
	ReferrerID    uint64     `gorm:"column:referrer_id;not null;uniqueIndex:uk_referrer_referred,priority:1" json:"referrer_id"`
	ReferredID    uint64     `gorm:"column:referred_id;not null;uniqueIndex:uk_referrer_referred,priority:2;uniqueIndex:uk_referred_level,priority:1" json:"referred_id"`
	ReferralCode  string     `gorm:"column:referral_code;size:32;not null" json:"referral_code"`
	Level         int8       `gorm:"column:level;not null;uniqueIndex:uk_referred_level,priority:2" json:"level"`
	Status        string     `gorm:"column:status;size:16;not null;default:pending;index" json:"status"`
	PointsAwarded int64      `gorm:"column:points_awarded;not null;default:0" json:"points_awarded"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at"`
}

func (Referral) TableName() string {
	return "referrals"
}

// ReferralEarning 单笔交易向某一层上级产生的返佣，创建后不可修改
type ReferralEarning struct {
	ID                   uint64    `gorm:"primaryKey;column:id" json:"id"`
	ReferrerID           uint64    `gorm:"column:referrer_id;not null;uniqueIndex:uk_earning_tx,priority:1" json:"referrer_id"`
	ReferredID           uint64    `gorm:"column:referred_id;not null;index" json:"referred_id"`
	TransactionID        string    `gorm:"column:transaction_id;size:64;not null;uniqueIndex:uk_earning_tx,priority:2" json:"transaction_id"`
	OriginalPoints       int64     `gorm:"column:original_points;not null" json:"original_points"`
	CommissionPercentage float64   `gorm:"column:commission_percentage;not null" json:"commission_percentage"`
	CommissionPoints     int64     `gorm:"column:commission_points;not null" json:"commission_points"`
	Level                int8      `gorm:"column:level;not null" json:"level"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReferralEarning) TableName() string {
	return "referral_earnings"
}
