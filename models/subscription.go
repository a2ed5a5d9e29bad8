package models

import (
	"time"

	"gorm.io/datatypes"
)

// Subscription 可用积分兑换的订阅商品
type Subscription struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"id"`
	Name         string         `gorm:"column:name;size:128;not null" json:"name"`
	Description  string         `gorm:"column:description;size:512" json:"description"`
	PointsCost   int64          `gorm:"column:points_cost;not null" json:"points_cost"`
	DurationDays int            `gorm:"column:duration_days;not null;default:30" json:"duration_days"`
	InStock      bool           `gorm:"column:in_stock;not null;default:true;index" json:"in_stock"`
	Features     datatypes.JSON `gorm:"column:features" json:"features"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
