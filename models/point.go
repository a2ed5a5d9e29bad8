package models

import "time"

type UserPoint struct {
	ID          uint64    `gorm:"primaryKey;column:id"`
	UserID      uint64    `gorm:"column:user_id;uniqueIndex"`
	Balance     int64     `gorm:"column:balance;default:0"`
	TotalEarned uint64    `gorm:"column:total_earned;default:0"`
	TotalUsed   uint64    `gorm:"column:total_used;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (UserPoint) TableName() string {
	return "user_points"
}

// 积分变动类型常量定义
const (
	// 收入类
	TypeActivityReward     = 1 // 活动/任务奖励
	TypeSignReward         = 2 // 签到奖励
	TypeOrderRefund        = 3 // 订单退款返还
	TypeSystemCompensate   = 4 // 系统/人工调整
	TypeReferralBonus      = 5 // 邀请注册奖励
	TypeReferralCommission = 6 // 下级返佣
	TypeRedemptionRefund   = 7 // 兑换失败退还

	// 支出类
	TypeExchange    = 10 // 积分兑换
	TypeOrderDeduct = 11 // 购物抵扣
)

// IsCommissionable 只有用户自己挣到的积分才给上级返佣，返佣/奖励/退款本身不再向上传递
func IsCommissionable(changeType int) bool {
	return changeType == TypeActivityReward || changeType == TypeSignReward
}

const (
	PointStatusPending int8 = 0
	PointStatusPosted  int8 = 1
)

type PointsLog struct {
	ID         uint64    `gorm:"primaryKey;column:id"`
	UserID     uint64    `gorm:"column:user_id;index:idx_user_id;index:idx_point_source,priority:1"`
	Amount     int64     `gorm:"column:amount"`                                        // 变动数额（正负）
	Balance    int64     `gorm:"column:balance"`                                       // 变动后余额
	ChangeType int8      `gorm:"column:change_type;index:idx_point_source,priority:3"` // 见上方常量
	Status     int8      `gorm:"column:status"`                                        // 0-待入账, 1-正式入账
	SourceID   string    `gorm:"column:source_id;size:64;index:idx_point_source,priority:2"`
	Remark     string    `gorm:"column:remark;size:255"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PointsLog) TableName() string {
	return "point_logs"
}
