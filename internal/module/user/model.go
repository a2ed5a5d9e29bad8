package user

import "time"

// UserRow 后台列表行，用户与积分账户左连接
type UserRow struct {
	ID          uint64
	Email       string
	Nickname    string
	Role        string
	Status      string
	Balance     int64
	TotalEarned uint64
	TotalUsed   uint64
	CreatedAt   time.Time
}
