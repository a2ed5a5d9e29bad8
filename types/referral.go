package types

// ReferralLink 邀请码与分享链接
type ReferralLink struct {
	Code string `json:"code"`
	Link string `json:"link"`
}

type RegisterReferralReq struct {
	Code string `json:"code" binding:"required,max=32"`
}

type RegisterReferralResp struct {
	ReferrerID uint64 `json:"referrer_id"`
	Levels     int    `json:"levels"` // 创建的关系层数
}

type ListReferralsReq struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending completed"`
	Level    int8   `form:"level" binding:"omitempty,min=1,max=3"`
	Sort     string `form:"sort" binding:"omitempty,oneof=created_at points_awarded level"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

type ReferralItem struct {
	ID            uint64  `json:"id"`
	ReferredID    uint64  `json:"referred_id"`
	Nickname      string  `json:"nickname"`
	Level         int8    `json:"level"`
	Status        string  `json:"status"`
	PointsAwarded int64   `json:"points_awarded"`
	CreatedAt     string  `json:"created_at"`
	CompletedAt   *string `json:"completed_at"`
}

type ListReferralsResp struct {
	Items []ReferralItem `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
}

type EarningItem struct {
	ID                   uint64  `json:"id"`
	ReferredID           uint64  `json:"referred_id"`
	TransactionID        string  `json:"transaction_id"`
	OriginalPoints       int64   `json:"original_points"`
	CommissionPercentage float64 `json:"commission_percentage"`
	CommissionPoints     int64   `json:"commission_points"`
	Level                int8    `json:"level"`
	CreatedAt            string  `json:"created_at"`
}

type ListEarningsResp struct {
	Items      []EarningItem `json:"items"`
	NextCursor uint64        `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}

type CursorReq struct {
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
}
