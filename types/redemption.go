package types

import "encoding/json"

type CreateRedemptionReq struct {
	SubscriptionID uint64 `json:"subscriptionId" binding:"required"`
}

// UpdateRedemptionReq 管理员处理兑换单
type UpdateRedemptionReq struct {
	RequestID      uint64 `json:"requestId" binding:"required"`
	NewStatus      string `json:"newStatus" binding:"required"`
	ActivationCode string `json:"activationCode"`
	Instructions   string `json:"instructions"`
}

type ListRedemptionsReq struct {
	Status string `form:"status" binding:"omitempty,oneof=pending completed failed cancelled"`
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
}

type SubscriptionReq struct {
	ID uint64 `json:"id" binding:"required"`
}

type AddSubscriptionReq struct {
	Name         string          `json:"name" binding:"required,max=128"`
	Description  string          `json:"description" binding:"max=512"`
	PointsCost   int64           `json:"points_cost" binding:"required,gt=0"`
	DurationDays int             `json:"duration_days" binding:"omitempty,gt=0"`
	InStock      *bool           `json:"in_stock"`
	Features     json.RawMessage `json:"features"`
}

type RedemptionItem struct {
	ID             uint64  `json:"id"`
	UserID         uint64  `json:"user_id"`
	SubscriptionID uint64  `json:"subscription_id"`
	PointsSpent    int64   `json:"points_spent"`
	Status         string  `json:"status"`
	ActivationCode string  `json:"activation_code,omitempty"`
	Instructions   string  `json:"instructions,omitempty"`
	CompletedAt    *string `json:"completed_at"`
	ExpiresAt      *string `json:"expires_at"`
	CreatedAt      string  `json:"created_at"`
}

type ListRedemptionsResp struct {
	Items      []RedemptionItem `json:"items"`
	NextCursor uint64           `json:"next_cursor"`
	HasMore    bool             `json:"has_more"`
}
