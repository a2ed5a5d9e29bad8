package user

type ListUsersRequest struct {
	Search string `form:"search" binding:"max=64"`
	Status string `form:"status" binding:"omitempty,oneof=active banned"`
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
}

type UpdatePointsRequest struct {
	UserID uint64 `json:"userId" binding:"required"`
	// 正数增加，负数扣减
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"max=255"`
}

type UpdateStatusRequest struct {
	UserID uint64 `json:"userId" binding:"required"`
	Status string `json:"status" binding:"required,oneof=active banned"`
}

type UserResponse struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	Nickname    string `json:"nickname"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Balance     int64  `json:"balance"`
	TotalEarned int64  `json:"total_earned"`
	TotalUsed   int64  `json:"total_used"`
	CreatedAt   string `json:"created_at"`
}

type ListUsersResponse struct {
	Items      []UserResponse `json:"items"`
	NextCursor uint64         `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}
