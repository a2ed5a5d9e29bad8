package types

// PointRecord 每一条流水的细节
type PointRecord struct {
	ID          int64  `json:"id"`          // 流水唯一ID
	Amount      int64  `json:"amount"`      // 变动数值（如 +10, -50）
	Balance     int64  `json:"balance"`     // 变动后余额
	Description string `json:"description"` // 详细描述（如：签到奖励、兑换商品）
	ChangeType  int    `json:"change_type"` // 变动类型
	OrderType   string `json:"order_type"`  // INCOME(收入), EXPENSE(支出)
	Status      int    `json:"status"`      // 0-待入账, 1-已入账
	CreatedAt   string `json:"created_at"`
}

// ListPointsRecord 流水列表包装
type ListPointsRecord struct {
	Records    []PointRecord `json:"records"`
	NextCursor int64         `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}

// PointsAccount 账户概览统计
type PointsAccount struct {
	Balance       int64 `json:"balance"`        // 当前可用积分余额
	TotalEarned   int64 `json:"total_earned"`   // 历史累计获得
	TotalUsed     int64 `json:"total_used"`     // 历史累计使用
	PendingCount  int64 `json:"pending_count"`  // 待入账笔数
	PendingAmount int64 `json:"pending_amount"` // 待入账积分总额
}

// RewardPointsReq 奖励积分请求体（任务系统调用）
type RewardPointsReq struct {
	UserID     uint64 `json:"user_id" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	ChangeType int    `json:"change_type" binding:"required"` // 1-任务, 2-签到 可返佣
	SourceID   string `json:"source_id" binding:"required,max=64"`
	Remark     string `json:"remark" binding:"max=255"`
	IsPending  bool   `json:"is_pending"`
}

// SettlePointsReq 待入账流水确认入账（任务系统回调）
type SettlePointsReq struct {
	UserID     uint64 `json:"user_id" binding:"required"`
	ChangeType int    `json:"change_type" binding:"required"`
	SourceID   string `json:"source_id" binding:"required,max=64"`
}

type ListPointRecordsReq struct {
	Action string `form:"action" binding:"omitempty,oneof=all income expense"`
	Cursor int64  `form:"cursor"`
	Limit  int    `form:"limit,default=10" binding:"min=1,max=100"`
}
