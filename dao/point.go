package dao

import (
	"Rewards/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Point struct {
	Repo[models.UserPoint]
}

func NewPoint(db *gorm.DB) *Point {
	return &Point{
		Repo: NewRepo[models.UserPoint](db),
	}
}

func (p *Point) CheckLogExists(ctx context.Context, userID uint64, sourceID string, changeType int) (bool, error) {
	var count int64
	err := p.Conn(ctx).Model(&models.PointsLog{}).
		Where("user_id = ? AND source_id = ? AND change_type = ?", userID, sourceID, changeType).
		Count(&count).Error
	return count > 0, err
}

// GetAccount 获取账户信息
func (p *Point) GetAccount(ctx context.Context, userID uint64) (*models.UserPoint, error) {
	var account models.UserPoint
	err := p.Conn(ctx).Where("user_id = ?", userID).First(&account).Error
	return &account, err
}

// GetAccounts 批量获取账户，后台用户列表用
func (p *Point) GetAccounts(ctx context.Context, userIDs []uint64) (map[uint64]models.UserPoint, error) {
	out := make(map[uint64]models.UserPoint, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var accounts []models.UserPoint
	if err := p.Conn(ctx).Where("user_id IN ?", userIDs).Find(&accounts).Error; err != nil {
		return nil, err
	}
	for _, a := range accounts {
		out[a.UserID] = a
	}
	return out, nil
}

// CreateAccount 初始化账户（针对新用户）
func (p *Point) CreateAccount(ctx context.Context, userID uint64, initialPoints int64) error {
	newAccount := &models.UserPoint{
		UserID:      userID,
		Balance:     initialPoints,
		TotalEarned: uint64(initialPoints),
		TotalUsed:   0,
	}
	return p.Conn(ctx).Create(newAccount).Error
}

func (p *Point) CreatePointLog(ctx context.Context, log *models.PointsLog) error {
	return p.Conn(ctx).Create(log).Error
}

// UpdateBalance 入账
func (p *Point) UpdateBalance(ctx context.Context, userID uint64, amount int64) (int64, error) {
	result := p.Conn(ctx).Model(&models.UserPoint{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			// gorm.Expr 保证了并发下的原子加减，避免数据覆盖
			"balance":      gorm.Expr("balance + ?", amount),
			"total_earned": gorm.Expr("total_earned + ?", amount),
		})

	// 返回受影响的行数，用于 Service 判断是否需要“自动开户”
	return result.RowsAffected, result.Error
}

// DeductBalance 扣减，余额不足时影响行数为 0
func (p *Point) DeductBalance(ctx context.Context, userID uint64, amount int64) (int64, error) {
	result := p.Conn(ctx).Model(&models.UserPoint{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"total_used": gorm.Expr("total_used + ?", amount),
		})
	return result.RowsAffected, result.Error
}

// GetPendingStats 统计待入账数据
func (p *Point) GetPendingStats(ctx context.Context, userID uint64) (count int64, amount int64, err error) {
	var res struct {
		Count  int64
		Amount int64
	}
	err = p.Conn(ctx).Model(&models.PointsLog{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("user_id = ? AND status = ?", userID, models.PointStatusPending).
		Scan(&res).Error
	return res.Count, res.Amount, err
}

// ListRecords 分页筛选查询
func (p *Point) ListRecords(ctx context.Context, userID uint64, action string, cursor int64, limit int) ([]models.PointsLog, error) {
	var logs []models.PointsLog
	query := p.Conn(ctx).Where("user_id = ?", userID)

	switch action {
	case "income":
		query = query.Where("amount > ?", 0)
	case "expense":
		query = query.Where("amount < ?", 0)
	}

	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	err := query.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// RefundBalance 退还积分，回退累计使用
func (p *Point) RefundBalance(ctx context.Context, userID uint64, amount int64) (int64, error) {
	result := p.Conn(ctx).Model(&models.UserPoint{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", amount),
			"total_used": gorm.Expr("CASE WHEN total_used >= ? THEN total_used - ? ELSE 0 END", amount, amount),
		})
	return result.RowsAffected, result.Error
}

// FindLogForUpdate 按业务来源锁定一条流水
func (p *Point) FindLogForUpdate(ctx context.Context, userID uint64, sourceID string, changeType int) (*models.PointsLog, error) {
	var l models.PointsLog
	err := p.Conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND source_id = ? AND change_type = ?", userID, sourceID, changeType).
		First(&l).Error
	return &l, err
}

// MarkLogPosted 待入账转正式入账，只有 pending 状态才会被更新
func (p *Point) MarkLogPosted(ctx context.Context, id uint64, balance int64) (int64, error) {
	result := p.Conn(ctx).Model(&models.PointsLog{}).
		Where("id = ? AND status = ?", id, models.PointStatusPending).
		Updates(map[string]interface{}{
			"status":  models.PointStatusPosted,
			"balance": balance,
		})
	return result.RowsAffected, result.Error
}
