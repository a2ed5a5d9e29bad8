package dao

import (
	"Rewards/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type Redemption struct {
	Repo[models.RedemptionRequest]
}

func NewRedemption(db *gorm.DB) *Redemption {
	return &Redemption{Repo: NewRepo[models.RedemptionRequest](db)}
}

// SaveTransition 只更新仍处于 pending 的记录，保证终态在数据层不可变
func (r *Redemption) SaveTransition(ctx context.Context, req *models.RedemptionRequest) (int64, error) {
	res := r.Conn(ctx).Model(&models.RedemptionRequest{}).
		Where("id = ? AND status = ?", req.ID, "pending").
		Updates(map[string]any{
			"status":          req.Status,
			"activation_code": req.ActivationCode,
			"instructions":    req.Instructions,
			"completed_at":    req.CompletedAt,
			"expires_at":      req.ExpiresAt,
		})
	return res.RowsAffected, res.Error
}

func (r *Redemption) List(ctx context.Context, userID uint64, status string, cursor uint64, limit int) ([]models.RedemptionRequest, error) {
	rows := make([]models.RedemptionRequest, 0)
	query := r.Conn(ctx)
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// StalePending 创建时间早于 before 的待处理兑换单
func (r *Redemption) StalePending(ctx context.Context, before time.Time, limit int) ([]models.RedemptionRequest, error) {
	rows := make([]models.RedemptionRequest, 0)
	err := r.Conn(ctx).
		Where("status = ? AND created_at < ?", "pending", before).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
