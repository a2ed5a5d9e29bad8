package dao

import (
	"Rewards/models"
	"context"

	"gorm.io/gorm"
)

type Subscription struct {
	Repo[models.Subscription]
}

func NewSubscription(db *gorm.DB) *Subscription {
	return &Subscription{Repo: NewRepo[models.Subscription](db)}
}

func (s *Subscription) List(ctx context.Context, includeOutOfStock bool) ([]models.Subscription, error) {
	subs := make([]models.Subscription, 0)
	query := s.Conn(ctx).Order("points_cost ASC, id ASC")
	if !includeOutOfStock {
		query = query.Where("in_stock = ?", true)
	}
	err := query.Find(&subs).Error
	return subs, err
}

// ToggleStock 原子翻转库存状态
func (s *Subscription) ToggleStock(ctx context.Context, id uint64) (int64, error) {
	res := s.Conn(ctx).Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("in_stock", gorm.Expr("NOT in_stock"))
	return res.RowsAffected, res.Error
}
