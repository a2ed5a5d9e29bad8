package service

import (
	"Rewards/dao"
	"Rewards/models"
	"Rewards/types"
	"context"
	"fmt"

	"gorm.io/datatypes"
)

type SubscriptionService struct {
	SubscriptionDAO *dao.Subscription
}

var _ ISubscriptionService = (*SubscriptionService)(nil)

type ISubscriptionService interface {
	List(ctx context.Context, includeOutOfStock bool) ([]models.Subscription, error)
	Toggle(ctx context.Context, id uint64) (*models.Subscription, error)
	Add(ctx context.Context, req *types.AddSubscriptionReq) (*models.Subscription, error)
	Delete(ctx context.Context, id uint64) error
}

func (s *SubscriptionService) List(ctx context.Context, includeOutOfStock bool) ([]models.Subscription, error) {
	subs, err := s.SubscriptionDAO.List(ctx, includeOutOfStock)
	if err != nil {
		return nil, fmt.Errorf("查询订阅商品失败: %w", err)
	}
	return subs, nil
}

// Toggle 上下架切换，返回切换后的商品
func (s *SubscriptionService) Toggle(ctx context.Context, id uint64) (*models.Subscription, error) {
	rows, err := s.SubscriptionDAO.ToggleStock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("切换库存状态失败: %w", err)
	}
	if rows == 0 {
		return nil, ErrSubscriptionNotFound
	}
	return s.SubscriptionDAO.FindById(ctx, id)
}

func (s *SubscriptionService) Add(ctx context.Context, req *types.AddSubscriptionReq) (*models.Subscription, error) {
	sub := &models.Subscription{
		Name:         req.Name,
		Description:  req.Description,
		PointsCost:   req.PointsCost,
		DurationDays: req.DurationDays,
	}
	if sub.DurationDays <= 0 {
		sub.DurationDays = 30
	}
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	sub.InStock = inStock
	if len(req.Features) > 0 {
		sub.Features = datatypes.JSON(req.Features)
	}
	if err := s.SubscriptionDAO.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("创建订阅商品失败: %w", err)
	}
	// in_stock 列默认 true，Create 会跳过零值并回填库里的 true，只能按请求值补写
	if !inStock {
		if err := s.SubscriptionDAO.Model(ctx).Where("id = ?", sub.ID).Update("in_stock", false).Error; err != nil {
			return nil, fmt.Errorf("创建订阅商品失败: %w", err)
		}
		sub.InStock = false
	}
	return sub, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, id uint64) error {
	rows, err := s.SubscriptionDAO.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("删除订阅商品失败: %w", err)
	}
	if rows == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
