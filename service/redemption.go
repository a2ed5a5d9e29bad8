package service

import (
	"Rewards/config"
	"Rewards/dao"
	"Rewards/internal/redemption"
	"Rewards/models"
	"Rewards/pkg/log"
	"Rewards/pkg/metrics"
	"Rewards/pkg/rocketmq"
	"Rewards/types"
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RedemptionService struct {
	Config          *config.Config
	DB              *gorm.DB
	RedemptionDAO   *dao.Redemption
	SubscriptionDAO *dao.Subscription
	UserDAO         *dao.Users
	PointDAO        *dao.Point
	Publisher       rocketmq.Publisher
}

var _ IRedemptionService = (*RedemptionService)(nil)

type IRedemptionService interface {
	Create(ctx context.Context, userID, subscriptionID uint64) (*models.RedemptionRequest, error)
	ListMine(ctx context.Context, userID uint64, cursor uint64, limit int) (*types.ListRedemptionsResp, error)
	List(ctx context.Context, req *types.ListRedemptionsReq) (*types.ListRedemptionsResp, error)
	Update(ctx context.Context, req *types.UpdateRedemptionReq) (*models.RedemptionRequest, error)
	CancelStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// Create 扣减积分并生成待处理兑换单
func (s *RedemptionService) Create(ctx context.Context, userID, subscriptionID uint64) (*models.RedemptionRequest, error) {
	var req *models.RedemptionRequest
	err := dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		user, err := s.UserDAO.GetOrCreate(ctx, userID)
		if err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if user.Status == models.UserStatusBanned {
			return ErrUserBanned
		}

		sub, err := s.SubscriptionDAO.FindById(ctx, subscriptionID)
		if err != nil {
			if dao.IsNotFound(err) {
				return ErrSubscriptionNotFound
			}
			return fmt.Errorf("查询订阅商品失败: %w", err)
		}
		if !sub.InStock {
			return ErrOutOfStock
		}

		req = &models.RedemptionRequest{
			UserID:         userID,
			SubscriptionID: sub.ID,
			PointsSpent:    sub.PointsCost,
			Status:         string(redemption.StatusPending),
		}
		if err := s.RedemptionDAO.Create(ctx, req); err != nil {
			return fmt.Errorf("创建兑换单失败: %w", err)
		}
		_, err = debit(ctx, s.PointDAO, userID, sub.PointsCost, models.TypeExchange,
			sourceID(req.ID), "兑换 "+sub.Name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *RedemptionService) ListMine(ctx context.Context, userID uint64, cursor uint64, limit int) (*types.ListRedemptionsResp, error) {
	return s.list(ctx, userID, "", cursor, limit)
}

func (s *RedemptionService) List(ctx context.Context, req *types.ListRedemptionsReq) (*types.ListRedemptionsResp, error) {
	return s.list(ctx, 0, req.Status, req.Cursor, req.Limit)
}

func (s *RedemptionService) list(ctx context.Context, userID uint64, status string, cursor uint64, limit int) (*types.ListRedemptionsResp, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.RedemptionDAO.List(ctx, userID, status, cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("查询兑换单失败: %w", err)
	}
	resp := &types.ListRedemptionsResp{Items: make([]types.RedemptionItem, 0, len(rows))}
	if len(rows) > limit {
		resp.HasMore = true
		rows = rows[:limit]
		resp.NextCursor = rows[len(rows)-1].ID
	}
	for i := range rows {
		resp.Items = append(resp.Items, toRedemptionItem(&rows[i]))
	}
	return resp, nil
}

// Update 管理员处理兑换单。失败和取消会退还积分
func (s *RedemptionService) Update(ctx context.Context, in *types.UpdateRedemptionReq) (*models.RedemptionRequest, error) {
	status, err := redemption.ParseStatus(in.NewStatus)
	if err != nil {
		return nil, err
	}

	var req *models.RedemptionRequest
	err = dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		req, err = s.RedemptionDAO.FindByIdForUpdate(ctx, in.RequestID)
		if err != nil {
			if dao.IsNotFound(err) {
				return ErrRedemptionNotFound
			}
			return fmt.Errorf("查询兑换单失败: %w", err)
		}

		upd := redemption.Update{
			NewStatus:      status,
			ActivationCode: in.ActivationCode,
			Instructions:   in.Instructions,
		}
		if err := redemption.Apply(req, upd, time.Now(), s.Config.Redemption.ActivationValidity()); err != nil {
			return err
		}
		rows, err := s.RedemptionDAO.SaveTransition(ctx, req)
		if err != nil {
			return fmt.Errorf("更新兑换单失败: %w", err)
		}
		if rows == 0 {
			return redemption.ErrTerminalState
		}

		if status.Refundable() {
			return refund(ctx, s.PointDAO, req.UserID, req.PointsSpent, sourceID(req.ID),
				fmt.Sprintf("兑换单 %d %s，积分退还", req.ID, status))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RedemptionTransitions.WithLabelValues(req.Status).Inc()
	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, rocketmq.TagRedemptionUpdated, strconv.FormatUint(req.ID, 10), req); err != nil {
			log.L.Error("publish redemption event failed", zap.Uint64("request_id", req.ID), zap.Error(err))
		}
	}
	return req, nil
}

// CancelStale 取消长时间无人处理的兑换单，单条失败不影响其他
func (s *RedemptionService) CancelStale(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	rows, err := s.RedemptionDAO.StalePending(ctx, time.Now().Add(-olderThan), 100)
	if err != nil {
		return 0, fmt.Errorf("查询超时兑换单失败: %w", err)
	}

	cancelled := 0
	for _, r := range rows {
		_, err := s.Update(ctx, &types.UpdateRedemptionReq{
			RequestID:    r.ID,
			NewStatus:    string(redemption.StatusCancelled),
			Instructions: "超时未处理，系统自动取消",
		})
		if err != nil {
			log.L.Warn("cancel stale redemption failed", zap.Uint64("request_id", r.ID), zap.Error(err))
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

// redemption:<id>，扣减与退还共用，按变动类型区分
func sourceID(id uint64) string {
	return "redemption:" + strconv.FormatUint(id, 10)
}

func toRedemptionItem(r *models.RedemptionRequest) types.RedemptionItem {
	item := types.RedemptionItem{
		ID:             r.ID,
		UserID:         r.UserID,
		SubscriptionID: r.SubscriptionID,
		PointsSpent:    r.PointsSpent,
		Status:         r.Status,
		ActivationCode: r.ActivationCode,
		Instructions:   r.Instructions,
		CreatedAt:      r.CreatedAt.Format(time.DateTime),
	}
	if r.CompletedAt != nil {
		at := r.CompletedAt.Format(time.DateTime)
		item.CompletedAt = &at
	}
	if r.ExpiresAt != nil {
		at := r.ExpiresAt.Format(time.DateTime)
		item.ExpiresAt = &at
	}
	return item
}
