package user

import (
	"Rewards/models"
	"Rewards/pkg/snowflake"
	"Rewards/service"
	"Rewards/types"
	"context"
	"fmt"
	"time"
)

// Service 接口
type Service interface {
	List(ctx context.Context, req *ListUsersRequest) (*ListUsersResponse, error)
	UpdatePoints(ctx context.Context, req *UpdatePointsRequest) (*types.PointsAccount, error)
	UpdateStatus(ctx context.Context, req *UpdateStatusRequest) error
}

// service 实现
type userService struct {
	repo   Repository
	points service.IPointService
}

// NewService 构造函数
// 参数 Repository 会由 Wire 自动从 NewRepository() 注入进来
func NewService(repo Repository, points service.IPointService) Service {
	return &userService{repo: repo, points: points}
}

func (s *userService) List(ctx context.Context, req *ListUsersRequest) (*ListUsersResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.repo.List(ctx, req.Search, req.Status, req.Cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("查询用户列表失败: %w", err)
	}

	resp := &ListUsersResponse{Items: make([]UserResponse, 0, len(rows))}
	if len(rows) > limit {
		resp.HasMore = true
		rows = rows[:limit]
		resp.NextCursor = rows[len(rows)-1].ID
	}
	for _, r := range rows {
		resp.Items = append(resp.Items, UserResponse{
			ID:          r.ID,
			Email:       r.Email,
			Nickname:    r.Nickname,
			Role:        r.Role,
			Status:      r.Status,
			Balance:     r.Balance,
			TotalEarned: int64(r.TotalEarned),
			TotalUsed:   int64(r.TotalUsed),
			CreatedAt:   r.CreatedAt.Format(time.DateTime),
		})
	}
	return resp, nil
}

// UpdatePoints 人工调整走积分流水，每次调整生成唯一来源ID
func (s *userService) UpdatePoints(ctx context.Context, req *UpdatePointsRequest) (*types.PointsAccount, error) {
	if req.Delta == 0 {
		return nil, service.ErrInvalidAmount
	}
	ok, err := s.repo.Exists(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if !ok {
		return nil, service.ErrUserNotFound
	}

	remark := req.Reason
	if remark == "" {
		remark = "管理员调整"
	}
	sourceID := snowflake.GenSourceID("adj:")
	if req.Delta > 0 {
		return s.points.RewardPoints(ctx, req.UserID, req.Delta, models.TypeSystemCompensate, sourceID, remark, false)
	}
	return s.points.ConsumePoints(ctx, req.UserID, -req.Delta, models.TypeSystemCompensate, sourceID, remark)
}

func (s *userService) UpdateStatus(ctx context.Context, req *UpdateStatusRequest) error {
	if req.Status != models.UserStatusActive && req.Status != models.UserStatusBanned {
		return fmt.Errorf("%w: %s", errInvalidStatus, req.Status)
	}
	rows, err := s.repo.UpdateStatus(ctx, req.UserID, req.Status)
	if err != nil {
		return fmt.Errorf("更新用户状态失败: %w", err)
	}
	if rows == 0 {
		ok, err := s.repo.Exists(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if !ok {
			return service.ErrUserNotFound
		}
	}
	return nil
}
