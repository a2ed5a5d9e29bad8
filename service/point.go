package service

import (
	"Rewards/config"
	"Rewards/dao"
	"Rewards/internal/referral"
	"Rewards/models"
	"Rewards/types"
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
)

type PointService struct {
	Config   *config.Config
	DB       *gorm.DB
	PointDAO *dao.Point
	Referral IReferralService
}

var _ IPointService = (*PointService)(nil)

type IPointService interface {
	ConsumePoints(ctx context.Context, userID uint64, amount int64, changeType int, sourceID string, remark string) (*types.PointsAccount, error)
	RewardPoints(ctx context.Context, userID uint64, amount int64, changeType int, sourceID string, remark string, isPending bool) (*types.PointsAccount, error)
	SettlePoints(ctx context.Context, userID uint64, changeType int, sourceID string) (*types.PointsAccount, error)

	// 查询
	GetAccountDashboard(ctx context.Context, userID uint64) (*types.PointsAccount, error)
	ListPointRecords(ctx context.Context, userID uint64, action string, cursor int64, limit int) (*types.ListPointsRecord, error)
}

// RewardPoints 入账。可返佣类型的正式入账会在同一事务内完成邀请关系并给上级返佣
func (p *PointService) RewardPoints(ctx context.Context, userID uint64, amount int64, changeType int, sourceID string, remark string, isPending bool) (*types.PointsAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	targetStatus := models.PointStatusPosted
	if isPending {
		targetStatus = models.PointStatusPending
	}

	var (
		finalAccount *models.UserPoint
		completed    []models.Referral
		earnings     []models.ReferralEarning
	)
	err := dao.Transaction(ctx, p.DB, func(ctx context.Context) error {
		acc, logRecord, err := credit(ctx, p.PointDAO, userID, amount, changeType, sourceID, remark, targetStatus)
		if err != nil {
			return err
		}
		finalAccount = acc

		if isPending {
			return nil
		}
		completed, earnings, err = p.propagate(ctx, logRecord)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, completed, earnings)
	return toAccount(finalAccount), nil
}

// SettlePoints 待入账流水转正式入账，之后与直接入账走同一条邀请/返佣链路
func (p *PointService) SettlePoints(ctx context.Context, userID uint64, changeType int, sourceID string) (*types.PointsAccount, error) {
	var (
		finalAccount *models.UserPoint
		completed    []models.Referral
		earnings     []models.ReferralEarning
	)
	err := dao.Transaction(ctx, p.DB, func(ctx context.Context) error {
		logRecord, err := p.PointDAO.FindLogForUpdate(ctx, userID, sourceID, changeType)
		if err != nil {
			if dao.IsNotFound(err) {
				return ErrPointLogNotFound
			}
			return fmt.Errorf("查询积分流水失败: %w", err)
		}
		if logRecord.Status != models.PointStatusPending {
			return ErrDuplicateOperation
		}

		rows, err := p.PointDAO.UpdateBalance(ctx, userID, logRecord.Amount)
		if err != nil {
			return fmt.Errorf("更新用户积分余额失败: %w", err)
		}
		if rows == 0 {
			if err := p.PointDAO.CreateAccount(ctx, userID, logRecord.Amount); err != nil {
				return fmt.Errorf("新用户积分账户创建失败: %w", err)
			}
		}
		acc, err := p.PointDAO.GetAccount(ctx, userID)
		if err != nil {
			return fmt.Errorf("查询积分账户失败: %w", err)
		}
		finalAccount = acc

		rows, err = p.PointDAO.MarkLogPosted(ctx, logRecord.ID, acc.Balance)
		if err != nil {
			return fmt.Errorf("更新积分流水失败: %w", err)
		}
		if rows == 0 {
			return ErrDuplicateOperation
		}
		logRecord.Status = models.PointStatusPosted

		completed, earnings, err = p.propagate(ctx, logRecord)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, completed, earnings)
	return toAccount(finalAccount), nil
}

// propagate 正式入账的可返佣流水：完成邀请关系并给上级返佣，须在入账事务内调用
func (p *PointService) propagate(ctx context.Context, logRecord *models.PointsLog) ([]models.Referral, []models.ReferralEarning, error) {
	if p.Referral == nil || !models.IsCommissionable(int(logRecord.ChangeType)) {
		return nil, nil, nil
	}
	// 首个可返佣收入即视为完成首个任务
	completed, err := p.Referral.CompleteReferrals(ctx, logRecord.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("完成邀请关系失败: %w", err)
	}
	earnings, err := p.Referral.AccrueCommission(ctx, referral.Transaction{
		ID:     "pl:" + strconv.FormatUint(logRecord.ID, 10),
		UserID: logRecord.UserID,
		Points: logRecord.Amount,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("计算返佣失败: %w", err)
	}
	return completed, earnings, nil
}

func (p *PointService) notify(ctx context.Context, completed []models.Referral, earnings []models.ReferralEarning) {
	if p.Referral != nil && (len(completed) > 0 || len(earnings) > 0) {
		p.Referral.Notify(ctx, completed, earnings)
	}
}

func (p *PointService) ConsumePoints(ctx context.Context, userID uint64, amount int64, changeType int, sourceID string, remark string) (*types.PointsAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var finalAccount *models.UserPoint
	err := dao.Transaction(ctx, p.DB, func(ctx context.Context) error {
		acc, err := debit(ctx, p.PointDAO, userID, amount, changeType, sourceID, remark)
		finalAccount = acc
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAccount(finalAccount), nil
}

func (p *PointService) GetAccountDashboard(ctx context.Context, userID uint64) (*types.PointsAccount, error) {
	account, err := p.PointDAO.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 如果没记录，说明是新用户，直接返回初始状态
			return &types.PointsAccount{}, nil
		}
		return nil, fmt.Errorf("查询积分账户失败: %w", err)
	}
	resp := toAccount(account)
	pCount, pAmount, err := p.PointDAO.GetPendingStats(ctx, userID)
	if err == nil {
		resp.PendingCount, resp.PendingAmount = pCount, pAmount
	}
	return resp, nil
}

func (p *PointService) ListPointRecords(ctx context.Context, userID uint64, action string, cursor int64, limit int) (*types.ListPointsRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	logs, err := p.PointDAO.ListRecords(ctx, userID, action, cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("查询积分流水失败: %w", err)
	}

	resp := &types.ListPointsRecord{
		Records: make([]types.PointRecord, 0),
		HasMore: false,
	}

	if len(logs) > limit {
		resp.HasMore = true
		logs = logs[:limit]
		resp.NextCursor = int64(logs[len(logs)-1].ID)
	}

	for _, l := range logs {
		orderType := "INCOME"
		if l.Amount < 0 {
			orderType = "EXPENSE"
		}
		resp.Records = append(resp.Records, types.PointRecord{
			ID:          int64(l.ID),
			Amount:      l.Amount,
			Balance:     l.Balance,
			Description: l.Remark,
			ChangeType:  int(l.ChangeType),
			OrderType:   orderType,
			Status:      int(l.Status),
			CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return resp, nil
}
