package service

import (
	"Rewards/dao"
	"Rewards/models"
	"Rewards/types"
	"context"
	"fmt"
)

// credit 入账并记录流水，(user, source, changeType) 幂等。调用方负责开启事务
func credit(ctx context.Context, points *dao.Point, userID uint64, amount int64, changeType int, sourceID, remark string, status int8) (*models.UserPoint, *models.PointsLog, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	exists, err := points.CheckLogExists(ctx, userID, sourceID, changeType)
	if err != nil {
		return nil, nil, fmt.Errorf("检查积分变动记录失败: %w", err)
	}
	if exists {
		return nil, nil, ErrDuplicateOperation
	}

	if status == models.PointStatusPosted {
		rowsAffected, err := points.UpdateBalance(ctx, userID, amount)
		if err != nil {
			return nil, nil, fmt.Errorf("更新用户积分余额失败: %w", err)
		}
		if rowsAffected == 0 {
			if err := points.CreateAccount(ctx, userID, amount); err != nil {
				// 开户失败必须捕获，防止出现有流水没账户的情况
				return nil, nil, fmt.Errorf("新用户积分账户创建失败: %w", err)
			}
		}
	}

	acc, err := points.GetAccount(ctx, userID)
	if err != nil {
		if !dao.IsNotFound(err) {
			return nil, nil, fmt.Errorf("查询积分账户失败: %w", err)
		}
		// 待入账且尚未开户
		acc = &models.UserPoint{UserID: userID}
	}
	logRecord := &models.PointsLog{
		UserID:     userID,
		Amount:     amount,
		Balance:    acc.Balance,
		ChangeType: int8(changeType),
		SourceID:   sourceID,
		Remark:     remark,
		Status:     status,
	}
	if err := points.CreatePointLog(ctx, logRecord); err != nil {
		return nil, nil, fmt.Errorf("记录积分流水失败: %w", err)
	}
	return acc, logRecord, nil
}

// debit 扣减积分，余额不足直接失败
func debit(ctx context.Context, points *dao.Point, userID uint64, amount int64, changeType int, sourceID, remark string) (*models.UserPoint, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	exists, err := points.CheckLogExists(ctx, userID, sourceID, changeType)
	if err != nil {
		return nil, fmt.Errorf("检查积分变动记录失败: %w", err)
	}
	if exists {
		return nil, ErrDuplicateOperation
	}

	rows, err := points.DeductBalance(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("更新用户积分余额失败: %w", err)
	}
	if rows == 0 {
		if _, err := points.GetAccount(ctx, userID); dao.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, ErrInsufficientBalance
	}

	acc, err := points.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询积分账户失败: %w", err)
	}
	logRecord := &models.PointsLog{
		UserID:     userID,
		Amount:     -amount,
		Balance:    acc.Balance,
		ChangeType: int8(changeType),
		SourceID:   sourceID,
		Remark:     remark,
		Status:     models.PointStatusPosted,
	}
	if err := points.CreatePointLog(ctx, logRecord); err != nil {
		return nil, fmt.Errorf("记录积分流水失败: %w", err)
	}
	return acc, nil
}

// refund 退还已消费积分，同时回退 total_used
func refund(ctx context.Context, points *dao.Point, userID uint64, amount int64, sourceID, remark string) error {
	if amount <= 0 {
		return nil
	}
	exists, err := points.CheckLogExists(ctx, userID, sourceID, models.TypeRedemptionRefund)
	if err != nil {
		return fmt.Errorf("检查积分变动记录失败: %w", err)
	}
	if exists {
		return nil
	}
	rows, err := points.RefundBalance(ctx, userID, amount)
	if err != nil {
		return fmt.Errorf("退还积分失败: %w", err)
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	acc, err := points.GetAccount(ctx, userID)
	if err != nil {
		return fmt.Errorf("查询积分账户失败: %w", err)
	}
	return points.CreatePointLog(ctx, &models.PointsLog{
		UserID:     userID,
		Amount:     amount,
		Balance:    acc.Balance,
		ChangeType: models.TypeRedemptionRefund,
		SourceID:   sourceID,
		Remark:     remark,
		Status:     models.PointStatusPosted,
	})
}

func toAccount(acc *models.UserPoint) *types.PointsAccount {
	if acc == nil {
		return &types.PointsAccount{}
	}
	return &types.PointsAccount{
		Balance:     acc.Balance,
		TotalEarned: int64(acc.TotalEarned),
		TotalUsed:   int64(acc.TotalUsed),
	}
}
