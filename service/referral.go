package service

import (
	"Rewards/config"
	"Rewards/dao"
	"Rewards/internal/referral"
	"Rewards/models"
	"Rewards/pkg/log"
	"Rewards/pkg/metrics"
	"Rewards/pkg/rocketmq"
	"Rewards/pkg/utils"
	"Rewards/types"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReferralStatsCache 邀请统计缓存
type ReferralStatsCache interface {
	Get(ctx context.Context, uid uint64) (*referral.Stats, bool)
	Set(ctx context.Context, uid uint64, stats *referral.Stats, ttl time.Duration)
	Del(ctx context.Context, uids ...uint64)
}

type ReferralService struct {
	Config      *config.Config
	DB          *gorm.DB
	UserDAO     *dao.Users
	ReferralDAO *dao.Referral
	EarningDAO  *dao.Earning
	PointDAO    *dao.Point
	Cache       ReferralStatsCache
	Publisher   rocketmq.Publisher
}

var _ IReferralService = (*ReferralService)(nil)

type IReferralService interface {
	EnsureCode(ctx context.Context, userID uint64) (string, error)
	Link(ctx context.Context, userID uint64) (*types.ReferralLink, error)
	Register(ctx context.Context, userID uint64, code string) (*types.RegisterReferralResp, error)

	// 以下两个方法需在积分入账的事务中调用
	CompleteReferrals(ctx context.Context, userID uint64) ([]models.Referral, error)
	AccrueCommission(ctx context.Context, tx referral.Transaction) ([]models.ReferralEarning, error)
	// Notify 事务提交后调用：指标、缓存失效、事件
	Notify(ctx context.Context, completed []models.Referral, earnings []models.ReferralEarning)

	Stats(ctx context.Context, userID uint64) *referral.Stats
	RefreshStats(ctx context.Context, userID uint64) error
	ListReferrals(ctx context.Context, userID uint64, req *types.ListReferralsReq) (*types.ListReferralsResp, error)
	ListEarnings(ctx context.Context, userID uint64, cursor uint64, limit int) (*types.ListEarningsResp, error)
}

func (s *ReferralService) EnsureCode(ctx context.Context, userID uint64) (string, error) {
	user, err := s.UserDAO.GetOrCreate(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("查询用户失败: %w", err)
	}
	if user.ReferralCode != nil && *user.ReferralCode != "" {
		return *user.ReferralCode, nil
	}

	rc := s.Config.Referral
	code, err := utils.GenHashID(rc.HashSalt, rc.CodeMinLength, userID)
	if err != nil {
		return "", fmt.Errorf("生成邀请码失败: %w", err)
	}
	if err := s.UserDAO.SetReferralCode(ctx, userID, code); err != nil {
		return "", fmt.Errorf("保存邀请码失败: %w", err)
	}
	return code, nil
}

func (s *ReferralService) Link(ctx context.Context, userID uint64) (*types.ReferralLink, error) {
	code, err := s.EnsureCode(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &types.ReferralLink{
		Code: code,
		Link: referral.Link(s.Config.Referral.LinkOrigin, code),
	}, nil
}

// Register 新用户填写邀请码，沿邀请人的上级关系最多建立三层
func (s *ReferralService) Register(ctx context.Context, userID uint64, code string) (*types.RegisterReferralResp, error) {
	var resp *types.RegisterReferralResp
	err := dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		user, err := s.UserDAO.GetOrCreate(ctx, userID)
		if err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if user.ReferredBy != nil {
			return ErrAlreadyReferred
		}

		referrer, err := s.UserDAO.FindByReferralCode(ctx, code)
		if err != nil {
			if dao.IsNotFound(err) {
				return ErrReferralCodeNotFound
			}
			return fmt.Errorf("查询邀请人失败: %w", err)
		}
		if referrer.ID == userID {
			return referral.ErrSelfReferral
		}
		if referrer.Status == models.UserStatusBanned {
			return ErrUserBanned
		}

		exists, err := s.ReferralDAO.HasEdge(ctx, userID)
		if err != nil {
			return fmt.Errorf("查询邀请关系失败: %w", err)
		}
		if exists {
			return ErrAlreadyReferred
		}

		// 邀请人自己的上级顺延一层
		upper, err := s.ReferralDAO.AncestorEdges(ctx, referrer.ID)
		if err != nil {
			return fmt.Errorf("查询上级关系失败: %w", err)
		}
		chain := []referral.Ancestor{{UserID: referrer.ID, Level: 1}}
		for _, e := range upper {
			if e.Level >= referral.MaxDepth {
				continue
			}
			chain = append(chain, referral.Ancestor{UserID: e.ReferrerID, Level: e.Level + 1})
		}
		if err := referral.ValidateChain(userID, chain); err != nil {
			return err
		}

		edges := make([]models.Referral, 0, len(chain))
		for _, a := range chain {
			edges = append(edges, models.Referral{
				ReferrerID:   a.UserID,
				ReferredID:   userID,
				ReferralCode: code,
				Level:        a.Level,
				Status:       models.ReferralStatusPending,
			})
		}
		if err := s.ReferralDAO.CreateEdges(ctx, edges); err != nil {
			if dao.IsDuplicate(err) {
				return ErrAlreadyReferred
			}
			return fmt.Errorf("创建邀请关系失败: %w", err)
		}
		rows, err := s.UserDAO.SetReferredBy(ctx, userID, referrer.ID)
		if err != nil {
			return fmt.Errorf("绑定邀请人失败: %w", err)
		}
		if rows == 0 {
			return ErrAlreadyReferred
		}

		resp = &types.RegisterReferralResp{ReferrerID: referrer.ID, Levels: len(edges)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uids := make([]uint64, 0, referral.MaxDepth)
	edges, _ := s.ReferralDAO.AncestorEdges(ctx, userID)
	for _, e := range edges {
		uids = append(uids, e.ReferrerID)
	}
	s.invalidate(ctx, uids...)
	return resp, nil
}

// CompleteReferrals 被邀请人完成首个任务，给每一层上级发放一次性奖励
func (s *ReferralService) CompleteReferrals(ctx context.Context, userID uint64) ([]models.Referral, error) {
	var completed []models.Referral
	err := dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		edges, err := s.ReferralDAO.PendingEdgesForUpdate(ctx, userID)
		if err != nil {
			return fmt.Errorf("查询待完成邀请失败: %w", err)
		}
		now := time.Now()
		for i := range edges {
			ref := &edges[i]
			bonus, awarded, err := referral.AwardSignupBonus(ref, now)
			if err != nil {
				return err
			}
			if !awarded {
				continue
			}
			rows, err := s.ReferralDAO.MarkCompleted(ctx, ref)
			if err != nil {
				return fmt.Errorf("更新邀请状态失败: %w", err)
			}
			// 并发下已被其他事务完成
			if rows == 0 {
				continue
			}
			_, _, err = credit(ctx, s.PointDAO, ref.ReferrerID, bonus, models.TypeReferralBonus,
				"referral:"+strconv.FormatUint(ref.ID, 10),
				fmt.Sprintf("邀请奖励（第%d层）", ref.Level), models.PointStatusPosted)
			if err != nil && !errors.Is(err, ErrDuplicateOperation) {
				return err
			}
			completed = append(completed, *ref)
		}
		return nil
	})
	return completed, err
}

// AccrueCommission 按上级链生成返佣记录并入账，同一笔交易只处理一次
func (s *ReferralService) AccrueCommission(ctx context.Context, tx referral.Transaction) ([]models.ReferralEarning, error) {
	var earnings []models.ReferralEarning
	err := dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		exists, err := s.EarningDAO.ExistsForTransaction(ctx, tx.ID)
		if err != nil {
			return fmt.Errorf("查询返佣记录失败: %w", err)
		}
		if exists {
			return nil
		}

		edges, err := s.ReferralDAO.AncestorEdges(ctx, tx.UserID)
		if err != nil {
			return fmt.Errorf("查询上级关系失败: %w", err)
		}
		if len(edges) == 0 {
			return nil
		}
		chain := make([]referral.Ancestor, 0, len(edges))
		for _, e := range edges {
			chain = append(chain, referral.Ancestor{UserID: e.ReferrerID, Level: e.Level})
		}

		rows, err := referral.ComputeCommission(tx, chain)
		if err != nil {
			return err
		}
		if err := s.EarningDAO.CreateBatch(ctx, rows); err != nil {
			if dao.IsDuplicate(err) {
				return nil
			}
			return fmt.Errorf("写入返佣记录失败: %w", err)
		}

		for _, e := range rows {
			// 四舍五入后为 0 的只留记录不入账
			if e.CommissionPoints <= 0 {
				continue
			}
			_, _, err := credit(ctx, s.PointDAO, e.ReferrerID, e.CommissionPoints, models.TypeReferralCommission,
				e.TransactionID, fmt.Sprintf("下级返佣（第%d层，%.0f%%）", e.Level, e.CommissionPercentage),
				models.PointStatusPosted)
			if err != nil && !errors.Is(err, ErrDuplicateOperation) {
				return err
			}
		}
		earnings = rows
		return nil
	})
	return earnings, err
}

func (s *ReferralService) Notify(ctx context.Context, completed []models.Referral, earnings []models.ReferralEarning) {
	uids := make([]uint64, 0, len(completed)+len(earnings))
	for _, r := range completed {
		level := strconv.Itoa(int(r.Level))
		metrics.ReferralBonusPoints.WithLabelValues(level).Add(float64(r.PointsAwarded))
		uids = append(uids, r.ReferrerID)
		s.publish(ctx, rocketmq.TagReferralCompleted, strconv.FormatUint(r.ID, 10), r)
	}
	for _, e := range earnings {
		level := strconv.Itoa(int(e.Level))
		metrics.CommissionPoints.WithLabelValues(level).Add(float64(e.CommissionPoints))
		uids = append(uids, e.ReferrerID)
	}
	if len(earnings) > 0 {
		s.publish(ctx, rocketmq.TagCommissionAccrued, earnings[0].TransactionID, earnings)
	}
	s.invalidate(ctx, uids...)
}

// Stats 统一超时下并发读取关系与返佣，失败时返回降级的零值
func (s *ReferralService) Stats(ctx context.Context, userID uint64) *referral.Stats {
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, userID); ok {
			return cached
		}
	}

	stats, err := s.loadStats(ctx, userID)
	if err != nil {
		log.L.Warn("load referral stats failed", zap.Uint64("user_id", userID), zap.Error(err))
		metrics.StatsDegraded.Inc()
		return &referral.Stats{Degraded: true}
	}
	if s.Cache != nil && s.Config.Referral.CacheTTL() > 0 {
		s.Cache.Set(ctx, userID, stats, s.Config.Referral.CacheTTL())
	}
	return stats
}

// RefreshStats 跳过缓存重新计算并写回
func (s *ReferralService) RefreshStats(ctx context.Context, userID uint64) error {
	stats, err := s.loadStats(ctx, userID)
	if err != nil {
		return err
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, userID, stats, s.Config.Referral.CacheTTL())
	}
	return nil
}

func (s *ReferralService) loadStats(ctx context.Context, userID uint64) (*referral.Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Config.Referral.QueryTimeout())
	defer cancel()

	var (
		refs     []models.Referral
		earnings []models.ReferralEarning
	)
	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		refs, err = s.ReferralDAO.ListByReferrer(ctx, userID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		earnings, err = s.EarningDAO.ListByReferrer(ctx, userID)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}
	stats := referral.Project(refs, earnings)
	return &stats, nil
}

func (s *ReferralService) ListReferrals(ctx context.Context, userID uint64, req *types.ListReferralsReq) (*types.ListReferralsResp, error) {
	page, size := req.Page, req.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	refs, total, err := s.ReferralDAO.Search(ctx, userID, dao.ReferralFilter{
		Status: req.Status,
		Level:  req.Level,
		Sort:   req.Sort,
		Desc:   req.Order != "asc",
		Offset: (page - 1) * size,
		Limit:  size,
	})
	if err != nil {
		return nil, fmt.Errorf("查询邀请列表失败: %w", err)
	}

	ids := make([]uint64, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ReferredID)
	}
	users, err := s.UserDAO.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("查询用户信息失败: %w", err)
	}

	items := make([]types.ReferralItem, 0, len(refs))
	for _, r := range refs {
		item := types.ReferralItem{
			ID:            r.ID,
			ReferredID:    r.ReferredID,
			Nickname:      users[r.ReferredID].Nickname,
			Level:         r.Level,
			Status:        r.Status,
			PointsAwarded: r.PointsAwarded,
			CreatedAt:     r.CreatedAt.Format(time.DateTime),
		}
		if r.CompletedAt != nil {
			at := r.CompletedAt.Format(time.DateTime)
			item.CompletedAt = &at
		}
		items = append(items, item)
	}
	return &types.ListReferralsResp{Items: items, Total: total, Page: page}, nil
}

func (s *ReferralService) ListEarnings(ctx context.Context, userID uint64, cursor uint64, limit int) (*types.ListEarningsResp, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.EarningDAO.Page(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, fmt.Errorf("查询返佣记录失败: %w", err)
	}

	resp := &types.ListEarningsResp{Items: make([]types.EarningItem, 0, len(rows))}
	if len(rows) > limit {
		resp.HasMore = true
		rows = rows[:limit]
		resp.NextCursor = rows[len(rows)-1].ID
	}
	for _, e := range rows {
		resp.Items = append(resp.Items, types.EarningItem{
			ID:                   e.ID,
			ReferredID:           e.ReferredID,
			TransactionID:        e.TransactionID,
			OriginalPoints:       e.OriginalPoints,
			CommissionPercentage: e.CommissionPercentage,
			CommissionPoints:     e.CommissionPoints,
			Level:                e.Level,
			CreatedAt:            e.CreatedAt.Format(time.DateTime),
		})
	}
	return resp, nil
}

func (s *ReferralService) invalidate(ctx context.Context, uids ...uint64) {
	if s.Cache == nil || len(uids) == 0 {
		return
	}
	s.Cache.Del(ctx, uids...)
}

func (s *ReferralService) publish(ctx context.Context, tag, key string, payload any) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, tag, key, payload); err != nil {
		log.L.Error("publish event failed", zap.String("tag", tag), zap.String("key", key), zap.Error(err))
	}
}
