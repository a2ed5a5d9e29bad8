package dao

import (
	"Rewards/models"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Referral struct {
	Repo[models.Referral]
}

func NewReferral(db *gorm.DB) *Referral {
	return &Referral{Repo: NewRepo[models.Referral](db)}
}

// ReferralFilter 邀请列表筛选
type ReferralFilter struct {
	Status string
	Level  int8
	Sort   string // created_at | points_awarded | level
	Desc   bool
	Offset int
	Limit  int
}

var referralSortColumns = map[string]string{
	"created_at":     "created_at",
	"points_awarded": "points_awarded",
	"level":          "level",
}

// AncestorEdges 被邀请人向上的所有关系边，按层级升序
func (r *Referral) AncestorEdges(ctx context.Context, referredID uint64) ([]models.Referral, error) {
	var edges []models.Referral
	err := r.Conn(ctx).Where("referred_id = ?", referredID).Order("level ASC").Find(&edges).Error
	return edges, err
}

// PendingEdgesForUpdate 事务内锁定被邀请人尚未完成的关系
func (r *Referral) PendingEdgesForUpdate(ctx context.Context, referredID uint64) ([]models.Referral, error) {
	var edges []models.Referral
	err := r.Conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("referred_id = ? AND status = ?", referredID, models.ReferralStatusPending).
		Order("level ASC").
		Find(&edges).Error
	return edges, err
}

// MarkCompleted 条件更新，只有 pending 状态会被修改
func (r *Referral) MarkCompleted(ctx context.Context, ref *models.Referral) (int64, error) {
	res := r.Conn(ctx).Model(&models.Referral{}).
		Where("id = ? AND status = ?", ref.ID, models.ReferralStatusPending).
		Updates(map[string]any{
			"status":         ref.Status,
			"points_awarded": ref.PointsAwarded,
			"completed_at":   ref.CompletedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *Referral) CreateEdges(ctx context.Context, edges []models.Referral) error {
	if len(edges) == 0 {
		return nil
	}
	return r.Conn(ctx).Create(&edges).Error
}

func (r *Referral) HasEdge(ctx context.Context, referredID uint64) (bool, error) {
	return r.IsExist(ctx, "referred_id = ?", referredID)
}

// ListByReferrer 邀请人名下的全部关系，用于统计
func (r *Referral) ListByReferrer(ctx context.Context, referrerID uint64) ([]models.Referral, error) {
	var refs []models.Referral
	err := r.Conn(ctx).Where("referrer_id = ?", referrerID).Find(&refs).Error
	return refs, err
}

func (r *Referral) Search(ctx context.Context, referrerID uint64, f ReferralFilter) ([]models.Referral, int64, error) {
	query := r.Conn(ctx).Model(&models.Referral{}).Where("referrer_id = ?", referrerID)
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Level > 0 {
		query = query.Where("level = ?", f.Level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := referralSortColumns[f.Sort]
	if !ok {
		col = "created_at"
	}
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: f.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: f.Desc})

	refs := make([]models.Referral, 0)
	err := query.Offset(f.Offset).Limit(f.Limit).Find(&refs).Error
	return refs, total, err
}

type Earning struct {
	Repo[models.ReferralEarning]
}

func NewEarning(db *gorm.DB) *Earning {
	return &Earning{Repo: NewRepo[models.ReferralEarning](db)}
}

func (e *Earning) CreateBatch(ctx context.Context, rows []models.ReferralEarning) error {
	if len(rows) == 0 {
		return nil
	}
	return e.Conn(ctx).Create(&rows).Error
}

func (e *Earning) ExistsForTransaction(ctx context.Context, transactionID string) (bool, error) {
	return e.IsExist(ctx, "transaction_id = ?", transactionID)
}

func (e *Earning) ListByReferrer(ctx context.Context, referrerID uint64) ([]models.ReferralEarning, error) {
	var rows []models.ReferralEarning
	err := e.Conn(ctx).Where("referrer_id = ?", referrerID).Find(&rows).Error
	return rows, err
}

// Page 游标分页
func (e *Earning) Page(ctx context.Context, referrerID uint64, cursor uint64, limit int) ([]models.ReferralEarning, error) {
	rows := make([]models.ReferralEarning, 0)
	query := e.Conn(ctx).Where("referrer_id = ?", referrerID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// RecentReferrers 最近产生过返佣的邀请人，用于预热统计缓存
func (e *Earning) RecentReferrers(ctx context.Context, since time.Time, limit int) ([]uint64, error) {
	var ids []uint64
	err := e.Conn(ctx).Model(&models.ReferralEarning{}).
		Where("created_at >= ?", since).
		Distinct().
		Limit(limit).
		Pluck("referrer_id", &ids).Error
	return ids, err
}
