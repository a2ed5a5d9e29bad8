package user

import (
	"Rewards/dao"
	"Rewards/models"
	"context"

	"gorm.io/gorm"
)

// Repository 接口定义
type Repository interface {
	List(ctx context.Context, search, status string, cursor uint64, limit int) ([]UserRow, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status string) (int64, error)
}

// repository 具体实现
type repository struct {
	db *gorm.DB
}

// NewRepository 构造函数
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, search, status string, cursor uint64, limit int) ([]UserRow, error) {
	rows := make([]UserRow, 0)
	query := dao.Conn(ctx, r.db).Table(models.Users{}.TableName() + " AS u").
		Select("u.id, u.email, u.nickname, u.role, u.status, u.created_at, " +
			"COALESCE(p.balance, 0) AS balance, COALESCE(p.total_earned, 0) AS total_earned, COALESCE(p.total_used, 0) AS total_used").
		Joins("LEFT JOIN " + models.UserPoint{}.TableName() + " AS p ON p.user_id = u.id")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("u.email LIKE ? OR u.nickname LIKE ?", like, like)
	}
	if status != "" {
		query = query.Where("u.status = ?", status)
	}
	if cursor > 0 {
		query = query.Where("u.id < ?", cursor)
	}
	err := query.Order("u.id DESC").Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *repository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := dao.Conn(ctx, r.db).Model(&models.Users{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uint64, status string) (int64, error) {
	res := dao.Conn(ctx, r.db).Model(&models.Users{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}
