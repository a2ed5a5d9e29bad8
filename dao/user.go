package dao

import (
	"Rewards/models"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Users struct {
	Repo[models.Users]
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{
		Repo: NewRepo[models.Users](db),
	}
}

// GetOrCreate 账号由认证中心签发，本地用户行按需创建
func (u *Users) GetOrCreate(ctx context.Context, userID uint64) (*models.Users, error) {
	user := &models.Users{ID: userID}
	err := u.Conn(ctx).
		Where("id = ?", userID).
		Attrs(models.Users{Role: models.UserRoleUser, Status: models.UserStatusActive}).
		FirstOrCreate(user).Error
	return user, err
}

func (u *Users) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]models.Users, error) {
	out := make(map[uint64]models.Users, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.Users
	if err := u.Conn(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, user := range users {
		out[user.ID] = user
	}
	return out, nil
}

// FindByReferralCode 按邀请码查找邀请人
func (u *Users) FindByReferralCode(ctx context.Context, code string) (*models.Users, error) {
	return u.Repo.FindByWhere(ctx, "referral_code = ?", code)
}

func (u *Users) SetReferralCode(ctx context.Context, userID uint64, code string) error {
	return u.Conn(ctx).Model(&models.Users{}).
		Where("id = ? AND referral_code IS NULL", userID).
		Update("referral_code", code).Error
}

// SetReferredBy 只允许设置一次
func (u *Users) SetReferredBy(ctx context.Context, userID, referrerID uint64) (int64, error) {
	res := u.Conn(ctx).Model(&models.Users{}).
		Where("id = ? AND referred_by IS NULL", userID).
		Update("referred_by", referrerID)
	return res.RowsAffected, res.Error
}

func (u *Users) Update(ctx context.Context, userID uint64, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := u.Conn(ctx).
		Model(&models.Users{}).
		Where("id = ?", userID).
		Updates(updates)

	if res.Error != nil {
		return 0, fmt.Errorf("dao.User.Update error: %w", res.Error)
	}

	return res.RowsAffected, nil
}

// List 后台分页，按 id 倒序的游标
func (u *Users) List(ctx context.Context, search, status string, cursor uint64, limit int) ([]models.Users, error) {
	var users []models.Users
	query := u.Conn(ctx).Model(&models.Users{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR nickname LIKE ?", like, like)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id DESC").Limit(limit).Find(&users).Error
	return users, err
}
