package referral

import (
	"Rewards/models"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
)

// MaxDepth 返佣最多向上追溯的层级
const MaxDepth = 3

var (
	ErrInvalidLevel  = errors.New("referral level must be between 1 and 3")
	ErrInvalidPoints = errors.New("transaction points must be positive")
	ErrChainTooLong  = errors.New("ancestor chain deeper than 3 levels")
	ErrDuplicateTier = errors.New("ancestor chain repeats a level")
	ErrSelfReferral  = errors.New("user cannot refer themselves")
	ErrCircularChain = errors.New("ancestor appears more than once in chain")
)

// Tier 某一层级的奖励规则
type Tier struct {
	Level      int8
	Bonus      int64   // 下级完成首个任务时给上级的固定奖励
	Percentage float64 // 下级每笔收入的返佣百分比
}

var schedule = [MaxDepth]Tier{
	{Level: 1, Bonus: 500, Percentage: 10},
	{Level: 2, Bonus: 200, Percentage: 5},
	{Level: 3, Bonus: 100, Percentage: 2},
}

// Schedule 返回完整的分层规则副本
func Schedule() []Tier {
	out := make([]Tier, MaxDepth)
	copy(out, schedule[:])
	return out
}

func tierFor(level int8) (Tier, error) {
	if level < 1 || level > MaxDepth {
		return Tier{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	return schedule[level-1], nil
}

func BonusFor(level int8) (int64, error) {
	t, err := tierFor(level)
	return t.Bonus, err
}

func PercentageFor(level int8) (float64, error) {
	t, err := tierFor(level)
	return t.Percentage, err
}

// RateFor 返回小数形式的返佣比例，如 0.10
func RateFor(level int8) (float64, error) {
	p, err := PercentageFor(level)
	return p / 100, err
}

// Transaction 一笔可返佣的积分收入
type Transaction struct {
	ID     string
	UserID uint64
	Points int64
}

// Ancestor 交易用户的某一层上级
type Ancestor struct {
	UserID uint64
	Level  int8
}

// ValidateChain 检查自邀与环路
func ValidateChain(userID uint64, chain []Ancestor) error {
	if len(chain) > MaxDepth {
		return ErrChainTooLong
	}
	seenUser := make(map[uint64]struct{}, len(chain))
	seenLevel := make(map[int8]struct{}, len(chain))
	for _, a := range chain {
		if _, err := tierFor(a.Level); err != nil {
			return err
		}
		if a.UserID == userID {
			return ErrSelfReferral
		}
		if _, ok := seenUser[a.UserID]; ok {
			return ErrCircularChain
		}
		if _, ok := seenLevel[a.Level]; ok {
			return ErrDuplicateTier
		}
		seenUser[a.UserID] = struct{}{}
		seenLevel[a.Level] = struct{}{}
	}
	return nil
}

// CommissionPoints round(points × rate)，四舍五入
func CommissionPoints(points int64, level int8) (int64, error) {
	p, err := PercentageFor(level)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(float64(points) * p / 100)), nil
}

// ComputeCommission 为链上每个上级生成一条返佣记录，链长为 k 则恰好返回 k 条
func ComputeCommission(tx Transaction, chain []Ancestor) ([]models.ReferralEarning, error) {
	if tx.Points <= 0 {
		return nil, ErrInvalidPoints
	}
	if err := ValidateChain(tx.UserID, chain); err != nil {
		return nil, err
	}

	earnings := make([]models.ReferralEarning, 0, len(chain))
	for _, a := range chain {
		t, _ := tierFor(a.Level)
		commission, _ := CommissionPoints(tx.Points, a.Level)
		earnings = append(earnings, models.ReferralEarning{
			ReferrerID:           a.UserID,
			ReferredID:           tx.UserID,
			TransactionID:        tx.ID,
			OriginalPoints:       tx.Points,
			CommissionPercentage: t.Percentage,
			CommissionPoints:     commission,
			Level:                t.Level,
		})
	}
	return earnings, nil
}

// AwardSignupBonus pending→completed，返回应发放的奖励；已完成的记录不会重复发放
func AwardSignupBonus(ref *models.Referral, now time.Time) (int64, bool, error) {
	if ref.Status == models.ReferralStatusCompleted {
		return 0, false, nil
	}
	bonus, err := BonusFor(ref.Level)
	if err != nil {
		return 0, false, err
	}
	ref.Status = models.ReferralStatusCompleted
	ref.PointsAwarded = bonus
	ref.CompletedAt = &now
	return bonus, true, nil
}

// Link 生成邀请链接 <origin>/register?ref=<code>
func Link(origin, code string) string {
	return strings.TrimRight(origin, "/") + "/register?ref=" + url.QueryEscape(code)
}
