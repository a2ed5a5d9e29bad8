package redemption

import (
	"Rewards/models"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// DefaultValidity 激活码默认有效期
const DefaultValidity = 30 * 24 * time.Hour

var (
	ErrInvalidStatus          = errors.New("invalid redemption status")
	ErrTerminalState          = errors.New("redemption request already finalized")
	ErrActivationCodeRequired = errors.New("activation code is required to complete a redemption")
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Refundable 失败或取消的兑换单需要退还积分
func (s Status) Refundable() bool {
	return s == StatusFailed || s == StatusCancelled
}

// Update 管理员提交的状态变更
type Update struct {
	NewStatus      Status
	ActivationCode string
	Instructions   string
}

// Apply pending → {completed, failed, cancelled}，终态不可再变
func Apply(req *models.RedemptionRequest, upd Update, now time.Time, validity time.Duration) error {
	current, err := ParseStatus(req.Status)
	if err != nil {
		return err
	}
	if current.Terminal() {
		return fmt.Errorf("%w: %s", ErrTerminalState, current)
	}
	if !upd.NewStatus.Terminal() {
		return fmt.Errorf("%w: cannot move to %q", ErrInvalidStatus, upd.NewStatus)
	}
	if validity <= 0 {
		validity = DefaultValidity
	}

	code := strings.TrimSpace(upd.ActivationCode)
	if upd.NewStatus == StatusCompleted && code == "" {
		return ErrActivationCodeRequired
	}

	completedAt := now
	req.Status = string(upd.NewStatus)
	req.CompletedAt = &completedAt
	if upd.Instructions != "" {
		req.Instructions = upd.Instructions
	}

	if upd.NewStatus == StatusCompleted {
		expires := now.Add(validity)
		req.ActivationCode = code
		req.ExpiresAt = &expires
		return nil
	}

	req.ActivationCode = ""
	req.ExpiresAt = nil
	return nil
}
