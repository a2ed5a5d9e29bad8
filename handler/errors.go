package handler

import (
	"Rewards/internal/redemption"
	"Rewards/internal/referral"
	"Rewards/pkg/response"
	"Rewards/service"
	"errors"
	"net/http"
)

var errStatus = []struct {
	err    error
	status int
}{
	{service.ErrInvalidAmount, http.StatusBadRequest},
	{referral.ErrSelfReferral, http.StatusBadRequest},
	{referral.ErrCircularChain, http.StatusBadRequest},
	{referral.ErrInvalidLevel, http.StatusBadRequest},
	{referral.ErrInvalidPoints, http.StatusBadRequest},
	{redemption.ErrInvalidStatus, http.StatusBadRequest},
	{redemption.ErrActivationCodeRequired, http.StatusBadRequest},

	{service.ErrUserBanned, http.StatusForbidden},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrAccountNotFound, http.StatusNotFound},
	{service.ErrPointLogNotFound, http.StatusNotFound},
	{service.ErrReferralCodeNotFound, http.StatusNotFound},
	{service.ErrSubscriptionNotFound, http.StatusNotFound},
	{service.ErrRedemptionNotFound, http.StatusNotFound},

	{service.ErrDuplicateOperation, http.StatusConflict},
	{service.ErrInsufficientBalance, http.StatusConflict},
	{service.ErrAlreadyReferred, http.StatusConflict},
	{service.ErrOutOfStock, http.StatusConflict},
	{redemption.ErrTerminalState, http.StatusConflict},
}

// bizError 把业务哨兵错误转换为带状态码的响应，其余错误按 500 处理
func bizError(err error) error {
	var be *response.BizError
	if errors.As(err, &be) {
		return be
	}
	for _, m := range errStatus {
		if errors.Is(err, m.err) {
			return response.NewError(m.status, err.Error())
		}
	}
	return response.Internal(err.Error())
}

func errUnknownAction(action string) error {
	return response.BadRequest("不支持的 action: " + action)
}
