package service

import "errors"

var (
	ErrInvalidAmount        = errors.New("积分数额必须大于0")
	ErrDuplicateOperation   = errors.New("该业务已处理，请勿重复操作")
	ErrAccountNotFound      = errors.New("用户积分账户不存在")
	ErrPointLogNotFound     = errors.New("积分流水不存在")
	ErrInsufficientBalance  = errors.New("积分余额不足")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrUserBanned           = errors.New("用户已被禁用")
	ErrReferralCodeNotFound = errors.New("邀请码不存在")
	ErrAlreadyReferred      = errors.New("该用户已绑定邀请人")
	ErrSubscriptionNotFound = errors.New("订阅商品不存在")
	ErrOutOfStock           = errors.New("订阅商品已售罄")
	ErrRedemptionNotFound   = errors.New("兑换单不存在")
)
