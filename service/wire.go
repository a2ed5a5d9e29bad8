package service

import (
	"Rewards/dao/cache"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(PointService), "*"),
	wire.Bind(new(IPointService), new(*PointService)),

	wire.Struct(new(ReferralService), "*"),
	wire.Bind(new(IReferralService), new(*ReferralService)),
	wire.Bind(new(ReferralStatsCache), new(*cache.ReferralStatsStorage)),

	wire.Struct(new(SubscriptionService), "*"),
	wire.Bind(new(ISubscriptionService), new(*SubscriptionService)),

	wire.Struct(new(RedemptionService), "*"),
	wire.Bind(new(IRedemptionService), new(*RedemptionService)),
)
