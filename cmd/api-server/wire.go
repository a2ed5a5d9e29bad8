//go:build wireinject
// +build wireinject

package main

import (
	"Rewards/config"
	"Rewards/dao"
	"Rewards/dao/cache"
	"Rewards/handler"
	"Rewards/internal/module/user"
	"Rewards/pkg/client"
	"Rewards/pkg/database"
	"Rewards/pkg/rocketmq"
	"Rewards/pkg/server"
	"Rewards/service"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	database.NewDB,
	client.NewRedisClient,
	config.ProvideRocketMQConfig,
	rocketmq.InitProducer,
	cache.ProviderSet,
	dao.ProviderSet,
	service.ProviderSet,
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(
		infraSet,
		user.ProviderSet,
		server.NewGinEngine,
		wire.Struct(new(handler.Point), "*"),
		wire.Struct(new(handler.Referral), "*"),
		wire.Struct(new(handler.Redemption), "*"),
		wire.Struct(new(handler.Admin), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),
	)
	return nil
}

func InitWorker(cfg *config.Config) *server.Worker {
	wire.Build(
		infraSet,
		wire.Struct(new(server.Worker), "*"),
	)
	return nil
}
