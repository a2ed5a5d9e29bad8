package user

import "github.com/google/wire"

// ProviderSet 后台用户模块的构造函数
var ProviderSet = wire.NewSet(
	NewRepository,
	NewService,
	NewHandler,
)
