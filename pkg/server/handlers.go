package server

import (
	"Rewards/handler"
	"Rewards/internal/module/user"
)

type Handlers struct {
	Points     *handler.Point
	Referral   *handler.Referral
	Redemption *handler.Redemption
	Admin      *handler.Admin
	AdminUser  *user.Handler
}
