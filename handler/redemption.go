package handler

import (
	"Rewards/config"
	"Rewards/middleware"
	"Rewards/pkg/context"
	"Rewards/pkg/response"
	"Rewards/service"
	"Rewards/types"

	"github.com/gin-gonic/gin"
)

// Redemption 用户侧的订阅商品与兑换
type Redemption struct {
	Config              *config.Config
	RedemptionService   service.IRedemptionService
	SubscriptionService service.ISubscriptionService
}

func (h *Redemption) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	r.GET("/v1/subscriptions", authorize, context.Wrap(h.Subscriptions))
	g := r.Group("/v1/redemptions", authorize)
	g.GET("", context.Wrap(h.List))
	g.POST("", context.Wrap(h.Create))
}

func (h *Redemption) Subscriptions(c *gin.Context) error {
	subs, err := h.SubscriptionService.List(c.Request.Context(), false)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, subs)
	return nil
}

func (h *Redemption) List(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	var req types.CursorReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	resp, err := h.RedemptionService.ListMine(c.Request.Context(), uid, req.Cursor, req.Limit)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (h *Redemption) Create(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	var req types.CreateRedemptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	resp, err := h.RedemptionService.Create(c.Request.Context(), uid, req.SubscriptionID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}
