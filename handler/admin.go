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

// Admin 后台订阅商品与兑换单管理，通过 ?action= 区分操作
type Admin struct {
	Config              *config.Config
	SubscriptionService service.ISubscriptionService
	RedemptionService   service.IRedemptionService
}

func (h *Admin) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	g := r.Group("/v1/admin", authorize, middleware.RequireAdmin())
	g.GET("/subscriptions", context.Wrap(h.SubscriptionsQuery))
	g.POST("/subscriptions", context.Wrap(h.SubscriptionsCommand))
	g.GET("/redemptions", context.Wrap(h.RedemptionsQuery))
	g.POST("/redemptions", context.Wrap(h.RedemptionsCommand))
}

func (h *Admin) SubscriptionsQuery(c *gin.Context) error {
	switch action := c.DefaultQuery("action", "list"); action {
	case "list":
		subs, err := h.SubscriptionService.List(c.Request.Context(), true)
		if err != nil {
			return bizError(err)
		}
		response.Success(c, subs)
		return nil
	default:
		return errUnknownAction(action)
	}
}

func (h *Admin) SubscriptionsCommand(c *gin.Context) error {
	ctx := c.Request.Context()
	switch action := c.Query("action"); action {
	case "toggle":
		var req types.SubscriptionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return response.BadRequest(err.Error())
		}
		sub, err := h.SubscriptionService.Toggle(ctx, req.ID)
		if err != nil {
			return bizError(err)
		}
		response.Success(c, sub)
	case "add":
		var req types.AddSubscriptionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return response.BadRequest(err.Error())
		}
		sub, err := h.SubscriptionService.Add(ctx, &req)
		if err != nil {
			return bizError(err)
		}
		response.Success(c, sub)
	case "delete":
		var req types.SubscriptionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return response.BadRequest(err.Error())
		}
		if err := h.SubscriptionService.Delete(ctx, req.ID); err != nil {
			return bizError(err)
		}
		response.Success(c, gin.H{"id": req.ID})
	default:
		return errUnknownAction(action)
	}
	return nil
}

func (h *Admin) RedemptionsQuery(c *gin.Context) error {
	switch action := c.DefaultQuery("action", "list"); action {
	case "list":
		var req types.ListRedemptionsReq
		if err := c.ShouldBindQuery(&req); err != nil {
			return response.BadRequest(err.Error())
		}
		resp, err := h.RedemptionService.List(c.Request.Context(), &req)
		if err != nil {
			return bizError(err)
		}
		response.Success(c, resp)
		return nil
	default:
		return errUnknownAction(action)
	}
}

func (h *Admin) RedemptionsCommand(c *gin.Context) error {
	switch action := c.Query("action"); action {
	case "update":
		var req types.UpdateRedemptionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return response.BadRequest(err.Error())
		}
		resp, err := h.RedemptionService.Update(c.Request.Context(), &req)
		if err != nil {
			return bizError(err)
		}
		response.Success(c, resp)
		return nil
	default:
		return errUnknownAction(action)
	}
}
