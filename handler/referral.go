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

type Referral struct {
	Config          *config.Config
	ReferralService service.IReferralService
}

func (h *Referral) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	g := r.Group("/v1/referral", authorize)
	g.GET("/code", context.Wrap(h.Code))
	g.GET("/link", context.Wrap(h.Link))
	g.GET("/stats", context.Wrap(h.Stats))
	g.GET("/list", context.Wrap(h.List))
	g.GET("/earnings", context.Wrap(h.Earnings))
	g.POST("/register", context.Wrap(h.Register))
}

func (h *Referral) Code(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	code, err := h.ReferralService.EnsureCode(c.Request.Context(), uid)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, gin.H{"code": code})
	return nil
}

func (h *Referral) Link(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	link, err := h.ReferralService.Link(c.Request.Context(), uid)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, link)
	return nil
}

// Stats 查询失败时返回降级的零值，不报错
func (h *Referral) Stats(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	response.Success(c, h.ReferralService.Stats(c.Request.Context(), uid))
	return nil
}

func (h *Referral) List(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	var req types.ListReferralsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	resp, err := h.ReferralService.ListReferrals(c.Request.Context(), uid, &req)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (h *Referral) Earnings(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	var req types.CursorReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	resp, err := h.ReferralService.ListEarnings(c.Request.Context(), uid, req.Cursor, req.Limit)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (h *Referral) Register(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	var req types.RegisterReferralReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	resp, err := h.ReferralService.Register(c.Request.Context(), uid, req.Code)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}
