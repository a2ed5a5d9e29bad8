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

type Point struct {
	Config       *config.Config
	PointService service.IPointService
}

func (p *Point) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(p.Config.Jwt.Secret))
	pointGroup := r.Group("/v1/points", authorize)
	pointGroup.GET("/balance", context.Wrap(p.Balance))
	pointGroup.GET("/records", context.Wrap(p.GetRecords))
	// 任务系统回调入账
	pointGroup.POST("/reward", middleware.RequireAdmin(), context.Wrap(p.Reward))
	pointGroup.POST("/settle", middleware.RequireAdmin(), context.Wrap(p.Settle))
}

func (p *Point) Balance(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	resp, err := p.PointService.GetAccountDashboard(c.Request.Context(), uid)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (p *Point) GetRecords(c *gin.Context) error {
	uid, err := context.GetUserID(c)
	if err != nil {
		return response.Unauthorized(err.Error())
	}
	var req types.ListPointRecordsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	resp, err := p.PointService.ListPointRecords(c.Request.Context(), uid, req.Action, req.Cursor, req.Limit)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (p *Point) Reward(c *gin.Context) error {
	var req types.RewardPointsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	resp, err := p.PointService.RewardPoints(c.Request.Context(), req.UserID, req.Amount, req.ChangeType, req.SourceID, req.Remark, req.IsPending)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (p *Point) Settle(c *gin.Context) error {
	var req types.SettlePointsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	resp, err := p.PointService.SettlePoints(c.Request.Context(), req.UserID, req.ChangeType, req.SourceID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}
