package user

import (
	"Rewards/config"
	"Rewards/middleware"
	"Rewards/pkg/context"
	"Rewards/pkg/response"
	"Rewards/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errInvalidStatus = errors.New("用户状态不合法")

// Handler 后台用户管理的 HTTP 处理器
type Handler struct {
	svc    Service
	secret []byte
}

// NewHandler 构造函数
func NewHandler(svc Service, cfg *config.Config) *Handler {
	return &Handler{svc: svc, secret: []byte(cfg.Jwt.Secret)}
}

// RegisterRouter 注册路由
func (h *Handler) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1/admin", middleware.Auth(h.secret), middleware.RequireAdmin())
	{
		g.GET("/users", context.Wrap(h.Query))
		g.POST("/users", context.Wrap(h.Command))
	}
}

func (h *Handler) Query(c *gin.Context) error {
	switch action := c.DefaultQuery("action", "list"); action {
	case "list":
		var req ListUsersRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			return response.BadRequest(err.Error())
		}
		resp, err := h.svc.List(c.Request.Context(), &req)
		if err != nil {
			return toBizError(err)
		}
		response.Success(c, resp)
		return nil
	default:
		return response.BadRequest("不支持的 action: " + action)
	}
}

func (h *Handler) Command(c *gin.Context) error {
	switch action := c.Query("action"); action {
	case "update-points":
		var req UpdatePointsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return response.BadRequest(err.Error())
		}
		account, err := h.svc.UpdatePoints(c.Request.Context(), &req)
		if err != nil {
			return toBizError(err)
		}
		response.Success(c, account)
	case "update-status":
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return response.BadRequest(err.Error())
		}
		if err := h.svc.UpdateStatus(c.Request.Context(), &req); err != nil {
			return toBizError(err)
		}
		response.Success(c, gin.H{"userId": req.UserID, "status": req.Status})
	default:
		return response.BadRequest("不支持的 action: " + action)
	}
	return nil
}

func toBizError(err error) error {
	switch {
	case errors.Is(err, errInvalidStatus), errors.Is(err, service.ErrInvalidAmount):
		return response.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrAccountNotFound):
		return response.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInsufficientBalance), errors.Is(err, service.ErrDuplicateOperation):
		return response.NewError(http.StatusConflict, err.Error())
	}
	return response.Internal(err.Error())
}
