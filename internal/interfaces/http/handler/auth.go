package handler

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/hrwiki/backend/internal/infrastructure/auth"
	"github.com/hrwiki/backend/internal/infrastructure/log"
	"github.com/hrwiki/backend/internal/interfaces/http/response"
)

// AuthHandler 登录处理器
type AuthHandler struct {
	auth   *auth.Service
	logger *slog.Logger
}

// NewAuthHandler 创建登录处理器
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: log.NewModuleLogger("http", "auth"),
	}
}

// LoginRequest 登录请求
// username 为空走遗留共享口令模式
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login 口令校验并返回角色
// @Summary 登录
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/auth [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}

	user, ok := h.auth.Resolve(req.Username, req.Password)
	if !ok {
		h.logger.Warn("login rejected", "username", req.Username)
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid credentials")
		return
	}

	h.logger.Info("login accepted", "username", user.Username, "role", string(user.Role))
	response.Success(c, LoginResponse{
		Username: user.Username,
		Role:     string(user.Role),
	})
}
