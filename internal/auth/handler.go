package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/common"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(s *Service, logger *zap.Logger) *Handler {
	return &Handler{service: s, logger: logger}
}

// RegisterRoutes registers Auth routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/me", RequireAuth(h.service), h.me)
	}
}

// register handles POST /api/v1/auth/register
func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("Registration failed", zap.Error(err))
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// login handles POST /api/v1/auth/login
func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("Login failed", zap.Error(err))
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// me handles GET /api/v1/auth/me
func (h *Handler) me(c *gin.Context) {
	user, err := h.service.Me(c.Request.Context(), IdentityFrom(c))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
