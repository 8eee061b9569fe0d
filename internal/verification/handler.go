package verification

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/common"
	"digisign/portal-backend/internal/documents"
)

const failedStatus = "Verification Failed"

// AccessLogger records who looked at a document.
type AccessLogger interface {
	LogAccess(ctx context.Context, entry documents.AccessEntry)
}

type Handler struct {
	resolver *Resolver
	access   AccessLogger
	logger   *zap.Logger
}

func NewHandler(resolver *Resolver, access AccessLogger, logger *zap.Logger) *Handler {
	return &Handler{resolver: resolver, access: access, logger: logger}
}

// RegisterRoutes registers the public verification route.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/verify", h.verify)
}

// verify handles GET /api/v1/verify?id=...&data=...
func (h *Handler) verify(c *gin.Context) {
	q, err := ParseQuery(c.Query("id"), c.Query("data"))
	if err != nil {
		h.fail(c, err)
		return
	}

	view, err := h.resolver.Resolve(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}

	if view.Mode == ModeReferenced && h.access != nil {
		if id, err := uuid.Parse(view.DocumentID); err == nil {
			h.access.LogAccess(c.Request.Context(), documents.AccessEntry{
				DocumentID: id,
				Action:     documents.ActionVerify,
				IPAddress:  c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
				Details:    map[string]interface{}{"previewAvailable": view.PreviewAvailable},
			})
		}
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := common.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Verification failed", zap.Error(err))
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "status": failedStatus})
}
