package signing

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/auth"
	"digisign/portal-backend/internal/common"
	"digisign/portal-backend/pkg/pdf"
)

type Handler struct {
	orchestrator   *Orchestrator
	authenticator  auth.Authenticator
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewHandler(o *Orchestrator, authenticator auth.Authenticator, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		orchestrator:   o,
		authenticator:  authenticator,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers the signing route. Authentication is optional.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/sign", auth.OptionalAuth(h.authenticator), h.sign)
}

// sign handles POST /api/v1/sign
func (h *Handler) sign(c *gin.Context) {
	fileName, content, err := common.ReadUpload(c, "file", h.maxUploadBytes)
	if err != nil {
		h.logger.Warn("Rejected sign upload", zap.Error(err))
		common.AbortWithError(c, err)
		return
	}

	placement, err := parsePlacement(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	result, err := h.orchestrator.Sign(c.Request.Context(), SignRequest{
		FileName: fileName,
		Content:  content,
		Signer: SignerMeta{
			Name:         c.PostForm("signerName"),
			Reason:       c.PostForm("reason"),
			LetterNumber: c.PostForm("letterNumber"),
			Subject:      c.PostForm("subject"),
		},
		Placement: placement,
	}, auth.IdentityFrom(c))
	if err != nil {
		h.logger.Error("Failed to sign document", zap.String("file", fileName), zap.Error(err))
		common.AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", common.ContentDisposition("attachment", result.FileName))
	c.Header("X-Verification-URL", result.VerificationURL)
	c.Header("X-Document-ID", result.DocumentID)
	c.Header("X-Document-Persisted", strconv.FormatBool(result.Persisted))
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

// parsePlacement reads x, y, width and height. Unless both x and y are
// sent the default bottom-right marker is used.
func parsePlacement(c *gin.Context) (*pdf.Placement, error) {
	if c.PostForm("x") == "" || c.PostForm("y") == "" {
		return nil, nil
	}

	var p pdf.Placement
	fields := []struct {
		name string
		dst  *float64
	}{
		{"x", &p.X}, {"y", &p.Y}, {"width", &p.Width}, {"height", &p.Height},
	}
	for _, f := range fields {
		v := c.PostForm(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("%w: %s must be a finite number", common.ErrValidation, f.name)
		}
		*f.dst = n
	}
	return &p, nil
}
