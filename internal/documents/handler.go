package documents

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/auth"
	"digisign/portal-backend/internal/common"
	"digisign/portal-backend/internal/export"
)

type Handler struct {
	service        Service
	authenticator  auth.Authenticator
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewHandler(service Service, authenticator auth.Authenticator, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		service:        service,
		authenticator:  authenticator,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers document routes. View stays public for the
// verification page; download is owner only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	requireAuth := auth.RequireAuth(h.authenticator)

	docs := rg.Group("/documents")
	{
		docs.POST("", requireAuth, h.create)
		docs.GET("", requireAuth, h.list)
		docs.GET("/export", requireAuth, h.export)
		docs.GET("/:id", h.get)
		docs.GET("/:id/download", requireAuth, h.download)
		docs.GET("/:id/view", h.view)
	}
}

// create handles POST /api/v1/documents
func (h *Handler) create(c *gin.Context) {
	uploadName, content, err := common.ReadUpload(c, "file", h.maxUploadBytes)
	if err != nil {
		h.logger.Warn("Rejected document upload", zap.Error(err))
		common.AbortWithError(c, err)
		return
	}

	fileName := c.PostForm("fileName")
	if fileName == "" {
		fileName = uploadName
	}

	doc, err := h.service.Create(c.Request.Context(), auth.IdentityFrom(c), CreateRequest{
		ID:           c.PostForm("id"),
		FileName:     fileName,
		Content:      content,
		SignerName:   c.PostForm("signerName"),
		LetterNumber: c.PostForm("letterNumber"),
		Subject:      c.PostForm("subject"),
	})
	if err != nil {
		h.logger.Error("Failed to save document", zap.Error(err))
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// list handles GET /api/v1/documents
func (h *Handler) list(c *gin.Context) {
	docs, err := h.service.ListByOwner(c.Request.Context(), auth.IdentityFrom(c))
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// export handles GET /api/v1/documents/export?format=csv|xlsx
func (h *Handler) export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), auth.IdentityFrom(c), format, &buf); err != nil {
		h.logger.Error("Failed to export documents", zap.Error(err))
		common.AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", common.ContentDisposition("attachment", "documents."+string(format)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// get handles GET /api/v1/documents/:id
func (h *Handler) get(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}
	doc, err := h.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// download handles GET /api/v1/documents/:id/download
func (h *Handler) download(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}
	identity := auth.IdentityFrom(c)
	file, err := h.service.Download(c.Request.Context(), identity, id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var userID *uuid.UUID
	if identity != nil {
		userID = &identity.UserID
	}
	h.service.LogAccess(c.Request.Context(), h.accessEntry(c, id, userID, ActionDownload))

	c.Header("Content-Disposition", common.ContentDisposition("attachment", file.Name))
	c.Data(http.StatusOK, pdfContentType, file.Content)
}

// view handles GET /api/v1/documents/:id/view
func (h *Handler) view(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}
	file, err := h.service.View(c.Request.Context(), id)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	h.service.LogAccess(c.Request.Context(), h.accessEntry(c, id, nil, ActionView))

	c.Header("Content-Disposition", common.ContentDisposition("inline", file.Name))
	c.Data(http.StatusOK, pdfContentType, file.Content)
}

func (h *Handler) accessEntry(c *gin.Context, id uuid.UUID, userID *uuid.UUID, action AccessAction) AccessEntry {
	return AccessEntry{
		DocumentID: id,
		UserID:     userID,
		Action:     action,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
}

// documentID parses :id. Anything that is not a UUID cannot name a
// document, so it is reported as not found.
func documentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.AbortWithError(c, fmt.Errorf("%w: document not found", common.ErrNotFound))
		return uuid.Nil, false
	}
	return id, true
}
