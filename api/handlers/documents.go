package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/services"
)

type DocumentsHandler struct {
	svc *services.Services
}

func NewDocumentsHandler(svc *services.Services) *DocumentsHandler {
	return &DocumentsHandler{
		svc: svc,
	}
}

// Fetch streams a stored health document to the mobile client.
func (h *DocumentsHandler) Fetch() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "DocumentsHandler.Fetch")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		path := c.Query("path")
		if path == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
			return
		}
		span.SetTag("document_path", path)

		data, err := h.svc.StorageService.Download(ctx, path)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}

		contentType := c.Query("contentType")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, data)
	}
}
