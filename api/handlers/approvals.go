package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/services"
)

type ApprovalsHandler struct {
	repos *repository.Repositories
	svc   *services.Services
}

func NewApprovalsHandler(repos *repository.Repositories, svc *services.Services) *ApprovalsHandler {
	return &ApprovalsHandler{
		repos: repos,
		svc:   svc,
	}
}

func (h *ApprovalsHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ApprovalsHandler.List")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		petID := c.Query("petId")
		if petID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "petId is required"})
			return
		}

		approvals, err := h.repos.PendingApprovalRepository.ListPendingByPet(ctx, petID)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list approvals"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"approvals": approvals})
	}
}

type approveRequest struct {
	SaveAnyway bool `json:"saveAnyway"`
}

// Approve resolves a held document and persists it through the pipeline's
// dedup path. saveAnyway also writes rows flagged as duplicates.
func (h *ApprovalsHandler) Approve() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ApprovalsHandler.Approve")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var req approveRequest
		if c.Request.ContentLength > 0 {
			if err := c.BindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		outcome, err := h.svc.IngestionService.ApprovePending(ctx, c.Param("id"), req.SaveAnyway)
		if err != nil {
			if errors.Is(err, repository.ErrApprovalNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "approval not found or already resolved"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve"})
			return
		}

		c.JSON(http.StatusOK, outcome)
	}
}

func (h *ApprovalsHandler) Reject() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ApprovalsHandler.Reject")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		if err := h.svc.IngestionService.RejectPending(ctx, c.Param("id")); err != nil {
			if errors.Is(err, repository.ErrApprovalNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "approval not found or already resolved"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reject"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "rejected"})
	}
}

type saveRecordsRequest struct {
	PetID         string                `json:"petId" binding:"required"`
	SourceEmailID string                `json:"sourceEmailId"`
	DocumentURL   string                `json:"documentUrl"`
	SaveAnyway    bool                  `json:"saveAnyway"`
	Result        *dto.ExtractionResult `json:"result" binding:"required"`
}

// SaveRecords is the direct batch-save surface with duplicate override.
func (h *ApprovalsHandler) SaveRecords() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ApprovalsHandler.SaveRecords")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var req saveRecordsRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		outcome, err := h.svc.IngestionService.SaveRecords(ctx, req.PetID, req.SourceEmailID, req.Result, req.DocumentURL, req.SaveAnyway)
		if err != nil {
			if errors.Is(err, repository.ErrPetNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save records"})
			return
		}

		c.JSON(http.StatusOK, outcome)
	}
}
