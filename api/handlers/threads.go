package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/internal/utils"
)

type ThreadsHandler struct {
	repos *repository.Repositories
}

func NewThreadsHandler(repos *repository.Repositories) *ThreadsHandler {
	return &ThreadsHandler{
		repos: repos,
	}
}

type threadListItem struct {
	*models.MessageThread
	UnreadCount int64 `json:"unreadCount"`
}

// List returns a pet's threads with per-user unread counts. Unread is derived,
// never stored: inbound messages newer than the caller's last-read marker, or
// all inbound messages when no marker exists.
func (h *ThreadsHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ThreadsHandler.List")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		petID := c.Query("petId")
		if petID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "petId is required"})
			return
		}

		threads, err := h.repos.MessageThreadRepository.ListByPet(ctx, petID)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list threads"})
			return
		}

		userID := utils.GetUserIDFromContext(ctx)
		items := make([]threadListItem, 0, len(threads))
		for _, thread := range threads {
			unread, err := h.unreadCount(c, userID, thread.ID)
			if err != nil {
				tracing.TraceErr(span, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to derive unread counts"})
				return
			}
			items = append(items, threadListItem{MessageThread: thread, UnreadCount: unread})
		}

		c.JSON(http.StatusOK, gin.H{"threads": items})
	}
}

func (h *ThreadsHandler) unreadCount(c *gin.Context, userID, threadID string) (int64, error) {
	ctx := c.Request.Context()

	var since *time.Time
	if userID != "" {
		status, err := h.repos.ThreadReadStatusRepository.Get(ctx, userID, threadID)
		if err != nil && !errors.Is(err, repository.ErrInvalidInput) {
			return 0, err
		}
		if status != nil {
			since = &status.LastReadAt
		}
	}

	return h.repos.ThreadMessageRepository.CountInboundSince(ctx, threadID, since)
}

func (h *ThreadsHandler) Messages() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ThreadsHandler.Messages")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		threadID := c.Param("id")
		if _, err := h.repos.MessageThreadRepository.GetByID(ctx, threadID); err != nil {
			if errors.Is(err, repository.ErrThreadNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load thread"})
			return
		}

		messages, err := h.repos.ThreadMessageRepository.ListByThread(ctx, threadID)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

func (h *ThreadsHandler) MarkRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ThreadsHandler.MarkRead")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		userID := utils.GetUserIDFromContext(ctx)
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user id header is required"})
			return
		}

		if err := h.repos.ThreadReadStatusRepository.MarkRead(ctx, userID, c.Param("id"), utils.Now()); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark thread read"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	}
}

// Delete soft-deletes a thread. Messages and extracted records survive; the
// action lands in the audit log.
func (h *ThreadsHandler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ThreadsHandler.Delete")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		threadID := c.Param("id")
		userID := utils.GetUserIDFromContext(ctx)

		if err := h.repos.MessageThreadRepository.SoftDelete(ctx, threadID, userID); err != nil {
			if errors.Is(err, repository.ErrThreadNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete thread"})
			return
		}

		if err := h.repos.ThreadDeleteAuditRepository.Append(ctx, threadID, enum.ThreadDeleted, userID); err != nil {
			tracing.TraceErr(span, err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	}
}

func (h *ThreadsHandler) Restore() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "ThreadsHandler.Restore")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		threadID := c.Param("id")
		userID := utils.GetUserIDFromContext(ctx)

		if err := h.repos.MessageThreadRepository.Restore(ctx, threadID, userID); err != nil {
			if errors.Is(err, repository.ErrThreadNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "thread not found or not deleted"})
				return
			}
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to restore thread"})
			return
		}

		if err := h.repos.ThreadDeleteAuditRepository.Append(ctx, threadID, enum.ThreadRestored, userID); err != nil {
			tracing.TraceErr(span, err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "restored"})
	}
}
