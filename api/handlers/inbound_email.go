package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/internal/utils"
	"github.com/pawtrail/mailroom/services"
)

type InboundEmailHandler struct {
	repos *repository.Repositories
	svc   *services.Services
}

func NewInboundEmailHandler(repos *repository.Repositories, svc *services.Services) *InboundEmailHandler {
	return &InboundEmailHandler{
		repos: repos,
		svc:   svc,
	}
}

// Handle accepts an inbound-email webhook, acknowledges immediately with 202,
// and runs the ingestion pipeline asynchronously. The transport retries on
// non-2xx; the pipeline's idempotency gate absorbs those retries.
func (h *InboundEmailHandler) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "InboundEmailHandler.Handle")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var payload dto.InboundEmailWebhook
		if err := c.BindJSON(&payload); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email, err := normalizeWebhookPayload(payload)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"message": "Accepted"})

		go func() {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					err := fmt.Errorf("panic recovered in email processing: %v\n%s", r, stack)
					tracing.TraceErr(span, err)
				}
			}()

			procSpan, procCtx := tracing.StartTracerSpan(context.Background(), "InboundEmailHandler.process")
			defer procSpan.Finish()
			procSpan.SetTag("message_key", email.MessageKey)

			if err := h.svc.IngestionService.ProcessInboundEmail(procCtx, email); err != nil {
				tracing.TraceErr(procSpan, errors.Wrap(err, "inbound email processing failed"))
			}
		}()
	}
}

func normalizeWebhookPayload(payload dto.InboundEmailWebhook) (dto.InboundEmail, error) {
	email := dto.InboundEmail{
		MessageKey: payload.MessageID,
		Subject:    payload.Subject,
		TextBody:   payload.TextBody,
		HTMLBody:   payload.HtmlBody,
	}

	if email.MessageKey == "" {
		return email, errors.New("MessageID is required")
	}

	email.FromAddress = payload.FromFull.Email
	if email.FromAddress == "" {
		email.FromAddress = utils.ExtractEmailAddress(payload.From)
	}
	if email.FromAddress == "" {
		return email, errors.New("sender address is required")
	}
	email.FromName = payload.FromFull.Name

	recipient := ""
	if len(payload.ToFull) > 0 {
		recipient = payload.ToFull[0].Email
	}
	if recipient == "" {
		recipient = utils.ExtractEmailAddress(payload.To)
	}
	email.MailboxAlias = utils.ExtractLocalPart(recipient)
	if email.MailboxAlias == "" {
		return email, errors.New("recipient mailbox is required")
	}

	for _, att := range payload.Attachments {
		email.Attachments = append(email.Attachments, dto.AttachmentPointer{
			Filename:    att.Name,
			ContentType: att.ContentType,
			Bucket:      att.Bucket,
			Path:        att.Path,
		})
	}

	return email, nil
}
