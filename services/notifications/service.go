package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/config"
	"github.com/pawtrail/mailroom/internal/logger"
	"github.com/pawtrail/mailroom/internal/tracing"
)

// pushService talks to the push gateway that fans out to device tokens.
// Delivery is best effort; the pipeline never fails on a push error.
type pushService struct {
	config *config.PushConfig
	log    logger.Logger
	client *http.Client
}

func NewPushService(cfg *config.PushConfig, log logger.Logger) interfaces.NotificationService {
	return &pushService{
		config: cfg,
		log:    log,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type pushRequest struct {
	UserID string            `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

func (s *pushService) Send(ctx context.Context, userID string, notification dto.Notification) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pushService.Send")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("user_id", userID)

	if s.config.Url == "" {
		s.log.Warn("push gateway not configured, dropping notification")
		return nil
	}

	payload, err := json.Marshal(pushRequest{
		UserID: userID,
		Title:  notification.Title,
		Body:   notification.Body,
		Data:   notification.Data,
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.Url+"/v1/push", bytes.NewBuffer(payload))
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	if s.config.ApiKey != "" {
		req.Header.Set("X-API-KEY", s.config.ApiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		err = fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, string(body))
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}
