package extraction

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
	"github.com/pawtrail/mailroom/internal/tracing"
)

type extractionService struct {
	config *config.ExtractionConfig
	client *http.Client
}

func NewExtractionService(cfg *config.ExtractionConfig) interfaces.ExtractionService {
	return &extractionService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (s *extractionService) Classify(ctx context.Context, bucket string, path string) (*dto.ExtractionResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "extractionService.Classify")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("document_path", path)

	request := dto.ExtractionRequest{
		Bucket: bucket,
		Path:   path,
	}
	payload, err := json.Marshal(request)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.Url+"/v1/classify", bytes.NewBuffer(payload))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	if s.config.ApiKey != "" {
		req.Header.Set("X-API-KEY", s.config.ApiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "unable to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, string(body))
		tracing.TraceErr(span, err)
		return nil, err
	}

	var result dto.ExtractionResult
	if err := json.Unmarshal(body, &result); err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	tracing.LogObjectAsJson(span, "result", result)

	return &result, nil
}
