// Package aibridge talks to the external fill-form extraction service and
// broadcasts successful extractions on the event bus. One request, one
// response, one event; there is no retry and no partial delivery.
package aibridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	stderrors "recruitdesk/internal/common/errors"
	httpclient "recruitdesk/internal/common/http"
	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/common/metrics"
	"recruitdesk/internal/events"
	"recruitdesk/internal/models"
)

const fillEndpoint = "/fill-job-requisition"

// fallbackMessage is returned when the service fails without saying why.
const fallbackMessage = "Extraction failed. Please fill the form manually."

// Client is the extraction bridge. markConfidential is fixed at construction
// from configuration and sent with every request.
type Client struct {
	baseURL          string
	markConfidential bool
	http             *httpclient.Client
	logger           logger.Logger
	bus              *events.Bus
}

func NewClient(baseURL string, markConfidential bool, hc *httpclient.Client, log logger.Logger, bus *events.Bus) *Client {
	return &Client{
		baseURL:          baseURL,
		markConfidential: markConfidential,
		http:             hc,
		logger:           log.WithFields(map[string]interface{}{"component": "aibridge"}),
		bus:              bus,
	}
}

// Extract posts the prompt to the extraction service, validates the reply and
// publishes the extracted fields as one atomic fill event. The failure
// envelope carries the service's own message when it gave one, the generic
// fallback otherwise.
func (c *Client) Extract(ctx context.Context, prompt string) models.Response[*ExtractResult] {
	requestID := uuid.New().String()
	log := c.logger.WithFields(map[string]interface{}{"requestId": requestID})

	body, err := json.Marshal(ExtractRequest{
		Prompt:           prompt,
		MarkConfidential: c.markConfidential,
	})
	if err != nil {
		return c.fail(log, stderrors.NewExtractionFailedError(err), fallbackMessage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fillEndpoint, bytes.NewReader(body))
	if err != nil {
		return c.fail(log, stderrors.NewExtractionFailedError(err), fallbackMessage)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return c.fail(log, stderrors.NewExtractionTimeoutError(), fallbackMessage)
		}
		return c.fail(log, stderrors.NewExtractionFailedError(err), fallbackMessage)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(log, stderrors.NewExtractionFailedError(err), fallbackMessage)
	}

	var wire extractResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return c.fail(log, stderrors.NewExtractionFailedError(fmt.Errorf("malformed response: %w", err)), fallbackMessage)
	}

	if resp.StatusCode != http.StatusOK || !wire.Success || wire.Data == nil {
		msg := wire.Message
		if msg == "" {
			msg = fallbackMessage
		}
		return c.fail(log, stderrors.NewExtractionFailedError(fmt.Errorf("service returned status %d", resp.StatusCode)), msg)
	}

	rawData, err := json.Marshal(wire.Data)
	if err != nil {
		return c.fail(log, stderrors.NewExtractionFailedError(err), fallbackMessage)
	}
	if err := validatePayload(rawData); err != nil {
		return c.fail(log, stderrors.NewSchemaValidationFailedError(err.Error()), fallbackMessage)
	}

	fields := *wire.Data
	if fields.RequiredSkills == nil {
		fields.RequiredSkills = []string{}
	}

	if c.bus != nil {
		c.bus.Publish(ctx, events.TopicFillJobForm, events.FillJobFormEvent{
			RequestID: requestID,
			Fields:    fields,
		})
	}

	log.Info("extraction succeeded", map[string]interface{}{
		"title":      fields.Title,
		"department": fields.Department,
	})
	metrics.ExtractionRequestsTotal.WithLabelValues("success").Inc()
	return models.OK(&ExtractResult{RequestID: requestID, Fields: fields})
}

func (c *Client) fail(log logger.Logger, err *stderrors.StandardError, message string) models.Response[*ExtractResult] {
	log.WithError(err).Error("extraction failed", nil)
	metrics.ExtractionRequestsTotal.WithLabelValues("failure").Inc()
	return models.Fail[*ExtractResult](message)
}
