// internal/aibridge/models.go
package aibridge

import "recruitdesk/internal/models"

// ExtractRequest is the body posted to the extraction service.
type ExtractRequest struct {
	Prompt           string `json:"prompt"`
	MarkConfidential bool   `json:"markConfidential"`
}

// extractResponse is the extraction service's wire reply. Data is only
// trusted after schema validation.
type extractResponse struct {
	Success bool                    `json:"success"`
	Data    *models.JobFieldPayload `json:"data,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// ExtractResult is what the bridge hands back to callers. RequestID ties the
// result to the event published on the bus.
type ExtractResult struct {
	RequestID string                 `json:"requestId"`
	Fields    models.JobFieldPayload `json:"fields"`
}
