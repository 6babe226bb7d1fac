package aibridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "recruitdesk/internal/common/http"
	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/events"
	"recruitdesk/internal/models"
)

func newTestClient(t *testing.T, serverURL string, bus *events.Bus) *Client {
	t.Helper()
	return NewClient(serverURL, true, httpclient.NewClient(2*time.Second), logger.NewTestLogger(t), bus)
}

func validFields() models.JobFieldPayload {
	three, six := 3, 6
	return models.JobFieldPayload{
		Title:            "Platform Engineer",
		Department:       "Engineering",
		Location:         "Remote",
		TargetYearsMin:   &three,
		TargetYearsMax:   &six,
		RequiredSkills:   []string{"Go", "Kubernetes"},
		NiceToHaveSkills: []string{"Terraform"},
		Description:      "Own the deployment platform.",
	}
}

func TestExtractSuccessPublishesOneEvent(t *testing.T) {
	fields := validFields()

	var gotBody ExtractRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/fill-job-requisition", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    fields,
		})
	}))
	defer srv.Close()

	bus := events.NewBus(4, logger.NewTestLogger(t))
	defer bus.Close()
	ch, cancel := bus.Subscribe(events.TopicFillJobForm)
	defer cancel()

	c := newTestClient(t, srv.URL, bus)
	resp := c.Extract(context.Background(), "We need a platform engineer")

	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, fields.Title, resp.Data.Fields.Title)
	assert.NotEmpty(t, resp.Data.RequestID)

	assert.Equal(t, "We need a platform engineer", gotBody.Prompt)
	assert.True(t, gotBody.MarkConfidential)

	select {
	case evt := <-ch:
		payload, ok := evt.Payload.(events.FillJobFormEvent)
		require.True(t, ok)
		assert.Equal(t, resp.Data.RequestID, payload.RequestID)
		assert.Equal(t, fields.Department, payload.Fields.Department)
	case <-time.After(time.Second):
		t.Fatal("no fill event published")
	}

	// exactly one event
	select {
	case evt := <-ch:
		t.Fatalf("unexpected second event %s", evt.ID)
	default:
	}
}

func TestExtractServiceFailureUsesServiceMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "model overloaded, try again later",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	resp := c.Extract(context.Background(), "anything")

	assert.False(t, resp.Success)
	assert.Equal(t, "model overloaded, try again later", resp.Message)
}

func TestExtractFailureWithoutMessageFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	resp := c.Extract(context.Background(), "anything")

	assert.False(t, resp.Success)
	assert.Equal(t, fallbackMessage, resp.Message)
}

func TestExtractRejectsPayloadFailingSchema(t *testing.T) {
	bus := events.NewBus(4, logger.NewTestLogger(t))
	defer bus.Close()
	ch, cancel := bus.Subscribe(events.TopicFillJobForm)
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// location outside the allowed enum
		w.Write([]byte(`{"success": true, "data": {"title": "X", "department": "Y", "location": "Moon", "requiredSkills": []}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, bus)
	resp := c.Extract(context.Background(), "anything")

	assert.False(t, resp.Success)
	assert.Equal(t, fallbackMessage, resp.Message)

	select {
	case <-ch:
		t.Fatal("invalid payload must not be broadcast")
	default:
	}
}

func TestExtractUnreachableService(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", nil)

	resp := c.Extract(context.Background(), "anything")
	assert.False(t, resp.Success)
	assert.Equal(t, fallbackMessage, resp.Message)
}

func TestExtractTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can observe the client disconnect
		// and cancel the request context; otherwise Close hangs.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	resp := c.Extract(ctx, "anything")
	assert.False(t, resp.Success)
	assert.Equal(t, fallbackMessage, resp.Message)
}

func TestValidatePayload(t *testing.T) {
	fields := validFields()
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.NoError(t, validatePayload(raw))

	assert.Error(t, validatePayload([]byte(`{"title": ""}`)))
	assert.Error(t, validatePayload([]byte(`{"title": "X", "department": "Y", "location": "Remote", "requiredSkills": [], "bogus": 1}`)))
}
