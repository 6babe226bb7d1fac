package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/events"
	"recruitdesk/internal/models"
)

// fakeES records requests and serves canned bodies. The product header is
// required or the v8 client refuses to talk to the server.
type fakeES struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
	respond  func(r *http.Request) (int, string)
}

func (f *fakeES) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeES) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, r)
		f.bodies = append(f.bodies, body)
		f.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		status, resp := http.StatusOK, `{}`
		if f.respond != nil {
			status, resp = f.respond(r)
		}
		w.WriteHeader(status)
		w.Write([]byte(resp))
	}
}

func newTestIndex(t *testing.T, f *fakeES) (*CVIndex, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return NewCVIndex(client, "parsed_profiles", logger.NewTestLogger(t)), srv
}

func sampleCV() models.CV {
	return models.CV{
		ID:         "cv7",
		FileName:   "mira_sato_resume.pdf",
		FileSize:   200000,
		UploadedAt: "2024-03-01T10:00:00Z",
		Status:     models.CVStatusPending,
		Parsed: &models.ParsedCVData{
			Name:            "Mira Sato",
			Role:            "Data Engineer",
			Company:         "Northwind Analytics",
			ExperienceYears: 6,
			Skills:          []string{"Python", "SQL"},
			Education:       "MSc Data Science",
			FitLevel:        models.FitStrong,
			MatchScore:      91,
		},
	}
}

func TestIndexCV(t *testing.T) {
	f := &fakeES{}
	ix, _ := newTestIndex(t, f)

	err := ix.IndexCV(context.Background(), "2", sampleCV())
	require.NoError(t, err)

	require.Len(t, f.requests, 1)
	assert.Equal(t, "/parsed_profiles/_doc/cv7", f.requests[0].URL.Path)

	var doc ProfileDocument
	require.NoError(t, json.Unmarshal(f.bodies[0], &doc))
	assert.Equal(t, "cv7", doc.CVID)
	assert.Equal(t, "2", doc.JobID)
	assert.Equal(t, "Data Engineer", doc.Role)
	assert.Equal(t, 6, doc.ExperienceYears)
}

func TestIndexCVSkipsUnparsed(t *testing.T) {
	f := &fakeES{}
	ix, _ := newTestIndex(t, f)

	cv := sampleCV()
	cv.Parsed = nil

	require.NoError(t, ix.IndexCV(context.Background(), "2", cv))
	assert.Empty(t, f.requests)
}

func TestIndexCVServerError(t *testing.T) {
	f := &fakeES{respond: func(r *http.Request) (int, string) {
		return http.StatusInternalServerError, `{"error": "boom"}`
	}}
	ix, _ := newTestIndex(t, f)

	err := ix.IndexCV(context.Background(), "2", sampleCV())
	assert.Error(t, err)
}

func TestSearchParsesHits(t *testing.T) {
	f := &fakeES{respond: func(r *http.Request) (int, string) {
		return http.StatusOK, `{
			"hits": {"hits": [
				{"_score": 2.5, "_source": {"cvId": "cv1", "jobId": "1", "role": "Senior Backend Engineer", "experienceYears": 8}},
				{"_score": 1.1, "_source": {"cvId": "cv3", "jobId": "1", "role": "Data Engineer", "experienceYears": 6}}
			]}
		}`
	}}
	ix, _ := newTestIndex(t, f)

	results, err := ix.Search(context.Background(), Query{Keywords: "engineer", JobID: "1"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "cv1", results[0].Document.CVID)
	assert.Equal(t, 2.5, results[0].Score)
	assert.Equal(t, "cv3", results[1].Document.CVID)
}

func TestBuildProfileQuery(t *testing.T) {
	q := buildProfileQuery(Query{
		Keywords: "golang",
		JobID:    "4",
		FitLevel: models.FitStrong,
		MinYears: 5,
	})

	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})

	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	mm := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "golang", mm["query"])

	filter := boolQuery["filter"].([]interface{})
	assert.Len(t, filter, 3)
}

func TestBuildProfileQueryEmptyMatchesAll(t *testing.T) {
	q := buildProfileQuery(Query{})
	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})

	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	_, ok := must[0].(map[string]interface{})["match_all"]
	assert.True(t, ok)
	assert.Nil(t, boolQuery["filter"])
}

func TestIndexerFollowsUploads(t *testing.T) {
	f := &fakeES{}
	ix, _ := newTestIndex(t, f)

	bus := events.NewBus(4, logger.NewTestLogger(t))
	defer bus.Close()

	in := NewIndexer(ix, bus, logger.NewTestLogger(t))

	bus.Publish(context.Background(), events.TopicCVUploaded, events.CVEvent{JobID: "2", CV: sampleCV()})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && f.count() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	in.Close()

	require.Len(t, f.requests, 1)
	assert.Equal(t, "/parsed_profiles/_doc/cv7", f.requests[0].URL.Path)
}
