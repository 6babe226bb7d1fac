// Package search maintains a parsed-profile index in Elasticsearch. The
// Indexer tails cv.uploaded events from the bus so the index follows the CV
// store without the store knowing about search at all.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	stderrors "recruitdesk/internal/common/errors"
	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/events"
	"recruitdesk/internal/models"
)

// ProfileDocument is the indexed shape of one uploaded CV.
type ProfileDocument struct {
	CVID            string   `json:"cvId"`
	JobID           string   `json:"jobId"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	Company         string   `json:"company"`
	ExperienceYears int      `json:"experienceYears"`
	Skills          []string `json:"skills"`
	Education       string   `json:"education"`
	FitLevel        string   `json:"fitLevel,omitempty"`
	MatchScore      int      `json:"matchScore,omitempty"`
	UploadedAt      string   `json:"uploadedAt"`
}

// Query narrows a profile search. Zero values mean "no constraint".
type Query struct {
	Keywords string
	JobID    string
	FitLevel models.FitLevel
	MinYears int
	From     int
	Size     int
}

// Result is one search hit with its relevance score.
type Result struct {
	Document ProfileDocument
	Score    float64
}

// CVIndex indexes and searches parsed profiles.
type CVIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewCVIndex(client *elasticsearch.Client, index string, log logger.Logger) *CVIndex {
	return &CVIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "cv-index", "index": index}),
	}
}

// IndexCV stores the parsed profile of one uploaded CV. CVs without parsed
// data are skipped silently; there is nothing to search on.
func (ix *CVIndex) IndexCV(ctx context.Context, jobID string, cv models.CV) error {
	if cv.Parsed == nil {
		return nil
	}

	doc := ProfileDocument{
		CVID:            cv.ID,
		JobID:           jobID,
		Name:            cv.Parsed.Name,
		Role:            cv.Parsed.Role,
		Company:         cv.Parsed.Company,
		ExperienceYears: cv.Parsed.ExperienceYears,
		Skills:          cv.Parsed.Skills,
		Education:       cv.Parsed.Education,
		FitLevel:        string(cv.Parsed.FitLevel),
		MatchScore:      cv.Parsed.MatchScore,
		UploadedAt:      cv.UploadedAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return stderrors.NewIndexingFailedError(err)
	}

	req := esapi.IndexRequest{
		Index:      ix.index,
		DocumentID: cv.ID,
		Body:       strings.NewReader(string(body)),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, ix.client)
	if err != nil {
		return stderrors.NewIndexingFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return stderrors.NewIndexingFailedError(fmt.Errorf("index response: %s", res.Status()))
	}
	return nil
}

// DeleteCV removes a profile document. Missing documents are fine.
func (ix *CVIndex) DeleteCV(ctx context.Context, cvID string) error {
	req := esapi.DeleteRequest{
		Index:      ix.index,
		DocumentID: cvID,
	}
	res, err := req.Do(ctx, ix.client)
	if err != nil {
		return stderrors.NewIndexingFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return stderrors.NewIndexingFailedError(fmt.Errorf("delete response: %s", res.Status()))
	}
	return nil
}

// Search runs a keyword query over the profile index.
func (ix *CVIndex) Search(ctx context.Context, q Query) ([]Result, error) {
	body, _ := json.Marshal(buildProfileQuery(q))

	size := q.Size
	if size <= 0 {
		size = 10
	}
	from := q.From

	req := esapi.SearchRequest{
		Index: []string{ix.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}

	res, err := req.Do(ctx, ix.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, stderrors.NewSearchQueryFailedError(ctx.Err())
		}
		return nil, stderrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, stderrors.NewSearchQueryFailedError(fmt.Errorf("search response: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64         `json:"_score"`
				Source ProfileDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, stderrors.NewSearchQueryFailedError(err)
	}

	results := make([]Result, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		results = append(results, Result{Document: hit.Source, Score: hit.Score})
	}
	return results, nil
}

// buildProfileQuery assembles the bool query. Keywords match name, role,
// skills and education with role weighted highest; job, fit level and
// experience act as filters.
func buildProfileQuery(q Query) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if q.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"role^3", "skills^2", "name", "education"},
				"type":   "best_fields",
			},
		})
	}
	if q.JobID != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"jobId": q.JobID},
		})
	}
	if q.FitLevel != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"fitLevel": string(q.FitLevel)},
		})
	}
	if q.MinYears > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"experienceYears": map[string]interface{}{"gte": q.MinYears},
			},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": mustClauses}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

// Indexer tails cv.uploaded events and indexes each profile. Indexing
// failures are logged and skipped, never retried; the store remains the
// source of truth.
type Indexer struct {
	index  *CVIndex
	logger logger.Logger
	errs   *stderrors.ErrorHandler

	cancel func()
	done   chan struct{}
}

func NewIndexer(ix *CVIndex, bus *events.Bus, log logger.Logger) *Indexer {
	scoped := log.WithFields(map[string]interface{}{"component": "cv-indexer"})
	in := &Indexer{
		index:  ix,
		logger: scoped,
		errs:   stderrors.NewErrorHandler(scoped),
		done:   make(chan struct{}),
	}

	ch, cancel := bus.Subscribe(events.TopicCVUploaded)
	in.cancel = cancel

	go func() {
		defer close(in.done)
		for evt := range ch {
			payload, ok := evt.Payload.(events.CVEvent)
			if !ok {
				continue
			}
			ctx, cancelOp := context.WithTimeout(context.Background(), 10*time.Second)
			if err := in.index.IndexCV(ctx, payload.JobID, payload.CV); err != nil {
				in.errs.Handle("IndexCV "+payload.CV.ID, err)
			}
			cancelOp()
		}
	}()

	return in
}

// Close unsubscribes and waits for in-flight indexing to finish.
func (in *Indexer) Close() {
	in.cancel()
	<-in.done
}
