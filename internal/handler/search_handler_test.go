package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"prospector/internal/model"
	"prospector/pkg/aggregate"
	"prospector/pkg/search"
)

type fakePipeline struct {
	resp aggregate.Response
	gotQ search.Query
}

func (f *fakePipeline) Run(ctx context.Context, q search.Query) aggregate.Response {
	f.gotQ = q
	return f.resp
}

type fakeStore struct {
	searches []model.SavedSearch
	deleted  bool
	err      error
}

func (f *fakeStore) Save(s *model.SavedSearch) error { return f.err }

func (f *fakeStore) List(limit int) ([]model.SavedSearch, error) {
	return f.searches, f.err
}

func (f *fakeStore) Delete(id string) (bool, error) { return f.deleted, f.err }

type fakeSaver struct {
	saved chan model.SavedSearch
}

func (f *fakeSaver) SaveAsync(s model.SavedSearch) {
	if f.saved != nil {
		f.saved <- s
	}
}

func testResponse() aggregate.Response {
	return aggregate.Response{
		Location: "Austin",
		Category: "music",
		Results: []aggregate.ScoredResult{
			{
				Result: search.Result{
					Title:  "Jazz Night",
					URL:    "https://example.com/jazz",
					Source: "ticketmaster",
					Date:   time.Date(2026, 8, 26, 22, 0, 0, 0, time.UTC),
				},
				Confidence: 1.0,
				Urgency:    1.0,
				Relevance:  1.0,
				Category:   "music",
				RankScore:  3.0,
			},
		},
		CountsByCategory: map[string]int{"music": 1},
		SourcesAttempted: 7,
		SourcesSucceeded: 4,
		TotalBeforeLimit: 1,
		GeneratedAt:      time.Date(2026, 8, 26, 17, 0, 0, 0, time.UTC),
	}
}

func newTestRouter(pipeline Aggregator, store *fakeStore, saver Saver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSearchHandler(pipeline, store, saver, nil, map[string]bool{"ticketmaster": true, "reddit": true}, 5*time.Second)
	r.GET("/api/search", h.Search)
	r.POST("/api/search", h.SearchPost)
	r.GET("/api/history", h.GetHistory)
	r.DELETE("/api/history/:id", h.DeleteHistory)
	r.GET("/api/health", h.GetHealth)
	return r
}

func TestSearchReturnsAggregate(t *testing.T) {
	pipeline := &fakePipeline{resp: testResponse()}
	saver := &fakeSaver{saved: make(chan model.SavedSearch, 1)}
	r := newTestRouter(pipeline, &fakeStore{}, saver)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/search?location=Austin&category=music&limit=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res SearchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Austin", res.Location)
	assert.Equal(t, 1, len(res.Results))
	assert.Equal(t, "Jazz Night", res.Results[0].Title)
	assert.Equal(t, 7, res.SourcesAttempted)
	assert.Equal(t, 4, res.SourcesSucceeded)

	assert.Equal(t, "Austin", pipeline.gotQ.Location)
	assert.Equal(t, "music", pipeline.gotQ.Category)
	assert.Equal(t, 10, pipeline.gotQ.Limit)

	// the completed search is appended asynchronously
	select {
	case saved := <-saver.saved:
		assert.Equal(t, "Austin", saved.Location)
		assert.Equal(t, 1, saved.ResultCount)
	case <-time.After(time.Second):
		t.Fatal("search was not saved")
	}
}

func TestSearchRequiresLocation(t *testing.T) {
	r := newTestRouter(&fakePipeline{}, &fakeStore{}, &fakeSaver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/search?category=music", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchPostBody(t *testing.T) {
	pipeline := &fakePipeline{resp: testResponse()}
	r := newTestRouter(pipeline, &fakeStore{}, &fakeSaver{})

	body := `{"location":"Austin","category":"Music","timeframe":"week","limit":5}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "music", pipeline.gotQ.Category)
	assert.Equal(t, "week", pipeline.gotQ.Timeframe)
	assert.Equal(t, 5, pipeline.gotQ.Limit)
}

func TestSearchWithRuleBasedSummary(t *testing.T) {
	pipeline := &fakePipeline{resp: testResponse()}
	r := newTestRouter(pipeline, &fakeStore{}, &fakeSaver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/search?location=Austin&summary=true", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res SearchResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.Summary == nil {
		t.Fatal("expected a summary")
	}
	assert.Equal(t, "rule-based", res.Summary.ModelUsed)
}

func TestGetHistory(t *testing.T) {
	store := &fakeStore{searches: []model.SavedSearch{
		{ID: "abc", Location: "Austin", Category: "music", ResultCount: 12, CreatedAt: time.Now()},
	}}
	r := newTestRouter(&fakePipeline{}, store, &fakeSaver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/history?limit=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res HistoryResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, len(res.Searches))
	assert.Equal(t, "abc", res.Searches[0].ID)
}

func TestDeleteHistoryNotFound(t *testing.T) {
	r := newTestRouter(&fakePipeline{}, &fakeStore{deleted: false}, &fakeSaver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/history/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryStorageError(t *testing.T) {
	r := newTestRouter(&fakePipeline{}, &fakeStore{err: errors.New("boom")}, &fakeSaver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/history", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthReportsProviderBooleans(t *testing.T) {
	r := newTestRouter(&fakePipeline{}, &fakeStore{}, &fakeSaver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Status    string          `json:"status"`
		Providers map[string]bool `json:"providers"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, true, res.Providers["ticketmaster"])

	// never leak anything beyond booleans
	if strings.Contains(w.Body.String(), "key") {
		t.Fatalf("health body mentions keys: %s", w.Body.String())
	}
}
