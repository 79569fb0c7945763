package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"prospector/internal/model"
	"prospector/internal/repository"
	"prospector/pkg/aggregate"
	"prospector/pkg/llm"
	"prospector/pkg/search"
)

// Aggregator runs the fan-out pipeline for one query.
type Aggregator interface {
	Run(ctx context.Context, q search.Query) aggregate.Response
}

// Saver appends a completed search without blocking or failing the response.
type Saver interface {
	SaveAsync(search model.SavedSearch)
}

type SearchHandler struct {
	pipeline  Aggregator
	store     repository.SearchStore
	saver     Saver
	analyzer  llm.Analyzer
	fallback  llm.Analyzer
	providers map[string]bool
	timeout   time.Duration
}

func NewSearchHandler(pipeline Aggregator, store repository.SearchStore, saver Saver, analyzer llm.Analyzer, providers map[string]bool, timeout time.Duration) *SearchHandler {
	return &SearchHandler{
		pipeline:  pipeline,
		store:     store,
		saver:     saver,
		analyzer:  analyzer,
		fallback:  llm.NewRuleBased(),
		providers: providers,
		timeout:   timeout,
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	q := search.Query{
		Location:  strings.TrimSpace(c.Query("location")),
		Category:  strings.TrimSpace(strings.ToLower(c.Query("category"))),
		Timeframe: strings.TrimSpace(strings.ToLower(c.Query("timeframe"))),
		Limit:     getQueryLimit(c),
	}
	h.runSearch(c, q, c.Query("summary") == "true")
}

type searchRequest struct {
	Location  string `json:"location"`
	Category  string `json:"category"`
	Timeframe string `json:"timeframe"`
	Limit     int    `json:"limit"`
	Summary   bool   `json:"summary"`
}

func (h *SearchHandler) SearchPost(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	q := search.Query{
		Location:  strings.TrimSpace(req.Location),
		Category:  strings.TrimSpace(strings.ToLower(req.Category)),
		Timeframe: strings.TrimSpace(strings.ToLower(req.Timeframe)),
		Limit:     clampLimit(req.Limit),
	}
	h.runSearch(c, q, req.Summary)
}

func (h *SearchHandler) runSearch(c *gin.Context, q search.Query, withSummary bool) {
	if q.Location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := h.pipeline.Run(ctx, q)
	res := toSearchResponse(resp)

	if withSummary {
		res.Summary = h.summarize(ctx, resp)
	}

	c.JSON(http.StatusOK, res)

	payload, err := json.Marshal(res)
	if err != nil {
		slog.Error("error encoding search for history", "error", err)
		return
	}
	h.saver.SaveAsync(model.SavedSearch{
		Location:    q.Location,
		Category:    q.Category,
		ResultCount: len(resp.Results),
		Response:    payload,
	})
}

// summarize tries the configured analyzer and degrades to the rule-based one.
// A summarization failure never fails the search response.
func (h *SearchHandler) summarize(ctx context.Context, resp aggregate.Response) *SummaryResponse {
	if len(resp.Results) == 0 {
		return nil
	}

	top := resp.Results
	if len(top) > 5 {
		top = top[:5]
	}
	var b strings.Builder
	for _, r := range top {
		b.WriteString(r.Title)
		if r.Description != "" {
			b.WriteString(": ")
			b.WriteString(r.Description)
		}
		b.WriteString(". ")
	}
	input := llm.AnalyzeInput{Text: strings.TrimSpace(b.String())}

	if h.analyzer != nil {
		if analysis, err := h.analyzer.Analyze(ctx, input); err == nil {
			return toSummaryResponse(analysis)
		} else {
			slog.Warn("analyzer failed, using rule-based fallback", "error", err)
		}
	}

	analysis, err := h.fallback.Analyze(ctx, input)
	if err != nil {
		slog.Error("rule-based analysis failed", "error", err)
		return nil
	}
	return toSummaryResponse(analysis)
}

func (h *SearchHandler) GetHistory(c *gin.Context) {
	limit := getQueryLimit(c)

	searches, err := h.store.List(limit)
	if err != nil {
		slog.Error("error listing search history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}

	items := make([]HistoryItemResponse, 0, len(searches))
	for _, s := range searches {
		items = append(items, HistoryItemResponse{
			ID:          s.ID,
			Location:    s.Location,
			Category:    s.Category,
			ResultCount: s.ResultCount,
			CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, HistoryResponse{Searches: items, Limit: limit})
}

func (h *SearchHandler) DeleteHistory(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.store.Delete(id)
	if err != nil {
		slog.Error("error deleting search", "error", err, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Search not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *SearchHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"providers": h.providers,
	})
}

func toSearchResponse(resp aggregate.Response) SearchResponse {
	results := make([]ResultResponse, 0, len(resp.Results))
	for _, r := range resp.Results {
		rr := ResultResponse{
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
			Source:      r.Source,
			Platform:    r.Platform,
			Location:    r.Location,
			Venue:       r.Venue,
			Price:       r.Price,
			Category:    r.Category,
			Confidence:  r.Confidence,
			Urgency:     r.Urgency,
			Relevance:   r.Relevance,
			RankScore:   r.RankScore,
		}
		if !r.Date.IsZero() {
			rr.Date = r.Date.Format(time.RFC3339)
		}
		results = append(results, rr)
	}

	return SearchResponse{
		Location:         resp.Location,
		Category:         resp.Category,
		Timeframe:        resp.Timeframe,
		Results:          results,
		CountsByCategory: resp.CountsByCategory,
		SourcesAttempted: resp.SourcesAttempted,
		SourcesSucceeded: resp.SourcesSucceeded,
		TotalBeforeLimit: resp.TotalBeforeLimit,
		GeneratedAt:      resp.GeneratedAt.Format(time.RFC3339),
	}
}

func toSummaryResponse(a *llm.Analysis) *SummaryResponse {
	return &SummaryResponse{
		Summary:    a.Summary,
		Categories: a.Categories,
		Keywords:   a.Keywords,
		Sentiment:  a.Sentiment,
		ModelUsed:  a.ModelUsed,
	}
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)
	if param == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}
	return parsed
}

func getQueryLimit(c *gin.Context) int {
	const defaultLimit = 50
	return clampLimit(getQueryInt("limit", defaultLimit, c))
}

func clampLimit(limit int) int {
	const (
		defaultLimit = 50
		maxLimit     = 100
	)

	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}
	return limit
}
