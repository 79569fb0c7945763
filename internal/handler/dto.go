package handler

type ResultResponse struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Platform    string  `json:"platform,omitempty"`
	Location    string  `json:"location,omitempty"`
	Venue       string  `json:"venue,omitempty"`
	Date        string  `json:"date,omitempty"`
	Price       string  `json:"price,omitempty"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Urgency     float64 `json:"urgency"`
	Relevance   float64 `json:"relevance"`
	RankScore   float64 `json:"rank_score"`
}

type SummaryResponse struct {
	Summary    string   `json:"summary"`
	Categories []string `json:"categories"`
	Keywords   []string `json:"keywords"`
	Sentiment  string   `json:"sentiment"`
	ModelUsed  string   `json:"model_used"`
}

type SearchResponse struct {
	Location         string           `json:"location"`
	Category         string           `json:"category,omitempty"`
	Timeframe        string           `json:"timeframe,omitempty"`
	Results          []ResultResponse `json:"results"`
	CountsByCategory map[string]int   `json:"counts_by_category"`
	SourcesAttempted int              `json:"sources_attempted"`
	SourcesSucceeded int              `json:"sources_succeeded"`
	TotalBeforeLimit int              `json:"total_before_limit"`
	GeneratedAt      string           `json:"generated_at"`
	Summary          *SummaryResponse `json:"summary,omitempty"`
}

type MetadataResponse struct {
	Author      string `json:"author,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Image       string `json:"image,omitempty"`
	Language    string `json:"language,omitempty"`
}

type ExtractResponse struct {
	URL         string           `json:"url"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	BodyText    string           `json:"body_text,omitempty"`
	ContentKind string           `json:"content_kind,omitempty"`
	Metadata    MetadataResponse `json:"metadata"`
}

type HistoryItemResponse struct {
	ID          string `json:"id"`
	Location    string `json:"location"`
	Category    string `json:"category,omitempty"`
	ResultCount int    `json:"result_count"`
	CreatedAt   string `json:"created_at"`
}

type HistoryResponse struct {
	Searches []HistoryItemResponse `json:"searches"`
	Limit    int                   `json:"limit"`
}
