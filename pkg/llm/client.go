package llm

import "context"

type AnalyzeInput struct {
	Text string
}

type Analysis struct {
	Summary    string
	Categories []string
	Keywords   []string
	Sentiment  string
	ModelUsed  string
}

// Analyzer summarizes aggregated result text. Implementations may fail;
// callers degrade to the rule-based analyzer and never surface the error.
type Analyzer interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*Analysis, error)
}
