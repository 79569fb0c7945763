package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const systemPrompt = `You are an assistant that analyzes aggregated local event and news listings.

Given the listings, produce:
- a short neutral summary paragraph of what is happening
- up to 5 category labels (e.g. music, food, tech, arts, sports, business)
- up to 8 keywords drawn from the listings
- an overall sentiment: one of "positive", "neutral", "negative"

Output as JSON only, no other text:
{
  "summary": "summary paragraph",
  "categories": ["category1", "category2"],
  "keywords": ["keyword1", "keyword2"],
  "sentiment": "neutral"
}`

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.ModelClaudeHaiku4_5,
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicClient) Analyze(ctx context.Context, input AnalyzeInput) (*Analysis, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(input.Text)),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no response from anthropic")
	}

	content := cleanJSONResponse(resp.Content[0].Text)

	var parsed struct {
		Summary    string   `json:"summary"`
		Categories []string `json:"categories"`
		Keywords   []string `json:"keywords"`
		Sentiment  string   `json:"sentiment"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	return &Analysis{
		Summary:    parsed.Summary,
		Categories: parsed.Categories,
		Keywords:   parsed.Keywords,
		Sentiment:  parsed.Sentiment,
		ModelUsed:  c.modelName,
	}, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
