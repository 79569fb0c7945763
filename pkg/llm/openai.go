package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4oMini,
		modelName: "gpt-4o-mini",
	}
}

func (c *OpenAIClient) Analyze(ctx context.Context, input AnalyzeInput) (*Analysis, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(input.Text),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

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
