package openai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
	"github.com/seif8911/cyberqr/internal/infra/ai/prompt"
)

const maxTokens = 1024

// The model's self-reported score is clamped so it can neither zero out
// nor single-handedly max the aggregate.
const (
	minModelScore = 10
	maxModelScore = 95
)

type Client struct {
	api   *openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	if apiKey == "" {
		return &Client{Model: model}
	}
	return &Client{api: openai.NewClient(apiKey), Model: model}
}

type assessment struct {
	RiskLevel       string   `json:"riskLevel"`
	RiskScore       int      `json:"riskScore"`
	Threats         []string `json:"threats"`
	Recommendations []string `json:"recommendations"`
	Explanation     string   `json:"explanation"`
}

// Check asks the model for a structured verdict on the URL. Missing
// credential means skipped; API or parse failures are absorbed into an
// error placeholder.
func (c *Client) Check(ctx context.Context, rawURL string, cc domain.CheckContext) domain.ProviderResult {
	if c.api == nil {
		return domain.Placeholder(domain.ProviderAIContext, domain.StatusSkipped,
			domain.AIDetails{Reason: "api key not configured"})
	}

	start := time.Now()
	model := c.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(rawURL, cc.DNSExists, cc.DNSRecords)},
		},
	}
	// For reasoning models use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return errorResult(start, model, err.Error())
	}
	if len(resp.Choices) == 0 {
		return errorResult(start, model, "empty completion")
	}

	var out assessment
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return errorResult(start, model, "unparseable model output")
	}

	score := out.RiskScore
	if score < minModelScore {
		score = minModelScore
	}
	if score > maxModelScore {
		score = maxModelScore
	}

	return domain.ProviderResult{
		Provider: domain.ProviderAIContext,
		Verdict:  verdictOf(out.RiskLevel, score),
		Score:    score,
		Status:   domain.StatusOK,
		Details: domain.AIDetails{
			Model:           model,
			Threats:         out.Threats,
			Recommendations: out.Recommendations,
			Explanation:     out.Explanation,
		},
		ElapsedMS: time.Since(start).Milliseconds(),
	}
}

// verdictOf normalizes the model's label, falling back to score
// thresholds when the label is not one of the known values.
func verdictOf(level string, score int) domain.Verdict {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case string(domain.VerdictMalicious):
		return domain.VerdictMalicious
	case string(domain.VerdictCaution):
		return domain.VerdictCaution
	case string(domain.VerdictSafe):
		return domain.VerdictSafe
	}
	switch {
	case score >= 70:
		return domain.VerdictMalicious
	case score >= 35:
		return domain.VerdictCaution
	}
	return domain.VerdictSafe
}

func errorResult(start time.Time, model, reason string) domain.ProviderResult {
	res := domain.Placeholder(domain.ProviderAIContext, domain.StatusError,
		domain.AIDetails{Model: model, Reason: reason})
	res.ElapsedMS = time.Since(start).Milliseconds()
	return res
}
