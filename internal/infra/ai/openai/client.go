package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/kangopak/ohisee-api/internal/domain/knowledge"
	"github.com/kangopak/ohisee-api/internal/domain/quality"
	"github.com/kangopak/ohisee-api/internal/infra/ai/prompt"
)

const maxTokens = 2048

type Client struct {
	*openai.Client
	Model string

	// Knowledge supplies procedure clauses for rewrite suggestions.
	// Optional; suggestions work without it but cite nothing.
	Knowledge knowledge.Repository
}

func NewClient(apiKey, model string, kb knowledge.Repository) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model, Knowledge: kb}
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Score grades one quality record. The reply is parsed into an
// assessment; sub-scores are clamped so a misbehaving model can never
// award more than each category's maximum.
func (c *Client) Score(ctx context.Context, req quality.ScoreRequest) (quality.Assessment, error) {
	raw, err := c.chat(ctx,
		prompt.ScorerSystemPrompt(req.LanguageLevel),
		prompt.ScorerUserPrompt(req.FormType, req.Record, req.UserRole),
	)
	if err != nil {
		return quality.Assessment{}, err
	}

	var parsed struct {
		Breakdown quality.Breakdown `json:"breakdown"`
		Errors    []quality.Issue   `json:"errors"`
		Warnings  []quality.Issue   `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return quality.Assessment{}, fmt.Errorf("parsing assessment reply: %w", err)
	}
	return quality.NewAssessment(parsed.Breakdown, parsed.Errors, parsed.Warnings), nil
}

// Suggest rewrites one field, grounded in knowledge-base clauses when
// a knowledge repository is wired.
func (c *Client) Suggest(ctx context.Context, req quality.SuggestRequest) (quality.Suggestion, error) {
	var docs []*knowledge.Document
	if c.Knowledge != nil {
		terms := searchTerms(req)
		found, err := c.Knowledge.Search(ctx, terms, 5)
		if err == nil {
			docs = found
		}
	}

	raw, err := c.chat(ctx, prompt.SuggestSystemPrompt, prompt.SuggestUserPrompt(req, docs))
	if err != nil {
		return quality.Suggestion{}, err
	}

	var s quality.Suggestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return quality.Suggestion{}, fmt.Errorf("parsing suggestion reply: %w", err)
	}
	if s.ProcedureRefs == nil {
		s.ProcedureRefs = []string{}
	}
	return s, nil
}

// searchTerms picks knowledge-base lookup terms from the request: the
// field being rewritten plus any significant words in its current text.
func searchTerms(req quality.SuggestRequest) []string {
	terms := []string{req.Field}
	if req.Record.NCType != "" {
		terms = append(terms, req.Record.NCType)
	}
	for _, w := range strings.Fields(strings.ToLower(req.Text)) {
		w = strings.Trim(w, ".,;:!?()\"'")
		if len(w) >= 6 {
			terms = append(terms, w)
		}
		if len(terms) >= 8 {
			break
		}
	}
	return terms
}
