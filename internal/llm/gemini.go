package llm

import (
	"context"
	"fmt"
	"strings"

	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/shared"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiClient is a client for the Google Gemini API.
type geminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// GeminiClient is a TextGenerator that owns a network client.
type GeminiClient interface {
	TextGenerator
	Closer
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.GeminiModel)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemInstruction)}}
	return &geminiClient{client: client, model: model, modelName: cfg.GeminiModel}, nil
}

// GenerateContent sends a prompt to the Gemini model and returns the generated text.
func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}
	return c.toContentResponse(resp)
}

// ContinueContent replays the original prompt and the earlier answer as chat
// history and sends the instruction as the next user turn.
func (c *geminiClient) ContinueContent(ctx context.Context, req ContinuationRequest) (ContentResponse, error) {
	cs := c.model.StartChat()
	history, message := continuationTurns(req)
	cs.History = history

	resp, err := cs.SendMessage(ctx, message...)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to continue content: %w", err)
	}
	return c.toContentResponse(resp)
}

// continuationTurns builds the chat history and the next message for a
// continuation. Gemini wants the history to open with a user turn, so without
// a prompt the earlier answer travels inside the message instead.
func continuationTurns(req ContinuationRequest) ([]*genai.Content, []genai.Part) {
	if req.Prompt == "" {
		return nil, []genai.Part{genai.Text(req.PriorText), genai.Text(req.Instruction)}
	}
	history := []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(req.Prompt)}},
		{Role: "model", Parts: []genai.Part{genai.Text(req.PriorText)}},
	}
	return history, []genai.Part{genai.Text(req.Instruction)}
}

func (c *geminiClient) toContentResponse(resp *genai.GenerateContentResponse) (ContentResponse, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	candidate := resp.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return ContentResponse{}, fmt.Errorf("generated content is not text")
	}

	usage := shared.TokenUsage{Model: c.modelName}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return ContentResponse{
		Content:   sb.String(),
		Usage:     usage,
		Truncated: candidate.FinishReason == genai.FinishReasonMaxTokens,
	}, nil
}

// Close closes the underlying Gemini client.
func (c *geminiClient) Close() error {
	return c.client.Close()
}
