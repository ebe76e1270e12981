package llm

import (
	"context"

	"weekly-meal-planner/internal/shared"
)

// SystemInstruction frames every conversation with the model.
const SystemInstruction = "You are a helpful nutrition expert."

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
	// Truncated is set when the service stopped because it hit its output limit.
	Truncated bool
}

// ContinuationRequest asks the model to pick up where an earlier answer stopped.
// Each client decides how to present it (chat history or a single prompt).
type ContinuationRequest struct {
	// Prompt is the user turn that produced PriorText.
	Prompt      string
	PriorText   string
	Instruction string
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
	ContinueContent(ctx context.Context, req ContinuationRequest) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
