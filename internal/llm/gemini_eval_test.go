package llm

import (
	"context"
	"strings"
	"testing"

	"weekly-meal-planner/internal/config"
)

// TestGemini_LiveEval performs a real Gemini round trip, including a chat-history continuation.
// Run with: go test -v ./internal/llm -run TestGemini_LiveEval
func TestGemini_LiveEval(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping live eval in short mode")
	}

	ctx := context.Background()
	cfg, err := config.NewFromEnv()
	if err != nil || cfg.GeminiAPIKey == "" {
		t.Skip("Skipping: No API keys found in environment")
	}

	client, err := NewGeminiClient(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	first, err := client.GenerateContent(ctx, "Reply with exactly: DAY 1: MONDAY")
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if !strings.Contains(strings.ToUpper(first.Content), "MONDAY") {
		t.Errorf("Expected MONDAY in response, got %q", first.Content)
	}

	next, err := client.ContinueContent(ctx, ContinuationRequest{
		Prompt:      "Reply with exactly: DAY 1: MONDAY",
		PriorText:   first.Content,
		Instruction: "Continue with exactly: DAY 2: TUESDAY",
	})
	if err != nil {
		t.Fatalf("ContinueContent failed: %v", err)
	}
	if !strings.Contains(strings.ToUpper(next.Content), "TUESDAY") {
		t.Errorf("Expected TUESDAY in continuation, got %q", next.Content)
	}
	t.Logf("Usage: %+v / %+v", first.Usage, next.Usage)
}
