package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestContinuationTurns(t *testing.T) {
	t.Run("HistoryOpensWithPrompt", func(t *testing.T) {
		history, message := continuationTurns(ContinuationRequest{
			Prompt:      "plan please",
			PriorText:   "DAY 1: MONDAY",
			Instruction: "keep going",
		})

		if len(history) != 2 {
			t.Fatalf("Expected 2 history turns, got %d", len(history))
		}
		if history[0].Role != "user" || history[0].Parts[0] != genai.Text("plan please") {
			t.Errorf("Expected the prompt as the first user turn, got %+v", history[0])
		}
		if history[1].Role != "model" || history[1].Parts[0] != genai.Text("DAY 1: MONDAY") {
			t.Errorf("Expected the prior text as a model turn, got %+v", history[1])
		}
		if len(message) != 1 || message[0] != genai.Text("keep going") {
			t.Errorf("Expected the instruction as the next message, got %+v", message)
		}
	})

	t.Run("NoPromptKeepsPriorTextInMessage", func(t *testing.T) {
		history, message := continuationTurns(ContinuationRequest{
			PriorText:   "DAY 1: MONDAY",
			Instruction: "keep going",
		})

		if len(history) != 0 {
			t.Errorf("Expected no history without a prompt, got %+v", history)
		}
		if len(message) != 2 || message[0] != genai.Text("DAY 1: MONDAY") || message[1] != genai.Text("keep going") {
			t.Errorf("Unexpected message parts %+v", message)
		}
	})
}

func TestGeminiToContentResponse(t *testing.T) {
	c := &geminiClient{modelName: "gemini-test"}

	t.Run("MaxTokensIsTruncated", func(t *testing.T) {
		resp, err := c.toContentResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Parts: []genai.Part{genai.Text("DAY 1: "), genai.Text("MONDAY")}},
				FinishReason: genai.FinishReasonMaxTokens,
			}},
			UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 20, TotalTokenCount: 30},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if resp.Content != "DAY 1: MONDAY" {
			t.Errorf("Expected joined text parts, got %q", resp.Content)
		}
		if !resp.Truncated {
			t.Error("Expected FinishReasonMaxTokens to mark the response truncated")
		}
		if resp.Usage.Model != "gemini-test" || resp.Usage.PromptTokens != 10 || resp.Usage.CompletionTokens != 20 || resp.Usage.TotalTokens != 30 {
			t.Errorf("Unexpected usage %+v", resp.Usage)
		}
	})

	t.Run("StopIsComplete", func(t *testing.T) {
		resp, err := c.toContentResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Parts: []genai.Part{genai.Text("DAY 7: SUNDAY")}},
				FinishReason: genai.FinishReasonStop,
			}},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if resp.Truncated {
			t.Error("Expected FinishReasonStop not to be truncated")
		}
		if resp.Usage.TotalTokens != 0 {
			t.Errorf("Expected zero usage without metadata, got %+v", resp.Usage)
		}
	})

	t.Run("NoCandidates", func(t *testing.T) {
		if _, err := c.toContentResponse(&genai.GenerateContentResponse{}); err == nil {
			t.Error("Expected an error for an empty response")
		}
	})

	t.Run("NonTextParts", func(t *testing.T) {
		_, err := c.toContentResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png", Data: []byte{1}}}},
			}},
		})
		if err == nil || err.Error() != "generated content is not text" {
			t.Errorf("Expected a not-text error, got %v", err)
		}
	})
}
