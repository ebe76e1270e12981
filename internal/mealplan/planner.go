package mealplan

import (
	"context"
	"strings"
	"time"

	"weekly-meal-planner/internal/llm"
	"weekly-meal-planner/internal/shared"

	"go.uber.org/zap"
)

// ContinueInstruction is sent with the earlier answer when it stopped before the last day.
const ContinueInstruction = "Please continue the meal plan from where it left off, providing any missing days and details."

// Prefixes for errors that are shown in place of plan text.
const (
	ErrorPrefix             = "Error: "
	ContinuationErrorPrefix = "Error in continuation: "
)

// GenerationResult is the displayable outcome of one or two model round trips.
// Failures are folded into Text with IsError set, so callers always have
// something to show.
type GenerationResult struct {
	Text    string
	IsError bool
	Metas   []shared.AgentMeta
}

// Plan is a generated plan and its day segmentation.
type Plan struct {
	RawText   string
	Days      DailyPlans
	Continued bool
	Failed    bool
	Metas     []shared.AgentMeta
}

// Planner turns a profile into a segmented meal plan.
type Planner struct {
	textGen llm.TextGenerator
	log     *zap.Logger
}

// NewPlanner creates a new Planner instance.
func NewPlanner(textGen llm.TextGenerator, log *zap.Logger) *Planner {
	return &Planner{textGen: textGen, log: log}
}

// Generate builds the prompt, asks the model, completes a truncated answer
// once and splits the result by day. It never fails; errors end up in the text.
func (p *Planner) Generate(ctx context.Context, profile UserProfile) Plan {
	prompt := BuildPrompt(profile)
	initial := p.generate(ctx, prompt)

	continued := !strings.Contains(initial.Text, CompletionMarker)
	final := p.ensureComplete(ctx, profile, initial.Text)
	failed := initial.IsError || final.IsError

	days := SegmentByDay(final.Text)
	p.log.Info("meal plan generated",
		zap.Int("days", days.Len()),
		zap.Bool("continued", continued),
		zap.Bool("failed", failed),
		zap.Int("chars", len(final.Text)),
	)

	return Plan{
		RawText:   final.Text,
		Days:      days,
		Continued: continued,
		Failed:    failed,
		Metas:     append(initial.Metas, final.Metas...),
	}
}

// EnsureComplete asks for one continuation when text lacks the last day's
// header and returns text with the continuation appended.
func (p *Planner) EnsureComplete(ctx context.Context, profile UserProfile, text string) string {
	return p.ensureComplete(ctx, profile, text).Text
}

func (p *Planner) generate(ctx context.Context, prompt string) GenerationResult {
	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		p.log.Error("meal plan generation failed", zap.Error(err))
		return GenerationResult{Text: ErrorPrefix + err.Error(), IsError: true}
	}
	if resp.Truncated {
		p.log.Warn("meal plan hit the output limit", zap.Int("completion_tokens", resp.Usage.CompletionTokens))
	}
	return GenerationResult{
		Text: resp.Content,
		Metas: []shared.AgentMeta{{
			AgentName: "Planner",
			Usage:     resp.Usage,
			Latency:   time.Since(start),
		}},
	}
}

// ensureComplete returns the (possibly extended) text. Metas only cover the continuation call.
func (p *Planner) ensureComplete(ctx context.Context, profile UserProfile, text string) GenerationResult {
	if strings.Contains(text, CompletionMarker) {
		return GenerationResult{Text: text}
	}

	p.log.Info("meal plan incomplete, requesting continuation",
		zap.String("goal", string(profile.Goal)),
		zap.Int("chars", len(text)),
	)

	start := time.Now()
	resp, err := p.textGen.ContinueContent(ctx, llm.ContinuationRequest{
		Prompt:      BuildPrompt(profile),
		PriorText:   text,
		Instruction: ContinueInstruction,
	})
	if err != nil {
		p.log.Error("meal plan continuation failed", zap.Error(err))
		return GenerationResult{Text: text + ContinuationErrorPrefix + err.Error(), IsError: true}
	}

	return GenerationResult{
		Text: text + resp.Content,
		Metas: []shared.AgentMeta{{
			AgentName: "Continuation",
			Usage:     resp.Usage,
			Latency:   time.Since(start),
		}},
	}
}
