package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/mealplan"
	"weekly-meal-planner/internal/metrics"
	"weekly-meal-planner/internal/session"
	"weekly-meal-planner/internal/shared"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// api is the part of tgbotapi.BotAPI the bot uses.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// PlanGenerator produces a segmented plan for a profile.
type PlanGenerator interface {
	Generate(ctx context.Context, profile mealplan.UserProfile) mealplan.Plan
}

// UsageStore records token usage and reports it back for /metrics.
type UsageStore interface {
	RecordMetas(ctx context.Context, metas []shared.AgentMeta) error
	GetDailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
}

// Bot wraps the Telegram API, the meal planner and per-chat state.
type Bot struct {
	api       api
	planner   PlanGenerator
	sessions  session.Store
	usage     UsageStore
	collector *metrics.Collector
	cfg       *config.Config
	log       *zap.Logger

	flights singleflight.Group
	locks   sync.Map // chat ID -> *sync.Mutex
	wg      sync.WaitGroup
	now     func() time.Time
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	planner PlanGenerator,
	sessions session.Store,
	usage UsageStore,
	collector *metrics.Collector,
	log *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info("authorized on telegram", zap.String("account", botAPI.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := botAPI.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info("webhook set", zap.String("description", resp.Description))

	return newBot(botAPI, cfg, planner, sessions, usage, collector, log), nil
}

func newBot(
	a api,
	cfg *config.Config,
	planner PlanGenerator,
	sessions session.Store,
	usage UsageStore,
	collector *metrics.Collector,
	log *zap.Logger,
) *Bot {
	return &Bot{
		api:       a,
		planner:   planner,
		sessions:  sessions,
		usage:     usage,
		collector: collector,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// Wait blocks until every update being processed has finished.
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.Warn("error parsing update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Telegram retries unless it gets a quick 200, so the work happens in the background.
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.HandleUpdate(context.Background(), *update)
	}()
}

// HandleUpdate processes a single update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if !b.authorize(update.CallbackQuery.From) {
			return
		}
		b.count("callback")
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		if !b.authorize(update.Message.From) {
			return
		}
		b.count("message")
		b.processMessage(ctx, update.Message)
	}
}

func (b *Bot) authorize(from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	if !b.cfg.IsAllowed(from.ID) {
		b.log.Warn("unauthorized access attempt", zap.Int64("user_id", from.ID), zap.String("username", from.UserName))
		return false
	}
	return true
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendMarkdown(msg.Chat.ID, "Send /plan to generate a meal plan or /help to see the options.")
		return
	}

	switch msg.Command() {
	case "start", "help":
		b.sendMarkdown(msg.Chat.ID, helpText)
	case "plan":
		b.handlePlanRequest(ctx, msg)
	case "metrics":
		b.handleMetricsRequest(ctx, msg)
	default:
		b.sendMarkdown(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handlePlanRequest(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	profile, err := parseProfileForm(msg.CommandArguments())
	if err != nil {
		b.sendMarkdown(chatID, renderError(err.Error()+"\n\nSee /help for the form."))
		return
	}

	sent, err := b.api.Send(newMarkdownMessage(chatID, "🧑‍🍳 *Thinking...*\n(Generating your 7-day meal plan)"))
	if err != nil {
		b.log.Error("failed to send initial reply", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	b.log.Info("generating plan",
		zap.Int64("chat_id", chatID),
		zap.String("goal", string(profile.Goal)),
		zap.String("activity", string(profile.Activity)),
	)

	// One generation per chat; a second /plan while one runs waits for the same result.
	v, err, joined := b.flights.Do(strconv.FormatInt(chatID, 10), func() (any, error) {
		return b.generate(ctx, chatID, profile)
	})
	if err != nil {
		b.log.Error("failed to store plan", zap.Int64("chat_id", chatID), zap.Error(err))
		b.editMarkdown(chatID, sent.MessageID, renderError(err.Error()), nil)
		return
	}
	if joined {
		b.log.Debug("joined running generation", zap.Int64("chat_id", chatID))
	}

	b.showSelectedDay(chatID, sent.MessageID, v.(session.UiState))
}

func (b *Bot) generate(ctx context.Context, chatID int64, profile mealplan.UserProfile) (session.UiState, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.GenerationTimeout)
	defer cancel()

	start := b.now()
	plan := b.planner.Generate(ctx, profile)
	elapsed := b.now().Sub(start)

	// Usage and metrics must not use the generation deadline.
	bg := context.WithoutCancel(ctx)
	if err := b.usage.RecordMetas(bg, plan.Metas); err != nil {
		b.log.Warn("failed to record usage", zap.Error(err))
	}
	b.observe(plan, elapsed)

	state := session.WithPlan(plan, b.now())
	mu := b.chatLock(chatID)
	mu.Lock()
	defer mu.Unlock()
	if err := b.sessions.Save(bg, chatID, state); err != nil {
		return session.UiState{}, err
	}
	return state, nil
}

// chatLock serializes reads and writes of one chat's stored state.
func (b *Bot) chatLock(chatID int64) *sync.Mutex {
	mu, _ := b.locks.LoadOrStore(chatID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (b *Bot) observe(plan mealplan.Plan, elapsed time.Duration) {
	if b.collector == nil {
		return
	}
	outcome := metrics.GenerationOutcome{
		Source:    "telegram",
		Days:      plan.Days.Len(),
		Continued: plan.Continued,
		Failed:    plan.Failed,
		Elapsed:   elapsed,
	}
	for _, m := range plan.Metas {
		outcome.PromptTokens += m.Usage.PromptTokens
		outcome.CompletionTokens += m.Usage.CompletionTokens
	}
	b.collector.ObserveGeneration(outcome)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Answer callback to remove spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Debug("failed to answer callback", zap.Error(err))
	}
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	mu := b.chatLock(chatID)
	mu.Lock()
	defer mu.Unlock()

	state, err := b.sessions.Load(ctx, chatID)
	if err != nil {
		b.log.Error("failed to load session", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendMarkdown(chatID, renderError("Could not load your plan. Please try again."))
		return
	}
	if !state.HasPlan() {
		b.sendMarkdown(chatID, "No meal plan yet. Send /plan to generate one.")
		return
	}

	action, rest, _ := strings.Cut(query.Data, "|")
	stamp, arg, _ := strings.Cut(rest, "|")
	if stamp != planStamp(state) {
		// The keyboard belongs to an older plan.
		b.sendMarkdown(chatID, stalePlanNotice)
		return
	}

	switch action {
	case callbackDay:
		index, err := strconv.Atoi(arg)
		if err != nil {
			b.log.Warn("bad day callback", zap.String("data", query.Data))
			return
		}
		next, err := state.SelectIndex(index)
		if err != nil {
			b.sendMarkdown(chatID, stalePlanNotice)
			return
		}
		if err := b.sessions.Save(ctx, chatID, next); err != nil {
			b.log.Error("failed to save session", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		b.showSelectedDay(chatID, messageID, next)
	case callbackDayText:
		_, block, err := state.CurrentBlock()
		if err != nil {
			b.sendMarkdown(chatID, renderError(err.Error()))
			return
		}
		b.sendPlain(chatID, renderRawPlan(block))
	case callbackRaw:
		b.sendPlain(chatID, renderRawPlan(state.RawPlan))
	default:
		b.log.Warn("unknown callback", zap.String("data", query.Data))
	}
}

func (b *Bot) showSelectedDay(chatID int64, messageID int, state session.UiState) {
	day, block, err := state.CurrentBlock()
	if err != nil {
		b.editMarkdown(chatID, messageID, renderError(err.Error()), nil)
		return
	}
	keyboard := renderDaySelector(state.StoredPlan.Days(), day, planStamp(state))
	b.editMarkdown(chatID, messageID, renderMealSections(day, mealplan.SegmentMeals(block)), &keyboard)
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.sendMarkdown(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	usage, err := b.usage.GetDailyUsage(ctx, 7)
	if err != nil {
		b.log.Error("failed to fetch metrics", zap.Error(err))
		b.sendMarkdown(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}
	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))
	b.sendMarkdown(msg.Chat.ID, renderMetricsReport(usage, health))
}

func renderMetricsReport(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d calls)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}

func (b *Bot) count(kind string) {
	if b.collector != nil {
		b.collector.Updates.WithLabelValues(kind).Inc()
	}
}

func newMarkdownMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return msg
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	if _, err := b.api.Send(newMarkdownMessage(chatID, text)); err != nil {
		b.log.Warn("markdown message rejected, resending as plain text", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendPlain(chatID, []string{text})
	}
}

func (b *Bot) sendPlain(chatID int64, chunks []string) {
	for _, chunk := range chunks {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			b.log.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
	}
}

func (b *Bot) editMarkdown(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = keyboard
	_, err := b.api.Send(edit)
	if err == nil {
		return
	}

	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && strings.Contains(tgErr.Message, "message is not modified") {
		return
	}
	b.log.Warn("markdown edit rejected, retrying as plain text", zap.Int64("chat_id", chatID), zap.Error(err))
	edit.ParseMode = ""
	if _, err := b.api.Send(edit); err != nil {
		b.log.Error("failed to edit message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
