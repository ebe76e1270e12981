package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector exposes meal plan generation metrics to Prometheus.
type Collector struct {
	Generations   *prometheus.CounterVec
	Continuations prometheus.Counter
	Failures      prometheus.Counter
	PlanDays      prometheus.Histogram
	Duration      prometheus.Histogram
	Tokens        *prometheus.CounterVec
	Updates       *prometheus.CounterVec
}

// NewCollector registers the metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		Generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "meal_planner_generations_total",
			Help: "Total number of meal plan generations by source",
		}, []string{"source"}),

		Continuations: f.NewCounter(prometheus.CounterOpts{
			Name: "meal_planner_continuations_total",
			Help: "Total number of continuation requests for incomplete plans",
		}),

		Failures: f.NewCounter(prometheus.CounterOpts{
			Name: "meal_planner_failures_total",
			Help: "Total number of generations that ended with error text",
		}),

		PlanDays: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "meal_planner_plan_days",
			Help:    "Number of day blocks found in generated plans",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8},
		}),

		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "meal_planner_generation_duration_seconds",
			Help:    "Wall time of a full generation including continuation",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		}),

		Tokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "meal_planner_tokens_total",
			Help: "Tokens reported by the model by kind",
		}, []string{"kind"}),

		Updates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_bot_updates_total",
			Help: "Telegram updates handled by type",
		}, []string{"type"}),
	}
}

// GenerationOutcome is what a caller knows after a plan has been generated.
type GenerationOutcome struct {
	Source           string
	Days             int
	Continued        bool
	Failed           bool
	Elapsed          time.Duration
	PromptTokens     int
	CompletionTokens int
}

// ObserveGeneration records one finished generation.
func (c *Collector) ObserveGeneration(o GenerationOutcome) {
	c.Generations.WithLabelValues(o.Source).Inc()
	if o.Continued {
		c.Continuations.Inc()
	}
	if o.Failed {
		c.Failures.Inc()
	}
	c.PlanDays.Observe(float64(o.Days))
	c.Duration.Observe(o.Elapsed.Seconds())
	c.Tokens.WithLabelValues("prompt").Add(float64(o.PromptTokens))
	c.Tokens.WithLabelValues("completion").Add(float64(o.CompletionTokens))
}
