package processing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ankago/atlas/chatml"
	"github.com/ankago/atlas/config"
	"github.com/ankago/atlas/engine"
	"github.com/ankago/atlas/extract"
	"github.com/ankago/atlas/server/circuitbreaker"
	"github.com/ankago/atlas/server/metrics"
	"github.com/ankago/atlas/server/validation"
)

// Sampling profile names, used as metric labels.
const (
	profileChat   = "chat"
	profileParse  = "parse"
	profileIntent = "intent"
)

// Processor drives the end-to-end pipeline for every endpoint:
// assemble a ChatML prompt, send it through the circuit breaker to the
// engine, and recover the structured payload from the completion.
//
// Prompts and sampling profiles come from configuration and can be
// swapped at runtime via ApplyConfig, so a config reload takes effect
// without restarting. The engine handle itself is fixed for the
// process lifetime; it is injected here rather than held globally so
// the pipeline is testable without a live model.
type Processor struct {
	engine  engine.Engine
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	tokens  *validation.TokenCounter
	logger  *zap.Logger

	mu               sync.RWMutex
	prompts          config.PromptsConfig
	profiles         config.SamplingProfiles
	maxContextTokens int
}

// NewProcessor creates a processor wired to the given engine. The
// configured sampling profiles are validated up front so a bad config
// fails at startup, not on the first request.
func NewProcessor(cfg *config.Config, eng engine.Engine, m *metrics.Metrics, logger *zap.Logger) (*Processor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if eng == nil {
		return nil, fmt.Errorf("engine instance is required")
	}

	tokens, err := validation.NewTokenCounter("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("create token counter: %w", err)
	}

	var registry = m.Registry()
	breaker := circuitbreaker.NewCircuitBreaker("engine", circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		ResetTimeout:     cfg.CircuitBreaker.ResetTimeout,
		HalfOpenRequests: cfg.CircuitBreaker.HalfOpenRequests,
		TestMode:         cfg.CircuitBreaker.TestMode,
	}, logger, registry)

	p := &Processor{
		engine:  eng,
		breaker: breaker,
		metrics: m,
		tokens:  tokens,
		logger:  logger,
	}

	if err := p.ApplyConfig(cfg); err != nil {
		return nil, err
	}

	return p, nil
}

// ApplyConfig installs new prompts, sampling profiles and context
// budget. It validates the profiles first and leaves the previous
// settings in place when validation fails, which makes it safe to call
// from a config-watcher subscription.
func (p *Processor) ApplyConfig(cfg *config.Config) error {
	for name, profile := range map[string]config.SamplingProfile{
		profileChat:   cfg.Engine.Profiles.Chat,
		profileParse:  cfg.Engine.Profiles.Parse,
		profileIntent: cfg.Engine.Profiles.Intent,
	} {
		if err := validation.Params(samplingParams(profile)); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = cfg.Prompts
	p.profiles = cfg.Engine.Profiles
	p.maxContextTokens = cfg.Engine.MaxContextTokens
	return nil
}

func samplingParams(profile config.SamplingProfile) engine.SamplingParams {
	return engine.SamplingParams{
		Temperature: profile.Temperature,
		MaxTokens:   profile.MaxTokens,
		TopP:        profile.TopP,
	}
}

func (p *Processor) snapshot() (config.PromptsConfig, config.SamplingProfiles, int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prompts, p.profiles, p.maxContextTokens
}

// complete renders the turns and requests one completion from the
// engine under the circuit breaker. The context budget is enforced
// before dispatch so oversized prompts fail fast.
func (p *Processor) complete(ctx context.Context, profileName string, params engine.SamplingParams, maxContext int, turns []chatml.Turn) (string, error) {
	prompt := chatml.Render(turns)

	if err := p.tokens.ValidateBudget(prompt, params.MaxTokens, maxContext); err != nil {
		return "", err
	}

	var completion string
	start := time.Now()
	err := p.breaker.Execute(func() error {
		var engineErr error
		completion, engineErr = p.engine.Complete(ctx, prompt, params)
		return engineErr
	})
	p.metrics.EngineDuration.WithLabelValues(profileName).Observe(time.Since(start).Seconds())

	if err != nil {
		p.metrics.EngineRequests.WithLabelValues(profileName, "error").Inc()
		p.logger.Error("engine completion failed",
			zap.String("profile", profileName),
			zap.Error(err),
		)
		return "", err
	}

	p.metrics.EngineRequests.WithLabelValues(profileName, "success").Inc()
	return completion, nil
}

// Chat generates a free-form assistant reply for a conversation. The
// configured chat persona is prepended as the system turn; the caller's
// turns follow in order.
func (p *Processor) Chat(ctx context.Context, messages []Message) (string, error) {
	prompts, profiles, maxContext := p.snapshot()

	turns := make([]chatml.Turn, 0, len(messages)+1)
	if prompts.Chat != "" {
		turns = append(turns, chatml.System(prompts.Chat))
	}
	for _, msg := range messages {
		turns = append(turns, chatml.Turn{Role: msg.Role, Content: msg.Content})
	}

	return p.complete(ctx, profileChat, samplingParams(profiles.Chat), maxContext, turns)
}

// ParseMessage extracts freight jobs from one raw message. A completion
// with no recoverable JSON degrades to zero jobs rather than an error;
// the extraction-failure counter records the distinction.
func (p *Processor) ParseMessage(ctx context.Context, message string) (ParseResult, error) {
	prompts, profiles, maxContext := p.snapshot()

	turns := []chatml.Turn{
		chatml.System(prompts.Parser),
		chatml.User(message),
	}

	completion, err := p.complete(ctx, profileParse, samplingParams(profiles.Parse), maxContext, turns)
	if err != nil {
		return ParseResult{}, err
	}

	jobs, ok := extract.Jobs(completion)
	if !ok {
		p.metrics.ExtractionFailures.WithLabelValues("array").Inc()
		p.logger.Debug("no job array recovered from completion",
			zap.String("completion", completion),
		)
	}

	return ParseResult{
		Message: message,
		Jobs:    jobs,
		Count:   len(jobs),
	}, nil
}

// ParseBatch applies ParseMessage to each message independently and in
// order, one at a time. One message's extraction failure yields an
// empty job list for that message only; engine errors still propagate
// because they fail every subsequent message the same way.
func (p *Processor) ParseBatch(ctx context.Context, messages []string) (BatchResult, error) {
	results := make([]ParseResult, 0, len(messages))
	total := 0

	for _, msg := range messages {
		res, err := p.ParseMessage(ctx, msg)
		if err != nil {
			return BatchResult{}, err
		}
		results = append(results, res)
		total += res.Count
	}

	return BatchResult{
		Results:   results,
		TotalJobs: total,
	}, nil
}

// ParseIntent classifies one user message, keeping the configured
// number of trailing history turns for context. Extraction failure
// produces the fixed fallback intent ("other") with Success false; the
// raw completion is preserved either way.
func (p *Processor) ParseIntent(ctx context.Context, message string, history []Message) (IntentResult, error) {
	prompts, profiles, maxContext := p.snapshot()

	if n := prompts.HistoryTurns; n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	turns := make([]chatml.Turn, 0, len(history)+2)
	turns = append(turns, chatml.System(prompts.Intent))
	for _, msg := range history {
		turns = append(turns, chatml.Turn{Role: msg.Role, Content: msg.Content})
	}
	turns = append(turns, chatml.User(message))

	completion, err := p.complete(ctx, profileIntent, samplingParams(profiles.Intent), maxContext, turns)
	if err != nil {
		return IntentResult{}, err
	}

	intent, ok := extract.IntentFrom(completion)
	if !ok {
		p.metrics.ExtractionFailures.WithLabelValues("object").Inc()
		p.logger.Debug("no intent object recovered from completion",
			zap.String("completion", completion),
		)
	}

	return IntentResult{
		Intent:      intent,
		Success:     ok,
		RawResponse: completion,
	}, nil
}
