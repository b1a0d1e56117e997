package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dataprosimx/dataprosim/internal/domain"
)

const defaultProviderTimeout = 8 * time.Second

// Observer receives provider attempts and fallbacks.
type Observer interface {
	ObserveProviderCall(provider, operation string, err error, d time.Duration)
	ObserveFallback(operation string)
}

type noopObserver struct{}

func (noopObserver) ObserveProviderCall(string, string, error, time.Duration) {}
func (noopObserver) ObserveFallback(string)                                   {}

// Orchestrator turns typed requests into best-effort typed responses. It
// tries providers in order and degrades to static content; it never returns
// an error to the caller.
type Orchestrator struct {
	providers []Provider
	timeout   time.Duration
	observer  Observer
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProviderTimeout bounds each provider attempt.
func WithProviderTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithObserver sets the attempt observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewOrchestrator creates an Orchestrator over providers, highest priority first.
func NewOrchestrator(providers []Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		providers: providers,
		timeout:   defaultProviderTimeout,
		observer:  noopObserver{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(slog.String("module", "ai"))
	return o
}

// Providers returns the names of the configured providers in order.
func (o *Orchestrator) Providers() []string {
	names := make([]string, len(o.providers))
	for i, p := range o.providers {
		names[i] = p.Name()
	}
	return names
}

// primary returns the first provider only, for operations that do not use
// the full chain.
func (o *Orchestrator) primary() []Provider {
	if len(o.providers) == 0 {
		return nil
	}
	return o.providers[:1]
}

// generate tries providers in order and returns the first non-empty answer
// together with the provider's name. accept may reject a syntactically
// successful answer, which then counts as that provider's failure.
func (o *Orchestrator) generate(ctx context.Context, op string, chain []Provider, req GenerateRequest, accept func(string) error) (string, string, error) {
	var errs []error
	for _, p := range chain {
		text, err := o.attempt(ctx, op, p, req, accept)
		if err == nil {
			return text, p.Name(), nil
		}
		o.logger.Warn("provider attempt failed", "provider", p.Name(), "operation", op, "error", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", "", errors.New("no providers configured")
	}
	return "", "", errors.Join(errs...)
}

func (o *Orchestrator) attempt(ctx context.Context, op string, p Provider, req GenerateRequest, accept func(string) error) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	text, err := p.Generate(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err == nil && accept != nil {
		err = accept(text)
	}
	if err != nil {
		err = wrapProviderError(p.Name(), err)
	}
	o.observer.ObserveProviderCall(p.Name(), op, err, time.Since(start))
	return text, err
}

// Mentor answers a mentor question using the whole provider chain.
func (o *Orchestrator) Mentor(ctx context.Context, req MentorRequest) MentorReply {
	text, source, err := o.generate(ctx, opMentor, o.providers, GenerateRequest{
		System:      mentorSystemPrompt(req.Context),
		Prompt:      req.Message,
		MaxTokens:   mentorMaxTokens,
		Temperature: mentorTemperature,
	}, nil)
	if err != nil {
		o.observer.ObserveFallback(opMentor)
		return MentorReply{Response: FallbackMentorResponse, Source: SourceFallback}
	}
	return MentorReply{Response: text, Source: source}
}

// MentorResponse returns just the mentor answer text.
func (o *Orchestrator) MentorResponse(ctx context.Context, req MentorRequest) string {
	return o.Mentor(ctx, req).Response
}

// ContextualTips generates tips for one workflow stage using the primary
// provider. The tips are returned as parsed; their count is not enforced.
func (o *Orchestrator) ContextualTips(ctx context.Context, req TipsRequest) []domain.ContextualTip {
	prompt, ok := tipPrompts[req.Type]
	if !ok {
		return []domain.ContextualTip{}
	}

	var tips []domain.ContextualTip
	_, _, err := o.generate(ctx, opTips, o.primary(), GenerateRequest{
		System:      tipsSystemPrompt(req),
		Prompt:      prompt,
		MaxTokens:   tipsMaxTokens,
		Temperature: tipsTemperature,
		JSON:        true,
	}, func(text string) error {
		decoded, err := decodeTips(text, req.Type)
		if err != nil {
			return err
		}
		if len(decoded) == 0 {
			return errors.New("no tips in response")
		}
		tips = decoded
		return nil
	})
	if err != nil {
		o.observer.ObserveFallback(opTips)
		return FallbackTips(req.Type)
	}
	return tips
}

// MicroChallenge generates a challenge sized to the user's level using the
// primary provider.
func (o *Orchestrator) MicroChallenge(ctx context.Context, req ChallengeRequest) domain.MicroChallenge {
	difficulty := domain.DifficultyForLevel(req.UserLevel)
	bloom := domain.BloomLevelForLevel(req.UserLevel)

	var payload challengePayload
	_, _, err := o.generate(ctx, opChallenge, o.primary(), GenerateRequest{
		System:      challengeSystemPrompt(req, difficulty, bloom),
		Prompt:      challengePrompt(req.SkillArea, difficulty, bloom),
		MaxTokens:   challengeMaxTokens,
		Temperature: challengeTemperature,
		JSON:        true,
	}, func(text string) error {
		p, err := decodeChallenge(text)
		if err != nil {
			return err
		}
		payload = p
		return nil
	})
	if err != nil {
		o.observer.ObserveFallback(opChallenge)
		return FallbackChallenge(difficulty, o.now())
	}

	c := domain.MicroChallenge{
		ID:                 challengeID("challenge", o.now()),
		Title:              payload.Title,
		Description:        payload.Description,
		Difficulty:         difficulty,
		BloomLevel:         bloom,
		TimeLimit:          payload.TimeLimit,
		XPReward:           payload.XPReward,
		Hints:              payload.Hints,
		ExpectedAnswer:     payload.ExpectedAnswer,
		ValidationCriteria: payload.ValidationCriteria,
	}
	if c.TimeLimit <= 0 {
		c.TimeLimit = defaultTimeLimit
	}
	if c.XPReward <= 0 {
		c.XPReward = defaultXPReward
	}
	if c.Hints == nil {
		c.Hints = []string{}
	}
	if c.ValidationCriteria == nil {
		c.ValidationCriteria = []string{}
	}
	return c
}
