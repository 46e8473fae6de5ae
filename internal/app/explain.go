package app

import (
	"context"
	"fmt"
	"time"

	"github.com/randomtoy/vibecheck/internal/config"
	"github.com/randomtoy/vibecheck/internal/domain"
	"github.com/randomtoy/vibecheck/internal/ports"
)

// Explanation is the application-level output of one generation.
type Explanation struct {
	Text      string
	Model     string
	LatencyMS int64
}

// SpinResult is a spin together with the explanation generated for it.
type SpinResult struct {
	Topic       string
	Outcome     domain.SpinOutcome
	Explanation Explanation
}

// ExplainService orchestrates style selection and LLM generation for one
// entry point's profile.
type ExplainService struct {
	catalog   ports.StyleCatalog
	generator ports.Generator
	rng       domain.RNG
	profile   config.Profile
}

func NewExplainService(catalog ports.StyleCatalog, gen ports.Generator, rng domain.RNG, profile config.Profile) *ExplainService {
	return &ExplainService{
		catalog:   catalog,
		generator: gen,
		rng:       rng,
		profile:   profile,
	}
}

func (s *ExplainService) Profile() config.Profile { return s.profile }

func (s *ExplainService) Styles(ctx context.Context) (domain.Catalog, error) {
	c, err := s.catalog.Catalog(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("get catalog: %w", err)
	}
	return c, nil
}

// Spin picks a style and the wheel rotation that lands on it.
func (s *ExplainService) Spin(ctx context.Context) (domain.SpinOutcome, error) {
	c, err := s.Styles(ctx)
	if err != nil {
		return domain.SpinOutcome{}, err
	}
	out, err := domain.SpinCatalog(c, s.profile.ExtraTurns, s.rng)
	if err != nil {
		return domain.SpinOutcome{}, fmt.Errorf("spin: %w", err)
	}
	return out, nil
}

// Explain asks the generator to explain topic in style. It does not check
// the topic; callers that need a guard apply it themselves.
func (s *ExplainService) Explain(ctx context.Context, topic string, style domain.Style) (Explanation, error) {
	p := domain.BuildPrompt(topic, style.Label)

	start := time.Now()
	out, err := s.generator.Generate(ctx, ports.GenerateInput{
		System:    p.System,
		User:      p.User,
		Model:     s.profile.Model,
		MaxTokens: s.profile.MaxTokens,
	})
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return Explanation{}, fmt.Errorf("generate: %w", err)
	}

	return Explanation{
		Text:      out.Text,
		Model:     generationModel(out.Model, s.profile.Model),
		LatencyMS: latency,
	}, nil
}

// SpinAndExplain spins first, then blocks on generation, so the text is
// ready before the wheel animation starts.
func (s *ExplainService) SpinAndExplain(ctx context.Context, topic string) (SpinResult, error) {
	outcome, err := s.Spin(ctx)
	if err != nil {
		return SpinResult{}, err
	}

	exp, err := s.Explain(ctx, topic, outcome.Style)
	if err != nil {
		return SpinResult{}, err
	}

	return SpinResult{
		Topic:       topic,
		Outcome:     outcome,
		Explanation: exp,
	}, nil
}

func generationModel(fromLLM, fallback string) string {
	if fromLLM != "" {
		return fromLLM
	}
	return fallback
}
