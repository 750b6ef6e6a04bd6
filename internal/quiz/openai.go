package quiz

import (
	"context"
	"fmt"
	"time"

	engine "github.com/jason-s-yu/sojourn/engine"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jason-s-yu/sojourn/internal/quiz"

// OpenAIConfig configures an OpenAIGenerator.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string        // Optional; defaults to the public API.
	Timeout time.Duration // Per-request bound; zero means the caller's context only.
}

// OpenAIGenerator asks a chat-completions model for a trial using structured output.
type OpenAIGenerator struct {
	client  openai.Client
	model   string
	timeout time.Duration
	tracer  trace.Tracer
}

// NewOpenAIGenerator builds a generator. Retries are disabled: a slow or
// failed request falls back to static content rather than stalling the turn.
func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	return &OpenAIGenerator{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: cfg.Timeout,
		tracer:  otel.Tracer(tracerName),
	}
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, topic string) (engine.TrialCard, error) {
	ctx, span := g.tracer.Start(ctx, "quiz.Generate", trace.WithAttributes(
		attribute.String("quiz.topic", topic),
		attribute.String("quiz.model", g.model),
	))
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You write short quiz questions for a board game about the travels of Confucius."),
			openai.UserMessage(prompt(topic)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "trial",
					Description: openai.String("A four-option single-choice question"),
					Schema:      trialSchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		return engine.TrialCard{}, fmt.Errorf("quiz: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		span.SetStatus(codes.Error, "no choices")
		return engine.TrialCard{}, ErrEmptyResponse
	}

	card, err := Parse(resp.Choices[0].Message.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid trial")
		return engine.TrialCard{}, err
	}
	span.SetAttributes(attribute.String("quiz.trial_id", card.ID))
	return card, nil
}
