package program

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/halteresai/server/internal/errors"
)

// ErrGenerationFailed wraps any provider failure during a generation run.
var ErrGenerationFailed = errors.NewSentinel("program generation failed")

// TextGenerator produces a model completion for a prompt pair. It is the
// seam between the pipeline and the LLM provider so tests can stub it.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const generationTemperature = 0.7

// openAIGenerator calls OpenAI chat completions with a JSON-object response
// format. A single attempt per run; retries are the caller's decision.
type openAIGenerator struct {
	client openai.Client
	model  shared.ChatModel
	logger *slog.Logger
}

// NewOpenAIGenerator creates a TextGenerator backed by OpenAI.
func NewOpenAIGenerator(apiKey string, logger *slog.Logger) TextGenerator {
	return &openAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4o,
		logger: logger,
	}
}

func (g *openAIGenerator) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(generationTemperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	g.logger.LogAttrs(ctx, slog.LevelDebug, "sending chat completion request",
		slog.String("model", string(g.model)),
		slog.Int("prompt_length", len(userPrompt)))

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(ErrGenerationFailed, err.Error())
	}
	if len(completion.Choices) == 0 {
		return "", errors.Wrap(ErrGenerationFailed, "no choices in completion")
	}

	g.logger.LogAttrs(ctx, slog.LevelDebug, "received chat completion response",
		slog.Int64("completion_tokens", completion.Usage.CompletionTokens),
		slog.Int64("prompt_tokens", completion.Usage.PromptTokens))

	return completion.Choices[0].Message.Content, nil
}
