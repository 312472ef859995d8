package narrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"HashClock/internal/domain/models"
	"HashClock/internal/domain/service"
	"HashClock/pkg/config"
	applogger "HashClock/pkg/logger"
)

const systemPrompt = `You are a thoughtful astrologer. Given a natal chart as JSON, write a personal reading in markdown.
Use these sections: Overview, Strengths, Challenges, Opportunities, Cosmic Advice.
Refer to the actual placements, aspects and the elemental and modality balance. Keep it under 900 words.`

type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ service.Narrator = (*OpenAI)(nil)

// OpenAI narrates through a chat completion model and falls back to the
// template when the call fails or returns nothing.
type OpenAI struct {
	client      completer
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	fallback    *Template
	l           *applogger.Logger
}

func NewOpenAI(cfg *config.Config, l *applogger.Logger) *OpenAI {
	oc := openai.DefaultConfig(cfg.Narrator.OpenAIKey)
	if cfg.Narrator.BaseURL != "" {
		oc.BaseURL = cfg.Narrator.BaseURL
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Narrator.Model,
		maxTokens:   cfg.Narrator.MaxTokens,
		temperature: cfg.Narrator.Temperature,
		timeout:     cfg.Narrator.Timeout,
		fallback:    NewTemplate(),
		l:           l.With(applogger.String("component", "narrator")),
	}
}

// New picks the OpenAI narrator when a key is configured, else the template.
func New(cfg *config.Config, l *applogger.Logger) service.Narrator {
	if cfg.Narrator.OpenAIKey == "" {
		return NewTemplate()
	}
	return NewOpenAI(cfg, l)
}

func (n *OpenAI) Narrate(ctx context.Context, name string, sig *models.Signature) (models.Report, error) {
	text, err := n.complete(ctx, name, sig)
	if err != nil {
		n.l.Warn("openai narration failed, using template", applogger.String("model", n.model), applogger.Error(err))
		return n.fallback.Narrate(ctx, name, sig)
	}
	return models.Report{
		Markdown:    text,
		Model:       n.model,
		GeneratedAt: n.fallback.now().UTC(),
	}, nil
}

func (n *OpenAI) complete(ctx context.Context, name string, sig *models.Signature) (string, error) {
	chart, err := json.MarshalIndent(models.NewSignatureResponse(sig), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode chart: %w", err)
	}
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Name: %s\n\nChart:\n```json\n%s\n```", name, chart)},
		},
		MaxTokens:   n.maxTokens,
		Temperature: n.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}
