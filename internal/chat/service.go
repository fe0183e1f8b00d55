package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// FallbackReply is returned whenever the model cannot answer. The client
// treats it as a normal message, so chat degrades instead of erroring.
const FallbackReply = "I'm having trouble connecting right now. Please try again!"

const persona = "You are Catty, a friendly and empathetic AI finance assistant. " +
	"Your role is to help users manage their spending through supportive conversations. " +
	"Be warm, understanding, and provide practical financial advice. " +
	"Keep responses concise and friendly."

// Greeting opens a fresh conversation.
const Greeting = "Hey there! I'm Catty, your AI finance friend! " +
	"I'm here to help you manage your spending and build healthy money habits. " +
	"How can I help you today?"

// DefaultModel is the Gemini model used unless configured otherwise.
const DefaultModel = "gemini-2.0-flash"

// replyGenerator is what the service needs from a model backend.
type replyGenerator interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
}

// Service turns a user message plus spending context into a Catty reply.
// Every failure path collapses into FallbackReply.
type Service struct {
	gen     replyGenerator
	timeout time.Duration
}

func NewService(gen replyGenerator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{gen: gen, timeout: timeout}
}

// Reply never returns an error: the fallback string is the error path.
func (s *Service) Reply(ctx context.Context, spendingContext, userMessage string) string {
	if s.gen == nil {
		return FallbackReply
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := BuildPrompt(spendingContext, userMessage)
	reply, err := s.gen.GenerateReply(ctx, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "Chat reply generation failed", "error", err)
		return FallbackReply
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		slog.WarnContext(ctx, "Chat model returned an empty reply")
		return FallbackReply
	}
	return reply
}

// BuildPrompt assembles the full prompt: persona, the serialized spending
// picture, then the user's message.
func BuildPrompt(spendingContext, userMessage string) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\n")
	if spendingContext != "" {
		b.WriteString(spendingContext)
		b.WriteString("\n")
	}
	b.WriteString("User message: ")
	b.WriteString(userMessage)
	return b.String()
}

// GeminiClient is the production replyGenerator. The API key is taken from
// the environment by the genai SDK (GEMINI_API_KEY / GOOGLE_API_KEY).
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) GenerateReply(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
