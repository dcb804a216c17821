package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const liftMatePrompt = `You're LiftMate, a friendly, high-energy virtual gym bro.
You speak like a seasoned lifter who's always hyped and ready to spot your buddy.
Use casual, motivational "dude bro" language, phrases like "Let's crush it!", "bro", "you got this", "form check, bro", or "fuel those gains".
You specialize in strength training, gym routines, powerlifting, and high-protein meal plans.
Always tailor advice to the user's fitness level, injuries, or diet goals, but keep it light, fun, and full of gym lingo.`

var ErrEmptyReply = errors.New("no response from ChatGPT")

type IChatGPT interface {
	ProcessConversation(ctx context.Context, userMessage string, conversationHistory []ConversationMessage, sessionContext string) (string, error)
}

type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Option func(*openai.ClientConfig)

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(cfg *openai.ClientConfig) { cfg.BaseURL = url }
}

type chatGPTService struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewChatGPT(apiKey string, model string, opts ...Option) IChatGPT {
	if model == "" {
		model = openai.GPT4o
	}

	cfg := openai.DefaultConfig(apiKey)
	for _, opt := range opts {
		opt(&cfg)
	}

	return &chatGPTService{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: 400,
	}
}

// ProcessConversation answers as the LiftMate coach. sessionContext, when not
// empty, is appended to the system prompt.
func (c *chatGPTService) ProcessConversation(
	ctx context.Context,
	userMessage string,
	conversationHistory []ConversationMessage,
	sessionContext string,
) (string, error) {
	prompt := liftMatePrompt
	if sessionContext != "" {
		prompt += "\n\n" + sessionContext
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(conversationHistory)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompt,
	})

	for _, msg := range conversationHistory {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: 0.8,
			MaxTokens:   c.maxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("ChatGPT API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
