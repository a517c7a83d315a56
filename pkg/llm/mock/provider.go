package mock

import (
	"context"
	"fmt"
	"strings"

	"ai-docchat/pkg/llm"
)

// Provider answers without a model. It echoes the most relevant excerpt of the
// prompt so the full upload and ask flow can run offline.
type Provider struct {
	Reply func(prompt string) (string, error)
}

var _ llm.LLMProvider = &Provider{}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", fmt.Errorf("mock provider: empty history")
	}

	prompt := history[len(history)-1].Content
	if p.Reply != nil {
		return p.Reply(prompt)
	}
	return echo(prompt), nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func echo(prompt string) string {
	const openTag, closeTag = "<excerpt", "</excerpt>"

	start := strings.Index(prompt, openTag)
	if start < 0 {
		return "I could not find anything about that in the document."
	}
	body := prompt[start:]
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	}
	if end := strings.Index(body, closeTag); end >= 0 {
		body = body[:end]
	}
	return "From the document: " + strings.TrimSpace(body)
}
