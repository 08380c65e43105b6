// Package completion wraps the upstream chat model behind a deadline bounded,
// never failing call and turns its raw text into structured data.
package completion

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Boltflix/oh-my-freud-backend/internal/infra/llm/chatgpt"
)

// ChatClient is the upstream transport.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// TokenCounter estimates usage when the upstream omits it.
type TokenCounter interface {
	Count(text string) int
}

// Completer resolves a prompt to an Outcome within its deadline.
type Completer interface {
	Invoke(ctx context.Context, prompt Prompt) Outcome
}

// Prompt is the model input built by a domain prompt builder.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
	JSONMode    bool
}

// Config controls model selection and the deadline.
type Config struct {
	// Models is the ordered candidate list; the first entry is the primary.
	Models      []string
	Deadline    time.Duration
	Temperature float32
	MaxTokens   int
}

type completer struct {
	cfg    Config
	chat   ChatClient
	tokens TokenCounter
	logger *slog.Logger
}

// NewCompleter builds a Completer. A nil chat client is valid and makes every
// call resolve to an upstream error without touching the network.
func NewCompleter(cfg Config, chat ChatClient, tokens TokenCounter, logger *slog.Logger) Completer {
	if cfg.Deadline <= 0 {
		cfg.Deadline = 12 * time.Second
	}
	cfg.Models = cleanModels(cfg.Models)
	return &completer{
		cfg:    cfg,
		chat:   chat,
		tokens: tokens,
		logger: logger.With("component", "completion.completer"),
	}
}

func (c *completer) Invoke(ctx context.Context, prompt Prompt) Outcome {
	if c.chat == nil || len(c.cfg.Models) == 0 {
		return UpstreamError(ReasonNotConfigured, errors.New("completion client not configured"))
	}

	if err := ctx.Err(); err != nil {
		return UpstreamError(ReasonCanceled, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Deadline)
	defer cancel()

	// Buffered so an abandoned call can still deliver and exit.
	resultCh := make(chan Outcome, 1)
	go func() {
		resultCh <- c.tryCandidates(callCtx, prompt)
	}()

	select {
	case out := <-resultCh:
		if out.Kind == KindTimeout && ctx.Err() != nil {
			return UpstreamError(ReasonCanceled, ctx.Err())
		}
		return out
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return UpstreamError(ReasonCanceled, ctx.Err())
		}
		c.logger.Warn("completion deadline exceeded", "deadline_ms", c.cfg.Deadline.Milliseconds())
		return Timeout()
	}
}

func (c *completer) tryCandidates(ctx context.Context, prompt Prompt) Outcome {
	req := c.buildRequest(prompt)
	var last Outcome
	for i, model := range c.cfg.Models {
		if ctx.Err() != nil {
			return Timeout()
		}
		req.Model = model
		resp, err := c.chat.CreateChatCompletion(ctx, req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return Timeout()
			}
			last = UpstreamError(ReasonRequestFailed, err)
			last.Model = model
			last.Attempts = i + 1
			if IsModelUnavailable(err) && i+1 < len(c.cfg.Models) {
				c.logger.Warn("model unavailable, trying next candidate", "model", model, "next", c.cfg.Models[i+1], "error", err)
				continue
			}
			return last
		}
		text, ok := resp.FirstContent()
		if !ok {
			out := UpstreamError(ReasonEmptyChoices, errors.New("completion returned no choices"))
			out.Model = model
			out.Attempts = i + 1
			return out
		}
		out := Success(text, model)
		out.Attempts = i + 1
		out.Usage = c.usage(resp, prompt, text)
		return out
	}
	return last
}

func (c *completer) buildRequest(prompt Prompt) chatgpt.ChatCompletionRequest {
	temperature := prompt.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}
	maxTokens := prompt.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}
	req := chatgpt.ChatCompletionRequest{
		Messages: []chatgpt.Message{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if prompt.JSONMode {
		req.ResponseFormat = chatgpt.JSONObjectFormat
	}
	return req
}

func cleanModels(models []string) []string {
	out := make([]string, 0, len(models))
	seen := make(map[string]struct{}, len(models))
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
