package completion

import (
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/llm/chatgpt"
	"github.com/Boltflix/oh-my-freud-backend/pkg/metrics"
)

func (c *completer) usage(resp chatgpt.ChatCompletionResponse, prompt Prompt, text string) metrics.TokenUsage {
	if resp.Usage != nil && resp.Usage.TotalTokens > 0 {
		return metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	if c.tokens == nil {
		return metrics.TokenUsage{}
	}
	promptTokens := c.tokens.Count(prompt.System) + c.tokens.Count(prompt.User)
	completionTokens := c.tokens.Count(text)
	return metrics.TokenUsage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Estimated:        true,
	}
}
