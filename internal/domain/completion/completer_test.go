package completion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Boltflix/oh-my-freud-backend/internal/infra/llm/chatgpt"
)

func TestInvokeSuccess(t *testing.T) {
	t.Parallel()

	chat := &stubChat{fn: func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
		require.Equal(t, "gpt-primary", req.Model)
		require.Equal(t, 1600, req.MaxTokens)
		require.Equal(t, chatgpt.JSONObjectFormat, req.ResponseFormat)
		require.Equal(t, "system", req.Messages[0].Role)
		return completionWith(`{"summary":"ok"}`, &chatgpt.Usage{PromptTokens: 10, CompletionTokens: 4, TotalTokens: 14}), nil
	}}
	c := newTestCompleter(chat, time.Second, "gpt-primary")

	out := c.Invoke(context.Background(), Prompt{System: "s", User: "u", MaxTokens: 1600, JSONMode: true})
	require.Equal(t, KindSuccess, out.Kind)
	require.Equal(t, `{"summary":"ok"}`, out.Text)
	require.Equal(t, "gpt-primary", out.Model)
	require.Equal(t, 14, out.Usage.TotalTokens)
	require.False(t, out.Usage.Estimated)
	require.Equal(t, 1, chat.callCount())
}

func TestInvokeEstimatesUsageWhenMissing(t *testing.T) {
	t.Parallel()

	chat := &stubChat{fn: func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
		return completionWith("one two three", nil), nil
	}}
	c := NewCompleter(Config{Models: []string{"m"}, Deadline: time.Second}, chat, wordCounter{}, newTestLogger())

	out := c.Invoke(context.Background(), Prompt{System: "a b", User: "c"})
	require.Equal(t, KindSuccess, out.Kind)
	require.True(t, out.Usage.Estimated)
	require.Equal(t, 3, out.Usage.PromptTokens)
	require.Equal(t, 3, out.Usage.CompletionTokens)
	require.Equal(t, 6, out.Usage.TotalTokens)
}

func TestInvokeDeadlineWithNeverResolvingClient(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	chat := &stubChat{fn: func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
		<-block // ignores ctx on purpose
		return chatgpt.ChatCompletionResponse{}, nil
	}}
	deadline := 50 * time.Millisecond
	c := newTestCompleter(chat, deadline, "m")

	start := time.Now()
	out := c.Invoke(context.Background(), Prompt{})
	elapsed := time.Since(start)

	require.Equal(t, KindTimeout, out.Kind)
	require.Less(t, elapsed, deadline+500*time.Millisecond)
}

func TestInvokeCancelsUpstreamOnDeadline(t *testing.T) {
	t.Parallel()

	canceled := make(chan struct{})
	chat := &stubChat{fn: func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
		<-ctx.Done()
		close(canceled)
		return chatgpt.ChatCompletionResponse{}, ctx.Err()
	}}
	c := newTestCompleter(chat, 20*time.Millisecond, "m")

	out := c.Invoke(context.Background(), Prompt{})
	require.Equal(t, KindTimeout, out.Kind)
	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("upstream context was not canceled")
	}
}

func TestInvokeNotConfigured(t *testing.T) {
	t.Parallel()

	c := NewCompleter(Config{Models: []string{"m"}}, nil, nil, newTestLogger())
	out := c.Invoke(context.Background(), Prompt{})
	require.Equal(t, KindUpstreamError, out.Kind)
	require.Equal(t, ReasonNotConfigured, out.Reason)
}

func TestInvokeUpstreamError(t *testing.T) {
	t.Parallel()

	chat := &stubChat{fn: func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
		return chatgpt.ChatCompletionResponse{}, &chatgpt.APIError{StatusCode: http.StatusUnauthorized, Message: "invalid api key"}
	}}
	c := newTestCompleter(chat, time.Second, "a", "b")

	out := c.Invoke(context.Background(), Prompt{})
	require.Equal(t, KindUpstreamError, out.Kind)
	require.Equal(t, ReasonRequestFailed, out.Reason)
	require.Equal(t, 1, chat.callCount(), "auth errors must not move to the next model")
}

func TestInvokeEmptyChoices(t *testing.T) {
	t.Parallel()

	chat := &stubChat{fn: func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
		return chatgpt.ChatCompletionResponse{}, nil
	}}
	out := newTestCompleter(chat, time.Second, "m").Invoke(context.Background(), Prompt{})
	require.Equal(t, KindUpstreamError, out.Kind)
	require.Equal(t, ReasonEmptyChoices, out.Reason)
}

func TestInvokeFallsBackToNextModelWhenUnavailable(t *testing.T) {
	t.Parallel()

	chat := &stubChat{fn: func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
		if req.Model == "gpt-gone" {
			return chatgpt.ChatCompletionResponse{}, &chatgpt.APIError{StatusCode: http.StatusNotFound, Code: "model_not_found"}
		}
		return completionWith("{}", nil), nil
	}}
	c := newTestCompleter(chat, time.Second, "gpt-gone", "gpt-ok")

	out := c.Invoke(context.Background(), Prompt{})
	require.Equal(t, KindSuccess, out.Kind)
	require.Equal(t, "gpt-ok", out.Model)
	require.Equal(t, 2, out.Attempts)
	require.Equal(t, []string{"gpt-gone", "gpt-ok"}, chat.models())
}

func TestInvokeStopsWhenLastCandidateUnavailable(t *testing.T) {
	t.Parallel()

	chat := &stubChat{fn: func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
		return chatgpt.ChatCompletionResponse{}, &chatgpt.APIError{StatusCode: http.StatusNotFound}
	}}
	out := newTestCompleter(chat, time.Second, "a", "b").Invoke(context.Background(), Prompt{})
	require.Equal(t, KindUpstreamError, out.Kind)
	require.Equal(t, "b", out.Model)
	require.Equal(t, 2, chat.callCount())
}

func TestInvokeParentCanceled(t *testing.T) {
	t.Parallel()

	chat := &stubChat{fn: func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
		<-ctx.Done()
		return chatgpt.ChatCompletionResponse{}, ctx.Err()
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := newTestCompleter(chat, time.Second, "m").Invoke(ctx, Prompt{})
	require.Equal(t, KindUpstreamError, out.Kind)
	require.Equal(t, ReasonCanceled, out.Reason)
}

func TestIsModelUnavailable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "not found status", err: &chatgpt.APIError{StatusCode: http.StatusNotFound}, want: true},
		{name: "model_not_found code", err: &chatgpt.APIError{StatusCode: http.StatusBadRequest, Code: "model_not_found"}, want: true},
		{name: "bad request about model", err: &chatgpt.APIError{StatusCode: http.StatusBadRequest, Message: "The model `x` does not exist"}, want: true},
		{name: "forbidden model access", err: &chatgpt.APIError{StatusCode: http.StatusForbidden, Message: "Project has no access to model gpt-5"}, want: true},
		{name: "bad request content", err: &chatgpt.APIError{StatusCode: http.StatusBadRequest, Message: "max_tokens is too large"}, want: false},
		{name: "rate limited", err: &chatgpt.APIError{StatusCode: http.StatusTooManyRequests, Message: "model overloaded"}, want: false},
		{name: "unauthorized", err: &chatgpt.APIError{StatusCode: http.StatusUnauthorized}, want: false},
		{name: "plain error", err: errors.New("model not found"), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, IsModelUnavailable(tc.err))
		})
	}
}

func TestSourceFor(t *testing.T) {
	t.Parallel()
	require.Equal(t, SourceModel, SourceFor(0, 5))
	require.Equal(t, SourceMerged, SourceFor(2, 5))
	require.Equal(t, SourceFallback, SourceFor(5, 5))
}

func newTestCompleter(chat ChatClient, deadline time.Duration, models ...string) Completer {
	return NewCompleter(Config{Models: models, Deadline: deadline, Temperature: 0.7}, chat, nil, newTestLogger())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completionWith(content string, usage *chatgpt.Usage) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{Message: chatgpt.Message{Role: "assistant", Content: content}}},
		Usage:   usage,
	}
}

type stubChat struct {
	mu     sync.Mutex
	fn     func(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
	called []string
}

func (s *stubChat) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.mu.Lock()
	s.called = append(s.called, req.Model)
	s.mu.Unlock()
	return s.fn(ctx, req)
}

func (s *stubChat) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.called)
}

func (s *stubChat) models() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.called...)
}

type wordCounter struct{}

func (wordCounter) Count(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		if r == ' ' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}
