package chatgpt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateChatCompletionSendsPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-test", req.Model)
		require.Equal(t, 1600, req.MaxTokens)
		require.NotNil(t, req.ResponseFormat)
		require.Equal(t, "json_object", req.ResponseFormat.Type)
		require.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-test","choices":[{"message":{"role":"assistant","content":"{\"summary\":\"ok\"}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":12,"completion_tokens":5,"total_tokens":17}}`))
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL+"/v1/")
	require.NoError(t, err)

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:          "gpt-test",
		MaxTokens:      1600,
		ResponseFormat: JSONObjectFormat,
		Messages: []Message{
			{Role: "system", Content: "sys"},
			{Role: "user", Content: "hi"},
		},
	})
	require.NoError(t, err)
	content, ok := resp.FirstContent()
	require.True(t, ok)
	require.Equal(t, `{"summary":"ok"}`, content)
	require.NotNil(t, resp.Usage)
	require.Equal(t, 17, resp.Usage.TotalTokens)
}

func TestCreateChatCompletionReturnsAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"The model 'gpt-x' does not exist","type":"invalid_request_error","code":"model_not_found"}}`))
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL+"/chat/completions")
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "gpt-x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "model_not_found", apiErr.Code)
	require.Contains(t, apiErr.Message, "does not exist")
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()
	_, err := NewClient("  ", "")
	require.Error(t, err)
}

func TestNormalizeBaseURL(t *testing.T) {
	t.Parallel()
	require.Equal(t, defaultBaseURL, normalizeBaseURL(""))
	require.Equal(t, "https://gw.example/v1", normalizeBaseURL("https://gw.example/v1/chat/completions"))
	require.Equal(t, "https://gw.example/v1", normalizeBaseURL("https://gw.example/v1/"))
}

func TestDecodeAPIErrorNumericCode(t *testing.T) {
	t.Parallel()
	apiErr := decodeAPIError(http.StatusTooManyRequests, []byte(`{"error":{"message":"slow down","code":429}}`))
	require.Equal(t, "429", apiErr.Code)
	require.Equal(t, "slow down", apiErr.Message)

	raw := decodeAPIError(http.StatusBadGateway, []byte("upstream down"))
	require.Equal(t, "upstream down", raw.Body)
	require.Contains(t, raw.Error(), "status=502")
}
