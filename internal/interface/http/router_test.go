package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/completion"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/health"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/inlineedit"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/interpretation"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/wellness"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/config"
	"github.com/Boltflix/oh-my-freud-backend/internal/infra/llm/chatgpt"
	apperrors "github.com/Boltflix/oh-my-freud-backend/pkg/errors"
)

func TestRouter_InterpretTimeoutServesFallback(t *testing.T) {
	chat := &blockingChat{}
	deps := newTestDeps(t, chat)

	for _, path := range []string{"/api/interpret", "/interpret", "/api/interpret-dream"} {
		recorder := performRequest(http.MethodPost, path, `{"text":"I was flying over a city at night","lang":"xx"}`, newRouterUnderTest(t, deps))
		require.Equal(t, http.StatusOK, recorder.Code, path)

		var body struct {
			Result map[string]any `json:"result"`
			Meta   map[string]any `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		require.Equal(t, "en-US", body.Result["language"])
		require.NotEmpty(t, body.Result["analysis"])
		require.Equal(t, body.Result["analysis"], body.Result["fullText"])
		require.Len(t, body.Result["symbols"], 6)
		require.Equal(t, "fallback", body.Meta["source"])
		require.Equal(t, "timeout", body.Meta["upstream"])
		require.NotEmpty(t, recorder.Header().Get(requestIDHeader))
	}
	require.Equal(t, 3, chat.callCount())
}

func TestRouter_InterpretMissingInput(t *testing.T) {
	chat := &blockingChat{}
	router := newRouterUnderTest(t, newTestDeps(t, chat))

	for _, payload := range []string{`{"text":""}`, `{"title":"only a title"}`, ``} {
		recorder := performRequest(http.MethodPost, "/api/interpret", payload, router)
		require.Equal(t, http.StatusBadRequest, recorder.Code, payload)

		errBody := decodeErrorBody(t, recorder.Body.Bytes())
		require.Equal(t, apperrors.CodeMissingInput, errBody["error"]["code"])
		require.NotEmpty(t, errBody["error"]["message"])
	}
	require.Equal(t, 0, chat.callCount())
}

func TestRouter_InterpretInvalidJSON(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/interpret", `{"text":123}`, newRouterUnderTest(t, newTestDeps(t, &blockingChat{})))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_Wellness(t *testing.T) {
	router := newRouterUnderTest(t, newTestDeps(t, &blockingChat{}))

	recorder := performRequest(http.MethodPost, "/api/wellness/sleep-hygiene", `{"lang":"es"}`, router)
	require.Equal(t, http.StatusOK, recorder.Code)
	var sleep wellness.SleepBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &sleep))
	require.Equal(t, locale.SpanishES, sleep.Result.Language)
	require.Len(t, sleep.Result.WeeklyPlan, 7)

	recorder = performRequest(http.MethodPost, "/api/wellness/free-association", `{"mode":"neutral"}`, router)
	require.Equal(t, http.StatusOK, recorder.Code)
	var assoc wellness.AssociationBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &assoc))
	require.Equal(t, wellness.ModeNeutral, assoc.Result.Mode)
	require.GreaterOrEqual(t, len(assoc.Result.Session), 8)
}

func TestRouter_Checkout(t *testing.T) {
	deps := newTestDeps(t, &blockingChat{})
	router := newRouterUnderTest(t, deps)

	recorder := performRequest(http.MethodPost, "/api/stripe/checkout?plan=annual", `{}`, router)
	require.Equal(t, http.StatusOK, recorder.Code)
	var resp billing.CheckoutResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Equal(t, "https://checkout.example/cs_1", resp.CheckoutURL)
	require.Equal(t, "price_annual", deps.gateway.lastPriceID())

	recorder = performRequest(http.MethodPost, "/api/create-checkout-session", ``, router)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "price_monthly", deps.gateway.lastPriceID())

	recorder = performRequest(http.MethodPost, "/api/stripe/checkout", `{"plan":"weekly"}`, router)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, apperrors.CodeInvalidPlan, decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_CheckoutNotConfigured(t *testing.T) {
	deps := newTestDeps(t, &blockingChat{})
	deps.billing = billing.NewService(billing.Config{}, nil, nil, nil, newTestLogger())

	recorder := performRequest(http.MethodPost, "/api/stripe/checkout", `{"plan":"monthly"}`, newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	require.Equal(t, apperrors.CodeStripeNotConfigured, decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_StripeWebhook(t *testing.T) {
	deps := newTestDeps(t, &blockingChat{})
	router := newRouterUnderTest(t, deps)

	req := httptest.NewRequest(http.MethodPost, "/api/stripe-webhook", bytes.NewBufferString(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "good")
	rec := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"received":true,"eventType":"checkout.session.completed"}`, rec.Body.String())
	require.Equal(t, `{"id":"evt_1"}`, deps.gateway.lastPayload())

	req = httptest.NewRequest(http.MethodPost, "/api/stripe-webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "bad")
	rec = httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apperrors.CodeInvalidSignature, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_ApplyEdit(t *testing.T) {
	deps := newTestDeps(t, &blockingChat{})

	recorder := performRequest(http.MethodPost, "/api/apply-edit", `{"editId":"e1","newFullText":"x"}`, newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"success":true,"applied":false,"reason":"inline_edit_disabled"}`, recorder.Body.String())

	deps.edits = inlineedit.NewService(inlineedit.Config{Enabled: true}, &memoryEdits{blobs: map[string][]byte{}}, newTestLogger())
	router := newRouterUnderTest(t, deps)

	recorder = performRequest(http.MethodPost, "/api/apply-edit", `{"editId":"e1","newFullText":"a new reading"}`, router)
	require.Equal(t, http.StatusOK, recorder.Code)
	var resp inlineedit.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.True(t, resp.Applied)
	require.Equal(t, "a new reading", resp.NewFullText)

	recorder = performRequest(http.MethodPost, "/api/apply-edit", `{"editId":"e1"}`, router)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, apperrors.CodeMissingFields, decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])

	recorder = performRequest(http.MethodPost, "/api/apply-edit", `{"editId":"../e1","newFullText":"x"}`, router)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, apperrors.CodeInvalidEditID, decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_Health(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/health", ``, newRouterUnderTest(t, newTestDeps(t, &blockingChat{})))
	require.Equal(t, http.StatusOK, recorder.Code)

	var report health.Report
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &report))
	require.True(t, report.OK)
	require.True(t, report.HasOpenAI)
	require.True(t, report.HasStripe)
	require.False(t, report.HasDatabase)
	require.False(t, report.Now.IsZero())
}

func TestRouter_RateLimit(t *testing.T) {
	deps := newTestDeps(t, &blockingChat{})
	deps.cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2}
	router := newRouterUnderTest(t, deps)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, performRequest(http.MethodGet, "/api/health", ``, router).Code)
	}
	recorder := performRequest(http.MethodGet, "/api/health", ``, router)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_CORS(t *testing.T) {
	router := newRouterUnderTest(t, newTestDeps(t, &blockingChat{}))

	req := httptest.NewRequest(http.MethodOptions, "/api/interpret", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, req)
	require.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/interpret", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type testDeps struct {
	cfg       *config.Config
	interpret interpretation.Service
	wellness  wellness.Service
	billing   billing.Service
	edits     inlineedit.Service
	health    health.Service
	gateway   *stubGateway
}

func newTestDeps(t *testing.T, chat completion.ChatClient) *testDeps {
	t.Helper()
	logger := newTestLogger()
	completer := completion.NewCompleter(completion.Config{
		Models:   []string{"gpt-test"},
		Deadline: 30 * time.Millisecond,
	}, chat, nil, logger)

	interpretCatalog, err := interpretation.LoadCatalog(locale.EnglishUS)
	require.NoError(t, err)
	interpretSvc, err := interpretation.NewService(interpretation.Config{
		DefaultLanguage: locale.EnglishUS,
		Thresholds:      interpretation.DefaultThresholds,
		MinTextChars:    3,
		MaxTextChars:    8000,
		MaxTokens:       1600,
		CompatAliases:   true,
	}, completer, interpretCatalog, logger)
	require.NoError(t, err)

	wellnessCatalog, err := wellness.LoadCatalog(locale.EnglishUS)
	require.NoError(t, err)
	wellnessSvc, err := wellness.NewService(wellness.Config{
		DefaultLanguage: locale.EnglishUS,
		Limits:          wellness.DefaultLimits,
	}, completer, wellnessCatalog, logger)
	require.NoError(t, err)

	gateway := &stubGateway{}
	billingSvc := billing.NewService(billing.Config{
		FrontendOrigin: "https://app.example",
		Prices:         map[billing.Plan]string{billing.PlanMonthly: "price_monthly", billing.PlanAnnual: "price_annual"},
		WebhookSecret:  "whsec_test",
	}, gateway, &memorySubs{subs: map[string]billing.Subscription{}}, &memoryEvents{seen: map[string]bool{}}, logger)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			MaxBodyBytes: 1 << 20,
			CORS:         config.CORSConfig{AllowedOrigins: []string{"https://app.example"}},
		},
	}

	return &testDeps{
		cfg:       cfg,
		interpret: interpretSvc,
		wellness:  wellnessSvc,
		billing:   billingSvc,
		edits:     inlineedit.NewService(inlineedit.Config{}, nil, logger),
		health:    health.NewService(health.Integrations{OpenAI: true, Stripe: true, Webhook: true}),
		gateway:   gateway,
	}
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, deps *testDeps) *http.Server {
	t.Helper()
	handler := NewHandler(deps.interpret, deps.wellness, deps.billing, deps.edits, deps.health, newTestLogger())
	return NewRouter(deps.cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

// blockingChat never answers before the caller gives up.
type blockingChat struct {
	mu    sync.Mutex
	calls int
}

func (b *blockingChat) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-ctx.Done()
	return chatgpt.ChatCompletionResponse{}, ctx.Err()
}

func (b *blockingChat) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

type stubGateway struct {
	mu      sync.Mutex
	priceID string
	payload string
}

func (g *stubGateway) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (billing.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.priceID = params.PriceID
	return billing.CheckoutSession{ID: "cs_1", URL: "https://checkout.example/cs_1"}, nil
}

func (g *stubGateway) ConstructEvent(payload []byte, signature, secret string) (billing.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payload = string(payload)
	if signature != "good" {
		return billing.Event{}, io.ErrUnexpectedEOF
	}
	return billing.Event{
		ID:       "evt_1",
		Type:     billing.EventCheckoutCompleted,
		Checkout: &billing.CheckoutCompleted{Email: "dreamer@example.com"},
	}, nil
}

func (g *stubGateway) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	return "", nil
}

func (g *stubGateway) lastPriceID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.priceID
}

func (g *stubGateway) lastPayload() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.payload
}

type memorySubs struct {
	mu   sync.Mutex
	subs map[string]billing.Subscription
}

func (m *memorySubs) Upsert(ctx context.Context, sub billing.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[strings.ToLower(sub.Email)] = sub
	return nil
}

func (m *memorySubs) FindByEmail(ctx context.Context, email string) (billing.Subscription, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[strings.ToLower(email)]
	return sub, ok, nil
}

type memoryEvents struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *memoryEvents) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

func (m *memoryEvents) Release(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, id)
	return nil
}

type memoryEdits struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func (m *memoryEdits) Put(ctx context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = body
	return nil
}
