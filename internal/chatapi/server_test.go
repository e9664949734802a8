package chatapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/catalog"
	"github.com/joelkehle/competitor-analysis/internal/config"
	"github.com/joelkehle/competitor-analysis/internal/session"
)

var testNow = time.Date(2026, 2, 17, 10, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, limit config.RateLimitConfig) http.Handler {
	t.Helper()
	clock := func() time.Time { return testNow }
	catalog := analysis.NewStaticCatalog(analysis.KnownCompetitors())
	engine := analysis.NewEngine(analysis.Options{Catalog: catalog, Clock: clock})
	store := session.NewStore(session.Options{Engine: engine, Catalog: catalog, Seed: 1, Clock: clock})
	return NewServer(Options{Sessions: store, Catalog: catalog, RateLimit: limit})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, config.RateLimitConfig{}), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestChatDefaultSession(t *testing.T) {
	h := newTestServer(t, config.RateLimitConfig{})
	rec := do(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "Compare Slack vs Microsoft Teams"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Response       string                   `json:"response"`
		AnalysisResult *analysis.AnalysisResult `json:"analysisResult"`
		Suggestions    []string                 `json:"suggestions"`
		SessionID      string                   `json:"session_id"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, session.DefaultID, resp.SessionID)
	assert.Contains(t, resp.Response, "## Feature Comparison")
	require.NotNil(t, resp.AnalysisResult)
	assert.Equal(t, analysis.TypeFeatures, resp.AnalysisResult.Type)
	assert.NotEmpty(t, resp.Suggestions)

	rec = do(t, h, http.MethodGet, "/api/sessions/default/messages", nil)
	var msgs struct {
		Messages []analysis.ChatMessage `json:"messages"`
	}
	decode(t, rec, &msgs)
	assert.Len(t, msgs.Messages, 3)
}

func TestChatFallbackHasNoResult(t *testing.T) {
	rec := do(t, newTestServer(t, config.RateLimitConfig{}), http.MethodPost, "/api/chat", map[string]string{"message": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "analysisResult")
}

func TestChatBlankMessage(t *testing.T) {
	h := newTestServer(t, config.RateLimitConfig{})
	rec := do(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var env errorEnvelope
	decode(t, rec, &env)
	assert.Equal(t, CodeValidation, env.Error.Code)

	rec = do(t, h, http.MethodGet, "/api/sessions/default", nil)
	var snap session.Snapshot
	decode(t, rec, &snap)
	assert.Equal(t, 1, snap.MessageCount)
}

func TestChatInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	newTestServer(t, config.RateLimitConfig{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatUnknownSession(t *testing.T) {
	rec := do(t, newTestServer(t, config.RateLimitConfig{}), http.MethodPost, "/api/chat",
		map[string]string{"message": "hello", "session_id": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatRecordsSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	h := newTestServer(t, config.RateLimitConfig{})
	do(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "Perform SWOT analysis on Notion and Asana"})
	do(t, h, http.MethodPost, "/api/chat", map[string]string{"message": ""})

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "chat.turn", spans[0].Name())
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "default", attrs["session.id"])
	assert.Equal(t, "swot", attrs["chat.intent"])
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestServer(t, config.RateLimitConfig{})
	rec := do(t, h, http.MethodPost, "/api/sessions", map[string]any{
		"productInput": map[string]string{"productName": "Acme Chat", "marketSegment": "b2b"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var snap session.Snapshot
	decode(t, rec, &snap)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, "Acme Chat", snap.ProductInput.ProductName)

	base := "/api/sessions/" + snap.ID
	rec = do(t, h, http.MethodPost, base+"/competitors", map[string]string{"id": "zoom"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, base+"/competitors", map[string]string{"name": "Rocket Chat"})
	require.Equal(t, http.StatusOK, rec.Code)
	var custom analysis.Competitor
	decode(t, rec, &custom)
	assert.True(t, custom.IsCustom)

	rec = do(t, h, http.MethodPost, base+"/competitors", map[string]string{"id": "myspace"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/chat", map[string]string{"message": "What pricing strategy do competitors use?", "session_id": snap.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var chat struct {
		AnalysisResult analysis.AnalysisResult `json:"analysisResult"`
	}
	decode(t, rec, &chat)
	assert.Equal(t, analysis.TypePricing, chat.AnalysisResult.Type)

	rec = do(t, h, http.MethodGet, base+"/analyses", nil)
	var list struct {
		Analyses []analysis.AnalysisResult `json:"analyses"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Analyses, 1)

	rec = do(t, h, http.MethodGet, base+"/analyses/"+chat.AnalysisResult.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(t, h, http.MethodGet, base+"/analyses/"+chat.AnalysisResult.ID+"?format=html", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<h2>Pricing Analysis</h2>")

	rec = do(t, h, http.MethodGet, base+"/analyses/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompetitorsAndEnhancements(t *testing.T) {
	h := newTestServer(t, config.RateLimitConfig{})
	rec := do(t, h, http.MethodGet, "/api/competitors", nil)
	var comps struct {
		Competitors []analysis.Competitor `json:"competitors"`
	}
	decode(t, rec, &comps)
	assert.Len(t, comps.Competitors, 7)

	rec = do(t, h, http.MethodGet, "/api/enhancements?priority=high", nil)
	var enh struct {
		Enhancements []analysis.Enhancement `json:"enhancements"`
	}
	decode(t, rec, &enh)
	require.Len(t, enh.Enhancements, 4)
	assert.Equal(t, "automation-workflows", enh.Enhancements[0].ID)

	rec = do(t, h, http.MethodGet, "/api/enhancements?priority=low&category=pricing", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enhancements":[]`)

	rec = do(t, h, http.MethodGet, "/api/enhancements?category=hardware", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCompetitorWritesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.Open("sqlite", path, true)
	require.NoError(t, err)
	clock := func() time.Time { return testNow }
	engine := analysis.NewEngine(analysis.Options{Catalog: store, Clock: clock})
	sessions := session.NewStore(session.Options{Engine: engine, Catalog: store, Seed: 1, Clock: clock})
	h := NewServer(Options{Sessions: sessions, Catalog: store})

	rocket := analysis.Competitor{
		ID:      "rocket-chat",
		Name:    "Rocket.Chat",
		URL:     "https://rocket.chat",
		Pricing: analysis.Pricing{Model: "Open Source", StartingPrice: "Free", Currency: "USD"},
	}
	rec := do(t, h, http.MethodPost, "/api/competitors", rocket)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/sessions/default/competitors", session.TrackRequest{ID: "rocket-chat"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/competitors", analysis.Competitor{Name: "No ID"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, store.Close())

	reopened, err := catalog.Open("sqlite", path, true)
	require.NoError(t, err)
	defer reopened.Close()
	c, ok := reopened.Lookup("Rocket.Chat")
	require.True(t, ok)
	assert.Equal(t, "https://rocket.chat", c.URL)
	assert.Len(t, reopened.List(), 8)
}

func TestAddCompetitorReadOnlyCatalog(t *testing.T) {
	h := newTestServer(t, config.RateLimitConfig{})
	rec := do(t, h, http.MethodPost, "/api/competitors", analysis.Competitor{ID: "x", Name: "X"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, config.RateLimitConfig{RPS: 0.001, Burst: 1})
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/competitors", nil).Code)
	rec := do(t, h, http.MethodGet, "/api/competitors", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
}
