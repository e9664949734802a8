package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/chatapi"
	"github.com/joelkehle/competitor-analysis/internal/session"
)

func newLiveServer(t *testing.T) *httptest.Server {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 2, 17, 10, 30, 0, 0, time.UTC) }
	catalog := analysis.NewStaticCatalog(analysis.KnownCompetitors())
	engine := analysis.NewEngine(analysis.Options{Catalog: catalog, Clock: clock})
	store := session.NewStore(session.Options{Engine: engine, Catalog: catalog, Seed: 3, Clock: clock})
	srv := httptest.NewServer(chatapi.NewServer(chatapi.Options{Sessions: store, Catalog: catalog}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSendAgainstServer(t *testing.T) {
	srv := newLiveServer(t)
	c := NewClient(srv.URL + "/")

	reply := c.Send(context.Background(), "Compare Slack vs Zoom")
	assert.False(t, reply.Failed)
	assert.Equal(t, session.DefaultID, reply.SessionID)
	require.NotNil(t, reply.AnalysisResult)
	assert.Equal(t, analysis.TypeFeatures, reply.AnalysisResult.Type)
	assert.Equal(t, session.DefaultID, c.SessionID())
}

func TestCreateSessionSwitchesConversation(t *testing.T) {
	srv := newLiveServer(t)
	c := NewClient(srv.URL)

	id, err := c.CreateSession(context.Background(), &analysis.ProductInput{ProductName: "Acme Chat", MarketSegment: analysis.SegmentB2B})
	require.NoError(t, err)
	assert.NotEqual(t, session.DefaultID, id)

	reply := c.Send(context.Background(), "hello")
	assert.Equal(t, id, reply.SessionID)
	assert.Contains(t, reply.Response, "**Your product:** Acme Chat")
}

func TestSendBlankMessageApologizes(t *testing.T) {
	srv := newLiveServer(t)
	reply := NewClient(srv.URL).Send(context.Background(), " ")
	assert.True(t, reply.Failed)
	assert.Equal(t, Apology, reply.Response)
}

func TestSendServerErrorApologizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reply := NewClient(srv.URL).Send(context.Background(), "hello")
	assert.True(t, reply.Failed)
	assert.Equal(t, Apology, reply.Response)
}

func TestSendMalformedResponseApologizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	reply := NewClient(srv.URL).Send(context.Background(), "hello")
	assert.True(t, reply.Failed)
}

func TestSendUnreachableApologizes(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url)
	c.SetSessionID("s1")
	reply := c.Send(context.Background(), "hello")
	assert.True(t, reply.Failed)
	assert.Equal(t, "s1", reply.SessionID)
}

func TestSendPostsSessionID(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"response":"ok","suggestions":[],"session_id":"s9"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetSessionID("s9")
	reply := c.Send(context.Background(), "hi")
	assert.Equal(t, "ok", reply.Response)
	assert.Equal(t, map[string]string{"message": "hi", "session_id": "s9"}, got)
}
