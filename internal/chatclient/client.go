package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/logger"
)

// Apology replaces the response whenever a turn cannot be completed.
const Apology = "Sorry, there was an error processing your request."

type Reply struct {
	Response       string                   `json:"response"`
	AnalysisResult *analysis.AnalysisResult `json:"analysisResult,omitempty"`
	Suggestions    []string                 `json:"suggestions"`
	SessionID      string                   `json:"session_id"`
	// Failed is set when Response is the apology.
	Failed bool `json:"-"`
}

// Client talks to a remote chat server. It remembers the session id the
// server assigns so consecutive Sends continue one conversation.
type Client struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	sessionID string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) SetSessionID(id string) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

func (c *Client) DoJSON(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	blob, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return blob, resp.StatusCode, fmt.Errorf("%s %s failed status=%d body=%s", method, path, resp.StatusCode, string(blob))
	}
	return blob, resp.StatusCode, nil
}

// Send posts one chat message. Failures never reach the caller as errors;
// they come back as the apology reply.
func (c *Client) Send(ctx context.Context, message string) Reply {
	payload, _ := json.Marshal(map[string]string{
		"message":    message,
		"session_id": c.SessionID(),
	})
	out, _, err := c.DoJSON(ctx, http.MethodPost, "/api/chat", payload)
	if err != nil {
		logger.Log.WithError(err).Warn("chat request failed")
		return apology(c.SessionID())
	}
	var reply Reply
	if err := json.Unmarshal(out, &reply); err != nil {
		logger.Log.WithError(err).Warn("chat response unreadable")
		return apology(c.SessionID())
	}
	if reply.SessionID != "" {
		c.SetSessionID(reply.SessionID)
	}
	return reply
}

// CreateSession starts a fresh server session and switches to it.
func (c *Client) CreateSession(ctx context.Context, product *analysis.ProductInput) (string, error) {
	payload, _ := json.Marshal(map[string]any{"productInput": product})
	out, _, err := c.DoJSON(ctx, http.MethodPost, "/api/sessions", payload)
	if err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.ID) == "" {
		return "", fmt.Errorf("missing id in response")
	}
	c.SetSessionID(resp.ID)
	return resp.ID, nil
}

func apology(sessionID string) Reply {
	return Reply{Response: Apology, SessionID: sessionID, Failed: true}
}
