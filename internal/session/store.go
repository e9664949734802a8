package session

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
	"github.com/joelkehle/competitor-analysis/internal/logger"
)

// DefaultID names the session used when a caller supplies none.
const DefaultID = "default"

// MaxTrackedCompetitors caps competitors added by explicit selection.
const MaxTrackedCompetitors = 7

var (
	ErrNotFound           = errors.New("session not found")
	ErrAnalysisNotFound   = errors.New("analysis not found")
	ErrTurnInFlight       = errors.New("a turn is already in flight for this session")
	ErrTooManyCompetitors = fmt.Errorf("at most %d competitors can be tracked", MaxTrackedCompetitors)
	ErrUnknownCompetitor  = errors.New("competitor is not in the catalog")
	ErrInvalidCompetitor  = errors.New("competitor needs a catalog id or a name")
)

// Responder runs one turn against a read-only session state.
type Responder interface {
	Respond(message string, state analysis.State, rng analysis.Random) (analysis.Reply, error)
}

type session struct {
	id        string
	createdAt time.Time
	turns     uint64
	busy      atomic.Bool

	mu          sync.RWMutex
	product     *analysis.ProductInput
	competitors []analysis.Competitor
	messages    []analysis.ChatMessage
	analyses    []analysis.AnalysisResult
	narratives  map[string]string
}

// Snapshot is a copy of a session's state safe to hand to callers.
type Snapshot struct {
	ID            string                 `json:"id"`
	CreatedAt     time.Time              `json:"createdAt"`
	ProductInput  *analysis.ProductInput `json:"productInput,omitempty"`
	Competitors   []analysis.Competitor  `json:"competitors"`
	MessageCount  int                    `json:"messageCount"`
	AnalysisCount int                    `json:"analysisCount"`
}

// TurnResult is what one chat turn produced.
type TurnResult struct {
	SessionID   string
	Intent      analysis.Intent
	Message     analysis.ChatMessage
	Result      *analysis.AnalysisResult
	Suggestions []string
}

// TrackRequest selects a catalog competitor by ID or describes a custom one.
type TrackRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Options struct {
	Engine  Responder
	Catalog analysis.Catalog
	// Seed is mixed with the session id and turn number to seed each turn.
	Seed  uint64
	Clock func() time.Time
}

// Store keeps every session in memory. Sessions are independent; a session
// runs at most one turn at a time.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session

	engine  Responder
	catalog analysis.Catalog
	seed    uint64
	now     func() time.Time
}

func NewStore(opts Options) *Store {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	s := &Store{
		sessions: make(map[string]*session),
		engine:   opts.Engine,
		catalog:  opts.Catalog,
		seed:     opts.Seed,
		now:      clock,
	}
	s.add(DefaultID, nil)
	return s
}

// Create opens a new session with a greeting message.
func (s *Store) Create(product *analysis.ProductInput) Snapshot {
	sess := s.add(uuid.NewString(), product)
	logger.Log.WithField("session", sess.id).Debug("session created")
	return sess.snapshot()
}

func (s *Store) add(id string, product *analysis.ProductInput) *session {
	now := s.now()
	sess := &session{
		id:         id,
		createdAt:  now,
		product:    normalizeProduct(product),
		narratives: make(map[string]string),
	}
	sess.messages = append(sess.messages, analysis.ChatMessage{
		ID:          uuid.NewString(),
		Role:        analysis.RoleAssistant,
		Content:     greeting(sess.product),
		Timestamp:   now,
		Suggestions: append([]string(nil), analysis.QuickQuestions...),
	})
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) get(id string) (*session, error) {
	if id == "" {
		id = DefaultID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) Get(id string) (Snapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.snapshot(), nil
}

// Turn answers message in session id. A blank message returns
// analysis.ErrEmptyMessage and leaves the transcript unchanged.
func (s *Store) Turn(id, message string) (TurnResult, error) {
	sess, err := s.get(id)
	if err != nil {
		return TurnResult{}, err
	}
	if !sess.busy.CompareAndSwap(false, true) {
		return TurnResult{}, ErrTurnInFlight
	}
	defer sess.busy.Store(false)

	sess.mu.RLock()
	state := analysis.State{ProductInput: sess.product, Competitors: sess.competitors}
	sess.mu.RUnlock()

	turn := sess.turns + 1
	reply, err := s.engine.Respond(message, state, analysis.NewRandom(s.turnSeed(sess.id, turn)))
	if err != nil {
		return TurnResult{}, err
	}
	sess.turns = turn

	now := s.now()
	out := TurnResult{
		SessionID:   sess.id,
		Intent:      reply.Intent,
		Suggestions: reply.Suggestions,
		Message: analysis.ChatMessage{
			ID:          uuid.NewString(),
			Role:        analysis.RoleAssistant,
			Content:     reply.Narrative,
			Timestamp:   now,
			Suggestions: reply.Suggestions,
		},
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.messages = append(sess.messages, analysis.ChatMessage{
		ID:        uuid.NewString(),
		Role:      analysis.RoleUser,
		Content:   message,
		Timestamp: now,
	})
	sess.messages = append(sess.messages, out.Message)
	sess.product = reply.ProductInput
	sess.competitors = reply.Competitors
	if reply.Result != nil {
		result := *reply.Result
		result.ID = sess.uniqueAnalysisID(result.ID)
		sess.analyses = append(sess.analyses, result)
		sess.narratives[result.ID] = reply.Narrative
		out.Result = &result
	}
	return out, nil
}

func (s *Store) turnSeed(id string, turn uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return s.seed ^ h.Sum64() + turn
}

func (s *Store) Messages(id string) ([]analysis.ChatMessage, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return append([]analysis.ChatMessage(nil), sess.messages...), nil
}

func (s *Store) Analyses(id string) ([]analysis.AnalysisResult, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	out := make([]analysis.AnalysisResult, len(sess.analyses))
	copy(out, sess.analyses)
	return out, nil
}

// Analysis returns one stored result and the narrative of the turn that
// produced it.
func (s *Store) Analysis(id, analysisID string) (analysis.AnalysisResult, string, error) {
	sess, err := s.get(id)
	if err != nil {
		return analysis.AnalysisResult{}, "", err
	}
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	for _, a := range sess.analyses {
		if a.ID == analysisID {
			return a, sess.narratives[a.ID], nil
		}
	}
	return analysis.AnalysisResult{}, "", ErrAnalysisNotFound
}

// Track adds a catalog competitor (by ID) or a custom one (by Name) to the
// session. Tracking an already tracked competitor returns it unchanged.
// While a turn is running the session's competitors belong to that turn, so
// Track returns ErrTurnInFlight.
func (s *Store) Track(id string, req TrackRequest) (analysis.Competitor, error) {
	sess, err := s.get(id)
	if err != nil {
		return analysis.Competitor{}, err
	}
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.busy.Load() {
		return analysis.Competitor{}, ErrTurnInFlight
	}

	var c analysis.Competitor
	switch {
	case req.ID != "":
		if s.catalog == nil {
			return analysis.Competitor{}, ErrUnknownCompetitor
		}
		found, ok := s.catalog.Lookup(req.ID)
		if !ok {
			return analysis.Competitor{}, ErrUnknownCompetitor
		}
		c = found
	case req.Name != "":
		c = customCompetitor(req.Name, req.URL, len(sess.competitors)+1)
	default:
		return analysis.Competitor{}, ErrInvalidCompetitor
	}

	for _, existing := range sess.competitors {
		if existing.ID == c.ID || strings.EqualFold(existing.Name, c.Name) {
			return existing, nil
		}
	}
	if len(sess.competitors) >= MaxTrackedCompetitors {
		return analysis.Competitor{}, ErrTooManyCompetitors
	}
	sess.competitors = append(sess.competitors, c)
	return c, nil
}

func customCompetitor(name, url string, seq int) analysis.Competitor {
	slug := analysis.Slug(name)
	id := "custom-" + slug
	if slug == "" {
		id = fmt.Sprintf("custom-%d", seq)
	}
	if url == "" && slug != "" {
		url = "https://" + slug + ".com"
	}
	return analysis.Competitor{
		ID:          id,
		Name:        name,
		URL:         url,
		Description: "Custom competitor added for tracking.",
		Pricing:     analysis.Pricing{Model: "Unknown", StartingPrice: "Contact Sales", Currency: "USD"},
		KeyInfo: analysis.KeyInfo{
			Founded:      "Unknown",
			Employees:    "Unknown",
			Funding:      "Unknown",
			Headquarters: "Unknown",
		},
		IsCustom: true,
	}
}

// uniqueAnalysisID suffixes -2, -3, ... when two results share a
// millisecond. Caller holds sess.mu.
func (sess *session) uniqueAnalysisID(base string) string {
	taken := func(id string) bool {
		_, ok := sess.narratives[id]
		return ok
	}
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if !taken(id) {
			return id
		}
	}
}

func (sess *session) snapshot() Snapshot {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	snap := Snapshot{
		ID:            sess.id,
		CreatedAt:     sess.createdAt,
		Competitors:   append([]analysis.Competitor{}, sess.competitors...),
		MessageCount:  len(sess.messages),
		AnalysisCount: len(sess.analyses),
	}
	if sess.product != nil {
		p := *sess.product
		snap.ProductInput = &p
	}
	return snap
}

func normalizeProduct(p *analysis.ProductInput) *analysis.ProductInput {
	if p == nil {
		return nil
	}
	out := *p
	out.ProductName = strings.TrimSpace(out.ProductName)
	switch out.MarketSegment {
	case analysis.SegmentB2B, analysis.SegmentB2C, analysis.SegmentNotSure:
	default:
		out.MarketSegment = analysis.SegmentNotSure
	}
	return &out
}

func greeting(product *analysis.ProductInput) string {
	var b strings.Builder
	b.WriteString("Hello! I'm your competitive intelligence assistant.")
	if product != nil && product.ProductName != "" {
		fmt.Fprintf(&b, " I'll help you position **%s** in the %s market.", product.ProductName, product.MarketSegment.Label())
	}
	b.WriteString("\n\nNo competitors are tracked yet. Ask for an overview or a SWOT, or name a few rivals to compare.")
	return b.String()
}
