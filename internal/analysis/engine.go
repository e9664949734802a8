package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrEmptyMessage = errors.New("message is empty")

type Options struct {
	// Catalog supplies canonical records. Nil means every name is synthesized.
	Catalog Catalog
	Clock   func() time.Time
	// OpportunitiesFirst lets opportunity-only messages reach the
	// opportunities intent instead of swot.
	OpportunitiesFirst bool
}

// Engine answers one chat turn at a time. It holds no session state and is
// safe for concurrent use; all variation comes from the rng passed to
// Respond and the configured clock.
type Engine struct {
	catalog    Catalog
	classifier *Classifier
	now        func() time.Time
}

func NewEngine(opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		catalog:    opts.Catalog,
		classifier: NewClassifier(opts.OpportunitiesFirst),
		now:        clock,
	}
}

func (e *Engine) Classify(message string) Intent {
	return e.classifier.Classify(message)
}

// Respond runs extraction, classification, synthesis, generation and
// composition for one message. state is read, never modified.
func (e *Engine) Respond(message string, state State, rng Random) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, ErrEmptyMessage
	}
	entities := Extract(message)
	intent := e.classifier.Classify(message)
	product := mergeProduct(state.ProductInput, entities.ProductName)

	reply := Reply{
		Intent:       intent,
		ProductInput: product,
		Competitors:  cloneCompetitors(state.Competitors),
	}
	kind, ok := intent.AnalysisType()
	if !ok {
		reply.Narrative = composeFallback(product, len(state.Competitors))
		reply.Suggestions = suggestionsFor(intent)
		return reply, nil
	}

	segment := SegmentNotSure
	if product != nil && product.MarketSegment != "" {
		segment = product.MarketSegment
	}
	synth := NewSynthesizer(e.catalog, rng, segment)

	var resolved []Competitor
	names := entities.Competitors
	switch {
	case len(names) > 0:
		resolved, reply.Competitors = synth.Resolve(names, state.Competitors)
	case intent.needsCompetitors() && len(state.Competitors) > 0:
		resolved = cloneCompetitors(state.Competitors)
	case intent.needsCompetitors():
		resolved, reply.Competitors = synth.Resolve(DefaultCompetitorNames, state.Competitors)
	}

	data := generate(kind, resolved, rng)
	now := e.now()
	reply.Result = &AnalysisResult{
		ID:        fmt.Sprintf("%s-%d", kind, now.UnixMilli()),
		Type:      kind,
		Title:     resultTitles[kind],
		Data:      data,
		Timestamp: now,
	}
	reply.Narrative = compose(intent, data)
	reply.Suggestions = suggestionsFor(intent)
	return reply, nil
}

func generate(kind AnalysisType, competitors []Competitor, rng Random) any {
	switch kind {
	case TypeOverview:
		return BuildOverview(competitors)
	case TypeSwot:
		return BuildSwot(competitors)
	case TypeFeatures:
		return BuildFeatures(competitors, rng)
	case TypePricing:
		return BuildPricing(competitors, rng)
	default:
		return BuildOpportunities()
	}
}

// mergeProduct keeps an established product name; an inferred name only
// fills an empty one.
func mergeProduct(current *ProductInput, inferred string) *ProductInput {
	if current != nil && current.ProductName != "" {
		p := *current
		return &p
	}
	if inferred == "" {
		if current == nil {
			return nil
		}
		p := *current
		return &p
	}
	p := ProductInput{MarketSegment: SegmentNotSure}
	if current != nil {
		p = *current
	}
	p.ProductName = inferred
	if p.MarketSegment == "" {
		p.MarketSegment = SegmentNotSure
	}
	return &p
}
