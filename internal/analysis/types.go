package analysis

import "time"

type MarketSegment string

const (
	SegmentB2B     MarketSegment = "b2b"
	SegmentB2C     MarketSegment = "b2c"
	SegmentNotSure MarketSegment = "not_sure"
)

// Label is the human form used in narratives and synthesized descriptions.
func (s MarketSegment) Label() string {
	switch s {
	case SegmentB2B:
		return "B2B"
	case SegmentB2C:
		return "B2C"
	default:
		return "collaboration software"
	}
}

type ProductInput struct {
	ProductName        string        `json:"productName,omitempty"`
	ProductURL         string        `json:"productUrl,omitempty"`
	ProductDescription string        `json:"productDescription,omitempty"`
	MarketSegment      MarketSegment `json:"marketSegment"`
}

type Pricing struct {
	Model         string `json:"model"`
	StartingPrice string `json:"startingPrice"`
	Currency      string `json:"currency"`
}

type KeyInfo struct {
	Founded      string `json:"founded"`
	Employees    string `json:"employees"`
	Funding      string `json:"funding"`
	Headquarters string `json:"headquarters"`
}

type Competitor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	Pricing     Pricing `json:"pricing"`
	KeyInfo     KeyInfo `json:"keyInfo"`
	MarketShare string  `json:"marketShare,omitempty"`
	IsCustom    bool    `json:"isCustom,omitempty"`
}

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

type SwotPoint struct {
	Point    string `json:"point"`
	Evidence string `json:"evidence"`
	Impact   Impact `json:"impact"`
}

type AnalysisType string

const (
	TypeOverview      AnalysisType = "overview"
	TypeSwot          AnalysisType = "swot"
	TypeFeatures      AnalysisType = "features"
	TypePricing       AnalysisType = "pricing"
	TypeOpportunities AnalysisType = "opportunities"
)

type AnalysisResult struct {
	ID        string       `json:"id"`
	Type      AnalysisType `json:"type"`
	Title     string       `json:"title"`
	Data      any          `json:"data"`
	Timestamp time.Time    `json:"timestamp"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// State is the part of a session the engine reads. The engine never mutates
// it; the updated values come back on Reply.
type State struct {
	ProductInput *ProductInput
	Competitors  []Competitor
}

type Reply struct {
	Narrative    string
	Intent       Intent
	Result       *AnalysisResult
	Suggestions  []string
	ProductInput *ProductInput
	Competitors  []Competitor
}

const UnknownCompetitor = "Unknown competitor"

// CompetitorName resolves an id against a competitor list. Missing ids
// resolve to a placeholder so results referencing removed competitors
// still render.
func CompetitorName(competitors []Competitor, id string) string {
	for _, c := range competitors {
		if c.ID == id {
			return c.Name
		}
	}
	return UnknownCompetitor
}
