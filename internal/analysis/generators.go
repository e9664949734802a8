package analysis

import "slices"

var KeyTrends = []string{
	"AI-powered productivity features",
	"Hybrid and remote work enablement",
	"Mobile-first experiences",
	"Enterprise-grade security and compliance",
}

type OverviewSummary struct {
	TotalCompetitors int `json:"totalCompetitors"`
	// MarketLeader is the first competitor listed. No ranking is applied.
	MarketLeader string `json:"marketLeader"`
	// AvgPricing is the mean numeric starting price floored to whole dollars.
	AvgPricing        int      `json:"avgPricing"`
	PricedCompetitors int      `json:"pricedCompetitors"`
	KeyTrends         []string `json:"keyTrends"`
}

type OverviewData struct {
	Competitors []Competitor    `json:"competitors"`
	Summary     OverviewSummary `json:"summary"`
}

func BuildOverview(competitors []Competitor) OverviewData {
	prices := collectPrices(competitors)
	summary := OverviewSummary{
		TotalCompetitors:  len(competitors),
		AvgPricing:        prices.floorMean(),
		PricedCompetitors: prices.Priced,
		KeyTrends:         slices.Clone(KeyTrends),
	}
	if len(competitors) > 0 {
		summary.MarketLeader = competitors[0].Name
	}
	return OverviewData{Competitors: cloneCompetitors(competitors), Summary: summary}
}

var PricingStrategies = []string{"Premium", "Competitive", "Freemium", "Enterprise"}

var tierFeatures = map[string][]string{
	"Basic":      {"Core messaging", "Up to 10 integrations", "5 GB storage per user"},
	"Pro":        {"Unlimited message history", "Unlimited integrations", "Group video calls", "20 GB storage per user"},
	"Enterprise": {"SSO and SCIM provisioning", "Compliance exports", "Dedicated support", "Custom data retention"},
}

type PricingTier struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Features []string `json:"features"`
}

type CompetitorPricing struct {
	CompetitorID string        `json:"competitorId"`
	Strategy     string        `json:"strategy"`
	Tiers        []PricingTier `json:"tiers"`
}

type PricingData struct {
	Competitors       []Competitor        `json:"competitors"`
	PricingStrategies []CompetitorPricing `json:"pricingStrategies"`
	PriceRange        PriceRange          `json:"priceRange"`
}

// BuildPricing draws one strategy per competitor. Pro is twice Basic; a Basic
// price that is not a number leaves Pro as "Contact Sales".
func BuildPricing(competitors []Competitor, rng Random) PricingData {
	data := PricingData{
		Competitors: cloneCompetitors(competitors),
		PriceRange:  collectPrices(competitors).PriceRange,
	}
	for _, c := range competitors {
		strategy := PricingStrategies[rng.IntN(len(PricingStrategies))]
		basic := c.Pricing.StartingPrice
		pro := "Contact Sales"
		if v, ok := ParsePrice(basic); ok {
			pro = formatPrice(2 * v)
		}
		data.PricingStrategies = append(data.PricingStrategies, CompetitorPricing{
			CompetitorID: c.ID,
			Strategy:     strategy,
			Tiers: []PricingTier{
				{Name: "Basic", Price: basic, Features: slices.Clone(tierFeatures["Basic"])},
				{Name: "Pro", Price: pro, Features: slices.Clone(tierFeatures["Pro"])},
				{Name: "Enterprise", Price: "Custom", Features: slices.Clone(tierFeatures["Enterprise"])},
			},
		})
	}
	return data
}

type Opportunity struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MarketSize  string   `json:"marketSize"`
	Timeframe   string   `json:"timeframe"`
	Difficulty  string   `json:"difficulty"`
	Competitors []string `json:"competitors"`
}

type OpportunitiesData struct {
	Opportunities []Opportunity `json:"opportunities"`
}

var marketOpportunities = []Opportunity{
	{
		Title:       "AI-Powered Meeting Intelligence",
		Description: "Automatic summaries and action items from calls, searchable after the meeting ends.",
		MarketSize:  "$4.2B",
		Timeframe:   "6-12 months",
		Difficulty:  "Medium",
		Competitors: []string{"Zoom", "Microsoft Teams"},
	},
	{
		Title:       "Small Business Collaboration Bundle",
		Description: "A simple, low-cost package aimed at teams under 50 people that larger vendors underserve.",
		MarketSize:  "$2.8B",
		Timeframe:   "3-6 months",
		Difficulty:  "Low",
		Competitors: []string{"Slack", "Google Meet"},
	},
	{
		Title:       "Compliance-Ready Messaging in Regulated Industries",
		Description: "Healthcare and finance teams need retention controls and audit trails built in.",
		MarketSize:  "$3.5B",
		Timeframe:   "12-18 months",
		Difficulty:  "High",
		Competitors: []string{"Microsoft Teams", "Cisco Webex"},
	},
	{
		Title:       "Frontline Worker Communication",
		Description: "Mobile-first messaging for staff who never sit at a desk.",
		MarketSize:  "$1.9B",
		Timeframe:   "6-9 months",
		Difficulty:  "Medium",
		Competitors: []string{"Slack", "Discord"},
	},
}

// BuildOpportunities is independent of session state.
func BuildOpportunities() OpportunitiesData {
	out := make([]Opportunity, len(marketOpportunities))
	for i, o := range marketOpportunities {
		o.Competitors = slices.Clone(o.Competitors)
		out[i] = o
	}
	return OpportunitiesData{Opportunities: out}
}

func cloneCompetitors(in []Competitor) []Competitor {
	out := make([]Competitor, len(in))
	copy(out, in)
	return out
}
