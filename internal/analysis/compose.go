package analysis

import (
	"fmt"
	"strings"
)

// ExampleQueries are listed by the help reply.
var ExampleQueries = []string{
	"Analyze competitors for my project management tool",
	"Compare Slack vs Microsoft Teams vs Discord",
	"What are the weaknesses of Zoom and Google Meet?",
	"Find opportunities in the CRM market",
	"Perform SWOT analysis on Salesforce and HubSpot",
	"What pricing strategies do video conferencing tools use?",
}

// QuickQuestions seed a fresh conversation.
var QuickQuestions = []string{
	"Who are my main competitors and what are their key strengths?",
	"How does competitor pricing compare and what should I consider?",
	"What improvements should I make based on competitor analysis?",
	"What market opportunities can I identify from this analysis?",
}

var nextSteps = map[Intent][]string{
	IntentOverview:      {"Run a SWOT analysis", "Show the feature matrix", "Break down competitor pricing"},
	IntentSwot:          {"Show the feature matrix", "Break down competitor pricing", "Look for market gaps"},
	IntentFeatures:      {"Break down competitor pricing", "Run a SWOT analysis", "Look for market gaps"},
	IntentPricing:       {"Run a SWOT analysis", "Show the feature matrix", "Look for market gaps"},
	IntentOpportunities: {"Run a SWOT analysis", "Give me a competitor overview"},
	IntentFallback:      QuickQuestions,
}

var resultTitles = map[AnalysisType]string{
	TypeOverview:      "Competitive Overview",
	TypeSwot:          "SWOT Analysis",
	TypeFeatures:      "Feature Comparison",
	TypePricing:       "Pricing Analysis",
	TypeOpportunities: "Market Opportunities",
}

// Narratives never put a competitor name right after a phrase the
// extractor anchors on, so feeding a reply back through Extract yields no
// names the user did not type.
func compose(intent Intent, data any) string {
	var b strings.Builder
	switch d := data.(type) {
	case OverviewData:
		writeOverview(&b, d)
	case SwotData:
		writeSwot(&b, d)
	case FeatureData:
		writeFeatures(&b, d)
	case PricingData:
		writePricing(&b, d)
	case OpportunitiesData:
		writeOpportunities(&b, d)
	default:
		fmt.Fprintf(&b, "No narrative is available for %s.\n", intent)
	}
	return b.String()
}

func suggestionsFor(intent Intent) []string {
	steps := nextSteps[intent]
	out := make([]string, len(steps))
	copy(out, steps)
	return out
}

func writeOverview(b *strings.Builder, d OverviewData) {
	s := d.Summary
	fmt.Fprintf(b, "## Competitive Overview\n\n")
	fmt.Fprintf(b, "**Competitors tracked:** %d\n", s.TotalCompetitors)
	if s.MarketLeader != "" {
		fmt.Fprintf(b, "**Market leader:** %s\n", s.MarketLeader)
	}
	writePriceSummary(b, collectPrices(d.Competitors), len(d.Competitors))
	if s.PricedCompetitors > 0 {
		fmt.Fprintf(b, "**Average starting price:** $%d/mo\n", s.AvgPricing)
	}
	b.WriteString("\n")
	for _, c := range d.Competitors {
		fmt.Fprintf(b, "- **%s**: %s, %s, founded %s, %s\n",
			c.Name, displayPrice(c.Pricing.StartingPrice), c.Pricing.Model, blank(c.KeyInfo.Founded), blank(c.KeyInfo.Headquarters))
	}
	b.WriteString("\n**Key trends:**\n")
	for _, t := range s.KeyTrends {
		fmt.Fprintf(b, "- %s\n", t)
	}
}

func writeSwot(b *strings.Builder, d SwotData) {
	fmt.Fprintf(b, "## SWOT Analysis\n\n")
	fmt.Fprintf(b, "Reviewed %d competitors with %d points per category each.\n", len(d.SwotAnalyses), SwotPointsPerCategory)
	for _, a := range d.SwotAnalyses {
		fmt.Fprintf(b, "\n### %s\n", CompetitorName(d.Competitors, a.CompetitorID))
		writeSwotLead(b, "Strength", a.Strengths)
		writeSwotLead(b, "Weakness", a.Weaknesses)
		writeSwotLead(b, "Opportunity", a.Opportunities)
		writeSwotLead(b, "Threat", a.Threats)
	}
}

func writeSwotLead(b *strings.Builder, label string, points []SwotPoint) {
	if len(points) == 0 {
		return
	}
	fmt.Fprintf(b, "- **%s (%s):** %s\n", label, points[0].Impact, points[0].Point)
}

func writeFeatures(b *strings.Builder, d FeatureData) {
	total := len(d.Features)
	fmt.Fprintf(b, "## Feature Comparison\n\n")
	fmt.Fprintf(b, "Evaluated %d features in %d categories.\n\n", total, len(d.Categories))
	for _, c := range d.Competitors {
		fmt.Fprintf(b, "- **%s**: %d/%d features\n", c.Name, d.Available(c.ID), total)
	}
	if len(d.Competitors) == 0 {
		return
	}
	var common, gaps []string
	for _, name := range d.Features {
		n := 0
		for _, c := range d.Competitors {
			if d.Comparison[c.ID][name] {
				n++
			}
		}
		switch {
		case n == len(d.Competitors) && len(common) < 3:
			common = append(common, name)
		case n == 0 && len(gaps) < 3:
			gaps = append(gaps, name)
		}
	}
	if len(common) > 0 {
		fmt.Fprintf(b, "\n**Offered by everyone:** %s\n", strings.Join(common, ", "))
	}
	if len(gaps) > 0 {
		fmt.Fprintf(b, "**Gaps nobody covers:** %s\n", strings.Join(gaps, ", "))
	}
}

func writePricing(b *strings.Builder, d PricingData) {
	fmt.Fprintf(b, "## Pricing Analysis\n\n")
	writePriceSummary(b, collectPrices(d.Competitors), len(d.Competitors))
	counts := map[string]int{}
	for _, p := range d.PricingStrategies {
		counts[p.Strategy]++
	}
	var mix []string
	for _, s := range PricingStrategies {
		if counts[s] > 0 {
			mix = append(mix, fmt.Sprintf("%s %d", s, counts[s]))
		}
	}
	if len(mix) > 0 {
		fmt.Fprintf(b, "**Strategy mix:** %s\n", strings.Join(mix, ", "))
	}
	b.WriteString("\n")
	for _, p := range d.PricingStrategies {
		fmt.Fprintf(b, "- **%s** (%s):", CompetitorName(d.Competitors, p.CompetitorID), p.Strategy)
		for i, t := range p.Tiers {
			sep := ","
			if i == 0 {
				sep = ""
			}
			fmt.Fprintf(b, "%s %s %s", sep, t.Name, t.Price)
		}
		b.WriteString("\n")
	}
}

func writeOpportunities(b *strings.Builder, d OpportunitiesData) {
	fmt.Fprintf(b, "## Market Opportunities\n\n")
	fmt.Fprintf(b, "%d opportunities identified:\n\n", len(d.Opportunities))
	for _, o := range d.Opportunities {
		fmt.Fprintf(b, "- **%s** (%s difficulty): %s, %s\n", o.Title, o.Difficulty, o.MarketSize, o.Timeframe)
	}
}

// writePriceSummary quotes the range over numeric prices only.
func writePriceSummary(b *strings.Builder, st priceStats, total int) {
	if st.Priced == 0 {
		b.WriteString("**Price range:** no numeric starting prices available\n")
		return
	}
	fmt.Fprintf(b, "**Price range:** %s to %s", formatPrice(st.Min), formatPrice(st.Max))
	if unpriced := total - st.Priced; unpriced > 0 {
		fmt.Fprintf(b, " (%d priced, %d without a public price)", st.Priced, unpriced)
	}
	b.WriteString("\n")
}

func composeFallback(product *ProductInput, tracked int) string {
	var b strings.Builder
	b.WriteString("I can help you size up the competition. Try asking:\n\n")
	for _, q := range ExampleQueries {
		fmt.Fprintf(&b, "- `%s`\n", q)
	}
	b.WriteString("\n")
	if product != nil && product.ProductName != "" {
		fmt.Fprintf(&b, "**Your product:** %s\n", product.ProductName)
	}
	fmt.Fprintf(&b, "**Competitors tracked:** %d\n", tracked)
	return b.String()
}

func displayPrice(p string) string {
	if _, ok := ParsePrice(p); ok {
		return p + "/mo"
	}
	return blank(p)
}

func blank(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}
