package analysis

import (
	"fmt"
	"strings"
)

// SwotPointsPerCategory is fixed: every competitor gets exactly this many
// points in each of the four categories.
const SwotPointsPerCategory = 3

type swotTemplate struct {
	point    string
	evidence string
	impact   Impact
}

// Templates take the competitor name as their only argument. Impact is
// fixed per slot so results depend only on competitor identity.
var (
	strengthTemplates = [SwotPointsPerCategory]swotTemplate{
		{"%s users report high satisfaction", "Review platforms rate %s above the category average", ImpactHigh},
		{"Strong integration ecosystem", "%s connects with the productivity tools teams already use", ImpactMedium},
		{"Competitive pricing", "%s pricing sits within the range buyers expect", ImpactLow},
	}
	weaknessTemplates = [SwotPointsPerCategory]swotTemplate{
		{"Limited geographic focus", "Most %s customers are concentrated in a few regions", ImpactHigh},
		{"Basic data export options", "%s offers few formats for exporting workspace data", ImpactMedium},
		{"Usability issues on mobile", "Mobile reviews mention navigation friction in %s", ImpactLow},
	}
	opportunityTemplates = [SwotPointsPerCategory]swotTemplate{
		{"Expansion into AI-assisted workflows", "Demand for meeting and message summaries is growing among %s users", ImpactHigh},
		{"Growing demand from hybrid teams", "Hybrid work keeps widening the audience %s can serve", ImpactMedium},
		{"Vertical-specific offerings", "Regulated industries lack tailored tooling that %s could provide", ImpactLow},
	}
	threatTemplates = [SwotPointsPerCategory]swotTemplate{
		{"Intense competition from bundled suites", "Office suites bundle chat and video at little extra cost to %s buyers", ImpactHigh},
		{"Pricing pressure from free alternatives", "Free tiers elsewhere cap what %s can charge small teams", ImpactMedium},
		{"Evolving data privacy regulation", "New privacy rules raise compliance costs for %s", ImpactLow},
	}
)

type CompetitorSwot struct {
	CompetitorID  string      `json:"competitorId"`
	Strengths     []SwotPoint `json:"strengths"`
	Weaknesses    []SwotPoint `json:"weaknesses"`
	Opportunities []SwotPoint `json:"opportunities"`
	Threats       []SwotPoint `json:"threats"`
}

type SwotData struct {
	Competitors  []Competitor     `json:"competitors"`
	SwotAnalyses []CompetitorSwot `json:"swotAnalyses"`
}

func BuildSwot(competitors []Competitor) SwotData {
	data := SwotData{Competitors: cloneCompetitors(competitors)}
	for _, c := range competitors {
		data.SwotAnalyses = append(data.SwotAnalyses, CompetitorSwot{
			CompetitorID:  c.ID,
			Strengths:     fillSwot(strengthTemplates, c.Name),
			Weaknesses:    fillSwot(weaknessTemplates, c.Name),
			Opportunities: fillSwot(opportunityTemplates, c.Name),
			Threats:       fillSwot(threatTemplates, c.Name),
		})
	}
	return data
}

func fillSwot(templates [SwotPointsPerCategory]swotTemplate, name string) []SwotPoint {
	out := make([]SwotPoint, 0, SwotPointsPerCategory)
	for _, t := range templates {
		point := t.point
		if strings.Contains(point, "%s") {
			point = fmt.Sprintf(point, name)
		}
		out = append(out, SwotPoint{
			Point:    point,
			Evidence: fmt.Sprintf(t.evidence, name),
			Impact:   t.impact,
		})
	}
	return out
}
