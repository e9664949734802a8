package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRuleOrder(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"Show me SWOT and pricing for Slack vs Notion", IntentSwot},
		{"What are the strengths of Zoom?", IntentSwot},
		{"Find opportunities in the CRM market", IntentSwot},
		{"Compare Slack vs Microsoft Teams", IntentFeatures},
		{"Which features matter most?", IntentFeatures},
		{"What does it cost?", IntentPricing},
		{"PRICING please", IntentPricing},
		{"What pricing strategy do competitors use?", IntentPricing},
		{"Where are the gaps?", IntentOpportunities},
		{"How big is this market?", IntentOpportunities},
		{"Analyze competitors for my project management tool", IntentOverview},
		{"Give me a competitor overview", IntentOverview},
		{"hello", IntentFallback},
		{"", IntentFallback},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.message), tc.message)
	}
}

func TestClassifierOpportunitiesFirst(t *testing.T) {
	c := NewClassifier(true)
	assert.Equal(t, IntentOpportunities, c.Classify("Find opportunities in the CRM market"))
	assert.Equal(t, IntentSwot, c.Classify("What are the threats and opportunities?"))
	assert.Equal(t, IntentFeatures, c.Classify("Compare opportunities vs features"))

	// The default table is left alone.
	assert.Equal(t, IntentSwot, Classify("Find opportunities in the CRM market"))
}

func TestIntentAnalysisType(t *testing.T) {
	kind, ok := IntentPricing.AnalysisType()
	assert.True(t, ok)
	assert.Equal(t, TypePricing, kind)

	_, ok = IntentFallback.AnalysisType()
	assert.False(t, ok)
}
