package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name        string
		message     string
		product     string
		competitors []string
	}{
		{"compare pair", "Compare Slack vs Microsoft Teams", "", []string{"Slack", "Microsoft Teams"}},
		{"compare chain", "Compare Slack vs Microsoft Teams vs Discord", "", []string{"Slack", "Microsoft Teams", "Discord"}},
		{"lower case compare", "compare slack vs microsoft teams", "", []string{"Slack", "Microsoft Teams"}},
		{"analysis on", "Perform SWOT analysis on Notion and Asana", "", []string{"Notion", "Asana"}},
		{"of list", "What are the weaknesses of Zoom and Google Meet?", "", []string{"Zoom", "Google Meet"}},
		{"for and vs", "Show me SWOT and pricing for Slack vs Notion", "", []string{"Slack", "Notion"}},
		{"against list", "How does my CRM stack up against HubSpot, Salesforce and Pipedrive?", "", []string{"HubSpot", "Salesforce", "Pipedrive"}},
		{"product only", "Analyze competitors for my project management tool", "project management tool", []string{}},
		{"product with comparison", "Analyze the market for my fitness app, compared to Strava", "fitness app", []string{"Strava"}},
		{"of my product", "Give me an analysis of my budgeting app vs Mint", "budgeting app", []string{"Mint"}},
		{"duplicates collapse", "Compare Zoom vs zoom vs ZOOM", "", []string{"Zoom"}},
		{"generic nouns dropped", "Who are my main competitors?", "", []string{}},
		{"code spans ignored", "Try `Compare Slack vs Zoom` next time", "", []string{}},
		{"trailing feature noun", "Compare Slack vs Zoom features", "", []string{"Slack", "Zoom"}},
		{"trailing pricing noun", "Compare Slack and Zoom pricing", "", []string{"Slack", "Zoom"}},
		{"trailing plural nouns", "Compare Notion vs Asana pricing plans", "", []string{"Notion", "Asana"}},
		{"compare to", "How does Zoom compare to Slack on price", "", []string{"Zoom", "Slack"}},
		{"compare with", "Can you compare with Discord?", "", []string{"Discord"}},
		{"bare versus", "Slack vs Zoom pricing", "", []string{"Slack", "Zoom"}},
		{"versus after lead-in", "Is Microsoft Teams versus Slack?", "", []string{"Microsoft Teams", "Slack"}},
		{"versus after lower case", "what about slack vs Zoom", "", []string{"Zoom"}},
		{"empty", "", "", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.message)
			assert.Equal(t, tc.product, got.ProductName)
			assert.Equal(t, tc.competitors, got.Competitors)
		})
	}
}

func TestExtractIsTotal(t *testing.T) {
	inputs := []string{"vs", "compare", "of", "between and", "for my", ",,,", "\n\n", "`", "analysis on ", "日本 vs 中国"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Extract(in) }, in)
	}
}

func TestExtractNonLatinNames(t *testing.T) {
	got := Extract("compare 日本 vs 中国")
	assert.Equal(t, []string{"日本", "中国"}, got.Competitors)
}

func TestCleanNameRejectsLongPhrases(t *testing.T) {
	_, ok := cleanName("One Two Three Four Five", false)
	assert.False(t, ok)

	name, ok := cleanName("the Slack's", false)
	assert.True(t, ok)
	assert.Equal(t, "Slack", name)
}

func TestCleanNameStripsFillerAndTrailingNouns(t *testing.T) {
	name, ok := cleanName("to Slack", true)
	assert.True(t, ok)
	assert.Equal(t, "Slack", name)

	name, ok = cleanName("Google Meet pricing plans", false)
	assert.True(t, ok)
	assert.Equal(t, "Google Meet", name)

	_, ok = cleanName("pricing features", false)
	assert.False(t, ok)
}
