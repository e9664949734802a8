package analysis

import "strings"

type Intent string

const (
	IntentSwot          Intent = "swot"
	IntentFeatures      Intent = "features"
	IntentPricing       Intent = "pricing"
	IntentOpportunities Intent = "opportunities"
	IntentOverview      Intent = "overview"
	IntentFallback      Intent = "fallback"
)

// AnalysisType maps an intent to the result it produces. Fallback produces
// none.
func (i Intent) AnalysisType() (AnalysisType, bool) {
	switch i {
	case IntentSwot:
		return TypeSwot, true
	case IntentFeatures:
		return TypeFeatures, true
	case IntentPricing:
		return TypePricing, true
	case IntentOpportunities:
		return TypeOpportunities, true
	case IntentOverview:
		return TypeOverview, true
	default:
		return "", false
	}
}

// needsCompetitors reports whether the intent falls back to a default
// competitor set when the message names none.
func (i Intent) needsCompetitors() bool {
	switch i {
	case IntentOverview, IntentSwot, IntentFeatures, IntentPricing:
		return true
	}
	return false
}

type intentRule struct {
	intent   Intent
	keywords []string
}

// Order matters: messages routinely hit several rules and the first wins.
var intentRules = []intentRule{
	{intent: IntentSwot, keywords: []string{"swot", "strength", "weakness", "threat", "opportunit"}},
	{intent: IntentFeatures, keywords: []string{"feature", "compare", "comparison"}},
	{intent: IntentPricing, keywords: []string{"price", "pricing", "cost"}},
	{intent: IntentOpportunities, keywords: []string{"opportunit", "gap", "market"}},
	{intent: IntentOverview, keywords: []string{"competitor", "analyze"}},
}

type Classifier struct {
	rules []intentRule
}

// NewClassifier returns the standard rule table. With opportunitiesFirst the
// swot rule stops claiming "opportunit", so opportunity-only messages reach
// the opportunities rule.
func NewClassifier(opportunitiesFirst bool) *Classifier {
	rules := make([]intentRule, len(intentRules))
	copy(rules, intentRules)
	if opportunitiesFirst {
		var kw []string
		for _, k := range rules[0].keywords {
			if k != "opportunit" {
				kw = append(kw, k)
			}
		}
		rules[0] = intentRule{intent: IntentSwot, keywords: kw}
	}
	return &Classifier{rules: rules}
}

func (c *Classifier) Classify(message string) Intent {
	lower := strings.ToLower(message)
	for _, rule := range c.rules {
		for _, k := range rule.keywords {
			if strings.Contains(lower, k) {
				return rule.intent
			}
		}
	}
	return IntentFallback
}

var defaultClassifier = NewClassifier(false)

// Classify applies the standard rule table.
func Classify(message string) Intent {
	return defaultClassifier.Classify(message)
}
