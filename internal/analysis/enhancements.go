package analysis

import (
	"errors"
	"slices"
	"strings"
)

var ErrInvalidFilter = errors.New("invalid enhancement filter")

type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

func (l Level) weight() int {
	switch l {
	case LevelHigh:
		return 3
	case LevelMedium:
		return 2
	default:
		return 1
	}
}

type Enhancement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Level    `json:"priority"`
	Effort      Level    `json:"effort"`
	Impact      Level    `json:"impact"`
	BasedOn     []string `json:"basedOn"`
	Category    string   `json:"category"`
}

// Score weighs impact double. Effort counts inversely: low effort scores 3.
func (e Enhancement) Score() float64 {
	effort := 4 - e.Effort.weight()
	return float64(2*e.Impact.weight()+effort+e.Priority.weight()) / 4
}

var EnhancementCategories = []string{"features", "performance", "pricing", "market"}

var enhancementCatalog = []Enhancement{
	{
		ID:          "video-upgrade",
		Title:       "Enhanced Video Conferencing Capabilities",
		Description: "Upgrade video conferencing to support up to 1,000 participants with breakout rooms, whiteboarding, and AI-powered meeting transcription.",
		Priority:    LevelHigh, Effort: LevelHigh, Impact: LevelHigh,
		BasedOn:  []string{"Microsoft Teams", "Zoom"},
		Category: "features",
	},
	{
		ID:          "automation-workflows",
		Title:       "Advanced Workflow Automation",
		Description: "Custom triggers, actions, and integrations with external services, on par with the automation leaders in the category.",
		Priority:    LevelHigh, Effort: LevelMedium, Impact: LevelHigh,
		BasedOn:  []string{"Slack", "Microsoft Teams"},
		Category: "features",
	},
	{
		ID:          "ai-integration",
		Title:       "AI-Powered Smart Features",
		Description: "Smart message summarization, automated meeting notes, task suggestions, and predictive text completion.",
		Priority:    LevelHigh, Effort: LevelHigh, Impact: LevelHigh,
		BasedOn:  []string{"Microsoft Teams", "Google Meet"},
		Category: "features",
	},
	{
		ID:          "mobile-optimization",
		Title:       "Mobile App Experience Enhancement",
		Description: "Redesign the mobile app with improved navigation, offline capabilities, and push notification management.",
		Priority:    LevelMedium, Effort: LevelMedium, Impact: LevelMedium,
		BasedOn:  []string{"Slack", "Discord"},
		Category: "performance",
	},
	{
		ID:          "integration-marketplace",
		Title:       "Expanded Integration Marketplace",
		Description: "Build an app marketplace with 1,000+ integrations focused on popular productivity and business tools.",
		Priority:    LevelMedium, Effort: LevelHigh, Impact: LevelHigh,
		BasedOn:  []string{"Slack"},
		Category: "features",
	},
	{
		ID:          "competitive-pricing",
		Title:       "Competitive Pricing Strategy",
		Description: "Move the entry price toward the $4/month floor set by bundled suites while keeping margin through volume and enterprise features.",
		Priority:    LevelHigh, Effort: LevelLow, Impact: LevelMedium,
		BasedOn:  []string{"Microsoft Teams", "Google Meet"},
		Category: "pricing",
	},
	{
		ID:          "enterprise-security",
		Title:       "Enhanced Enterprise Security Features",
		Description: "Single sign-on, multi-factor authentication, and compliance certifications needed to sell into the enterprise market.",
		Priority:    LevelMedium, Effort: LevelMedium, Impact: LevelHigh,
		BasedOn:  []string{"Microsoft Teams", "Webex"},
		Category: "features",
	},
	{
		ID:          "performance-optimization",
		Title:       "Large Organization Performance",
		Description: "Optimize platform performance for organizations with 10,000+ users.",
		Priority:    LevelMedium, Effort: LevelHigh, Impact: LevelMedium,
		BasedOn:  []string{"Microsoft Teams"},
		Category: "performance",
	},
	{
		ID:          "global-expansion",
		Title:       "International Market Expansion",
		Description: "Localized versions, support for 50+ languages, and regional data centers.",
		Priority:    LevelMedium, Effort: LevelHigh, Impact: LevelHigh,
		BasedOn:  []string{"Microsoft Teams", "Google Meet"},
		Category: "market",
	},
	{
		ID:          "voice-channels",
		Title:       "Persistent Voice Channels",
		Description: "Drop-in voice rooms that team members can join and leave throughout the day.",
		Priority:    LevelLow, Effort: LevelMedium, Impact: LevelMedium,
		BasedOn:  []string{"Discord"},
		Category: "features",
	},
	{
		ID:          "search-enhancement",
		Title:       "Advanced Search and Discovery",
		Description: "Better filtering, indexing, and AI-powered content discovery.",
		Priority:    LevelMedium, Effort: LevelMedium, Impact: LevelMedium,
		BasedOn:  []string{"Slack"},
		Category: "features",
	},
	{
		ID:          "smb-focus",
		Title:       "Small Business Feature Package",
		Description: "A feature set and pricing tier built for small and medium businesses.",
		Priority:    LevelLow, Effort: LevelLow, Impact: LevelMedium,
		BasedOn:  []string{"Discord", "Google Meet"},
		Category: "market",
	},
}

// Enhancements returns a copy of the catalog in its original order.
func Enhancements() []Enhancement {
	out := make([]Enhancement, len(enhancementCatalog))
	for i, e := range enhancementCatalog {
		e.BasedOn = slices.Clone(e.BasedOn)
		out[i] = e
	}
	return out
}

type EnhancementFilter struct {
	// Priority and Category accept "" or "all" to match anything.
	Priority string
	Category string
}

// FilterEnhancements keeps matching entries and sorts them by score,
// highest first. Equal scores keep catalog order.
func FilterEnhancements(all []Enhancement, f EnhancementFilter) ([]Enhancement, error) {
	priority := normalizeFilter(f.Priority)
	category := normalizeFilter(f.Category)
	switch Level(priority) {
	case "", LevelHigh, LevelMedium, LevelLow:
	default:
		return nil, ErrInvalidFilter
	}
	if category != "" && !slices.Contains(EnhancementCategories, category) {
		return nil, ErrInvalidFilter
	}
	out := []Enhancement{}
	for _, e := range all {
		if priority != "" && string(e.Priority) != priority {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b Enhancement) int {
		switch sa, sb := a.Score(), b.Score(); {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return 0
	})
	return out, nil
}

func normalizeFilter(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "all" {
		return ""
	}
	return v
}
