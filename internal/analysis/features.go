package analysis

type Feature struct {
	Name string
	// Probability that a synthesized competitor offers the feature.
	Probability float64
}

type FeatureCategory struct {
	Name     string
	Features []Feature
}

// FeatureTaxonomy is the canonical feature catalog: 7 categories of 8.
var FeatureTaxonomy = []FeatureCategory{
	{Name: "Communication", Features: []Feature{
		{"Real-time messaging", 0.95},
		{"Threaded conversations", 0.7},
		{"Direct messages", 0.9},
		{"Voice calls", 0.75},
		{"Video conferencing", 0.8},
		{"Screen sharing", 0.7},
		{"Voice channels", 0.3},
		{"Message reactions", 0.85},
	}},
	{Name: "Collaboration", Features: []Feature{
		{"File sharing", 0.9},
		{"Shared workspaces", 0.6},
		{"Collaborative documents", 0.4},
		{"Whiteboarding", 0.35},
		{"Task management", 0.4},
		{"Calendar integration", 0.65},
		{"Guest access", 0.6},
		{"Shared channels", 0.45},
	}},
	{Name: "Integrations", Features: []Feature{
		{"Third-party integrations", 0.7},
		{"Public API", 0.65},
		{"Webhooks", 0.55},
		{"App marketplace", 0.4},
		{"Bot framework", 0.45},
		{"Email integration", 0.6},
		{"Cloud storage integration", 0.7},
		{"CRM integration", 0.35},
	}},
	{Name: "Productivity", Features: []Feature{
		{"Workflow automation", 0.4},
		{"Search", 0.85},
		{"Message scheduling", 0.5},
		{"Reminders", 0.6},
		{"Polls", 0.5},
		{"Meeting transcription", 0.4},
		{"AI summaries", 0.3},
		{"Status updates", 0.75},
	}},
	{Name: "Security", Features: []Feature{
		{"Enterprise security", 0.6},
		{"Single sign-on", 0.55},
		{"Two-factor authentication", 0.8},
		{"Data encryption", 0.85},
		{"Compliance certifications", 0.45},
		{"Data retention policies", 0.5},
		{"Audit logs", 0.4},
		{"Admin controls", 0.7},
	}},
	{Name: "Platform", Features: []Feature{
		{"Mobile apps", 0.9},
		{"Desktop apps", 0.8},
		{"Web app", 0.9},
		{"Offline mode", 0.3},
		{"Custom branding", 0.35},
		{"Dark mode", 0.7},
		{"Accessibility support", 0.6},
		{"Multi-language support", 0.65},
	}},
	{Name: "Analytics", Features: []Feature{
		{"Usage analytics", 0.55},
		{"Engagement reports", 0.4},
		{"Meeting analytics", 0.35},
		{"Admin dashboard", 0.65},
		{"Data export", 0.6},
		{"Custom reports", 0.3},
		{"Member insights", 0.35},
		{"Channel analytics", 0.3},
	}},
}

// LegacyFeatures is the older flat feature list. Every entry is also in
// FeatureTaxonomy.
var LegacyFeatures = []string{
	"Real-time messaging",
	"Video conferencing",
	"File sharing",
	"Screen sharing",
	"Third-party integrations",
	"Mobile apps",
	"Workflow automation",
	"Enterprise security",
	"Search",
	"Voice channels",
}

// Competitors whose offerings are known are not left to chance.
var fixedFeatureSets = map[string][]string{
	"slack": {
		"Real-time messaging", "Threaded conversations", "Direct messages", "Voice calls",
		"Video conferencing", "Screen sharing", "Message reactions",
		"File sharing", "Shared workspaces", "Collaborative documents", "Calendar integration",
		"Guest access", "Shared channels",
		"Third-party integrations", "Public API", "Webhooks", "App marketplace", "Bot framework",
		"Email integration", "Cloud storage integration", "CRM integration",
		"Workflow automation", "Search", "Message scheduling", "Reminders", "Polls", "AI summaries",
		"Status updates",
		"Enterprise security", "Single sign-on", "Two-factor authentication", "Data encryption",
		"Compliance certifications", "Data retention policies", "Audit logs", "Admin controls",
		"Mobile apps", "Desktop apps", "Web app", "Dark mode", "Accessibility support",
		"Multi-language support",
		"Usage analytics", "Admin dashboard", "Data export", "Member insights", "Channel analytics",
	},
	"microsoft-teams": {
		"Real-time messaging", "Threaded conversations", "Direct messages", "Voice calls",
		"Video conferencing", "Screen sharing", "Message reactions",
		"File sharing", "Shared workspaces", "Collaborative documents", "Whiteboarding",
		"Task management", "Calendar integration", "Guest access", "Shared channels",
		"Third-party integrations", "Public API", "Webhooks", "App marketplace", "Bot framework",
		"Email integration", "Cloud storage integration",
		"Workflow automation", "Search", "Message scheduling", "Reminders", "Polls",
		"Meeting transcription", "AI summaries", "Status updates",
		"Enterprise security", "Single sign-on", "Two-factor authentication", "Data encryption",
		"Compliance certifications", "Data retention policies", "Audit logs", "Admin controls",
		"Mobile apps", "Desktop apps", "Web app", "Offline mode", "Dark mode",
		"Accessibility support", "Multi-language support",
		"Usage analytics", "Engagement reports", "Meeting analytics", "Admin dashboard",
		"Data export", "Custom reports",
	},
}

type FeatureCategoryView struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

type FeatureData struct {
	Competitors []Competitor          `json:"competitors"`
	Categories  []FeatureCategoryView `json:"categories"`
	Features    []string              `json:"features"`
	// Comparison maps competitor id to feature name to availability.
	Comparison map[string]map[string]bool `json:"comparison"`
}

// BuildFeatures builds the availability matrix. Competitors without a fixed
// feature set draw one Float64 per feature in taxonomy order.
func BuildFeatures(competitors []Competitor, rng Random) FeatureData {
	data := FeatureData{
		Competitors: cloneCompetitors(competitors),
		Comparison:  make(map[string]map[string]bool, len(competitors)),
	}
	for _, cat := range FeatureTaxonomy {
		view := FeatureCategoryView{Name: cat.Name}
		for _, f := range cat.Features {
			view.Features = append(view.Features, f.Name)
			data.Features = append(data.Features, f.Name)
		}
		data.Categories = append(data.Categories, view)
	}
	for _, c := range competitors {
		row := make(map[string]bool, len(data.Features))
		if fixed, ok := fixedFeatureSets[c.ID]; ok {
			for _, name := range data.Features {
				row[name] = false
			}
			for _, name := range fixed {
				row[name] = true
			}
		} else {
			for _, cat := range FeatureTaxonomy {
				for _, f := range cat.Features {
					row[f.Name] = rng.Float64() < f.Probability
				}
			}
		}
		data.Comparison[c.ID] = row
	}
	return data
}

// Available counts the features a competitor offers.
func (d FeatureData) Available(competitorID string) int {
	n := 0
	for _, ok := range d.Comparison[competitorID] {
		if ok {
			n++
		}
	}
	return n
}

type LegacyFeatureRow struct {
	Feature     string          `json:"feature"`
	Competitors map[string]bool `json:"competitors"`
}

// LegacyMatrix projects the matrix onto LegacyFeatures.
func LegacyMatrix(d FeatureData) []LegacyFeatureRow {
	rows := make([]LegacyFeatureRow, 0, len(LegacyFeatures))
	for _, name := range LegacyFeatures {
		row := LegacyFeatureRow{Feature: name, Competitors: map[string]bool{}}
		for id, features := range d.Comparison {
			row.Competitors[id] = features[name]
		}
		rows = append(rows, row)
	}
	return rows
}
