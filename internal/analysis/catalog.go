package analysis

import "strings"

// Catalog resolves a mentioned name to a canonical competitor record.
type Catalog interface {
	Lookup(name string) (Competitor, bool)
}

// DefaultCompetitorNames is used when a message asks for analysis without
// naming anyone and the session tracks nobody yet.
var DefaultCompetitorNames = []string{"Slack", "Microsoft Teams", "Zoom", "Google Meet", "Cisco Webex"}

var knownCompetitors = []Competitor{
	{
		ID:          "slack",
		Name:        "Slack",
		URL:         "https://slack.com",
		Description: "Business communication platform with channels, messaging, and integrations",
		Pricing:     Pricing{Model: "Subscription", StartingPrice: "$7.25", Currency: "USD"},
		KeyInfo:     KeyInfo{Founded: "2013", Employees: "2,500+", Funding: "Acquired by Salesforce", Headquarters: "San Francisco, CA"},
	},
	{
		ID:          "microsoft-teams",
		Name:        "Microsoft Teams",
		URL:         "https://teams.microsoft.com",
		Description: "Integrated workplace communication and collaboration platform",
		Pricing:     Pricing{Model: "Subscription", StartingPrice: "$4.00", Currency: "USD"},
		KeyInfo:     KeyInfo{Founded: "2017", Employees: "220,000+", Funding: "Public (Microsoft)", Headquarters: "Redmond, WA"},
	},
	{
		ID:          "discord",
		Name:        "Discord",
		URL:         "https://discord.com",
		Description: "Voice, video and text communication service for communities",
		Pricing:     Pricing{Model: "Freemium", StartingPrice: "Free", Currency: "USD"},
		KeyInfo:     KeyInfo{Founded: "2015", Employees: "600+", Funding: "$995M raised", Headquarters: "San Francisco, CA"},
	},
	{
		ID:          "zoom",
		Name:        "Zoom",
		URL:         "https://zoom.us",
		Description: "Video conferencing and communication platform",
		Pricing:     Pricing{Model: "Subscription", StartingPrice: "$14.99", Currency: "USD"},
		KeyInfo:     KeyInfo{Founded: "2011", Employees: "6,787", Funding: "Public (NASDAQ: ZM)", Headquarters: "San Jose, CA"},
	},
	{
		ID:          "webex",
		Name:        "Cisco Webex",
		URL:         "https://webex.com",
		Description: "Enterprise video conferencing and collaboration suite",
		Pricing:     Pricing{Model: "Subscription", StartingPrice: "$13.50", Currency: "USD"},
		KeyInfo:     KeyInfo{Founded: "1995", Employees: "79,500+", Funding: "Public (Cisco)", Headquarters: "San Jose, CA"},
	},
	{
		ID:          "google-meet",
		Name:        "Google Meet",
		URL:         "https://meet.google.com",
		Description: "Video conferencing service integrated with Google Workspace",
		Pricing:     Pricing{Model: "Subscription", StartingPrice: "$6.00", Currency: "USD"},
		KeyInfo:     KeyInfo{Founded: "2017", Employees: "156,500+", Funding: "Public (Alphabet)", Headquarters: "Mountain View, CA"},
	},
	{
		ID:          "mattermost",
		Name:        "Mattermost",
		URL:         "https://mattermost.com",
		Description: "Open-source collaboration platform for secure team communication",
		Pricing:     Pricing{Model: "Open Source/Enterprise", StartingPrice: "Free", Currency: "USD"},
		KeyInfo:     KeyInfo{Founded: "2016", Employees: "400+", Funding: "$73.5M raised", Headquarters: "Palo Alto, CA"},
	},
}

// KnownCompetitors returns a copy of the built-in competitor records.
func KnownCompetitors() []Competitor {
	out := make([]Competitor, len(knownCompetitors))
	copy(out, knownCompetitors)
	return out
}

// StaticCatalog is an in-memory Catalog keyed by lower-cased name and id.
type StaticCatalog struct {
	records []Competitor
	byKey   map[string]int
}

func NewStaticCatalog(records []Competitor) *StaticCatalog {
	c := &StaticCatalog{byKey: make(map[string]int, len(records)*2)}
	for _, r := range records {
		c.Add(r)
	}
	return c
}

// Add inserts or replaces a record with the same id.
func (c *StaticCatalog) Add(r Competitor) {
	if i, ok := c.byKey[r.ID]; ok && c.records[i].ID == r.ID {
		delete(c.byKey, strings.ToLower(c.records[i].Name))
		c.records[i] = r
		c.byKey[strings.ToLower(r.Name)] = i
		return
	}
	c.records = append(c.records, r)
	i := len(c.records) - 1
	c.byKey[r.ID] = i
	c.byKey[strings.ToLower(r.Name)] = i
}

func (c *StaticCatalog) Lookup(name string) (Competitor, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if i, ok := c.byKey[key]; ok {
		return c.records[i], true
	}
	if i, ok := c.byKey[Slug(name)]; ok {
		return c.records[i], true
	}
	return Competitor{}, false
}

func (c *StaticCatalog) List() []Competitor {
	out := make([]Competitor, len(c.records))
	copy(out, c.records)
	return out
}
