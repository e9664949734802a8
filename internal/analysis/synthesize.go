package analysis

import (
	"fmt"
	"strings"
)

var synthesizedHeadquarters = []string{"San Francisco, CA", "New York, NY", "Austin, TX", "Seattle, WA"}

// Synthesizer turns competitor names into records. Known names come from
// the session or the catalog; unknown names are fabricated from rng.
type Synthesizer struct {
	catalog Catalog
	rng     Random
	segment MarketSegment
}

func NewSynthesizer(catalog Catalog, rng Random, segment MarketSegment) *Synthesizer {
	return &Synthesizer{catalog: catalog, rng: rng, segment: segment}
}

// Resolve returns the records for names, in order, and the session set
// extended with any record it had to add. existing is not modified.
func (s *Synthesizer) Resolve(names []string, existing []Competitor) (resolved, session []Competitor) {
	session = make([]Competitor, len(existing), len(existing)+len(names))
	copy(session, existing)
	picked := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, added := s.resolveOne(name, session)
		if added {
			session = append(session, c)
		}
		if picked[c.ID] {
			continue
		}
		picked[c.ID] = true
		resolved = append(resolved, c)
	}
	return resolved, session
}

func (s *Synthesizer) resolveOne(name string, session []Competitor) (Competitor, bool) {
	if c, ok := findByName(session, name); ok {
		return c, false
	}
	if s.catalog != nil {
		if c, ok := s.catalog.Lookup(name); ok {
			if existing, ok := findByID(session, c.ID); ok {
				return existing, false
			}
			return c, true
		}
	}
	return s.synthesize(name, session), true
}

func (s *Synthesizer) synthesize(name string, session []Competitor) Competitor {
	slug := Slug(name)
	id := slug
	if id == "" || idTaken(session, id) {
		id = sequentialID(session)
	}
	host := slug
	if host == "" {
		host = id
	}
	price := intBetween(s.rng, 5, 24)
	founded := intBetween(s.rng, 2010, 2023)
	employees := intBetween(s.rng, 100, 10099)
	hq := synthesizedHeadquarters[s.rng.IntN(len(synthesizedHeadquarters))]
	return Competitor{
		ID:          id,
		Name:        name,
		URL:         "https://" + host + ".com",
		Description: fmt.Sprintf("%s is a competitive solution in the %s market space.", name, s.segment.Label()),
		Pricing:     Pricing{Model: "Subscription", StartingPrice: formatPrice(float64(price)), Currency: "USD"},
		KeyInfo: KeyInfo{
			Founded:      fmt.Sprintf("%d", founded),
			Employees:    fmt.Sprintf("%d+", employees),
			Funding:      "Undisclosed",
			Headquarters: hq,
		},
		IsCustom: true,
	}
}

// Slug lower-cases name and joins its alphanumeric runs with dashes.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func sequentialID(session []Competitor) string {
	for n := len(session) + 1; ; n++ {
		id := fmt.Sprintf("competitor-%d", n)
		if !idTaken(session, id) {
			return id
		}
	}
}

func idTaken(session []Competitor, id string) bool {
	_, ok := findByID(session, id)
	return ok
}

func findByID(list []Competitor, id string) (Competitor, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Competitor{}, false
}

func findByName(list []Competitor, name string) (Competitor, bool) {
	for _, c := range list {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Competitor{}, false
}
