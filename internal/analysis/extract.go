package analysis

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Entities struct {
	ProductName string   `json:"productName,omitempty"`
	Competitors []string `json:"competitors"`
}

// anchorRule captures text that follows anchor up to the first boundary.
type anchorRule struct {
	name   string
	anchor *regexp.Regexp
	// properNoun requires every captured item to start with an upper-case
	// letter in the original message.
	properNoun bool
	// before also captures the capitalized name right in front of the
	// anchor, as in "Slack vs Zoom".
	before bool
}

var productRules = []anchorRule{
	{name: "analyze-of-my", anchor: regexp.MustCompile(`(?i)\banaly[sz]e\b.*?\bof\s+my\s+`)},
	{name: "for-my", anchor: regexp.MustCompile(`(?i)\bfor\s+my\s+`)},
	{name: "of-my", anchor: regexp.MustCompile(`(?i)\bof\s+my\s+`)},
}

var productBoundary = regexp.MustCompile(`(?i)\s+(?:vs\.?|versus|against|compared?\s+(?:to|with))(?:\s|$)|[,\n?!;]|\.(?:\s|$)`)

var competitorRules = []anchorRule{
	{name: "versus", anchor: regexp.MustCompile(`(?i)\b(?:compared?\s+(?:to|with)|vs\.?|versus)(?:\s+|$)`), before: true},
	{name: "compare", anchor: regexp.MustCompile(`(?i)\b(?:compare|against)(?:\s+|$)`)},
	{name: "analyze", anchor: regexp.MustCompile(`(?i)\b(?:analy[sz]e|analysis\s+(?:on|of)|competitors?\s+(?:like|such\s+as|including))\s+`), properNoun: true},
	{name: "between", anchor: regexp.MustCompile(`(?i)\b(?:between|of|for)\s+`), properNoun: true},
}

// segmentEnd stops a competitor capture at sentence punctuation or at a
// connective that starts a new clause.
var segmentEnd = regexp.MustCompile(`(?i)[\n?!;:()]|\.(?:\s|$)|\s+(?:for|of|in|on|with|to|that|which|who|using|based|regarding|about|from|at|by|into|is|are|was|were|do|does|has|have|use|uses|when|where|while)(?:\s|$)`)

var listSep = regexp.MustCompile(`(?i)\s*,\s*(?:and\s+|or\s+)?|\s+(?:and|or|&|vs\.?|versus|against)(?:\s+|$)`)

var codeSpan = regexp.MustCompile("`[^`\n]*`")

var leadingFiller = regexp.MustCompile(`(?i)^(?:the|a|an|to|with)\s+`)

// clauseBreak ends the text scanned backwards from a "vs" anchor.
var clauseBreak = regexp.MustCompile(`[\n?!;:(),]|\.(?:\s|$)`)

var wordPattern = regexp.MustCompile(`\S+`)

// leadIns are capitalized sentence openers that are not part of a name.
var leadIns = map[string]bool{
	"is": true, "are": true, "do": true, "does": true, "did": true, "should": true, "would": true,
	"can": true, "could": true, "will": true, "compare": true, "and": true, "or": true,
}

var determiners = map[string]bool{
	"my": true, "our": true, "your": true, "their": true, "his": true, "her": true, "its": true,
	"each": true, "every": true, "all": true, "any": true, "some": true, "these": true, "those": true,
	"this": true, "that": true, "it": true, "them": true, "us": true, "me": true, "you": true,
	"other": true, "both": true, "which": true, "what": true, "who": true, "how": true, "why": true,
	"when": true, "where": true, "i": true, "we": true,
}

var genericWords = map[string]bool{
	"competitor": true, "competitors": true, "competition": true, "market": true, "markets": true,
	"product": true, "products": true, "tool": true, "tools": true, "app": true, "apps": true,
	"company": true, "companies": true, "pricing": true, "price": true, "prices": true,
	"feature": true, "features": true, "strategy": true, "strategies": true, "swot": true,
	"analysis": true, "opportunity": true, "opportunities": true, "strength": true, "strengths": true,
	"weakness": true, "weaknesses": true, "threat": true, "threats": true, "business": true,
	"platform": true, "platforms": true, "solution": true, "solutions": true, "service": true,
	"services": true, "software": true, "options": true, "alternatives": true, "them": true,
	"comparison": true, "overview": true, "summary": true, "plan": true, "plans": true,
}

const maxNameWords = 4

// Extract pulls a product name and competitor names out of a message. It
// never fails; text inside backticks is treated as a literal example and
// ignored.
func Extract(message string) Entities {
	masked := maskCodeSpans(message)
	return Entities{
		ProductName: extractProduct(masked),
		Competitors: extractCompetitors(masked),
	}
}

func maskCodeSpans(s string) string {
	return codeSpan.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}

func extractProduct(message string) string {
	for _, rule := range productRules {
		loc := rule.anchor.FindStringIndex(message)
		if loc == nil {
			continue
		}
		rest := message[loc[1]:]
		if end := productBoundary.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}
		name := strings.TrimRight(strings.TrimSpace(rest), ".!?\"'`*")
		if name != "" {
			return name
		}
	}
	return ""
}

type mention struct {
	pos  int
	name string
}

func extractCompetitors(message string) []string {
	var found []mention
	for _, rule := range competitorRules {
		for _, loc := range rule.anchor.FindAllStringIndex(message, -1) {
			if rule.before {
				found = append(found, captureBefore(message, loc[0])...)
			}
			found = append(found, captureList(message, loc[1], rule.properNoun)...)
		}
	}
	slices.SortStableFunc(found, func(a, b mention) int { return a.pos - b.pos })

	caser := cases.Title(language.English, cases.NoLower)
	seen := map[string]bool{}
	names := []string{}
	for _, m := range found {
		key := strings.ToLower(m.name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, caser.String(m.name))
	}
	return names
}

func captureList(message string, start int, properNoun bool) []mention {
	segment := message[start:]
	if end := segmentEnd.FindStringIndex(segment); end != nil {
		segment = segment[:end[0]]
	}
	var out []mention
	offset := 0
	for _, sep := range append(listSep.FindAllStringIndex(segment, -1), []int{len(segment), len(segment)}) {
		piece := segment[offset:sep[0]]
		if name, ok := cleanName(piece, properNoun); ok {
			out = append(out, mention{pos: start + offset, name: name})
		}
		offset = sep[1]
	}
	return out
}

// captureBefore takes the run of capitalized words that ends at end, within
// the current clause.
func captureBefore(message string, end int) []mention {
	start := 0
	if breaks := clauseBreak.FindAllStringIndex(message[:end], -1); len(breaks) > 0 {
		start = breaks[len(breaks)-1][1]
	}
	words := wordPattern.FindAllStringIndex(message[start:end], -1)
	first := len(words)
	for first > 0 && len(words)-first < maxNameWords {
		r, _ := utf8.DecodeRuneInString(message[start+words[first-1][0]:])
		if unicode.IsLower(r) || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		first--
	}
	for first < len(words) {
		w := strings.ToLower(message[start+words[first][0] : start+words[first][1]])
		if !leadIns[w] && !determiners[w] {
			break
		}
		first++
	}
	if first == len(words) {
		return nil
	}
	from := start + words[first][0]
	name, ok := cleanName(message[from:end], false)
	if !ok {
		return nil
	}
	return []mention{{pos: from, name: name}}
}

func cleanName(raw string, properNoun bool) (string, bool) {
	name := strings.Trim(raw, " \t\"'`*.,")
	for {
		stripped := leadingFiller.ReplaceAllString(name, "")
		if stripped == name {
			break
		}
		name = stripped
	}
	name = strings.TrimSuffix(strings.TrimSuffix(name, "'s"), "’s")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	first := []rune(name)[0]
	if !unicode.IsLetter(first) && !unicode.IsDigit(first) {
		return "", false
	}
	if properNoun && !unicode.IsUpper(first) {
		return "", false
	}
	words := strings.Fields(name)
	if len(words) > maxNameWords {
		return "", false
	}
	if determiners[strings.ToLower(words[0])] {
		return "", false
	}
	// "Zoom pricing" names Zoom.
	for len(words) > 0 && genericWords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return "", false
	}
	return strings.Join(words, " "), true
}
