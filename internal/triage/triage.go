/*
Package triage sorts a user message into a safety category before any model
sees it. Tiers are checked in priority order and the first keyword hit wins,
so a message mentioning both "suicide" and "chest pain" is always Crisis.
*/
package triage

import (
	"regexp"
	"strings"
)

// Category is the outcome of triage.
type Category int

const (
	None Category = iota
	Crisis
	UrgentPhysical
	EmotionalDistress
)

func (c Category) String() string {
	switch c {
	case Crisis:
		return "crisis"
	case UrgentPhysical:
		return "urgent_physical"
	case EmotionalDistress:
		return "emotional_distress"
	default:
		return "none"
	}
}

// MatchMode selects how a keyword is located inside the message.
type MatchMode int

const (
	// MatchSubstring finds the keyword anywhere, including inside longer words
	// ("shot" matches "snapshot", "stab" matches "stable").
	MatchSubstring MatchMode = iota

	// MatchWord requires the keyword to start and end on a word boundary.
	MatchWord
)

// ParseMatchMode maps "word" to MatchWord; anything else is MatchSubstring.
func ParseMatchMode(s string) MatchMode {
	if strings.EqualFold(strings.TrimSpace(s), "word") {
		return MatchWord
	}
	return MatchSubstring
}

var (
	CrisisKeywords = []string{
		"suicide", "kill myself", "end my life", "can't go on", "want to die",
	}
	UrgentPhysicalKeywords = []string{
		"dying", "chest pain", "can't breathe", "severe bleeding", "heart attack", "unconscious",
		"stab", "shot",
	}
	EmotionalDistressKeywords = []string{
		"depressed", "hopeless", "panic", "anxious", "lonely",
	}
)

// Tier is one priority level: its category and the keywords that select it.
type Tier struct {
	Category Category
	Keywords []string
}

// DefaultTiers returns the built-in tiers in priority order.
func DefaultTiers() []Tier {
	return []Tier{
		{Category: Crisis, Keywords: CrisisKeywords},
		{Category: UrgentPhysical, Keywords: UrgentPhysicalKeywords},
		{Category: EmotionalDistress, Keywords: EmotionalDistressKeywords},
	}
}

type matcher interface {
	match(text string) bool
}

type substringMatcher string

func (m substringMatcher) match(text string) bool {
	return strings.Contains(text, string(m))
}

type wordMatcher struct {
	re *regexp.Regexp
}

func (m wordMatcher) match(text string) bool {
	return m.re.MatchString(text)
}

type compiledTier struct {
	category Category
	matchers []matcher
}

// Classifier holds compiled tiers. It is immutable and safe for concurrent use.
type Classifier struct {
	tiers []compiledTier
}

// New compiles tiers in the order given. Keywords are lowercased.
func New(mode MatchMode, tiers ...Tier) *Classifier {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}

	c := &Classifier{tiers: make([]compiledTier, 0, len(tiers))}
	for _, t := range tiers {
		ct := compiledTier{category: t.Category}
		for _, kw := range t.Keywords {
			kw = normalize(kw)
			if kw == "" {
				continue
			}
			if mode == MatchWord {
				ct.matchers = append(ct.matchers, wordMatcher{re: regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)})
			} else {
				ct.matchers = append(ct.matchers, substringMatcher(kw))
			}
		}
		c.tiers = append(c.tiers, ct)
	}
	return c
}

// Classify returns the category of the first tier with a matching keyword.
func (c *Classifier) Classify(text string) Category {
	text = normalize(text)
	if text == "" {
		return None
	}
	for _, t := range c.tiers {
		for _, m := range t.matchers {
			if m.match(text) {
				return t.category
			}
		}
	}
	return None
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'")

func normalize(s string) string {
	return apostrophes.Replace(strings.ToLower(s))
}
