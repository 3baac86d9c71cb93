// Package coverage tracks which interview constructs a conversation has
// touched.
//
// Tagging is a heuristic coverage signal only. It never produces a score;
// it drives the progress display and the "adequately covered" check that
// tells the interviewer it may close.
package coverage

import (
	"regexp"

	"github.com/HendryAvila/rapport/internal/pillar"
)

// TextClassifier tags a piece of text with the constructs it touches.
// Implementations must be stateless per call so incremental and batch
// tagging agree.
type TextClassifier interface {
	Classify(text string) []pillar.ID
}

// keywordPatterns holds one alternation per interviewed pillar. Every
// pattern anchors on a word start so stems like "apologi" catch both
// spellings without matching mid-word.
var keywordPatterns = map[pillar.ID]string{
	pillar.ConflictRepair:   `conflict|argu(?:e|ed|es|ing|ment)|fight|fought|disagree|escalat|repair|apologi[sz]|made up|make up|blow[- ]?up|cool(?:ed)? down|row\b|tension`,
	pillar.Accountability:   `accountab|responsib|my fault|own(?:ed|ing)? (?:it|up|my)|mistake|blame|admit|should have|my part|excuse|messed up`,
	pillar.Reliability:      `reliab|dependab|depend(?:ed)? on|follow(?:ed)? through|commit|promis|on time|late\b|show(?:ed)? up|kept (?:my|their|his|her) word|keep (?:my|your) word|let (?:them|him|her|you|me) down|forg[eo]t`,
	pillar.Responsiveness:   `respond|responsive|support|listen|notic|comfort|reach(?:ed)? out|there for|turn(?:ed)? toward|attention|check(?:ed)? in|bids?\b`,
	pillar.DesireBoundaries: `boundar|desire|intima|sex|physical|affection|say(?:ing)? no|said no|limit|consent|comfortable with|want(?:ed)? more|space\b`,
	pillar.StressResilience: `stress|pressure|overwhelm|burn(?:ed|t)?[- ]?out|deadline|crisis|job loss|lost (?:my|his|her|their) job|illness|grief|money worries|financ|cop(?:e|ed|ing)\b`,
}

// KeywordClassifier matches fixed keyword alternations. Matches are
// independent: a text may hit zero, one or several constructs.
type KeywordClassifier struct {
	patterns map[pillar.ID]*regexp.Regexp
}

// NewKeywordClassifier compiles the built-in keyword table.
func NewKeywordClassifier() *KeywordClassifier {
	c := &KeywordClassifier{patterns: make(map[pillar.ID]*regexp.Regexp, len(keywordPatterns))}
	for id, alt := range keywordPatterns {
		c.patterns[id] = regexp.MustCompile(`(?i)\b(?:` + alt + `)`)
	}
	return c
}

// Classify returns the matching constructs in ascending id order.
func (c *KeywordClassifier) Classify(text string) []pillar.ID {
	hit := make(map[pillar.ID]bool)
	for id, re := range c.patterns {
		if re.MatchString(text) {
			hit[id] = true
		}
	}
	return pillar.Sorted(hit)
}
