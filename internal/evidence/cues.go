package evidence

import (
	"regexp"
	"strings"
)

func cue(alt string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + alt + `)`)
}

// --- Respondent cues ---

var (
	noExampleCue = cue(`(?:i )?(?:don'?t|do not) (?:really )?have (?:an?|any) (?:example|story|instance)|can'?t think of (?:an?|any)|cannot think of (?:an?|any)|nothing comes to mind|no example|(?:that|it) (?:has )?never (?:really )?happened|hasn'?t (?:really )?happened|not that i can (?:think of|remember)|i don'?t remember (?:an?|any) (?:time|example)`)

	recallCue = cue(`one time|once,? (?:when|i|we|my)|last (?:year|month|week|summer|winter|spring|autumn|christmas|night)|there was (?:a|this|one) time|i remember (?:when|a time|the time|one time)|a (?:few|couple of) (?:days|weeks|months|years) ago|the other (?:day|week|night)|back (?:in|when)|(?:a|two|three|few|several) years? ago|at the time`)

	// narrationCue is first-person past-tense narration of an incident.
	narrationCue = cue(`(?:i|we) (?:(?:just|then|finally|eventually|both|really|actually|ended up) )?(?:\w*[^e\W]ed|was|were|had|did|said|told|went|got|felt|left|came|made|took|forgot|thought|knew|sat|ran|spent|lost|found|gave|met|brought|fought|broke|kept|snapped)\b`)

	hypotheticalCue = cue(`i would|i'?d (?:probably|likely|just|try|say|tell|want|think|ask|talk)|i think i'?d|i guess i'?d|i'?d\b|if (?:that|it|this) (?:ever )?happened|i might|i imagine i`)

	generalisationCue = cue(`i (?:usually|always|generally|normally|tend to|typically)|usually i|normally i`)

	resistanceCue = cue(`i'?d rather not|rather not (?:say|talk|get into)|(?:don'?t|do not) want to (?:talk|get into|go into|discuss)|prefer not to|not comfortable (?:talking|sharing|discussing|going into)|next question|can we (?:skip|move on)|skip (?:this|that)|pass on (?:this|that)|none of your business|doesn'?t matter|no idea|whatever`)

	circumstanceCue = cue(`(?:never|haven'?t|have not) (?:really )?(?:been in|had) (?:a|any) (?:serious |long[- ]term |proper )?relationship|only (?:been together|dated|known each other) (?:for )?(?:a|a few|two|three)|(?:we'?ve|we have|i'?ve|i have) only been|it (?:never|hasn'?t|has not) (?:really )?come up|too early (?:in|for)|(?:new|young) relationship|i'?ve been single|i'?m single|we'?re still new`)
)

// --- Interviewer cues ---

var (
	scenarioCue = cue(`imagine (?:this|a|that)|picture this|let me (?:give|share|describe|tell) you (?:a|about a) (?:scenario|situation|story)|here'?s a (?:scenario|situation|story)|(?:a|this) (?:short )?scenario|suppose (?:two|a couple)|let'?s say (?:two|a couple)`)

	hypotheticalQuestionCue = cue(`how would you|what would you do|what would you say|if you (?:were|had|found)|how do you think you'?d|how might you|what if`)
)

// --- Deflection cues ---

var (
	otherPersonCue = cue(`(?:he|she|they|him|her|them|his|their|my (?:partner|ex|wife|husband|boyfriend|girlfriend|fianc[eé]e?|boss|mum|mom|dad|mother|father|friend|flatmate|roommate))\b`)

	exculpatoryCue = cue(`so what was i supposed to do|what (?:else )?(?:could|was) i (?:supposed to )?do|what choice did i have|(?:he|she|they) made me|it was (?:his|her|their) fault|(?:he|she|they) started it|if (?:he|she|they) hadn'?t|(?:not|wasn'?t|isn'?t) my fault|i had no choice|left me no choice|forced me|because (?:he|she|they) (?:always|never|kept|wouldn'?t|didn'?t|won'?t)|that'?s (?:just )?how (?:he|she|they) (?:is|are)`)

	ownershipCue = cue(`i (?:probably |really |definitely |honestly )?should(?:n'?t)? have|my (?:fault|part|bad|mistake)|i was wrong|i (?:take|took) (?:responsibility|ownership)|i apologi[sz]ed|i could have|i own(?:ed)? (?:it|that|my)|that'?s on me|i messed up|i regret|i'?m not proud|i was (?:being )?unfair`)
)

// --- Scenario criteria cues ---

var (
	balancedCue = cue(`both (?:of them|sides|partners|people)|each of them|neither (?:of them|one)|on both sides|they both|it takes two|share the blame|both (?:could|should|were|had)`)

	emotionCue = cue(`feel|felt|feeling|hurt|upset|frustrat|angry|anger|sad|anxious|scared|lonely|alone|disappoint|embarrass|emotion|resent|ignored|unappreciated|overwhelmed|stressed`)

	diagnosisCue = cue(`the (?:real |main |underlying )?(?:problem|issue) (?:is|was|here)|because|the root|what'?s really going on|it'?s really about|it'?s not (?:really )?about`)

	fixCue = cue(`should|could|needs? to|needed to|better if|would help|next time|instead|what (?:they|he|she) (?:need|needs|needed)`)

	selfReferenceCue = cue(`i would|i'?d\b|i'?ll\b|if (?:it|that) were me|in (?:my|that) (?:case|situation|position)|me personally|personally i|for me`)

	perspectiveCue = cue(`from (?:his|her|their|\w+'s) (?:side|perspective|point of view)|(?:he|she|they) (?:probably|might|must|may) (?:have )?(?:felt|feel|thought|think|been)|put myself in|in (?:his|her|their) shoes|understand why (?:he|she|they)|i can see why|i get why`)
)

// wordCount counts whitespace-separated words.
func wordCount(s string) int { return len(strings.Fields(s)) }

// substantive reports whether a respondent turn says enough to count as an
// answer rather than an acknowledgement.
func substantive(s string) bool { return wordCount(s) >= 4 }

// isQuestionOnly reports a short question back to the interviewer, which
// is not an answer.
func isQuestionOnly(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasSuffix(t, "?") && wordCount(t) < 8
}
