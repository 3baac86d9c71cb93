package evidence

import "github.com/HendryAvila/rapport/internal/interview"

// Deflection is the breakdown of the three-part deflection check for one
// respondent turn.
type Deflection struct {
	OtherPerson bool `json:"other_person"`
	Exculpatory bool `json:"exculpatory"`
	Ownership   bool `json:"ownership"`
}

// Deflected reports whether all three conditions hold: another person is
// cited, a causal or exculpatory construction removes the speaker's agency,
// and no ownership follows. Citing another person alone is neutral context.
func (d Deflection) Deflected() bool {
	return d.OtherPerson && d.Exculpatory && !d.Ownership
}

// CheckDeflection evaluates turn i of turns. Ownership counts if it appears
// in the same turn or in the next respondent turn.
func CheckDeflection(turns []interview.Turn, i int) Deflection {
	if i < 0 || i >= len(turns) || turns[i].Role != interview.Respondent {
		return Deflection{}
	}
	text := normalize(turns[i].Content)
	d := Deflection{
		OtherPerson: otherPersonCue.MatchString(text),
		Exculpatory: exculpatoryCue.MatchString(text),
		Ownership:   ownsIt(text),
	}
	if !d.Ownership {
		for j := i + 1; j < len(turns); j++ {
			if turns[j].Role == interview.Respondent {
				d.Ownership = ownsIt(normalize(turns[j].Content))
				break
			}
		}
	}
	return d
}

// ownsIt looks for ownership outside exculpatory phrases, so "wasn't my
// fault" does not read as "my fault".
func ownsIt(text string) bool {
	return ownershipCue.MatchString(exculpatoryCue.ReplaceAllString(text, " "))
}

func isDeflection(turns []interview.Turn, i int) bool {
	return CheckDeflection(turns, i).Deflected()
}
