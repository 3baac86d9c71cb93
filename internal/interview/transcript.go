// Package interview holds the conversational transcript of one interview
// session. A transcript is append-only for the life of the session.
package interview

import (
	"errors"
	"fmt"
	"strings"
)

// Role identifies who spoke a turn.
type Role string

const (
	Interviewer Role = "interviewer"
	Respondent  Role = "respondent"
)

var (
	ErrEmptyContent = errors.New("turn content is empty")
	ErrInvalidRole  = errors.New("turn role must be interviewer or respondent")
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case Interviewer, Respondent:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidRole, s)
	}
}

// Turn is one utterance in the interview.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Validate checks the turn's role and content.
func (t Turn) Validate() error {
	if _, err := ParseRole(string(t.Role)); err != nil {
		return err
	}
	if strings.TrimSpace(t.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// Transcript is an ordered, append-only sequence of turns.
// The zero value is an empty transcript ready to use.
type Transcript struct {
	turns []Turn
}

// NewTranscript builds a transcript from existing turns, validating each.
func NewTranscript(turns ...Turn) (*Transcript, error) {
	tr := &Transcript{}
	for i, t := range turns {
		if err := tr.Append(t); err != nil {
			return nil, fmt.Errorf("turn %d: %w", i, err)
		}
	}
	return tr, nil
}

// Append adds a validated turn to the end of the transcript.
func (tr *Transcript) Append(t Turn) error {
	if err := t.Validate(); err != nil {
		return err
	}
	tr.turns = append(tr.turns, t)
	return nil
}

// Len returns the number of turns.
func (tr *Transcript) Len() int { return len(tr.turns) }

// Turns returns a copy of the turns in order.
func (tr *Transcript) Turns() []Turn {
	out := make([]Turn, len(tr.turns))
	copy(out, tr.turns)
	return out
}

// Render formats the transcript as "Interviewer: ..." / "Respondent: ..."
// lines, the form embedded in scoring prompts.
func (tr *Transcript) Render() string {
	var b strings.Builder
	for i, t := range tr.turns {
		if i > 0 {
			b.WriteString("\n")
		}
		switch t.Role {
		case Interviewer:
			b.WriteString("Interviewer: ")
		default:
			b.WriteString("Respondent: ")
		}
		b.WriteString(t.Content)
	}
	return b.String()
}

// QAPair is an interviewer question with the respondent's answer to it.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Pairs itemises the transcript as question/answer pairs. Consecutive
// respondent turns are joined into one answer; a question with no answer
// gets an empty one.
func (tr *Transcript) Pairs() []QAPair {
	var out []QAPair
	for _, t := range tr.turns {
		switch t.Role {
		case Interviewer:
			out = append(out, QAPair{Question: t.Content})
		case Respondent:
			if len(out) == 0 {
				out = append(out, QAPair{})
			}
			last := &out[len(out)-1]
			if last.Answer != "" {
				last.Answer += " "
			}
			last.Answer += t.Content
		}
	}
	return out
}
