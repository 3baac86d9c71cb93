package evidence

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/rapport/internal/pillar"
)

//go:embed scenarios.yaml
var scenariosYAML []byte

// ScenarioCard is a canned third-person scenario for one construct.
type ScenarioCard struct {
	Construct  pillar.ID `yaml:"construct" json:"construct"`
	ID         string    `yaml:"id" json:"id"`
	Title      string    `yaml:"title" json:"title"`
	Characters []string  `yaml:"characters" json:"characters"`
	Text       string    `yaml:"text" json:"text"`
}

// Mentions reports how many of the scenario's characters appear as whole
// words in text.
func (s ScenarioCard) Mentions(text string) int {
	n := 0
	for _, name := range s.Characters {
		if containsWord(text, name) {
			n++
		}
	}
	return n
}

var (
	scenariosOnce sync.Once
	scenarios     map[pillar.ID]ScenarioCard
	scenariosErr  error
)

func loadScenarios() (map[pillar.ID]ScenarioCard, error) {
	scenariosOnce.Do(func() {
		var doc struct {
			Scenarios []ScenarioCard `yaml:"scenarios"`
		}
		if err := yaml.Unmarshal(scenariosYAML, &doc); err != nil {
			scenariosErr = fmt.Errorf("parsing scenarios: %w", err)
			return
		}
		scenarios = make(map[pillar.ID]ScenarioCard, len(doc.Scenarios))
		for _, s := range doc.Scenarios {
			if !s.Construct.IsInterviewed() {
				scenariosErr = fmt.Errorf("scenario %q: construct %d is not interviewed", s.ID, s.Construct)
				return
			}
			if _, dup := scenarios[s.Construct]; dup {
				scenariosErr = fmt.Errorf("scenario %q: duplicate construct %d", s.ID, s.Construct)
				return
			}
			if len(s.Characters) < 2 {
				scenariosErr = fmt.Errorf("scenario %q: needs two characters", s.ID)
				return
			}
			scenarios[s.Construct] = s
		}
	})
	return scenarios, scenariosErr
}

// Scenario returns the canned scenario for an interviewed construct.
func Scenario(id pillar.ID) (ScenarioCard, error) {
	all, err := loadScenarios()
	if err != nil {
		return ScenarioCard{}, err
	}
	s, ok := all[id]
	if !ok {
		return ScenarioCard{}, fmt.Errorf("no scenario for construct %d", id)
	}
	return s, nil
}

// Scenarios returns every scenario in construct order.
func Scenarios() ([]ScenarioCard, error) {
	all, err := loadScenarios()
	if err != nil {
		return nil, err
	}
	out := make([]ScenarioCard, 0, len(all))
	for _, id := range pillar.Interviewed() {
		if s, ok := all[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// scenarioFor returns the construct whose scenario characters appear in
// text, requiring both names so a single shared first name is not enough.
func scenarioFor(text string) (pillar.ID, bool) {
	all, err := loadScenarios()
	if err != nil {
		return 0, false
	}
	for _, id := range pillar.Interviewed() {
		s, ok := all[id]
		if ok && s.Mentions(text) >= 2 {
			return id, true
		}
	}
	return 0, false
}

func containsWord(text, word string) bool {
	for i := 0; ; {
		j := strings.Index(text[i:], word)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(word)
		if (start == 0 || !isWordByte(text[start-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
