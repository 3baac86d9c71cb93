package templates

// --- Shared rows ---

// InstrumentRow is one instrument's summary line.
type InstrumentRow struct {
	Name      string
	Subscales []ScoreRow
	Label     string
}

// ScoreRow is a named numeric score.
type ScoreRow struct {
	Name  string
	Value float64
}

// PillarRow describes a pillar for the rubric.
type PillarRow struct {
	ID          int
	Name        string
	Weight      int
	Description string
}

// EvidenceRow is the evidence metadata line for one construct.
type EvidenceRow struct {
	ID       int
	Name     string
	Guidance string
	Quotes   []string
}

// QARow is an interviewer question with its answer.
type QARow struct {
	Question string
	Answer   string
}

// --- Scoring prompt ---

// ScoringData feeds scoring.tmpl. When Itemised is set, QA is embedded
// instead of the raw Transcript.
type ScoringData struct {
	Instruments     []InstrumentRow
	ValueAxes       []ScoreRow
	Labels          []string
	History         string
	Calibrated      bool
	CalibrationBand float64
	Itemised        bool
	Transcript      string
	QA              []QARow
	Pillars         []PillarRow
	Evidence        []EvidenceRow
}

// --- Algorithm prompt ---

// PillarAnswers groups itemised answers under one pillar.
type PillarAnswers struct {
	ID      int
	Name    string
	Weight  int
	Answers []QARow
}

// AlgorithmData feeds algorithm.tmpl.
type AlgorithmData struct {
	Instruments []InstrumentRow
	ValueAxes   []ScoreRow
	Labels      []string
	Calibrated  bool
	Pillars     []PillarAnswers
}

// --- Interviewer prompt ---

// ScenarioRow is a canned scenario the interviewer may present.
type ScenarioRow struct {
	ID    int
	Name  string
	Title string
	Text  string
}

// InterviewerData feeds interviewer.tmpl.
type InterviewerData struct {
	Covered    []PillarRow
	Uncovered  []PillarRow
	Scenarios  []ScenarioRow
	MinHits    int
	Calibrated bool
}
