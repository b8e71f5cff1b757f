package models

import "time"

// QAEntry is one persisted question/answer exchange. Row is a 1-based
// per-project display number; deleting an entry renumbers the remaining
// rows so the sequence stays dense.
type QAEntry struct {
	ID           string           `json:"id" badgerhold:"key"` // qa_{uuid}
	ProjectID    string           `json:"project_id" badgerhold:"index"`
	Row          int              `json:"row"`
	Question     string           `json:"question"`
	Answer       string           `json:"answer"`
	Sources      []Source         `json:"sources"`
	Confidence   float64          `json:"confidence"`
	QuestionType QuestionCategory `json:"question_type"`
	AgentsUsed   []string         `json:"agents_used"`
	CreatedAt    time.Time        `json:"created_at"`
}
