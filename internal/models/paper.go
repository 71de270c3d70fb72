package models

import "time"

// Question is one multiple-choice item: an example sentence, the correct
// usage, and the shuffled option list (which always contains the correct one).
type Question struct {
	ID       int64             `json:"id"`
	PaperID  int64             `json:"paper_id,omitempty"`
	Order    int               `json:"order"`
	Sentence ExampleSentence   `json:"sentence"`
	Correct  EmptyWordAction   `json:"correct"`
	Options  []EmptyWordAction `json:"options"`
}

// CorrectIndex returns the position of the correct usage in Options, or -1.
func (q *Question) CorrectIndex() int {
	for i, opt := range q.Options {
		if opt.ID == q.Correct.ID {
			return i
		}
	}
	return -1
}

// Paper owns its questions: they are created and destroyed together.
type Paper struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	QuestionCount int        `json:"question_count"`
	Questions     []Question `json:"questions"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ── Request Types ───────────────────────────────────────

type AssemblePaperRequest struct {
	Title         string         `json:"title"`
	Words         []EmptyWord    `json:"empty_words,omitempty"`
	PartsOfSpeech []PartOfSpeech `json:"parts_of_speech,omitempty"`
	Count         int            `json:"count"`
	OptionCount   int            `json:"option_count,omitempty"`
	Seed          *int64         `json:"seed,omitempty"`
}

// ── Response Types ──────────────────────────────────────

// AssembleDiagnostics tells the caller how assembly actually went: the UI
// warns the teacher when fewer questions than requested were produced.
type AssembleDiagnostics struct {
	Requested  int `json:"requested"`
	Candidates int `json:"candidates"`
	Produced   int `json:"produced"`
	Skipped    int `json:"skipped"`
}

type AssemblePaperResponse struct {
	Paper       *Paper              `json:"paper"`
	Diagnostics AssembleDiagnostics `json:"diagnostics"`
}

type PaperSummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
