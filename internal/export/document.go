// Package export renders an assembled paper into a structured document
// model. Serializing that model into a binary office format is a separate
// collaborator's job, reached through the Writer interface.
package export

import "io"

// Document is the in-memory export model: a title followed by numbered
// question blocks.
type Document struct {
	Title  string
	Blocks []QuestionBlock
}

// QuestionBlock is one rendered question. Sentence text is carried as
// segments so a writer can style highlighted runs independently.
type QuestionBlock struct {
	Number   int
	Segments []Segment
	Options  []OptionLine
	Answer   *AnswerLine
}

// Segment is a run of sentence text. Highlight marks the bound empty word.
type Segment struct {
	Text      string
	Highlight bool
}

// OptionLine is one rendered choice: "a"-style label plus display text.
type OptionLine struct {
	Label string
	Text  string
}

// AnswerLine references the correct option by label so a reader can
// cross-check it against the rendered option list.
type AnswerLine struct {
	Label string
	Text  string
}

// Writer serializes a Document to an output format.
type Writer interface {
	Write(doc *Document, w io.Writer) error
}
