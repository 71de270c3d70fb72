package export

import (
	"errors"
	"fmt"

	"github.com/xuci-prep/backend/internal/models"
)

// ErrMalformedPaper: the paper cannot be rendered under the requested
// options, e.g. a question with no stored choices when choices are shown.
var ErrMalformedPaper = errors.New("malformed paper")

// Options are the three independent visibility toggles. Any combination is
// valid.
type Options struct {
	ShowChoices        bool
	ShowAnswer         bool
	HighlightEmptyWord bool
}

// optionLabel returns "a", "b", ... for a zero-based option index.
func optionLabel(i int) string {
	return string(rune('a' + i))
}

// optionText renders a usage the way papers print it: 作用（意思）.
func optionText(a models.EmptyWordAction) string {
	if a.Translation != "" {
		return fmt.Sprintf("%s（%s）", a.Action, a.Translation)
	}
	return a.Action
}

// Export is a pure transform from a paper to a document. Option order is as
// stored (shuffling happened at generation time), so exporting the same
// paper twice yields identical documents.
func Export(paper *models.Paper, opts Options) (*Document, error) {
	doc := &Document{Title: paper.Title}

	for i, q := range paper.Questions {
		block := QuestionBlock{Number: i + 1}

		if opts.HighlightEmptyWord {
			block.Segments = highlightSegments(q)
		} else {
			block.Segments = []Segment{{Text: q.Sentence.Sentence.Text}}
		}

		correctIdx := q.CorrectIndex()

		if opts.ShowChoices {
			if len(q.Options) == 0 {
				return nil, fmt.Errorf("%w: question %d has no options", ErrMalformedPaper, i+1)
			}
			for j, opt := range q.Options {
				block.Options = append(block.Options, OptionLine{
					Label: optionLabel(j),
					Text:  optionText(opt),
				})
			}
		}

		if opts.ShowAnswer {
			answer := &AnswerLine{Text: optionText(q.Correct)}
			if correctIdx >= 0 {
				answer.Label = optionLabel(correctIdx)
			}
			block.Answer = answer
		}

		doc.Blocks = append(doc.Blocks, block)
	}

	return doc, nil
}

// highlightSegments splits the sentence text around the bound occurrence of
// the correct usage's glyph. The stored binding position wins; if it is
// stale, the first occurrence is marked; if the glyph is absent the text is
// returned unmarked.
func highlightSegments(q models.Question) []Segment {
	text := []rune(q.Sentence.Sentence.Text)
	glyphStr := q.Correct.Word.Glyph()
	if glyphStr == "" || len(text) == 0 {
		return []Segment{{Text: string(text)}}
	}
	glyph := []rune(glyphStr)[0]

	pos := -1
	if b, ok := q.Sentence.BindingFor(q.Correct.ID); ok {
		if b.Position >= 0 && b.Position < len(text) && text[b.Position] == glyph {
			pos = b.Position
		}
	}
	if pos < 0 {
		for i, r := range text {
			if r == glyph {
				pos = i
				break
			}
		}
	}
	if pos < 0 {
		return []Segment{{Text: string(text)}}
	}

	var segments []Segment
	if pos > 0 {
		segments = append(segments, Segment{Text: string(text[:pos])})
	}
	segments = append(segments, Segment{Text: string(glyph), Highlight: true})
	if pos+1 < len(text) {
		segments = append(segments, Segment{Text: string(text[pos+1:])})
	}
	return segments
}
