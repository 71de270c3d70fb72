package export

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter serializes a document as plain UTF-8 text, used for previews
// and the download endpoint. Highlighted runs are wrapped in 【】.
type TextWriter struct{}

func (TextWriter) Write(doc *Document, w io.Writer) error {
	var b strings.Builder

	b.WriteString(doc.Title)
	b.WriteString("\n\n")

	for _, block := range doc.Blocks {
		b.WriteString(fmt.Sprintf("%d. ", block.Number))
		for _, seg := range block.Segments {
			if seg.Highlight {
				b.WriteString("【")
				b.WriteString(seg.Text)
				b.WriteString("】")
			} else {
				b.WriteString(seg.Text)
			}
		}
		b.WriteString("\n")

		for _, opt := range block.Options {
			b.WriteString(fmt.Sprintf("    %s. %s\n", opt.Label, opt.Text))
		}

		if block.Answer != nil {
			if block.Answer.Label != "" {
				b.WriteString(fmt.Sprintf("    答案: %s. %s\n", block.Answer.Label, block.Answer.Text))
			} else {
				b.WriteString(fmt.Sprintf("    答案: %s\n", block.Answer.Text))
			}
		}

		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
