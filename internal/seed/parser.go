// Package seed loads the teaching inventory from the source material: a
// markdown file of empty words, their usages, and example sentences.
package seed

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/xuci-prep/backend/internal/models"
)

// Entry is one parsed usage with its example sentences.
type Entry struct {
	Word         models.EmptyWord
	PartOfSpeech models.PartOfSpeech
	Action       string
	Translation  string
	Sentences    []string
}

// posAliases maps the source material's part-of-speech headings onto the
// closed enumeration. The material uses finer-grained labels than the enum.
var posAliases = map[string]models.PartOfSpeech{
	"连词":     models.PosConjunction,
	"副词":     models.PosAdverb,
	"介词":     models.PosPreposition,
	"代词":     models.PosPronoun,
	"疑问代词":   models.PosPronoun,
	"疑问副词":   models.PosAdverb,
	"动词":     models.PosVerb,
	"名词":     models.PosNoun,
	"形容词":    models.PosAdjective,
	"冠词":     models.PosArticle,
	"语气助词":   models.PosParticle,
	"句末语气词":  models.PosParticle,
	"句中语气词":  models.PosParticle,
	"语气词":    models.PosParticle,
	"形容词词尾":  models.PosParticle,
	"助词":     models.PosAuxiliary,
	"复音虚词":   models.PosAuxiliary,
	"兼词":     models.PosPronoun,
	"指示代词":   models.PosPronoun,
	"第三人称代词": models.PosPronoun,
}

// Parse reads the markdown inventory. The format, per the source material:
//
//	## 一、而
//	### 连词
//	1. 表并列:又、和
//	   - 蟹六跪而二螯
//
// Unknown words or part-of-speech headings fail the parse rather than being
// silently dropped; the inventory is reference data and must load cleanly.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)

	var entries []Entry
	var word models.EmptyWord
	var pos models.PartOfSpeech
	var current *Entry
	lineNo := 0

	flush := func() {
		if current != nil {
			entries = append(entries, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "###"):
			flush()
			heading := strings.TrimSpace(strings.TrimPrefix(trimmed, "###"))
			p, ok := posAliases[heading]
			if !ok {
				return nil, fmt.Errorf("line %d: unknown part of speech %q", lineNo, heading)
			}
			pos = p

		case strings.HasPrefix(trimmed, "##"):
			flush()
			heading := strings.TrimSpace(strings.TrimPrefix(trimmed, "##"))
			// "一、而": the glyph follows the enumerator.
			idx := strings.Index(heading, "、")
			if idx < 0 {
				return nil, fmt.Errorf("line %d: malformed word heading %q", lineNo, heading)
			}
			glyph := strings.TrimSpace(heading[idx+len("、"):])
			w, ok := models.ParseGlyph(glyph)
			if !ok {
				return nil, fmt.Errorf("line %d: unknown empty word %q", lineNo, glyph)
			}
			word = w
			pos = ""

		case strings.HasPrefix(trimmed, "#"):
			// File title, ignored.

		case strings.HasPrefix(trimmed, "-"):
			if current == nil {
				return nil, fmt.Errorf("line %d: example sentence outside a usage", lineNo)
			}
			sentence := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
			if sentence != "" {
				current.Sentences = append(current.Sentences, sentence)
			}

		case isNumberedItem(trimmed):
			flush()
			if !word.Valid() || pos == "" {
				return nil, fmt.Errorf("line %d: usage before word/part-of-speech heading", lineNo)
			}
			body := trimmed[strings.Index(trimmed, ".")+1:]
			action, translation := splitActionTranslation(strings.TrimSpace(body))
			if action == "" {
				return nil, fmt.Errorf("line %d: empty usage label", lineNo)
			}
			current = &Entry{
				Word:         word,
				PartOfSpeech: pos,
				Action:       action,
				Translation:  translation,
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	return entries, nil
}

func isNumberedItem(line string) bool {
	idx := strings.Index(line, ".")
	if idx <= 0 {
		return false
	}
	for _, r := range line[:idx] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// splitActionTranslation splits "作用:意思" on the first colon, tolerating
// both ASCII and fullwidth colons.
func splitActionTranslation(body string) (string, string) {
	for _, sep := range []string{"：", ":"} {
		if idx := strings.Index(body, sep); idx >= 0 {
			return strings.TrimSpace(body[:idx]), strings.TrimSpace(body[idx+len(sep):])
		}
	}
	return body, ""
}
