package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// EmptyWord identifies one of the 18 classical-Chinese function words.
// The numeric value is the stable identity; the glyph is display text only.
type EmptyWord int

const (
	WordEr   EmptyWord = iota + 1 // 而
	WordHe                        // 何
	WordHu                        // 乎
	WordNai                       // 乃
	WordQi                        // 其
	WordQie                       // 且
	WordRuo                       // 若
	WordSuo                       // 所
	WordWei                       // 为
	WordYan                       // 焉
	WordYe                        // 也
	WordYi                        // 以
	WordYin                       // 因
	WordYu                        // 于
	WordYu2                       // 与
	WordZe                        // 则
	WordZhe                       // 者
	WordZhi                       // 之
)

var emptyWordGlyphs = [...]string{
	WordEr:  "而",
	WordHe:  "何",
	WordHu:  "乎",
	WordNai: "乃",
	WordQi:  "其",
	WordQie: "且",
	WordRuo: "若",
	WordSuo: "所",
	WordWei: "为",
	WordYan: "焉",
	WordYe:  "也",
	WordYi:  "以",
	WordYin: "因",
	WordYu:  "于",
	WordYu2: "与",
	WordZe:  "则",
	WordZhe: "者",
	WordZhi: "之",
}

var glyphToWord = func() map[string]EmptyWord {
	m := make(map[string]EmptyWord, len(emptyWordGlyphs))
	for w, g := range emptyWordGlyphs {
		if g != "" {
			m[g] = EmptyWord(w)
		}
	}
	return m
}()

// AllEmptyWords returns every defined word in canonical order.
func AllEmptyWords() []EmptyWord {
	words := make([]EmptyWord, 0, 18)
	for w := WordEr; w <= WordZhi; w++ {
		words = append(words, w)
	}
	return words
}

func (w EmptyWord) Valid() bool {
	return w >= WordEr && w <= WordZhi
}

// Glyph returns the display character, or "" for an invalid word.
func (w EmptyWord) Glyph() string {
	if !w.Valid() {
		return ""
	}
	return emptyWordGlyphs[w]
}

func (w EmptyWord) String() string { return w.Glyph() }

// ParseGlyph resolves a glyph back to its word identity.
func ParseGlyph(glyph string) (EmptyWord, bool) {
	w, ok := glyphToWord[glyph]
	return w, ok
}

// Value stores the glyph, matching the original teaching data files.
func (w EmptyWord) Value() (driver.Value, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("invalid empty word %d", int(w))
	}
	return w.Glyph(), nil
}

func (w *EmptyWord) Scan(src interface{}) error {
	var glyph string
	switch v := src.(type) {
	case string:
		glyph = v
	case []byte:
		glyph = string(v)
	default:
		return fmt.Errorf("cannot scan %T into EmptyWord", src)
	}
	parsed, ok := ParseGlyph(glyph)
	if !ok {
		return fmt.Errorf("unknown empty word glyph %q", glyph)
	}
	*w = parsed
	return nil
}

func (w EmptyWord) MarshalJSON() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("invalid empty word %d", int(w))
	}
	return json.Marshal(w.Glyph())
}

func (w *EmptyWord) UnmarshalJSON(data []byte) error {
	var glyph string
	if err := json.Unmarshal(data, &glyph); err != nil {
		return err
	}
	parsed, ok := ParseGlyph(glyph)
	if !ok {
		return fmt.Errorf("unknown empty word glyph %q", glyph)
	}
	*w = parsed
	return nil
}

type PartOfSpeech string

const (
	PosVerb        PartOfSpeech = "verb"
	PosNoun        PartOfSpeech = "noun"
	PosAdjective   PartOfSpeech = "adjective"
	PosAdverb      PartOfSpeech = "adverb"
	PosPreposition PartOfSpeech = "preposition"
	PosConjunction PartOfSpeech = "conjunction"
	PosPronoun     PartOfSpeech = "pronoun"
	PosArticle     PartOfSpeech = "article"
	PosParticle    PartOfSpeech = "particle"
	PosAuxiliary   PartOfSpeech = "auxiliary"
)

var ValidPartsOfSpeech = map[PartOfSpeech]bool{
	PosVerb:        true,
	PosNoun:        true,
	PosAdjective:   true,
	PosAdverb:      true,
	PosPreposition: true,
	PosConjunction: true,
	PosPronoun:     true,
	PosArticle:     true,
	PosParticle:    true,
	PosAuxiliary:   true,
}

// PartOfSpeechZh maps each part of speech to its Chinese display name.
var PartOfSpeechZh = map[PartOfSpeech]string{
	PosVerb:        "动词",
	PosNoun:        "名词",
	PosAdjective:   "形容词",
	PosAdverb:      "副词",
	PosPreposition: "介词",
	PosConjunction: "连词",
	PosPronoun:     "代词",
	PosArticle:     "冠词",
	PosParticle:    "语气词",
	PosAuxiliary:   "助词",
}

func (p PartOfSpeech) DisplayZh() string {
	if zh, ok := PartOfSpeechZh[p]; ok {
		return zh
	}
	return string(p)
}
