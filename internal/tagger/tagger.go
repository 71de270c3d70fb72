// Package tagger scans raw sentence text for occurrences of known
// empty-word glyphs. It only reports candidate matches; deciding which
// usage each occurrence corresponds to is the caller's job.
package tagger

import "github.com/xuci-prep/backend/internal/models"

// Match is one occurrence of a known glyph. Position is a rune index, not a
// byte offset, so it lines up with how teachers count characters.
type Match struct {
	Position int
	Word     models.EmptyWord
}

// Tag returns every occurrence of any known word in text, in text order.
// Zero matches is a valid result. Tag reads only its arguments.
func Tag(text string, known []models.EmptyWord) []Match {
	if text == "" || len(known) == 0 {
		return nil
	}

	glyphs := make(map[rune]models.EmptyWord, len(known))
	for _, w := range known {
		g := w.Glyph()
		if g == "" {
			continue
		}
		glyphs[[]rune(g)[0]] = w
	}

	var matches []Match
	for i, r := range []rune(text) {
		if w, ok := glyphs[r]; ok {
			matches = append(matches, Match{Position: i, Word: w})
		}
	}
	return matches
}

// Words returns the distinct words matched, in first-occurrence order.
func Words(matches []Match) []models.EmptyWord {
	seen := make(map[models.EmptyWord]bool, len(matches))
	var words []models.EmptyWord
	for _, m := range matches {
		if !seen[m.Word] {
			seen[m.Word] = true
			words = append(words, m.Word)
		}
	}
	return words
}
