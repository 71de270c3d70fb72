package tagger

import (
	"reflect"
	"testing"

	"github.com/xuci-prep/backend/internal/models"
)

func TestTag_SingleOccurrence(t *testing.T) {
	matches := Tag("何为而至", []models.EmptyWord{models.WordWei})
	want := []Match{{Position: 1, Word: models.WordWei}}
	if !reflect.DeepEqual(matches, want) {
		t.Errorf("Tag = %v, want %v", matches, want)
	}
}

func TestTag_MultipleWordsAndRepeats(t *testing.T) {
	// 而 appears twice, 于 three times, 之 twice.
	text := "青，取之于蓝，而青于蓝；冰，水为之，而寒于水"
	matches := Tag(text, models.AllEmptyWords())

	counts := make(map[models.EmptyWord]int)
	for _, m := range matches {
		counts[m.Word]++
	}
	if counts[models.WordEr] != 2 {
		t.Errorf("expected 2 occurrences of 而, got %d", counts[models.WordEr])
	}
	if counts[models.WordYu] != 3 {
		t.Errorf("expected 3 occurrences of 于, got %d", counts[models.WordYu])
	}
	if counts[models.WordZhi] != 2 {
		t.Errorf("expected 2 occurrences of 之, got %d", counts[models.WordZhi])
	}

	// Matches come back in text order.
	for i := 1; i < len(matches); i++ {
		if matches[i].Position <= matches[i-1].Position {
			t.Fatalf("matches out of order: %v", matches)
		}
	}
}

func TestTag_RunePositions(t *testing.T) {
	// Position must count runes, not bytes: every glyph here is multi-byte.
	matches := Tag("蟹六跪而二螯", []models.EmptyWord{models.WordEr})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Position != 3 {
		t.Errorf("expected rune position 3, got %d", matches[0].Position)
	}
}

func TestTag_NoMatches(t *testing.T) {
	if got := Tag("日照香炉生紫烟", []models.EmptyWord{models.WordZhi}); got != nil {
		t.Errorf("expected no matches, got %v", got)
	}
	if got := Tag("", models.AllEmptyWords()); got != nil {
		t.Errorf("expected no matches for empty text, got %v", got)
	}
	if got := Tag("学而时习之", nil); got != nil {
		t.Errorf("expected no matches for empty glyph set, got %v", got)
	}
}

func TestTag_RestrictedGlyphSet(t *testing.T) {
	// Only the requested words are reported even when others occur.
	matches := Tag("学而时习之", []models.EmptyWord{models.WordZhi})
	want := []Match{{Position: 4, Word: models.WordZhi}}
	if !reflect.DeepEqual(matches, want) {
		t.Errorf("Tag = %v, want %v", matches, want)
	}
}

func TestWords_Dedup(t *testing.T) {
	matches := Tag("青，取之于蓝，而青于蓝", models.AllEmptyWords())
	words := Words(matches)

	seen := make(map[models.EmptyWord]bool)
	for _, w := range words {
		if seen[w] {
			t.Fatalf("duplicate word %v in %v", w, words)
		}
		seen[w] = true
	}
	if !seen[models.WordZhi] || !seen[models.WordYu] || !seen[models.WordEr] {
		t.Errorf("expected 之, 于, 而 in %v", words)
	}
}
