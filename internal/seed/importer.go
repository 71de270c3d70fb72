package seed

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/xuci-prep/backend/internal/models"
	"github.com/xuci-prep/backend/internal/paper"
	"github.com/xuci-prep/backend/internal/tagger"
)

// ImportFile parses the inventory file and writes it through the store.
// Each usage's example sentences are created bound to that usage at the
// first occurrence of its word, the same default binding the batch-import
// screen applies. Import is intended for an empty database; it does not
// dedup against existing rows.
func ImportFile(ctx context.Context, store *paper.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	usages := 0
	sentences := 0
	for _, e := range entries {
		usage, err := store.CreateUsage(models.CreateUsageRequest{
			Word:         e.Word,
			PartOfSpeech: e.PartOfSpeech,
			Action:       e.Action,
			Translation:  e.Translation,
		})
		if err != nil {
			return fmt.Errorf("seed usage %s/%s: %w", e.Word.Glyph(), e.Action, err)
		}
		usages++

		for _, text := range e.Sentences {
			matches := tagger.Tag(text, []models.EmptyWord{e.Word})
			if len(matches) == 0 {
				log.Printf("WARN: seed sentence %q does not contain %s, skipping", text, e.Word.Glyph())
				continue
			}
			_, err := store.CreateSentence(ctx, text, nil, []paper.Binding{
				{ActionID: usage.ID, Position: matches[0].Position},
			})
			if err != nil {
				return fmt.Errorf("seed sentence %q: %w", text, err)
			}
			sentences++
		}
	}

	log.Printf("Seed import complete: %d usages, %d example sentences", usages, sentences)
	return nil
}
