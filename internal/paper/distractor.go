package paper

import (
	"fmt"
	"math/rand"

	"github.com/xuci-prep/backend/internal/models"
)

// SelectDistractors picks count plausible-but-wrong usages for a question.
//
// Preference tiers, drained in order until count slots are filled:
//  1. other usages of the same empty word
//  2. usages of a different word with the same part of speech
//  3. anything left
//
// Within a tier, selection is a shuffle-and-take driven entirely by rng, so
// a fixed seed and pool order reproduce the same distractors. The correct
// usage is excluded by id even if the caller left it in the pool.
func SelectDistractors(correct models.EmptyWordAction, pool []models.EmptyWordAction, count int, rng *rand.Rand) ([]models.EmptyWordAction, error) {
	if count <= 0 {
		return nil, nil
	}

	seen := map[int64]bool{correct.ID: true}
	var sameWord, samePos, rest []models.EmptyWordAction
	for _, a := range pool {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		switch {
		case a.Word == correct.Word:
			sameWord = append(sameWord, a)
		case a.PartOfSpeech == correct.PartOfSpeech:
			samePos = append(samePos, a)
		default:
			rest = append(rest, a)
		}
	}

	if len(sameWord)+len(samePos)+len(rest) < count {
		return nil, fmt.Errorf("%w: need %d, have %d distinct usages",
			ErrInsufficientPool, count, len(sameWord)+len(samePos)+len(rest))
	}

	selected := make([]models.EmptyWordAction, 0, count)
	for _, tier := range [][]models.EmptyWordAction{sameWord, samePos, rest} {
		if len(selected) == count {
			break
		}
		rng.Shuffle(len(tier), func(i, j int) {
			tier[i], tier[j] = tier[j], tier[i]
		})
		for _, a := range tier {
			if len(selected) == count {
				break
			}
			selected = append(selected, a)
		}
	}

	return selected, nil
}
