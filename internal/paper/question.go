package paper

import (
	"fmt"
	"math/rand"

	"github.com/xuci-prep/backend/internal/models"
)

// DefaultOptionCount is the number of choices per question when the caller
// does not specify one.
const DefaultOptionCount = 4

// GenerateQuestion builds one multiple-choice question from an example
// sentence and one of its bound usages.
//
// The distractor pool is filtered to exclude every usage bound to the
// sentence, so no option other than the correct one is also a valid answer.
// The final option list is shuffled with rng; the correct option has no
// fixed slot.
func GenerateQuestion(sentence models.ExampleSentence, correctUsageID int64, pool []models.EmptyWordAction, optionCount int, rng *rand.Rand) (*models.Question, error) {
	if optionCount <= 0 {
		optionCount = DefaultOptionCount
	}

	binding, ok := sentence.BindingFor(correctUsageID)
	if !ok {
		return nil, fmt.Errorf("%w: usage %d, sentence %d",
			ErrUnboundUsage, correctUsageID, sentence.Sentence.ID)
	}
	correct := binding.Action

	bound := sentence.BoundActionIDs()
	eligible := make([]models.EmptyWordAction, 0, len(pool))
	for _, a := range pool {
		if bound[a.ID] {
			continue
		}
		eligible = append(eligible, a)
	}

	distractors, err := SelectDistractors(correct, eligible, optionCount-1, rng)
	if err != nil {
		return nil, err
	}

	options := append(distractors, correct)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &models.Question{
		Sentence: sentence,
		Correct:  correct,
		Options:  options,
	}, nil
}
