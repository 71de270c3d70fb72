package paper

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/xuci-prep/backend/internal/models"
)

func exampleSentence(id int64, text string, bindings ...models.UsageBinding) models.ExampleSentence {
	return models.ExampleSentence{
		Sentence: models.Sentence{ID: id, Text: text},
		Bindings: bindings,
	}
}

func TestGenerateQuestion(t *testing.T) {
	u1 := usage(1, models.WordWei, models.PosPreposition, "因为")
	u2 := usage(2, models.WordWei, models.PosVerb, "做")
	u3 := usage(3, models.WordYi, models.PosPreposition, "用")
	pool := []models.EmptyWordAction{u1, u2, u3}

	s := exampleSentence(1, "何为而至", models.UsageBinding{Position: 1, Action: u1})

	q, err := GenerateQuestion(s, u1.ID, pool, 3, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Correct.ID != u1.ID {
		t.Errorf("expected correct usage %d, got %d", u1.ID, q.Correct.ID)
	}
	if len(q.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(q.Options))
	}

	ids := make(map[int64]int)
	for _, o := range q.Options {
		ids[o.ID]++
	}
	for _, want := range []int64{1, 2, 3} {
		if ids[want] != 1 {
			t.Errorf("expected option %d exactly once, got %d (options %v)", want, ids[want], q.Options)
		}
	}
}

func TestGenerateQuestion_UnboundUsage(t *testing.T) {
	u1 := usage(1, models.WordWei, models.PosPreposition, "因为")
	s := exampleSentence(1, "何为而至", models.UsageBinding{Position: 1, Action: u1})

	_, err := GenerateQuestion(s, 99, nil, 3, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrUnboundUsage) {
		t.Fatalf("expected ErrUnboundUsage, got %v", err)
	}
}

func TestGenerateQuestion_ExcludesSentenceBoundUsages(t *testing.T) {
	u1 := usage(1, models.WordWei, models.PosPreposition, "因为")
	u2 := usage(2, models.WordEr, models.PosConjunction, "表承接")
	u3 := usage(3, models.WordYi, models.PosPreposition, "用")
	u4 := usage(4, models.WordZhi, models.PosAuxiliary, "的")
	pool := []models.EmptyWordAction{u1, u2, u3, u4}

	// Both 为 and 而 are valid answers for this sentence; only 为 is asked,
	// but 而 must not show up as a distractor.
	s := exampleSentence(1, "何为而至",
		models.UsageBinding{Position: 1, Action: u1},
		models.UsageBinding{Position: 2, Action: u2},
	)

	for seed := int64(0); seed < 20; seed++ {
		q, err := GenerateQuestion(s, u1.ID, pool, 3, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		for _, o := range q.Options {
			if o.ID == u2.ID {
				t.Fatalf("seed %d: co-bound usage %d appeared as an option: %v", seed, u2.ID, q.Options)
			}
		}
	}
}

func TestGenerateQuestion_InsufficientPool(t *testing.T) {
	u1 := usage(1, models.WordWei, models.PosPreposition, "因为")
	u2 := usage(2, models.WordWei, models.PosVerb, "做")
	s := exampleSentence(1, "何为而至", models.UsageBinding{Position: 1, Action: u1})

	q, err := GenerateQuestion(s, u1.ID, []models.EmptyWordAction{u1, u2}, 4, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}
	if q != nil {
		t.Errorf("expected no partial question, got %v", q)
	}
}

func TestGenerateQuestion_DefaultOptionCount(t *testing.T) {
	u1 := usage(1, models.WordWei, models.PosPreposition, "因为")
	pool := []models.EmptyWordAction{u1}
	for i := int64(2); i <= 6; i++ {
		pool = append(pool, usage(i, models.WordYi, models.PosPreposition, "用法"))
	}
	s := exampleSentence(1, "何为而至", models.UsageBinding{Position: 1, Action: u1})

	q, err := GenerateQuestion(s, u1.ID, pool, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Options) != DefaultOptionCount {
		t.Errorf("expected %d options, got %d", DefaultOptionCount, len(q.Options))
	}
}

func TestGenerateQuestion_CorrectPositionVaries(t *testing.T) {
	u1 := usage(1, models.WordWei, models.PosPreposition, "因为")
	pool := []models.EmptyWordAction{u1}
	for i := int64(2); i <= 5; i++ {
		pool = append(pool, usage(i, models.WordWei, models.PosVerb, "用法"))
	}
	s := exampleSentence(1, "何为而至", models.UsageBinding{Position: 1, Action: u1})

	positions := make(map[int]bool)
	for seed := int64(0); seed < 30; seed++ {
		q, err := GenerateQuestion(s, u1.ID, pool, 4, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		positions[q.CorrectIndex()] = true
	}
	if len(positions) < 2 {
		t.Errorf("correct option pinned to a single slot across 30 seeds: %v", positions)
	}
}
