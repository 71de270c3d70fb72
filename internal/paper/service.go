package paper

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/xuci-prep/backend/internal/models"
)

// MinViableQuestions is the smallest paper worth persisting. Below this the
// whole assembly fails and nothing is written.
const MinViableQuestions = 1

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// candidate is one (sentence, bound usage) pair eligible for a question.
type candidate struct {
	sentence models.ExampleSentence
	usageID  int64
}

// Assemble builds and persists a paper under the request's filter criteria.
//
// Candidate pairs are ordered by (sentence id, usage id) before sampling, so
// a fixed seed reproduces the same paper. Pairs whose distractor pool is too
// small are skipped and counted; the paper fails outright only when fewer
// than MinViableQuestions survive. question_count reflects what was actually
// produced, which the caller must read back.
func (s *Service) Assemble(ctx context.Context, req models.AssemblePaperRequest) (*models.AssemblePaperResponse, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: requested count must be positive", ErrPaperGeneration)
	}
	optionCount := req.OptionCount
	if optionCount <= 0 {
		optionCount = DefaultOptionCount
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	// Step 1: usages matching the filters.
	usages, err := s.store.ListUsages(models.UsageFilter{
		Words:         req.Words,
		PartsOfSpeech: req.PartsOfSpeech,
	})
	if err != nil {
		return nil, err
	}

	diag := models.AssembleDiagnostics{Requested: req.Count}

	matched := make(map[int64]bool, len(usages))
	usageIDs := make([]int64, 0, len(usages))
	for _, u := range usages {
		matched[u.ID] = true
		usageIDs = append(usageIDs, u.ID)
	}

	// Step 2: example sentences bound to those usages.
	sentences, err := s.store.GetExampleSentences(usageIDs)
	if err != nil {
		return nil, err
	}

	// Step 3: candidate pairs in stable (sentence id, usage id) order.
	var candidates []candidate
	for _, es := range sentences {
		for _, b := range es.Bindings {
			if matched[b.Action.ID] {
				candidates = append(candidates, candidate{sentence: es, usageID: b.Action.ID})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].sentence.Sentence.ID != candidates[j].sentence.Sentence.ID {
			return candidates[i].sentence.Sentence.ID < candidates[j].sentence.Sentence.ID
		}
		return candidates[i].usageID < candidates[j].usageID
	})
	diag.Candidates = len(candidates)

	if len(candidates) > req.Count {
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		candidates = candidates[:req.Count]
	}

	// The distractor pool draws on the full usage inventory, not just the
	// filtered subset; filters narrow what is asked, not what distracts.
	pool, err := s.store.ListUsages(models.UsageFilter{})
	if err != nil {
		return nil, err
	}

	// Step 4: generate, skipping pairs whose pool is too thin.
	var questions []models.Question
	for _, c := range candidates {
		q, err := GenerateQuestion(c.sentence, c.usageID, pool, optionCount, rng)
		if err != nil {
			log.Printf("WARN: skipping sentence %d usage %d: %v",
				c.sentence.Sentence.ID, c.usageID, err)
			diag.Skipped++
			continue
		}
		questions = append(questions, *q)
	}
	diag.Produced = len(questions)

	if len(questions) < MinViableQuestions {
		return nil, fmt.Errorf("%w: %d candidates, %d skipped, %d produced (minimum %d)",
			ErrPaperGeneration, diag.Candidates, diag.Skipped, diag.Produced, MinViableQuestions)
	}

	// Step 5: persist the aggregate atomically.
	p := &models.Paper{
		Title:         req.Title,
		QuestionCount: len(questions),
		Questions:     questions,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.SavePaper(ctx, p); err != nil {
		return nil, fmt.Errorf("save paper: %w", err)
	}

	return &models.AssemblePaperResponse{Paper: p, Diagnostics: diag}, nil
}

// ── Pass-through Access ─────────────────────────────────

func (s *Service) GetPaper(id int64) (*models.Paper, error) {
	return s.store.GetPaper(id)
}

func (s *Service) ListPapers() ([]models.PaperSummary, error) {
	return s.store.ListPapers()
}

func (s *Service) DeletePaper(ctx context.Context, id int64) error {
	return s.store.DeletePaper(ctx, id)
}
