package paper

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xuci-prep/backend/internal/database"
	"github.com/xuci-prep/backend/internal/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := database.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func mustCreateUsage(t *testing.T, s *Store, word models.EmptyWord, pos models.PartOfSpeech, action, translation string) *models.EmptyWordAction {
	t.Helper()
	a, err := s.CreateUsage(models.CreateUsageRequest{
		Word:         word,
		PartOfSpeech: pos,
		Action:       action,
		Translation:  translation,
	})
	if err != nil {
		t.Fatalf("create usage: %v", err)
	}
	return a
}

func mustCreateSentence(t *testing.T, s *Store, text string, bindings ...Binding) *models.Sentence {
	t.Helper()
	sent, err := s.CreateSentence(context.Background(), text, nil, bindings)
	if err != nil {
		t.Fatalf("create sentence: %v", err)
	}
	return sent
}

func TestStore_UsageCRUD(t *testing.T) {
	s := setupStore(t)

	created := mustCreateUsage(t, s, models.WordEr, models.PosConjunction, "表并列", "和")
	if created.ID == 0 {
		t.Fatal("expected generated id")
	}

	got, err := s.GetUsage(created.ID)
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if got.Word != models.WordEr || got.PartOfSpeech != models.PosConjunction || got.Action != "表并列" || got.Translation != "和" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if err := s.UpdateUsage(created.ID, models.CreateUsageRequest{
		Word:         models.WordEr,
		PartOfSpeech: models.PosConjunction,
		Action:       "表转折",
		Translation:  "但是",
	}); err != nil {
		t.Fatalf("update usage: %v", err)
	}
	got, err = s.GetUsage(created.ID)
	if err != nil {
		t.Fatalf("get usage after update: %v", err)
	}
	if got.Action != "表转折" || got.Translation != "但是" {
		t.Errorf("update not applied: %+v", got)
	}

	if err := s.DeleteUsage(created.ID); err != nil {
		t.Fatalf("delete usage: %v", err)
	}
	if _, err := s.GetUsage(created.ID); err == nil {
		t.Error("expected error getting deleted usage")
	}
}

func TestStore_ListUsagesFilter(t *testing.T) {
	s := setupStore(t)

	mustCreateUsage(t, s, models.WordEr, models.PosConjunction, "表并列", "和")
	mustCreateUsage(t, s, models.WordEr, models.PosPronoun, "代词", "你")
	mustCreateUsage(t, s, models.WordYi, models.PosPreposition, "凭借", "用")
	mustCreateUsage(t, s, models.WordZhi, models.PosAuxiliary, "结构助词", "的")

	all, err := s.ListUsages(models.UsageFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 usages, got %d", len(all))
	}

	byWord, err := s.ListUsages(models.UsageFilter{Words: []models.EmptyWord{models.WordEr}})
	if err != nil {
		t.Fatalf("list by word: %v", err)
	}
	if len(byWord) != 2 {
		t.Errorf("expected 2 usages of 而, got %d", len(byWord))
	}
	for _, u := range byWord {
		if u.Word != models.WordEr {
			t.Errorf("filter leaked word %s", u.Word)
		}
	}

	byBoth, err := s.ListUsages(models.UsageFilter{
		Words:         []models.EmptyWord{models.WordEr, models.WordYi},
		PartsOfSpeech: []models.PartOfSpeech{models.PosPreposition},
	})
	if err != nil {
		t.Fatalf("list by word and part of speech: %v", err)
	}
	if len(byBoth) != 1 || byBoth[0].Word != models.WordYi {
		t.Errorf("expected only the 以 preposition, got %v", byBoth)
	}
}

func TestStore_SentencesAndBindings(t *testing.T) {
	s := setupStore(t)

	er := mustCreateUsage(t, s, models.WordEr, models.PosConjunction, "表承接", "然后")
	zhi := mustCreateUsage(t, s, models.WordZhi, models.PosAuxiliary, "结构助词", "的")
	yi := mustCreateUsage(t, s, models.WordYi, models.PosPreposition, "凭借", "用")

	sent := mustCreateSentence(t, s, "学而时习之",
		Binding{ActionID: er.ID, Position: 1},
		Binding{ActionID: zhi.ID, Position: 4},
	)
	mustCreateSentence(t, s, "以刀劈狼首", Binding{ActionID: yi.ID, Position: 0})

	examples, err := s.GetExampleSentences([]int64{er.ID})
	if err != nil {
		t.Fatalf("get example sentences: %v", err)
	}
	if len(examples) != 1 {
		t.Fatalf("expected 1 sentence for 而, got %d", len(examples))
	}
	es := examples[0]
	if es.Sentence.ID != sent.ID || es.Sentence.Text != "学而时习之" {
		t.Errorf("unexpected sentence: %+v", es.Sentence)
	}
	// All bindings come back, not just the one we filtered on.
	if len(es.Bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(es.Bindings))
	}
	if es.Bindings[0].Action.ID != er.ID || es.Bindings[0].Position != 1 {
		t.Errorf("unexpected first binding: %+v", es.Bindings[0])
	}
	if es.Bindings[1].Action.ID != zhi.ID || es.Bindings[1].Position != 4 {
		t.Errorf("unexpected second binding: %+v", es.Bindings[1])
	}

	word := models.WordYi
	filtered, err := s.ListSentences(&word)
	if err != nil {
		t.Fatalf("list sentences by word: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Sentence.Text != "以刀劈狼首" {
		t.Errorf("expected only the 以 sentence, got %v", filtered)
	}

	all, err := s.ListSentences(nil)
	if err != nil {
		t.Fatalf("list sentences: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 sentences, got %d", len(all))
	}

	if err := s.DeleteSentence(sent.ID); err != nil {
		t.Fatalf("delete sentence: %v", err)
	}
	remaining, err := s.ListSentences(nil)
	if err != nil {
		t.Fatalf("list sentences after delete: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected 1 sentence after delete, got %d", len(remaining))
	}
}

func TestStore_PaperRoundTrip(t *testing.T) {
	s := setupStore(t)

	wei := mustCreateUsage(t, s, models.WordWei, models.PosPreposition, "因为", "因为")
	wei2 := mustCreateUsage(t, s, models.WordWei, models.PosVerb, "做", "做")
	yi := mustCreateUsage(t, s, models.WordYi, models.PosPreposition, "凭借", "用")
	sent := mustCreateSentence(t, s, "何为而至", Binding{ActionID: wei.ID, Position: 1})

	examples, err := s.GetExampleSentences([]int64{wei.ID})
	if err != nil || len(examples) != 1 {
		t.Fatalf("get example sentences: %v (%d)", err, len(examples))
	}

	p := &models.Paper{
		Title:         "虚词练习",
		QuestionCount: 1,
		Questions: []models.Question{{
			Sentence: examples[0],
			Correct:  *wei,
			Options:  []models.EmptyWordAction{*wei2, *wei, *yi},
		}},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.SavePaper(context.Background(), p); err != nil {
		t.Fatalf("save paper: %v", err)
	}
	if p.ID == 0 || p.Questions[0].ID == 0 {
		t.Fatal("expected generated ids after save")
	}

	got, err := s.GetPaper(p.ID)
	if err != nil {
		t.Fatalf("get paper: %v", err)
	}
	if got.Title != "虚词练习" || got.QuestionCount != 1 || len(got.Questions) != 1 {
		t.Fatalf("unexpected paper: %+v", got)
	}
	q := got.Questions[0]
	if q.Order != 1 || q.Sentence.Sentence.ID != sent.ID {
		t.Errorf("unexpected question: order %d, sentence %d", q.Order, q.Sentence.Sentence.ID)
	}
	if q.Correct.ID != wei.ID {
		t.Errorf("expected correct usage %d, got %d", wei.ID, q.Correct.ID)
	}
	// Option order is preserved exactly as saved.
	wantOrder := []int64{wei2.ID, wei.ID, yi.ID}
	if len(q.Options) != len(wantOrder) {
		t.Fatalf("expected %d options, got %d", len(wantOrder), len(q.Options))
	}
	for i, id := range wantOrder {
		if q.Options[i].ID != id {
			t.Errorf("option %d: expected usage %d, got %d", i, id, q.Options[i].ID)
		}
	}
	if q.CorrectIndex() != 1 {
		t.Errorf("expected correct index 1, got %d", q.CorrectIndex())
	}

	summaries, err := s.ListPapers()
	if err != nil {
		t.Fatalf("list papers: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != p.ID {
		t.Errorf("unexpected summaries: %v", summaries)
	}

	if err := s.DeletePaper(context.Background(), p.ID); err != nil {
		t.Fatalf("delete paper: %v", err)
	}
	if _, err := s.GetPaper(p.ID); err == nil {
		t.Error("expected error getting deleted paper")
	}
	summaries, err = s.ListPapers()
	if err != nil {
		t.Fatalf("list papers after delete: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected no papers after delete, got %v", summaries)
	}
}
