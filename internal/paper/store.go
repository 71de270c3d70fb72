package paper

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/xuci-prep/backend/internal/models"
)

// Store is the data-access layer for usages, example sentences, and papers.
// Placeholders stay in strictly increasing $N form, which both supported
// drivers accept.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Usage CRUD ──────────────────────────────────────────

func (s *Store) CreateUsage(req models.CreateUsageRequest) (*models.EmptyWordAction, error) {
	a := models.EmptyWordAction{
		Word:         req.Word,
		PartOfSpeech: req.PartOfSpeech,
		Action:       req.Action,
		Translation:  req.Translation,
		CreatedAt:    time.Now().UTC(),
	}
	err := s.db.QueryRow(
		`INSERT INTO empty_word_actions (empty_word, part_of_speech, action, translation, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		a.Word, a.PartOfSpeech, a.Action, a.Translation, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("create usage: %w", err)
	}
	return &a, nil
}

func (s *Store) GetUsage(id int64) (*models.EmptyWordAction, error) {
	var a models.EmptyWordAction
	err := s.db.QueryRow(
		`SELECT id, empty_word, part_of_speech, action, translation, created_at
		 FROM empty_word_actions WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Word, &a.PartOfSpeech, &a.Action, &a.Translation, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get usage: %w", err)
	}
	return &a, nil
}

// ListUsages returns usages matching the filter, ordered by word then id so
// downstream selection is deterministic.
func (s *Store) ListUsages(filter models.UsageFilter) ([]models.EmptyWordAction, error) {
	query := `SELECT id, empty_word, part_of_speech, action, translation, created_at
		 FROM empty_word_actions`
	var conditions []string
	var args []interface{}

	if len(filter.Words) > 0 {
		placeholders := make([]string, len(filter.Words))
		for i, w := range filter.Words {
			args = append(args, w)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, "empty_word IN ("+strings.Join(placeholders, ", ")+")")
	}
	if len(filter.PartsOfSpeech) > 0 {
		placeholders := make([]string, len(filter.PartsOfSpeech))
		for i, p := range filter.PartsOfSpeech {
			args = append(args, p)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, "part_of_speech IN ("+strings.Join(placeholders, ", ")+")")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY empty_word, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list usages: %w", err)
	}
	defer rows.Close()

	var usages []models.EmptyWordAction
	for rows.Next() {
		var a models.EmptyWordAction
		if err := rows.Scan(&a.ID, &a.Word, &a.PartOfSpeech, &a.Action, &a.Translation, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		usages = append(usages, a)
	}
	return usages, rows.Err()
}

func (s *Store) UpdateUsage(id int64, req models.CreateUsageRequest) error {
	_, err := s.db.Exec(
		`UPDATE empty_word_actions
		 SET empty_word = $1, part_of_speech = $2, action = $3, translation = $4
		 WHERE id = $5`,
		req.Word, req.PartOfSpeech, req.Action, req.Translation, id,
	)
	return err
}

func (s *Store) DeleteUsage(id int64) error {
	_, err := s.db.Exec(`DELETE FROM empty_word_actions WHERE id = $1`, id)
	return err
}

// ── Sentences and Bindings ──────────────────────────────

// Binding ties a usage id to an occurrence position during sentence creation.
type Binding struct {
	ActionID int64
	Position int
}

func (s *Store) CreateSentence(ctx context.Context, text string, tags []string, bindings []Binding) (*models.Sentence, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	sent := models.Sentence{
		Text:      text,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}
	err = tx.QueryRow(
		`INSERT INTO sentences (text, tags, created_at) VALUES ($1, $2, $3) RETURNING id`,
		sent.Text, strings.Join(tags, ","), sent.CreatedAt,
	).Scan(&sent.ID)
	if err != nil {
		return nil, fmt.Errorf("insert sentence: %w", err)
	}

	for _, b := range bindings {
		if _, err := tx.Exec(
			`INSERT INTO sentence_actions (sentence_id, action_id, position) VALUES ($1, $2, $3)`,
			sent.ID, b.ActionID, b.Position,
		); err != nil {
			return nil, fmt.Errorf("insert binding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sentence: %w", err)
	}
	return &sent, nil
}

func (s *Store) DeleteSentence(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM sentence_actions WHERE sentence_id = $1`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM sentences WHERE id = $1`, id)
	return err
}

// GetExampleSentences loads every sentence bound to any of the given usages,
// with all of each sentence's bindings (not just the requested ones), ordered
// by sentence id.
func (s *Store) GetExampleSentences(usageIDs []int64) ([]models.ExampleSentence, error) {
	if len(usageIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(usageIDs))
	args := make([]interface{}, len(usageIDs))
	for i, id := range usageIDs {
		args[i] = id
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	rows, err := s.db.Query(
		`SELECT DISTINCT s.id FROM sentences s
		 JOIN sentence_actions sa ON sa.sentence_id = s.id
		 WHERE sa.action_id IN (`+strings.Join(placeholders, ", ")+`)
		 ORDER BY s.id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list example sentences: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sentence id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sentences := make([]models.ExampleSentence, 0, len(ids))
	for _, id := range ids {
		es, err := s.getExampleSentence(id)
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, *es)
	}
	return sentences, nil
}

// ListSentences returns all example sentences, optionally restricted to
// those bound to a given empty word.
func (s *Store) ListSentences(word *models.EmptyWord) ([]models.ExampleSentence, error) {
	var rows *sql.Rows
	var err error
	if word != nil {
		rows, err = s.db.Query(
			`SELECT DISTINCT s.id FROM sentences s
			 JOIN sentence_actions sa ON sa.sentence_id = s.id
			 JOIN empty_word_actions a ON a.id = sa.action_id
			 WHERE a.empty_word = $1
			 ORDER BY s.id`,
			*word,
		)
	} else {
		rows, err = s.db.Query(`SELECT id FROM sentences ORDER BY id`)
	}
	if err != nil {
		return nil, fmt.Errorf("list sentences: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sentence id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sentences := make([]models.ExampleSentence, 0, len(ids))
	for _, id := range ids {
		es, err := s.getExampleSentence(id)
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, *es)
	}
	return sentences, nil
}

func (s *Store) getExampleSentence(id int64) (*models.ExampleSentence, error) {
	var es models.ExampleSentence
	var tags string
	err := s.db.QueryRow(
		`SELECT id, text, tags, created_at FROM sentences WHERE id = $1`,
		id,
	).Scan(&es.Sentence.ID, &es.Sentence.Text, &tags, &es.Sentence.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get sentence: %w", err)
	}
	es.Sentence.Tags = splitTags(tags)

	rows, err := s.db.Query(
		`SELECT sa.position, a.id, a.empty_word, a.part_of_speech, a.action, a.translation, a.created_at
		 FROM sentence_actions sa
		 JOIN empty_word_actions a ON a.id = sa.action_id
		 WHERE sa.sentence_id = $1
		 ORDER BY sa.position, a.id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get bindings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b models.UsageBinding
		if err := rows.Scan(&b.Position, &b.Action.ID, &b.Action.Word, &b.Action.PartOfSpeech,
			&b.Action.Action, &b.Action.Translation, &b.Action.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan binding: %w", err)
		}
		es.Bindings = append(es.Bindings, b)
	}
	return &es, rows.Err()
}

// ── Papers ──────────────────────────────────────────────

// SavePaper persists the paper aggregate in one transaction and fills in the
// generated ids. Nothing is visible to readers until the commit.
func (s *Store) SavePaper(ctx context.Context, p *models.Paper) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO papers (title, question_count, created_at) VALUES ($1, $2, $3) RETURNING id`,
		p.Title, p.QuestionCount, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert paper: %w", err)
	}

	for i := range p.Questions {
		q := &p.Questions[i]
		q.PaperID = p.ID
		q.Order = i + 1
		err := tx.QueryRow(
			`INSERT INTO questions (paper_id, sentence_id, action_id, question_order)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			p.ID, q.Sentence.Sentence.ID, q.Correct.ID, q.Order,
		).Scan(&q.ID)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}

		for j, opt := range q.Options {
			if _, err := tx.Exec(
				`INSERT INTO question_options (question_id, action_id, is_correct, option_order)
				 VALUES ($1, $2, $3, $4)`,
				q.ID, opt.ID, opt.ID == q.Correct.ID, j+1,
			); err != nil {
				return fmt.Errorf("insert option: %w", err)
			}
		}
	}

	return tx.Commit()
}

func (s *Store) GetPaper(id int64) (*models.Paper, error) {
	var p models.Paper
	err := s.db.QueryRow(
		`SELECT id, title, question_count, created_at FROM papers WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.QuestionCount, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get paper: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT id, sentence_id, action_id, question_order FROM questions
		 WHERE paper_id = $1 ORDER BY question_order`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()

	type questionRow struct {
		id, sentenceID, actionID int64
		order                    int
	}
	var qrows []questionRow
	for rows.Next() {
		var qr questionRow
		if err := rows.Scan(&qr.id, &qr.sentenceID, &qr.actionID, &qr.order); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		qrows = append(qrows, qr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, qr := range qrows {
		es, err := s.getExampleSentence(qr.sentenceID)
		if err != nil {
			return nil, err
		}

		q := models.Question{
			ID:       qr.id,
			PaperID:  p.ID,
			Order:    qr.order,
			Sentence: *es,
		}
		if binding, ok := es.BindingFor(qr.actionID); ok {
			q.Correct = binding.Action
		} else {
			// Binding was edited after the paper was created; fall back to
			// the usage record itself.
			correct, err := s.GetUsage(qr.actionID)
			if err != nil {
				return nil, err
			}
			q.Correct = *correct
		}

		opts, err := s.getOptions(qr.id)
		if err != nil {
			return nil, err
		}
		q.Options = opts
		p.Questions = append(p.Questions, q)
	}

	return &p, nil
}

func (s *Store) getOptions(questionID int64) ([]models.EmptyWordAction, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.empty_word, a.part_of_speech, a.action, a.translation, a.created_at
		 FROM question_options o
		 JOIN empty_word_actions a ON a.id = o.action_id
		 WHERE o.question_id = $1
		 ORDER BY o.option_order`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("get options: %w", err)
	}
	defer rows.Close()

	var options []models.EmptyWordAction
	for rows.Next() {
		var a models.EmptyWordAction
		if err := rows.Scan(&a.ID, &a.Word, &a.PartOfSpeech, &a.Action, &a.Translation, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, a)
	}
	return options, rows.Err()
}

func (s *Store) ListPapers() ([]models.PaperSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, title, question_count, created_at FROM papers ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	var papers []models.PaperSummary
	for rows.Next() {
		var p models.PaperSummary
		if err := rows.Scan(&p.ID, &p.Title, &p.QuestionCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func (s *Store) DeletePaper(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM question_options WHERE question_id IN (SELECT id FROM questions WHERE paper_id = $1)`,
		id,
	); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM questions WHERE paper_id = $1`, id); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM papers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}

	return tx.Commit()
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	return strings.Split(tags, ",")
}
