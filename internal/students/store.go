package students

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/xuci-prep/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateStudent(name string) (*models.Student, error) {
	st := models.Student{Name: name, CreatedAt: time.Now().UTC()}
	err := s.db.QueryRow(
		`INSERT INTO students (name, created_at) VALUES ($1, $2) RETURNING id`,
		st.Name, st.CreatedAt,
	).Scan(&st.ID)
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return &st, nil
}

func (s *Store) ListStudents() ([]models.Student, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var list []models.Student
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

// QuestionCorrectActionID looks up the correct usage id for a paper question.
func (s *Store) QuestionCorrectActionID(questionID int64) (int64, error) {
	var actionID int64
	err := s.db.QueryRow(
		`SELECT action_id FROM questions WHERE id = $1`, questionID,
	).Scan(&actionID)
	if err != nil {
		return 0, fmt.Errorf("get question: %w", err)
	}
	return actionID, nil
}

func (s *Store) SaveAnswer(a *models.Answer) error {
	err := s.db.QueryRow(
		`INSERT INTO answers (student_id, question_id, action_id, is_correct, answered_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		a.StudentID, a.QuestionID, a.ActionID, a.IsCorrect, a.AnsweredAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

func (s *Store) ListAnswers(studentID int64) ([]models.Answer, error) {
	rows, err := s.db.Query(
		`SELECT id, student_id, question_id, action_id, is_correct, answered_at
		 FROM answers WHERE student_id = $1 ORDER BY answered_at DESC, id DESC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.StudentID, &a.QuestionID, &a.ActionID, &a.IsCorrect, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
