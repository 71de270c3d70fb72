package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the configured database. DB_DRIVER selects "postgres"
// (default) or "sqlite3"; SQLite matches single-file classroom deployments
// and keeps the test suite free of external services.
func Connect() (*sql.DB, error) {
	switch driver := Driver(); driver {
	case "postgres":
		return connectPostgres()
	case "sqlite3":
		return connectSQLite()
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func connectPostgres() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "xuci_user")
	password := getEnv("DB_PASSWORD", "xuci_password")
	dbname := getEnv("DB_NAME", "xuci_prep")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func connectSQLite() (*sql.DB, error) {
	path := getEnv("DB_PATH", "xuci.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A single connection avoids SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// Driver reports the configured driver name, matching what Connect used.
func Driver() string {
	return getEnv("DB_DRIVER", "postgres")
}

// Migrate creates the schema. Both dialects share the DDL apart from the
// auto-increment primary key column type.
func Migrate(db *sql.DB, driver string) error {
	pk := "BIGSERIAL PRIMARY KEY"
	if driver == "sqlite3" {
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	ddl := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS empty_word_actions (
		id             %[1]s,
		empty_word     TEXT NOT NULL,
		part_of_speech TEXT NOT NULL,
		action         TEXT NOT NULL,
		translation    TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_actions_word ON empty_word_actions(empty_word);
	CREATE INDEX IF NOT EXISTS idx_actions_word_pos ON empty_word_actions(empty_word, part_of_speech);

	CREATE TABLE IF NOT EXISTS sentences (
		id         %[1]s,
		text       TEXT NOT NULL,
		tags       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sentence_actions (
		id          %[1]s,
		sentence_id BIGINT NOT NULL REFERENCES sentences(id) ON DELETE CASCADE,
		action_id   BIGINT NOT NULL REFERENCES empty_word_actions(id) ON DELETE CASCADE,
		position    INT NOT NULL DEFAULT 0,
		UNIQUE(sentence_id, action_id)
	);

	CREATE INDEX IF NOT EXISTS idx_bindings_sentence ON sentence_actions(sentence_id);
	CREATE INDEX IF NOT EXISTS idx_bindings_action ON sentence_actions(action_id);

	CREATE TABLE IF NOT EXISTS papers (
		id             %[1]s,
		title          TEXT NOT NULL,
		question_count INT NOT NULL DEFAULT 0,
		created_at     TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS questions (
		id             %[1]s,
		paper_id       BIGINT NOT NULL REFERENCES papers(id) ON DELETE CASCADE,
		sentence_id    BIGINT NOT NULL REFERENCES sentences(id),
		action_id      BIGINT NOT NULL REFERENCES empty_word_actions(id),
		question_order INT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_questions_paper ON questions(paper_id);

	CREATE TABLE IF NOT EXISTS question_options (
		id           %[1]s,
		question_id  BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		action_id    BIGINT NOT NULL REFERENCES empty_word_actions(id),
		is_correct   BOOLEAN NOT NULL DEFAULT FALSE,
		option_order INT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_options_question ON question_options(question_id);

	CREATE TABLE IF NOT EXISTS students (
		id         %[1]s,
		name       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS answers (
		id          %[1]s,
		student_id  BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		action_id   BIGINT NOT NULL REFERENCES empty_word_actions(id),
		is_correct  BOOLEAN NOT NULL,
		answered_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_answers_student ON answers(student_id);
	CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id);
	`, pk)

	// SQLite executes one statement per Exec call.
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
