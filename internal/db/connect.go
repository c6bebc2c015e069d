package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:prepdesk.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/prepdesk?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  exam_type TEXT NOT NULL,
  subject TEXT NOT NULL,
  kind TEXT NOT NULL,
  number INTEGER NOT NULL DEFAULT 0,
  text TEXT NOT NULL,
  year INTEGER NOT NULL DEFAULT 0,
  options_json TEXT NOT NULL DEFAULT '',
  correct_answer TEXT NOT NULL DEFAULT '',
  explanation TEXT NOT NULL DEFAULT '',
  essay_answer TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_questions_pool ON questions(exam_type, subject);

CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  student_name TEXT NOT NULL,
  exam_type TEXT NOT NULL,
  subjects_json TEXT NOT NULL,
  start_time BIGINT NOT NULL,
  end_time BIGINT NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  answers_json TEXT NOT NULL,
  questions_json TEXT NOT NULL,
  total_questions INTEGER NOT NULL DEFAULT 0,
  score INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  student_id TEXT NOT NULL,
  student_name TEXT NOT NULL,
  school_id TEXT NOT NULL DEFAULT '',
  exam_type TEXT NOT NULL,
  subjects_json TEXT NOT NULL,
  score INTEGER NOT NULL DEFAULT 0,
  total INTEGER NOT NULL DEFAULT 0,
  percentage REAL NOT NULL DEFAULT 0,
  grade TEXT NOT NULL DEFAULT '',
  completed_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_student ON results(student_id);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  exam_type TEXT NOT NULL,
  subject TEXT NOT NULL,
  kind TEXT NOT NULL,
  number INTEGER NOT NULL DEFAULT 0,
  text TEXT NOT NULL,
  year INTEGER NOT NULL DEFAULT 0,
  options_json TEXT NOT NULL DEFAULT '',
  correct_answer TEXT NOT NULL DEFAULT '',
  explanation TEXT NOT NULL DEFAULT '',
  essay_answer TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_questions_pool ON questions(exam_type, subject);

CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  student_name TEXT NOT NULL,
  exam_type TEXT NOT NULL,
  subjects_json TEXT NOT NULL,
  start_time BIGINT NOT NULL,
  end_time BIGINT NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  answers_json TEXT NOT NULL,
  questions_json TEXT NOT NULL,
  total_questions INTEGER NOT NULL DEFAULT 0,
  score INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  student_id TEXT NOT NULL,
  student_name TEXT NOT NULL,
  school_id TEXT NOT NULL DEFAULT '',
  exam_type TEXT NOT NULL,
  subjects_json TEXT NOT NULL,
  score INTEGER NOT NULL DEFAULT 0,
  total INTEGER NOT NULL DEFAULT 0,
  percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
  grade TEXT NOT NULL DEFAULT '',
  completed_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_student ON results(student_id);
`
