package question

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLStore persists questions in the questions table (sqlite or postgres,
// see internal/db). Options are stored as a JSON column.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Put(q Question) error {
	optJSON, err := marshalOptions(q.Options)
	if err != nil {
		return err
	}
	createdAt := q.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	_, err = s.db.Exec(`INSERT INTO questions
		(id, exam_type, subject, kind, number, text, year, options_json, correct_answer, explanation, essay_answer, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			exam_type=EXCLUDED.exam_type, subject=EXCLUDED.subject, kind=EXCLUDED.kind,
			number=EXCLUDED.number, text=EXCLUDED.text, year=EXCLUDED.year,
			options_json=EXCLUDED.options_json, correct_answer=EXCLUDED.correct_answer,
			explanation=EXCLUDED.explanation, essay_answer=EXCLUDED.essay_answer`,
		q.ID, string(q.ExamType), q.Subject, string(q.Kind), q.Number, q.Text, q.Year,
		optJSON, q.CorrectAnswer, q.Explanation, q.EssayAnswer, createdAt)
	if err != nil {
		return fmt.Errorf("put question %s: %w", q.ID, err)
	}
	return nil
}

func (s *SQLStore) DeleteByID(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete question %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) Query(examType ExamType, subject string) ([]Question, error) {
	query := `SELECT id, exam_type, subject, kind, number, text, year, options_json, correct_answer, explanation, essay_answer, created_at
		FROM questions WHERE exam_type=$1`
	args := []any{string(examType)}
	if subject != "" {
		query += ` AND LOWER(subject)=LOWER($2)`
		args = append(args, subject)
	}
	query += ` ORDER BY subject, number, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) ReplaceForSubject(examType ExamType, subject string, qs []Question) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM questions WHERE exam_type=$1 AND LOWER(subject)=LOWER($2)`,
		string(examType), subject); err != nil {
		return fmt.Errorf("replace subject %s: %w", subject, err)
	}
	for _, q := range qs {
		optJSON, err := marshalOptions(q.Options)
		if err != nil {
			return err
		}
		createdAt := q.CreatedAt
		if createdAt == 0 {
			createdAt = time.Now().Unix()
		}
		if _, err := tx.Exec(`INSERT INTO questions
			(id, exam_type, subject, kind, number, text, year, options_json, correct_answer, explanation, essay_answer, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (id) DO UPDATE SET
				exam_type=EXCLUDED.exam_type, subject=EXCLUDED.subject, kind=EXCLUDED.kind,
				number=EXCLUDED.number, text=EXCLUDED.text, year=EXCLUDED.year,
				options_json=EXCLUDED.options_json, correct_answer=EXCLUDED.correct_answer,
				explanation=EXCLUDED.explanation, essay_answer=EXCLUDED.essay_answer`,
			q.ID, string(q.ExamType), q.Subject, string(q.Kind), q.Number, q.Text, q.Year,
			optJSON, q.CorrectAnswer, q.Explanation, q.EssayAnswer, createdAt); err != nil {
			return fmt.Errorf("replace subject %s, insert %s: %w", subject, q.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ClearForExamType(examType ExamType) error {
	if _, err := s.db.Exec(`DELETE FROM questions WHERE exam_type=$1`, string(examType)); err != nil {
		return fmt.Errorf("clear exam type %s: %w", examType, err)
	}
	return nil
}

func marshalOptions(o *Options) (string, error) {
	if o == nil {
		return "", nil
	}
	buf, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return string(buf), nil
}

func scanQuestion(rows *sql.Rows) (Question, error) {
	var (
		q        Question
		examType string
		kind     string
		optJSON  string
	)
	if err := rows.Scan(&q.ID, &examType, &q.Subject, &kind, &q.Number, &q.Text, &q.Year,
		&optJSON, &q.CorrectAnswer, &q.Explanation, &q.EssayAnswer, &q.CreatedAt); err != nil {
		return Question{}, err
	}
	q.ExamType = ExamType(examType)
	q.Kind = Kind(kind)
	if optJSON != "" {
		var opts Options
		if err := json.Unmarshal([]byte(optJSON), &opts); err != nil {
			return Question{}, fmt.Errorf("decode options for %s: %w", q.ID, err)
		}
		q.Options = &opts
	}
	return q, nil
}
