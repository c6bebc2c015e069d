package exam

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

// SQLStore keeps the question snapshot and the answer map as JSON columns,
// so a session row is self-contained and survives bank restocking.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) PutSession(sess Session) error {
	qj, err := json.Marshal(sess.Questions)
	if err != nil {
		return err
	}
	aj, err := json.Marshal(sess.Answers)
	if err != nil {
		return err
	}
	sj, err := json.Marshal(sess.Subjects)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO sessions (id,student_id,student_name,exam_type,subjects_json,start_time,end_time,status,answers_json,questions_json,total_questions,score)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET end_time=EXCLUDED.end_time, status=EXCLUDED.status, answers_json=EXCLUDED.answers_json, score=EXCLUDED.score`,
		sess.ID, sess.StudentID, sess.StudentName, string(sess.ExamType), string(sj),
		sess.StartTime, sess.EndTime, sess.Status, string(aj), string(qj), sess.Total, sess.Score)
	return err
}

func (s *SQLStore) GetSession(id string) (Session, bool, error) {
	row := s.db.QueryRow(`SELECT id,student_id,student_name,exam_type,subjects_json,start_time,end_time,status,answers_json,questions_json,total_questions,score
		FROM sessions WHERE id=$1`, id)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}
	return sess, true, nil
}

func (s *SQLStore) UpdateSession(sess Session) error {
	aj, err := json.Marshal(sess.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE sessions SET end_time=$1, status=$2, answers_json=$3, score=$4 WHERE id=$5`,
		sess.EndTime, sess.Status, string(aj), sess.Score, sess.ID)
	return err
}

func (s *SQLStore) PutResult(r Result) error {
	sj, err := json.Marshal(r.Subjects)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO results (id,session_id,student_id,student_name,school_id,exam_type,subjects_json,score,total,percentage,grade,completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		r.ID, r.SessionID, r.StudentID, r.StudentName, r.SchoolID, string(r.ExamType),
		string(sj), r.Score, r.Total, r.Percentage, r.Grade, r.CompletedAt)
	return err
}

func (s *SQLStore) ResultForSession(sessionID string) (Result, bool, error) {
	row := s.db.QueryRow(resultColumns+` WHERE session_id=$1`, sessionID)
	r, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, false, nil
		}
		return Result{}, false, err
	}
	return r, true, nil
}

func (s *SQLStore) ListResults(examType question.ExamType) ([]Result, error) {
	query := resultColumns + ` ORDER BY completed_at DESC`
	args := []any{}
	if examType != "" {
		query = resultColumns + ` WHERE exam_type=$1 ORDER BY completed_at DESC`
		args = append(args, string(examType))
	}
	return s.queryResults(query, args...)
}

func (s *SQLStore) ResultsForStudent(studentID string) ([]Result, error) {
	return s.queryResults(resultColumns+` WHERE student_id=$1 ORDER BY completed_at DESC`, studentID)
}

func (s *SQLStore) DeleteResult(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM results WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const resultColumns = `SELECT id,session_id,student_id,student_name,school_id,exam_type,subjects_json,score,total,percentage,grade,completed_at FROM results`

func (s *SQLStore) queryResults(query string, args ...any) ([]Result, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var sess Session
	var examType, sj, aj, qj string
	if err := row.Scan(&sess.ID, &sess.StudentID, &sess.StudentName, &examType, &sj,
		&sess.StartTime, &sess.EndTime, &sess.Status, &aj, &qj, &sess.Total, &sess.Score); err != nil {
		return Session{}, err
	}
	sess.ExamType = question.ExamType(examType)
	if err := json.Unmarshal([]byte(sj), &sess.Subjects); err != nil {
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(aj), &sess.Answers); err != nil {
		sess.Answers = map[string]string{}
	}
	if err := json.Unmarshal([]byte(qj), &sess.Questions); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func scanResult(row rowScanner) (Result, error) {
	var r Result
	var examType, sj string
	if err := row.Scan(&r.ID, &r.SessionID, &r.StudentID, &r.StudentName, &r.SchoolID,
		&examType, &sj, &r.Score, &r.Total, &r.Percentage, &r.Grade, &r.CompletedAt); err != nil {
		return Result{}, err
	}
	r.ExamType = question.ExamType(examType)
	if err := json.Unmarshal([]byte(sj), &r.Subjects); err != nil {
		return Result{}, err
	}
	return r, nil
}
