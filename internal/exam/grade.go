package exam

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

// Grader scores completed sessions. Only objective questions count; essay
// questions are excluded from the denominator entirely.
type Grader struct {
	store Store
}

func NewGrader(store Store) *Grader {
	return &Grader{store: store}
}

// Grade scores the session and transitions it to completed. Grading a
// session that is already completed returns the stored result unchanged,
// so repeated submits cannot alter a score. The second return reports
// whether this call produced a fresh result.
func (g *Grader) Grade(ctx context.Context, sessionID, schoolID string) (Result, bool, error) {
	sess, ok, err := g.store.GetSession(sessionID)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, fmt.Errorf("session %s not found", sessionID)
	}
	if sess.Status != StatusInProgress {
		r, ok, err := g.store.ResultForSession(sessionID)
		if err != nil {
			return Result{}, false, err
		}
		if !ok {
			return Result{}, false, fmt.Errorf("session %s completed without result", sessionID)
		}
		return r, false, nil
	}

	score, total := Score(sess.Questions, sess.Answers)
	pct := 0.0
	if total > 0 {
		pct = 100 * float64(score) / float64(total)
	}
	now := time.Now().UnixMilli()
	result := Result{
		ID:          uuid.NewString(),
		SessionID:   sess.ID,
		StudentID:   sess.StudentID,
		StudentName: sess.StudentName,
		SchoolID:    schoolID,
		ExamType:    sess.ExamType,
		Subjects:    sess.Subjects,
		Score:       score,
		Total:       total,
		Percentage:  pct,
		Grade:       LetterGrade(pct),
		CompletedAt: now,
	}
	if err := g.store.PutResult(result); err != nil {
		return Result{}, false, fmt.Errorf("persist result: %w", err)
	}
	sess.Status = StatusCompleted
	sess.EndTime = now
	sess.Score = score
	if err := g.store.UpdateSession(sess); err != nil {
		return Result{}, false, fmt.Errorf("close session: %w", err)
	}
	return result, true, nil
}

// Score counts correct objective answers. Comparison is case-insensitive
// on the option key.
func Score(questions []question.Question, answers map[string]string) (score, total int) {
	for _, q := range questions {
		if q.Kind != question.KindObjective {
			continue
		}
		total++
		given, ok := answers[q.ID]
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(given), q.CorrectAnswer) {
			score++
		}
	}
	return score, total
}

func LetterGrade(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}
