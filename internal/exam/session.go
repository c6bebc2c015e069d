package exam

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

// Sourcer yields the full question pool for one subject. The sourcing
// cascade in internal/bank satisfies this.
type Sourcer interface {
	Source(ctx context.Context, examType question.ExamType, subject string) ([]question.Question, error)
}

// Manager owns the session lifecycle: assemble a paper, record answers,
// hand over to the grader.
type Manager struct {
	store   Store
	sourcer Sourcer
	log     *slog.Logger
	seed    func() int64
}

func NewManager(store Store, sourcer Sourcer, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:   store,
		sourcer: sourcer,
		log:     log,
		seed:    func() int64 { return time.Now().UnixNano() },
	}
}

// CreateSession sources every subject pool, composes the paper per exam
// format and freezes the snapshot into the session. Subjects are sourced
// concurrently; a failure in any one aborts the whole creation.
func (m *Manager) CreateSession(ctx context.Context, studentID, studentName string, examType question.ExamType, subjects []string) (Session, error) {
	et, err := question.ParseExamType(string(examType))
	if err != nil {
		return Session{}, err
	}
	cleaned := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return Session{}, fmt.Errorf("create session: no subjects given")
	}

	pools := make([]SubjectPool, len(cleaned))
	g, gctx := errgroup.WithContext(ctx)
	for i, subject := range cleaned {
		g.Go(func() error {
			qs, err := m.sourcer.Source(gctx, et, subject)
			if err != nil {
				return fmt.Errorf("source %s %s: %w", et, subject, err)
			}
			pools[i] = SubjectPool{Subject: subject, Questions: qs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Session{}, err
	}

	paper := Compose(et, pools, NewShuffler(m.seed()))
	now := time.Now().UnixMilli()
	sess := Session{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		StudentName: studentName,
		ExamType:    et,
		Subjects:    cleaned,
		StartTime:   now,
		Status:      StatusInProgress,
		Answers:     map[string]string{},
		Questions:   paper,
		Total:       len(paper),
	}
	if err := m.store.PutSession(sess); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	m.log.Info("session created",
		"session", sess.ID, "exam", et, "subjects", len(cleaned), "questions", sess.Total)
	return sess, nil
}

// RecordAnswer stores one answer against the session snapshot. Answers for
// questions outside the snapshot and answers to completed sessions are
// rejected.
func (m *Manager) RecordAnswer(ctx context.Context, sessionID, questionID, answer string) (Session, error) {
	sess, ok, err := m.store.GetSession(sessionID)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, fmt.Errorf("session %s not found", sessionID)
	}
	if sess.Status != StatusInProgress {
		return Session{}, fmt.Errorf("session %s is %s", sessionID, sess.Status)
	}
	if !sess.hasQuestion(questionID) {
		return Session{}, fmt.Errorf("question %s not in session %s", questionID, sessionID)
	}
	if sess.Answers == nil {
		sess.Answers = map[string]string{}
	}
	sess.Answers[questionID] = answer
	if err := m.store.UpdateSession(sess); err != nil {
		return Session{}, fmt.Errorf("persist answer: %w", err)
	}
	return sess, nil
}

func (m *Manager) GetSession(ctx context.Context, id string) (Session, bool, error) {
	return m.store.GetSession(id)
}

func (s Session) hasQuestion(id string) bool {
	for _, q := range s.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
