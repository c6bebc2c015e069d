package exam

import (
	"sync"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

// Store persists sessions and results. Absence is a valid state: lookups
// report a boolean instead of an error.
type Store interface {
	PutSession(s Session) error
	GetSession(id string) (Session, bool, error)
	UpdateSession(s Session) error

	PutResult(r Result) error
	ResultForSession(sessionID string) (Result, bool, error)
	ListResults(examType question.ExamType) ([]Result, error)
	ResultsForStudent(studentID string) ([]Result, error)
	DeleteResult(id string) (bool, error)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	results  []Result
}

// NewMemoryStore backs tests and the offline mode.
func NewMemoryStore() Store {
	return &memoryStore{sessions: map[string]Session{}}
}

func (m *memoryStore) PutSession(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = cloneSession(s)
	return nil
}

func (m *memoryStore) GetSession(id string) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false, nil
	}
	return cloneSession(s), true, nil
}

func (m *memoryStore) UpdateSession(s Session) error {
	return m.PutSession(s)
}

func (m *memoryStore) PutResult(r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memoryStore) ResultForSession(sessionID string) (Result, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.results {
		if r.SessionID == sessionID {
			return r, true, nil
		}
	}
	return Result{}, false, nil
}

func (m *memoryStore) ListResults(examType question.ExamType) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Result
	for _, r := range m.results {
		if examType == "" || r.ExamType == examType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryStore) ResultsForStudent(studentID string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Result
	for _, r := range m.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryStore) DeleteResult(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.results {
		if r.ID == id {
			m.results = append(m.results[:i], m.results[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// cloneSession copies the maps/slices that callers might mutate, so the
// stored snapshot stays frozen.
func cloneSession(s Session) Session {
	out := s
	out.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	out.Questions = append([]question.Question(nil), s.Questions...)
	out.Subjects = append([]string(nil), s.Subjects...)
	return out
}
