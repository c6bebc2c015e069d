package question

import (
	"strings"
	"sync"
)

// Store is the durable question pool. Subject matching is case-insensitive
// throughout.
type Store interface {
	Put(q Question) error
	DeleteByID(id string) (bool, error)
	// Query filters by exam type and, when subject is non-empty, by subject.
	Query(examType ExamType, subject string) ([]Question, error)
	// ReplaceForSubject swaps out every question held for the exam
	// type + subject with the given set, atomically.
	ReplaceForSubject(examType ExamType, subject string, qs []Question) error
	ClearForExamType(examType ExamType) error
}

type memoryStore struct {
	mu   sync.RWMutex
	qs   []Question
	byID map[string]int
}

// NewMemoryStore returns an in-process Store. It backs tests and the
// offline mode; production deployments use the SQL store.
func NewMemoryStore() Store {
	return &memoryStore{byID: map[string]int{}}
}

func subjectEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (m *memoryStore) Put(q Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.byID[q.ID]; ok {
		m.qs[i] = q
		return nil
	}
	m.byID[q.ID] = len(m.qs)
	m.qs = append(m.qs, q)
	return nil
}

func (m *memoryStore) DeleteByID(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	m.removeLocked(func(q Question) bool { return q.ID == id })
	return true, nil
}

func (m *memoryStore) Query(examType ExamType, subject string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Question
	for _, q := range m.qs {
		if q.ExamType != examType {
			continue
		}
		if subject != "" && !subjectEqual(q.Subject, subject) {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (m *memoryStore) ReplaceForSubject(examType ExamType, subject string, qs []Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(func(q Question) bool {
		return q.ExamType == examType && subjectEqual(q.Subject, subject)
	})
	for _, q := range qs {
		if i, ok := m.byID[q.ID]; ok {
			m.qs[i] = q
			continue
		}
		m.byID[q.ID] = len(m.qs)
		m.qs = append(m.qs, q)
	}
	return nil
}

func (m *memoryStore) ClearForExamType(examType ExamType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(func(q Question) bool { return q.ExamType == examType })
	return nil
}

// removeLocked rewrites the slice without the matching questions and
// rebuilds the index. Caller holds the write lock.
func (m *memoryStore) removeLocked(match func(Question) bool) {
	kept := m.qs[:0]
	for _, q := range m.qs {
		if !match(q) {
			kept = append(kept, q)
		}
	}
	m.qs = kept
	m.byID = make(map[string]int, len(kept))
	for i, q := range kept {
		m.byID[q.ID] = i
	}
}
