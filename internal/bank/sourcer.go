package bank

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

const (
	// Below this pool size a national exam's subject is topped up from the
	// remote bank.
	minPoolForRemote = 40
	// Below this pool size the synthetic generator kicks in (when allowed).
	minPoolForGenerate = 20
)

// Fetcher is the remote side of the cascade. *Client satisfies it; tests
// substitute fakes.
type Fetcher interface {
	FetchPages(ctx context.Context, examType question.ExamType, subject string, year, total, pageSize int) []question.Question
}

// Generator produces the synthetic fallback set for a subject.
type Generator func(question.ExamType, string) []question.Question

// SourcerConfig carries the sourcing knobs.
type SourcerConfig struct {
	BankSize      int  // per-subject target bank size for remote top-up
	PageSize      int  // questions per remote page
	AllowFallback bool // permit synthetic generation
}

// Sourcer runs the sourcing cascade: local store, then cache-backed remote
// fetch, then synthetic generation, persisting every newly obtained batch
// back to the store so later sessions skip the slow path.
type Sourcer struct {
	store    question.Store
	fetcher  Fetcher
	generate Generator
	cfg      SourcerConfig
	log      *slog.Logger

	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

func NewSourcer(store question.Store, fetcher Fetcher, cfg SourcerConfig) *Sourcer {
	if cfg.BankSize <= 0 {
		cfg.BankSize = 20000
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	return &Sourcer{
		store:    store,
		fetcher:  fetcher,
		generate: question.Generate,
		cfg:      cfg,
		log:      slog.Default().With("component", "sourcer"),
		keys:     map[string]*sync.Mutex{},
	}
}

// subjectLock serializes writers per (exam type, subject) so concurrent
// sessions for the same subject do not race on persistence.
func (s *Sourcer) subjectLock(examType question.ExamType, subject string) *sync.Mutex {
	key := string(examType) + "|" + strings.ToLower(subject)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.keys[key]
	if !ok {
		l = &sync.Mutex{}
		s.keys[key] = l
	}
	return l
}

// Source assembles the working pool for one subject. For national exam
// types with fallback enabled the result is guaranteed non-empty: if every
// earlier step fails the generator runs as a safety net. For
// common-entrance only the local store is authoritative.
func (s *Sourcer) Source(ctx context.Context, examType question.ExamType, subject string) ([]question.Question, error) {
	lock := s.subjectLock(examType, subject)
	lock.Lock()
	defer lock.Unlock()

	pool, err := s.store.Query(examType, subject)
	if err != nil {
		return nil, fmt.Errorf("query local store: %w", err)
	}

	if !examType.National() || subject == "" {
		return pool, nil
	}

	seen := make(map[string]struct{}, len(pool))
	question.RecordTexts(pool, seen)

	if len(pool) < minPoolForRemote && s.fetcher != nil {
		fetched := s.fetcher.FetchPages(ctx, examType, subject, 0, s.cfg.BankSize, s.cfg.PageSize)
		delta := question.DedupeByText(fetched, seen)
		if len(delta) > 0 {
			if err := s.persist(delta); err != nil {
				return nil, err
			}
			pool = append(pool, delta...)
			question.RecordTexts(delta, seen)
			s.log.Info("pool enhanced from bank", "exam", examType, "subject", subject,
				"added", len(delta), "total", len(pool))
		}
	}

	if len(pool) < minPoolForGenerate && s.cfg.AllowFallback {
		generated := s.generate(examType, subject)
		delta := question.DedupeByText(generated, seen)
		if len(delta) > 0 {
			if err := s.persist(delta); err != nil {
				return nil, err
			}
			pool = append(pool, delta...)
			s.log.Info("pool topped up from generator", "exam", examType, "subject", subject,
				"added", len(delta), "total", len(pool))
		}
	}

	// Safety net: with fallback enabled a session must never start from an
	// empty pool. Generate unconditionally, bypassing deduplication.
	if len(pool) == 0 && s.cfg.AllowFallback {
		pool = s.generate(examType, subject)
		if err := s.persist(pool); err != nil {
			return nil, err
		}
		s.log.Warn("all sourcing steps empty, generated fresh pool",
			"exam", examType, "subject", subject, "count", len(pool))
	}

	return pool, nil
}

func (s *Sourcer) persist(qs []question.Question) error {
	for _, q := range qs {
		if err := s.store.Put(q); err != nil {
			return fmt.Errorf("persist question %s: %w", q.ID, err)
		}
	}
	return nil
}
