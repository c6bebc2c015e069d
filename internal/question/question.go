package question

import (
	"fmt"
	"strings"
)

type ExamType string

const (
	ExamCommonEntrance ExamType = "common-entrance"
	ExamWAEC           ExamType = "waec"
	ExamJAMB           ExamType = "jamb"
)

// National reports whether the exam type is served by the remote question
// bank and the synthetic generator. Common-entrance pools are local-only.
func (e ExamType) National() bool {
	return e == ExamWAEC || e == ExamJAMB
}

func ParseExamType(s string) (ExamType, error) {
	switch ExamType(strings.ToLower(strings.TrimSpace(s))) {
	case ExamCommonEntrance:
		return ExamCommonEntrance, nil
	case ExamWAEC:
		return ExamWAEC, nil
	case ExamJAMB:
		return ExamJAMB, nil
	}
	return "", fmt.Errorf("unknown exam type: %q", s)
}

type Kind string

const (
	KindObjective Kind = "objective"
	KindEssay     Kind = "essay"
)

// Options is the four-way option set of an objective question.
type Options struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
	D string `json:"d"`
}

// OptionKeys are the valid correct-answer keys, in option order.
var OptionKeys = []string{"a", "b", "c", "d"}

type Question struct {
	ID            string   `json:"id"`
	Subject       string   `json:"subject"`
	ExamType      ExamType `json:"exam_type"`
	Kind          Kind     `json:"kind"`
	Number        int      `json:"number"`
	Text          string   `json:"text"`
	Year          int      `json:"year"`
	Options       *Options `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"` // a|b|c|d, objective only
	Explanation   string   `json:"explanation,omitempty"`
	EssayAnswer   string   `json:"essay_answer,omitempty"`
	CreatedAt     int64    `json:"created_at,omitempty"`
}

// Validate enforces the kind/answer invariants: an objective question
// carries a correct-answer key from its own option set, an essay question
// carries none.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question has no id")
	}
	if q.Text == "" {
		return fmt.Errorf("question %s has no text", q.ID)
	}
	switch q.Kind {
	case KindObjective:
		if q.Options == nil {
			return fmt.Errorf("objective question %s has no options", q.ID)
		}
		if !validKey(q.CorrectAnswer) {
			return fmt.Errorf("objective question %s has invalid correct answer %q", q.ID, q.CorrectAnswer)
		}
	case KindEssay:
		if q.CorrectAnswer != "" {
			return fmt.Errorf("essay question %s must not carry a correct answer", q.ID)
		}
	default:
		return fmt.Errorf("question %s has unknown kind %q", q.ID, q.Kind)
	}
	return nil
}

func validKey(k string) bool {
	for _, ok := range OptionKeys {
		if k == ok {
			return true
		}
	}
	return false
}

// DedupeByText drops entries whose text already occurs in seen. The
// sourcing cascade filters each new batch against the pool it already
// holds; repeats inside one batch are left alone, only collisions with
// prior content are removed.
func DedupeByText(qs []Question, seen map[string]struct{}) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if _, dup := seen[q.Text]; dup {
			continue
		}
		out = append(out, q)
	}
	return out
}

// RecordTexts adds every question text to seen.
func RecordTexts(qs []Question, seen map[string]struct{}) {
	for _, q := range qs {
		seen[q.Text] = struct{}{}
	}
}
