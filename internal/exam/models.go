package exam

import (
	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

const (
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Session is one student's exam attempt. Questions is the frozen ordered
// snapshot taken at creation; it and Total never change afterwards. Only
// Answers, Status, Score and EndTime mutate.
type Session struct {
	ID          string              `json:"id"`
	StudentID   string              `json:"student_id"`
	StudentName string              `json:"student_name"`
	ExamType    question.ExamType   `json:"exam_type"`
	Subjects    []string            `json:"subjects"`
	StartTime   int64               `json:"start_time"`
	EndTime     int64               `json:"end_time,omitempty"`
	Status      string              `json:"status"`
	Answers     map[string]string   `json:"answers"` // questionID -> option letter or essay text
	Questions   []question.Question `json:"questions"`
	Total       int                 `json:"total_questions"`
	Score       int                 `json:"score,omitempty"`
}

// Result is the append-only grading record. Total counts objective
// questions only; essays are stored but never auto-scored.
type Result struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"session_id"`
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	SchoolID    string            `json:"school_id"`
	ExamType    question.ExamType `json:"exam_type"`
	Subjects    []string          `json:"subjects"`
	Score       int               `json:"score"`
	Total       int               `json:"total_questions"`
	Percentage  float64           `json:"percentage"`
	Grade       string            `json:"grade"`
	CompletedAt int64             `json:"completed_at"`
}
