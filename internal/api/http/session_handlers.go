package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepdesk/prepdesk-cbt/internal/auth"
	"github.com/prepdesk/prepdesk-cbt/internal/exam"
	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

func CreateSessionHandler(mgr *exam.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentName string   `json:"student_name"`
			ExamType    string   `json:"exam_type"`
			Subjects    []string `json:"subjects"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		studentID := auth.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "no subject", 401)
			return
		}
		sess, err := mgr.CreateSession(r.Context(), studentID, req.StudentName, question.ExamType(req.ExamType), req.Subjects)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(sess)
	}
}

func RecordAnswerHandler(mgr *exam.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var req struct {
			QuestionID string `json:"question_id"`
			Answer     string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.QuestionID == "" {
			http.Error(w, "question_id required", 400)
			return
		}
		sess, err := mgr.RecordAnswer(r.Context(), id, req.QuestionID, req.Answer)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(sess)
	}
}

func GetSessionHandler(mgr *exam.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		sess, ok, err := mgr.GetSession(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if !ok {
			http.Error(w, "session not found", 404)
			return
		}
		_ = json.NewEncoder(w).Encode(sess)
	}
}

func GradeSessionHandler(grader *exam.Grader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var req struct {
			SchoolID string `json:"school_id"`
		}
		// body is optional; absent means no school attribution
		_ = json.NewDecoder(r.Body).Decode(&req)
		res, _, err := grader.Grade(r.Context(), id, req.SchoolID)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}
