package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

// ListQuestionsHandler serves the local pool for one exam/subject pair.
func ListQuestionsHandler(store question.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		et, err := question.ParseExamType(r.URL.Query().Get("exam"))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		subject := r.URL.Query().Get("subject")
		if subject == "" {
			http.Error(w, "subject required", 400)
			return
		}
		qs, err := store.Query(et, subject)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"count": len(qs), "questions": qs})
	}
}

func CreateQuestionHandler(store question.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q question.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.CreatedAt == 0 {
			q.CreatedAt = time.Now().Unix()
		}
		if err := q.Validate(); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if err := store.Put(q); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(q)
	}
}

func DeleteQuestionHandler(store question.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		ok, err := store.DeleteByID(id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if !ok {
			http.Error(w, "question not found", 404)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SubjectsHandler lists the subject catalog and selectable past-question
// years for an exam type.
func SubjectsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		et, err := question.ParseExamType(r.URL.Query().Get("exam"))
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"exam":     et,
			"subjects": question.SubjectsFor(et),
			"years":    question.Years(2001),
		})
	}
}
