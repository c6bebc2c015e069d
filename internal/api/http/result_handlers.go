package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepdesk/prepdesk-cbt/internal/auth"
	"github.com/prepdesk/prepdesk-cbt/internal/exam"
	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

func ListResultsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var et question.ExamType
		if raw := r.URL.Query().Get("exam"); raw != "" {
			parsed, err := question.ParseExamType(raw)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			et = parsed
		}
		results, err := store.ListResults(et)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if results == nil {
			results = []exam.Result{}
		}
		_ = json.NewEncoder(w).Encode(results)
	}
}

// MyResultsHandler lists results belonging to the authenticated student.
func MyResultsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := auth.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "no subject", 401)
			return
		}
		results, err := store.ResultsForStudent(studentID)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if results == nil {
			results = []exam.Result{}
		}
		_ = json.NewEncoder(w).Encode(results)
	}
}

func DeleteResultHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "resultID")
		ok, err := store.DeleteResult(id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if !ok {
			http.Error(w, "result not found", 404)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
