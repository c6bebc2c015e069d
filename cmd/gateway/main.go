package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/prepdesk/prepdesk-cbt/internal/api/http"
	"github.com/prepdesk/prepdesk-cbt/internal/auth"
	"github.com/prepdesk/prepdesk-cbt/internal/bank"
	"github.com/prepdesk/prepdesk-cbt/internal/config"
	"github.com/prepdesk/prepdesk-cbt/internal/db"
	"github.com/prepdesk/prepdesk-cbt/internal/exam"
	"github.com/prepdesk/prepdesk-cbt/internal/question"
	"github.com/prepdesk/prepdesk-cbt/internal/rbac"
)

func main() {
	cfg := config.FromEnv()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	questionStore := question.NewSQLStore(dbh)
	sessionStore := exam.NewSQLStore(dbh)

	// --- Sourcing cascade ---
	cache := bank.NewCache(cfg.CacheEnabled, cfg.CacheTTL)
	client := bank.NewClient(bank.Config{
		BaseURL: cfg.BankBaseURL,
		APIKey:  cfg.BankAPIKey,
	}, cache)
	sourcer := bank.NewSourcer(questionStore, client, bank.SourcerConfig{
		BankSize:      cfg.BankSize,
		PageSize:      cfg.BankPageSize,
		AllowFallback: cfg.AllowFallback && !cfg.RequireBank,
	})

	mgr := exam.NewManager(sessionStore, sourcer, slog.Default())
	grader := exam.NewGrader(sessionStore)

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.AdminUser, cfg.AdminPassHash))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Question pool administration
		pr.With(rbac.RequireAny("question:view", "question:create")).
			Get("/questions", api.ListQuestionsHandler(questionStore))
		pr.With(rbac.Require("question:create")).
			Post("/questions", api.CreateQuestionHandler(questionStore))
		pr.With(rbac.Require("question:delete")).
			Delete("/questions/{questionID}", api.DeleteQuestionHandler(questionStore))
		pr.With(rbac.RequireAny("question:view", "session:create")).
			Get("/subjects", api.SubjectsHandler())

		// Student flow
		pr.With(rbac.Require("session:create")).
			Post("/sessions", api.CreateSessionHandler(mgr))
		pr.With(rbac.Require("session:answer")).
			Post("/sessions/{sessionID}/answers", api.RecordAnswerHandler(mgr))
		pr.With(rbac.Require("session:grade")).
			Post("/sessions/{sessionID}/grade", api.GradeSessionHandler(grader))
		pr.With(rbac.Require("session:view")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(mgr))

		// Results
		pr.With(rbac.Require("result:list")).
			Get("/results", api.ListResultsHandler(sessionStore))
		pr.With(rbac.Require("result:view-own")).
			Get("/results/mine", api.MyResultsHandler(sessionStore))
		pr.With(rbac.Require("result:delete")).
			Delete("/results/{resultID}", api.DeleteResultHandler(sessionStore))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s, bank=%s)", cfg.HTTPAddr, cfg.DBDriver, cfg.BankBaseURL)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
