package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prepdesk/prepdesk-cbt/internal/bank"
	"github.com/prepdesk/prepdesk-cbt/internal/db"
	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bankctl",
		Short: "Manage the local question bank",
	}
	root.AddCommand(prefetchCmd(), seedCmd())
	return root
}

func prefetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefetch",
		Short: "Pull the full remote bank for every subject into the local store",
		RunE:  runPrefetch,
	}
	f := cmd.Flags()
	f.String("db-driver", "sqlite", "Database driver (sqlite, postgres)")
	f.String("db-dsn", "", "Database DSN (driver default when empty)")
	f.String("api-url", "https://questions.aloc.com.ng/api/v2", "Question bank base URL")
	f.String("api-key", "", "Question bank access token")
	f.String("exam", "all", "Exam type to prefetch (jamb, waec, all)")
	f.Int("bank-size", 20000, "Max questions to fetch per subject")
	f.Int("page-size", 1000, "Questions per remote page")
	f.Bool("require-api", false, "Fail subjects the bank cannot serve instead of generating")
	f.Duration("delay", 500*time.Millisecond, "Pause between subjects")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill empty subjects with generated questions for offline halls",
		RunE:  runSeed,
	}
	f := cmd.Flags()
	f.String("db-driver", "sqlite", "Database driver (sqlite, postgres)")
	f.String("db-dsn", "", "Database DSN (driver default when empty)")
	f.String("exam", "all", "Exam type to seed (jamb, waec, all)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	return cmd
}

func setupLogging(v *viper.Viper) {
	var level slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("PREPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

func examTypes(raw string) ([]question.ExamType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "all", "":
		return []question.ExamType{question.ExamJAMB, question.ExamWAEC}, nil
	default:
		et, err := question.ParseExamType(raw)
		if err != nil {
			return nil, err
		}
		return []question.ExamType{et}, nil
	}
}

func openStore(ctx context.Context, v *viper.Viper) (*question.SQLStore, error) {
	dbh, err := db.Open(ctx, db.Driver(v.GetString("db-driver")), v.GetString("db-dsn"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return question.NewSQLStore(dbh), nil
}

func runPrefetch(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)
	ctx := cmd.Context()

	types, err := examTypes(v.GetString("exam"))
	if err != nil {
		return err
	}
	store, err := openStore(ctx, v)
	if err != nil {
		return err
	}
	client := bank.NewClient(bank.Config{
		BaseURL: v.GetString("api-url"),
		APIKey:  v.GetString("api-key"),
	}, bank.NewCache(false, 0))

	requireAPI := v.GetBool("require-api")
	if requireAPI {
		// A strict run replaces the whole pool so stale or generated
		// leftovers cannot mask bank gaps.
		for _, et := range types {
			if err := store.ClearForExamType(et); err != nil {
				return fmt.Errorf("clear %s: %w", et, err)
			}
		}
	}

	bankSize := v.GetInt("bank-size")
	pageSize := v.GetInt("page-size")
	delay := v.GetDuration("delay")

	var fetched, generated, failed int
	for _, et := range types {
		for _, subject := range question.SubjectsFor(et) {
			qs := client.FetchPages(ctx, et, subject, 0, bankSize, pageSize)
			switch {
			case len(qs) > 0:
				if err := store.ReplaceForSubject(et, subject, qs); err != nil {
					return fmt.Errorf("store %s %s: %w", et, subject, err)
				}
				fetched++
				slog.Info("subject fetched", "exam", et, "subject", subject, "count", len(qs))
			case requireAPI:
				failed++
				slog.Error("bank returned nothing", "exam", et, "subject", subject)
			default:
				gen := question.Generate(et, subject)
				if err := store.ReplaceForSubject(et, subject, gen); err != nil {
					return fmt.Errorf("store %s %s: %w", et, subject, err)
				}
				generated++
				slog.Warn("bank empty, generated instead", "exam", et, "subject", subject, "count", len(gen))
			}
			time.Sleep(delay)
		}
	}

	slog.Info("prefetch done", "fetched", fetched, "generated", generated, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d subjects unavailable from the bank", failed)
	}
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)
	ctx := cmd.Context()

	types, err := examTypes(v.GetString("exam"))
	if err != nil {
		return err
	}
	store, err := openStore(ctx, v)
	if err != nil {
		return err
	}

	var seeded, skipped int
	for _, et := range types {
		for _, subject := range question.SubjectsFor(et) {
			existing, err := store.Query(et, subject)
			if err != nil {
				return fmt.Errorf("query %s %s: %w", et, subject, err)
			}
			if len(existing) > 0 {
				skipped++
				continue
			}
			gen := question.Generate(et, subject)
			if err := store.ReplaceForSubject(et, subject, gen); err != nil {
				return fmt.Errorf("store %s %s: %w", et, subject, err)
			}
			seeded++
			slog.Info("subject seeded", "exam", et, "subject", subject, "count", len(gen))
		}
	}
	slog.Info("seed done", "seeded", seeded, "skipped", skipped)
	return nil
}
