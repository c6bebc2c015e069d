package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Remote question bank.
	BankBaseURL  string
	BankAPIKey   string
	BankSize     int // max questions fetched per subject
	BankPageSize int
	RequireBank  bool // refuse synthetic fallback, bank must answer

	CacheEnabled  bool
	CacheTTL      time.Duration
	AllowFallback bool // synthetic generation when bank and store run dry

	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOrigins []string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr: addr,
		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BankBaseURL:  envOr("QUESTIONS_API_URL", "https://questions.aloc.com.ng/api/v2"),
		BankAPIKey:   os.Getenv("QUESTIONS_API_KEY"),
		BankSize:     envInt("BANK_SIZE", 20000),
		BankPageSize: envInt("BANK_PAGE_SIZE", 1000),
		RequireBank:  envBool("REQUIRE_BANK", false),

		CacheEnabled:  envBool("CACHE_ENABLED", true),
		CacheTTL:      time.Duration(envInt("CACHE_TTL_HOURS", 24)) * time.Hour,
		AllowFallback: envBool("ALLOW_LOCAL_FALLBACK", true),

		AuthSecret:    envOr("AUTH_SECRET", "dev-secret-change-me"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:3010"),
	}
}
func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
