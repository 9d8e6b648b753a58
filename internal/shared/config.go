package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	SupabaseURL    string
	SupabaseKey    string
	JWTSecret      string
	CORSOrigins    []string
	ExposeErrors   bool
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	SeedWorkers    int
	PublicRPS      float64
	AuthRPS        int
}

// Load reads the environment, after merging a .env file when one exists.
// Variables already set in the environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/estate?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		SupabaseURL:    env("SUPABASE_URL", ""),
		SupabaseKey:    env("SUPABASE_SERVICE_KEY", ""),
		JWTSecret:      env("SUPABASE_JWT_SECRET", ""),
		CORSOrigins:    list("CORS_ORIGINS", "http://localhost:3000"),
		ExposeErrors:   boolean("EXPOSE_ERRORS", false),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		CacheTTL:       time.Duration(atoi("STATS_CACHE_TTL_SECONDS", 60)) * time.Second,
		SeedWorkers:    atoi("SEED_WORKERS", 8),
		PublicRPS:      atof("PUBLIC_RPS", 1),
		AuthRPS:        atoi("SUPABASE_RPS", 5),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("SUPABASE_JWT_SECRET is empty; every authenticated route will reject")
	}
	if c.SupabaseKey == "" {
		log.Warn().Msg("SUPABASE_SERVICE_KEY is empty; staff management is disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func list(k, def string) []string {
	var out []string
	for _, s := range strings.Split(env(k, def), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
