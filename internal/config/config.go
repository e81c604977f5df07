package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	MySQLDSN     string
	MaxOpenConns int
	SQLMode      string
	TimeZone     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	TokenTTL     time.Duration
	CarsCacheTTL time.Duration
	CORSOrigins  []string
	SwaggerHost  string
	ResetDB      bool
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = buildDSN(
			getEnv("DB_HOST", "localhost:3306"),
			getEnv("DB_USER", "root"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_DATABASE", "cars"),
		)
	}

	return &Config{
		ServerPort:   getEnv("SERVER_PORT", getEnv("PORT", "8080")),
		MySQLDSN:     dsn,
		MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		SQLMode:      getEnv("DB_SQL_MODE", "TRADITIONAL"),
		TimeZone:     getEnv("DB_TIME_ZONE", "-08:00"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    getEnv("JWT_SECRET", getEnv("JWT_KEY", "change-me")),
		TokenTTL:     getEnvDuration("TOKEN_TTL", 0),
		CarsCacheTTL: getEnvDuration("CARS_CACHE_TTL", 30*time.Second),
		CORSOrigins:  parseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
		ResetDB:      getEnvBool("RESET_DB", false),
	}
}

// buildDSN assembles a MySQL DSN from its parts. A host without a port gets 3306.
func buildDSN(host, user, password, database string) string {
	if !strings.Contains(host, ":") {
		host += ":3306"
	}
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return def
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
