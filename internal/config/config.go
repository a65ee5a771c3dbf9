package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string // postgres DSN; empty means local sqlite
	SQLitePath    string
	ServerPort    string
	SessionSecret string

	AdminUsername string
	AdminPassword string

	RequirementsCSV string
	MappingsCSV     string
	ForceSeed       bool

	// ThreatFramework is the code of the framework whose rows are threats.
	ThreatFramework string

	SuggestMinScore   float64
	SuggestMaxResults int
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:           os.Getenv("DB_DSN"),
		SQLitePath:      os.Getenv("SQLITE_PATH"),
		ServerPort:      os.Getenv("SERVER_PORT"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		AdminUsername:   os.Getenv("ADMIN_USERNAME"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		RequirementsCSV: os.Getenv("REQUIREMENTS_CSV"),
		MappingsCSV:     os.Getenv("MAPPINGS_CSV"),
		ForceSeed:       os.Getenv("FORCE_SEED") == "1",
		ThreatFramework: os.Getenv("THREAT_FRAMEWORK"),
	}

	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "app.db"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8003"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.ThreatFramework == "" {
		cfg.ThreatFramework = "SAGE-Threat"
	}

	cfg.SuggestMinScore = envFloat("SUGGEST_MIN_SCORE", 2.0)
	cfg.SuggestMaxResults = envInt("SUGGEST_MAX_RESULTS", 8)

	return cfg
}

func envFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("%s: invalid value %q", key, raw)
	}
	return v
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("%s: invalid value %q", key, raw)
	}
	return v
}
