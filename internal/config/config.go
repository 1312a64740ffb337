package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	BotPrefix string

	XUserID    string
	XUserEmail string
	XSessionID string

	RedisURL    string
	DatabaseURL string

	AllowedRooms []string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	OpponentMode    string // "catalog" or "llm"
	ValidatorMode   string // "catalog" or "judge"
	FallbackIdiom   string
	CandidateLimit  int
	OracleTimeoutMS int
	SnapshotTTLSec  int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		OpponentMode:    "catalog",
		ValidatorMode:   "catalog",
		FallbackIdiom:   "龙飞凤舞",
		CandidateLimit:  10,
		OracleTimeoutMS: 15000,
		SnapshotTTLSec:  86400,
	}

	cfg.IrisBaseURL = strings.TrimSpace(os.Getenv("IRIS_BASE_URL"))
	cfg.IrisWSURL = strings.TrimSpace(os.Getenv("IRIS_WS_URL"))
	cfg.BotPrefix = strings.TrimSpace(os.Getenv("BOT_PREFIX"))

	cfg.XUserID = strings.TrimSpace(os.Getenv("X_USER_ID"))
	cfg.XUserEmail = strings.TrimSpace(os.Getenv("X_USER_EMAIL"))
	cfg.XSessionID = strings.TrimSpace(os.Getenv("X_SESSION_ID"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ROOMS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedRooms = append(cfg.AllowedRooms, s)
			}
		}
	}

	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.OpenAIBaseURL = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))

	if v := strings.TrimSpace(os.Getenv("JIELONG_OPPONENT")); v != "" {
		cfg.OpponentMode = v
	}
	if v := strings.TrimSpace(os.Getenv("JIELONG_VALIDATOR")); v != "" {
		cfg.ValidatorMode = v
	}
	if v := strings.TrimSpace(os.Getenv("JIELONG_FALLBACK_IDIOM")); v != "" {
		cfg.FallbackIdiom = v
	}
	if v := strings.TrimSpace(os.Getenv("JIELONG_CANDIDATE_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CandidateLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORACLE_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OracleTimeoutMS = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SNAPSHOT_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SnapshotTTLSec = n
		}
	}

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}
	if cfg.OpponentMode == "llm" && cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required when JIELONG_OPPONENT=llm")
	}
	if cfg.ValidatorMode == "judge" && cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required when JIELONG_VALIDATOR=judge")
	}

	return cfg, nil
}
