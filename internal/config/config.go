package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	GatewayBaseURL string
	GatewayWSURL   string

	BotPrefix string

	RedisURL    string
	DatabaseURL string

	AllowedRooms []string

	MessageOverrideDir string

	// Guessing engine tunables.
	GuessHintCooldown time.Duration
	SpeedRunDefault   int
	ExpertBaseTime    time.Duration
	ExpertTimePerChar time.Duration
	ExpertMaxFailures int

	// Killer game tunables.
	KillerRoundsPerDeath int
	KillerTurnWindow     time.Duration
}

func Load() (*AppConfig, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &AppConfig{
		GuessHintCooldown:    3 * time.Second,
		SpeedRunDefault:      10,
		ExpertBaseTime:       10 * time.Second,
		ExpertTimePerChar:    1500 * time.Millisecond,
		ExpertMaxFailures:    3,
		KillerRoundsPerDeath: 2,
		KillerTurnWindow:     60 * time.Second,
	}

	cfg.GatewayBaseURL = strings.TrimSpace(os.Getenv("GATEWAY_BASE_URL"))
	cfg.GatewayWSURL = strings.TrimSpace(os.Getenv("GATEWAY_WS_URL"))
	cfg.BotPrefix = strings.TrimSpace(os.Getenv("BOT_PREFIX"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MessageOverrideDir = strings.TrimSpace(os.Getenv("MESSAGE_OVERRIDE_DIR"))

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ROOMS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.AllowedRooms = append(cfg.AllowedRooms, s)
			}
		}
	}

	if d, ok := envDuration("GUESS_HINT_COOLDOWN"); ok {
		cfg.GuessHintCooldown = d
	}
	if n, ok := envInt("SPEEDRUN_DEFAULT_COUNT"); ok {
		cfg.SpeedRunDefault = n
	}
	if d, ok := envDuration("EXPERT_BASE_TIME"); ok {
		cfg.ExpertBaseTime = d
	}
	if d, ok := envDuration("EXPERT_TIME_PER_CHAR"); ok {
		cfg.ExpertTimePerChar = d
	}
	if n, ok := envInt("EXPERT_MAX_FAILURES"); ok {
		cfg.ExpertMaxFailures = n
	}
	if n, ok := envInt("KILLER_ROUNDS_PER_DEATH"); ok {
		cfg.KillerRoundsPerDeath = n
	}
	if d, ok := envDuration("KILLER_TURN_WINDOW"); ok {
		cfg.KillerTurnWindow = d
	}

	if cfg.GatewayBaseURL == "" {
		return nil, errors.New("GATEWAY_BASE_URL is required")
	}
	if cfg.GatewayWSURL == "" {
		return nil, errors.New("GATEWAY_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}

	return cfg, nil
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func envDuration(key string) (time.Duration, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
