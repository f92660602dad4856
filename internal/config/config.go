package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server settings. Every flag falls back to a CHESS_*
// environment variable before its built-in default.
type Config struct {
	Addr                string
	AllowedOrigins      []string
	ComputerDelay       time.Duration
	MatchmakingInterval time.Duration
	Clock               time.Duration
	GameTTL             time.Duration
	Debug               bool
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      []string{"http://localhost:5173"},
		ComputerDelay:       500 * time.Millisecond,
		MatchmakingInterval: time.Second,
		Clock:               10 * time.Minute,
		GameTTL:             30 * time.Minute,
	}
}

// Load parses args (without the program name) on top of the environment.
func Load(args []string) (Config, error) {
	return load(args, os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	env := envReader{lookup: lookup}

	addr := env.str("CHESS_ADDR", cfg.Addr)
	origins := env.str("CHESS_ALLOWED_ORIGINS", strings.Join(cfg.AllowedOrigins, ","))
	cfg.ComputerDelay = env.duration("CHESS_COMPUTER_DELAY", cfg.ComputerDelay)
	cfg.MatchmakingInterval = env.duration("CHESS_MATCHMAKING_INTERVAL", cfg.MatchmakingInterval)
	cfg.Clock = env.duration("CHESS_CLOCK", cfg.Clock)
	cfg.GameTTL = env.duration("CHESS_GAME_TTL", cfg.GameTTL)
	cfg.Debug = env.boolean("CHESS_DEBUG", cfg.Debug)
	if env.err != nil {
		return Config{}, env.err
	}

	fs := flag.NewFlagSet("chess-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", addr, "listen address")
	fs.StringVar(&origins, "origins", origins, "comma separated list of allowed CORS origins")
	fs.DurationVar(&cfg.ComputerDelay, "computer-delay", cfg.ComputerDelay, "pause before the computer replies")
	fs.DurationVar(&cfg.MatchmakingInterval, "matchmaking-interval", cfg.MatchmakingInterval, "how often queued players are paired")
	fs.DurationVar(&cfg.Clock, "clock", cfg.Clock, "initial time per side")
	fs.DurationVar(&cfg.GameTTL, "game-ttl", cfg.GameTTL, "remove games idle for longer than this")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "development logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.AllowedOrigins = splitList(origins)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address must not be empty")
	}
	if c.ComputerDelay < 0 {
		return fmt.Errorf("computer delay must not be negative: %s", c.ComputerDelay)
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("matchmaking interval must be positive: %s", c.MatchmakingInterval)
	}
	if c.Clock <= 0 {
		return fmt.Errorf("clock must be positive: %s", c.Clock)
	}
	if c.GameTTL <= 0 {
		return fmt.Errorf("game ttl must be positive: %s", c.GameTTL)
	}
	return nil
}

type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) str(key, def string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok || v == "" || e.err != nil {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
		return def
	}
	return d
}

func (e *envReader) boolean(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok || v == "" || e.err != nil {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
