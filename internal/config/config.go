package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/randomtoy/vibecheck/internal/domain"
)

// ProfileName identifies an entry point's generation settings.
type ProfileName string

const (
	ProfileConsole     ProfileName = "console"
	ProfileInteractive ProfileName = "interactive"
)

// Profile is the set of generation settings one entry point uses. The two
// profiles differ on purpose: the console variant is terser.
type Profile struct {
	Name       ProfileName
	Model      string
	MaxTokens  int
	ExtraTurns int
}

// DefaultProfiles returns the built-in profiles, keyed by name.
func DefaultProfiles() map[ProfileName]Profile {
	return map[ProfileName]Profile{
		ProfileConsole: {
			Name:       ProfileConsole,
			Model:      "mistral-medium-latest",
			MaxTokens:  300,
			ExtraTurns: 0,
		},
		ProfileInteractive: {
			Name:       ProfileInteractive,
			Model:      "mistral-large-latest",
			MaxTokens:  500,
			ExtraTurns: 8,
		},
	}
}

// defaultSettleSlack is how long after the animation the result is revealed
// when SPIN_SETTLE is unset.
const defaultSettleSlack = 200 * time.Millisecond

type Config struct {
	HTTPAddr       string
	LogLevel       slog.Level
	MistralAPIKey  string
	MistralBaseURL string
	// LLMTimeout of zero means the HTTP client never times out.
	LLMTimeout   time.Duration
	SpinDuration time.Duration
	SpinSettle   time.Duration
	Profiles     map[ProfileName]Profile
}

// Profile returns the named profile.
func (c Config) Profile(name ProfileName) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}

// Load reads configuration from the environment, after merging a .env file
// from the working directory if one exists. Variables already set in the
// environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	c := Config{
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		MistralAPIKey:  strings.TrimSpace(os.Getenv("MISTRAL_API_KEY")),
		MistralBaseURL: envOr("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
		SpinDuration:   3 * time.Second,
		SpinSettle:     3200 * time.Millisecond,
		Profiles:       DefaultProfiles(),
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"LLM_TIMEOUT", &c.LLMTimeout},
		{"SPIN_DURATION", &c.SpinDuration},
		{"SPIN_SETTLE", &c.SpinSettle},
	}
	for _, d := range durations {
		if err := parseDuration(d.key, d.dst); err != nil {
			return Config{}, err
		}
	}
	if os.Getenv("SPIN_SETTLE") == "" {
		c.SpinSettle = c.SpinDuration + defaultSettleSlack
	}
	if c.SpinSettle < c.SpinDuration {
		return Config{}, fmt.Errorf("invalid SPIN_SETTLE %s: must not be shorter than SPIN_DURATION %s", c.SpinSettle, c.SpinDuration)
	}

	for name, p := range c.Profiles {
		prefix := strings.ToUpper(string(name))
		p.Model = envOr(prefix+"_MODEL", p.Model)
		if v := os.Getenv(prefix + "_MAX_TOKENS"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return Config{}, fmt.Errorf("invalid %s_MAX_TOKENS %q", prefix, v)
			}
			p.MaxTokens = n
		}
		c.Profiles[name] = p
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	if c.MistralAPIKey == "" {
		return Config{}, fmt.Errorf("%w: set it in the environment or a .env file", domain.ErrMissingCredential)
	}

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	*dst = d
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
