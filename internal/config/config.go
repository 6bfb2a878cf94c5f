// Package config assembles runtime configuration from defaults, an
// optional YAML file and QUIZGEN_* environment variables. Command-line
// flags are applied last by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/store"
)

type Config struct {
	LLM llm.Config `yaml:"llm"`

	// Lenient disables the shape checks on generated quizzes and keeps
	// only the "both lists present" check.
	Lenient bool `yaml:"lenient"`

	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// HistoryConfig controls the optional SQLite log of model requests.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
	}
}

// Overrides holds command-line flag values. Zero values leave the
// lower layers untouched.
type Overrides struct {
	Provider    string
	Model       string
	Lenient     *bool
	History     *bool
	HistoryPath string
	LogFile     string
	LogLevel    string
	Addr        string
}

func (o Overrides) apply(cfg *Config) {
	if o.Provider != "" {
		cfg.LLM.Provider = o.Provider
	}
	if o.Model != "" {
		setModel(&cfg.LLM, o.Model)
	}
	if o.Lenient != nil {
		cfg.Lenient = *o.Lenient
	}
	if o.History != nil {
		cfg.History.Enabled = *o.History
	}
	if o.HistoryPath != "" {
		cfg.History.Path = o.HistoryPath
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.Addr != "" {
		cfg.Server.Addr = o.Addr
	}
}

// setModel sets the model of the selected provider.
func setModel(c *llm.Config, model string) {
	switch c.Provider {
	case "anthropic":
		c.Anthropic.Model = model
	case "openai":
		c.OpenAI.Model = model
	case "gemini":
		c.Gemini.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	}
}

// Load builds a Config. path is the --config flag value; when empty,
// QUIZGEN_CONFIG and then the XDG default location are tried. An
// explicitly named file must exist; the XDG default is optional.
//
// Vendor API key variables are consulted last, after flags have picked
// the provider.
func Load(path string, o Overrides) (Config, error) {
	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv("QUIZGEN_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	ApplyEnv(&cfg)
	o.apply(&cfg)
	llm.Discover(&cfg.LLM)
	return cfg, nil
}

// ApplyEnv overlays QUIZGEN_* variables onto cfg.
func ApplyEnv(cfg *Config) {
	llm.ApplyEnv(&cfg.LLM)

	cfg.Lenient = envBool("QUIZGEN_LENIENT", cfg.Lenient)
	cfg.History.Enabled = envBool("QUIZGEN_HISTORY", cfg.History.Enabled)
	cfg.History.Path = envOr("QUIZGEN_DB", cfg.History.Path)
	cfg.Log.File = envOr("QUIZGEN_LOG_FILE", cfg.Log.File)
	cfg.Log.Level = envOr("QUIZGEN_LOG_LEVEL", cfg.Log.Level)
	cfg.Server.Addr = envOr("QUIZGEN_ADDR", cfg.Server.Addr)
	cfg.Server.CORSOrigins = csvOr("QUIZGEN_CORS_ORIGINS", cfg.Server.CORSOrigins)
}

// DefaultPath returns $XDG_CONFIG_HOME/quizgen/config.yaml, falling back
// to ~/.config. It returns "" if no home directory is known.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "quizgen", "config.yaml")
}

// QuizConfig returns the generation client settings.
func (c Config) QuizConfig() quiz.Config {
	qc := quiz.DefaultConfig()
	if c.Lenient {
		qc = quiz.LenientConfig()
	}
	if c.LLM.MaxTokens > 0 {
		qc.MaxTokens = c.LLM.MaxTokens
	}
	return qc
}

// LogPath is where the TUI writes its log file.
func (c Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return logging.DefaultPath()
}

func (c Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return store.DefaultDBPath()
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
