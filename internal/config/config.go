package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model. It captures collaborator
// credentials, loop timing, pacing, and storage.
type Config struct {
	Cricket CricketConfig `yaml:"cricket"`
	LLM     LLMConfig     `yaml:"llm"`
	X       XConfig       `yaml:"x"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Loop    LoopConfig    `yaml:"loop"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type CricketConfig struct {
	// CricAPI key. If empty, read from env CRICAPI_API_KEY
	APIKey string `yaml:"apiKey"`
}

type LLMConfig struct {
	Model string `yaml:"model"`
	// If empty, read from env OPENAI_API_KEY
	APIKey string `yaml:"apiKey"`
}

type XConfig struct {
	// OAuth 1.0a user-context credentials for posting and metrics
	ConsumerKey    string `yaml:"consumerKey"`
	ConsumerSecret string `yaml:"consumerSecret"`
	AccessToken    string `yaml:"accessToken"`
	AccessSecret   string `yaml:"accessSecret"`
}

type PacingConfig struct {
	// Randomized pre-publish delay bounds in seconds. Disable for tests.
	Enabled    bool `yaml:"enabled"`
	MinSeconds int  `yaml:"minSeconds"`
	MaxSeconds int  `yaml:"maxSeconds"`
}

type LoopConfig struct {
	// Match poll interval and feedback reconciliation schedule
	MatchSeconds         int `yaml:"matchSeconds"`
	FeedbackMinutes      int `yaml:"feedbackMinutes"`
	FeedbackBatch        int `yaml:"feedbackBatch"`
	FeedbackDelaySeconds int `yaml:"feedbackDelaySeconds"`
	Candidates           int `yaml:"candidates"`
}

type StorageConfig struct {
	DBPath     string `yaml:"dbPath"`
	StylePath  string `yaml:"stylePath"`
	StyleLimit int    `yaml:"styleLimit"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Cricket: CricketConfig{},
		LLM:     LLMConfig{Model: "gpt-4o-mini"},
		Pacing:  PacingConfig{Enabled: true, MinSeconds: 5, MaxSeconds: 20},
		Loop: LoopConfig{
			MatchSeconds:         30,
			FeedbackMinutes:      15,
			FeedbackBatch:        20,
			FeedbackDelaySeconds: 1,
			Candidates:           3,
		},
		Storage: StorageConfig{DBPath: "./wicketwire.db", StylePath: "./data/posts_history.json", StyleLimit: 20},
		Metrics: MetricsConfig{Addr: ""},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Cricket.APIKey == "" {
		c.Cricket.APIKey = os.Getenv("CRICAPI_API_KEY")
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.X.ConsumerKey == "" {
		c.X.ConsumerKey = os.Getenv("X_API_KEY")
	}
	if c.X.ConsumerSecret == "" {
		c.X.ConsumerSecret = os.Getenv("X_API_SECRET")
	}
	if c.X.AccessToken == "" {
		c.X.AccessToken = os.Getenv("X_ACCESS_TOKEN")
	}
	if c.X.AccessSecret == "" {
		c.X.AccessSecret = os.Getenv("X_ACCESS_SECRET")
	}
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
