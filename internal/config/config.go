package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the jobassist client.
type Config struct {
	OutputDir string // where generated documents are written
	StorePath string // sqlite database path
	Ollama    OllamaConfig
	Models    ModelsConfig
	Web       WebConfig
	Limits    LimitsConfig
}

// OllamaConfig points at the local Ollama server.
type OllamaConfig struct {
	BaseURL string        // e.g. http://localhost:11434
	Timeout time.Duration // per-request timeout for listing and generation
}

// ModelsConfig names the primary model and its ordered fallbacks.
type ModelsConfig struct {
	Primary     string
	Fallbacks   []string
	Temperature float64
	MaxTokens   int // 0 means "let the server decide"
}

// WebConfig controls the browser form interface.
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LimitsConfig bounds resource usage on file intake and LLM traffic.
type LimitsConfig struct {
	MaxFileSizeMB    int
	AllowedFileTypes []string
	MinRequestGap    time.Duration // minimum gap between generation calls
}

// ModelConfig is the immutable per-model configuration handed to the LLM
// layer. Built fresh from Config each time a model handle is constructed.
type ModelConfig struct {
	Name        string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ModelConfigFor builds the ModelConfig for a named model using the shared
// generation settings.
func (c *Config) ModelConfigFor(name string) ModelConfig {
	return ModelConfig{
		Name:        name,
		Temperature: c.Models.Temperature,
		MaxTokens:   c.Models.MaxTokens,
		Timeout:     c.Ollama.Timeout,
	}
}

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultPrimaryModel  = "llama3.1:8b"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	OutputDir string          `yaml:"output_dir"`
	StorePath string          `yaml:"store_path"`
	Ollama    rawOllamaConfig `yaml:"ollama"`
	Models    rawModelsConfig `yaml:"models"`
	Web       WebConfig       `yaml:"web"`
	Limits    rawLimitsConfig `yaml:"limits"`
}

type rawOllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type rawModelsConfig struct {
	Primary     string   `yaml:"primary"`
	Fallbacks   []string `yaml:"fallbacks"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

type rawLimitsConfig struct {
	MaxFileSizeMB    int      `yaml:"max_file_size_mb"`
	AllowedFileTypes []string `yaml:"allowed_file_types"`
	MinRequestGap    string   `yaml:"min_request_gap"`
}

// Load reads and parses the YAML config file at path, applies defaults,
// validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ollamaTimeout := 60 * time.Second // default
	if raw.Ollama.Timeout != "" {
		ollamaTimeout, err = time.ParseDuration(raw.Ollama.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ollama.timeout %q: %w", raw.Ollama.Timeout, err)
		}
	}

	requestGap := 2 * time.Second // default
	if raw.Limits.MinRequestGap != "" {
		requestGap, err = time.ParseDuration(raw.Limits.MinRequestGap)
		if err != nil {
			return nil, fmt.Errorf("parse limits.min_request_gap %q: %w", raw.Limits.MinRequestGap, err)
		}
	}

	baseURL := raw.Ollama.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	primary := raw.Models.Primary
	if primary == "" {
		primary = defaultPrimaryModel
	}

	temperature := 0.7 // default
	if raw.Models.Temperature != nil {
		temperature = *raw.Models.Temperature
	}

	outputDir := raw.OutputDir
	if outputDir == "" {
		outputDir = "output"
	}

	storePath := raw.StorePath
	if storePath == "" {
		storePath = "jobassist.db"
	}

	maxFileSize := raw.Limits.MaxFileSizeMB
	if maxFileSize == 0 {
		maxFileSize = 10
	}

	allowedTypes := raw.Limits.AllowedFileTypes
	if len(allowedTypes) == 0 {
		allowedTypes = []string{".txt", ".md"}
	}

	webHost := raw.Web.Host
	if webHost == "" {
		webHost = "localhost"
	}
	webPort := raw.Web.Port
	if webPort == 0 {
		webPort = 8501
	}

	cfg := &Config{
		OutputDir: outputDir,
		StorePath: storePath,
		Ollama: OllamaConfig{
			BaseURL: baseURL,
			Timeout: ollamaTimeout,
		},
		Models: ModelsConfig{
			Primary:     primary,
			Fallbacks:   raw.Models.Fallbacks,
			Temperature: temperature,
			MaxTokens:   raw.Models.MaxTokens,
		},
		Web: WebConfig{
			Host: webHost,
			Port: webPort,
		},
		Limits: LimitsConfig{
			MaxFileSizeMB:    maxFileSize,
			AllowedFileTypes: allowedTypes,
			MinRequestGap:    requestGap,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Ollama.Timeout <= 0 {
		return fmt.Errorf("ollama.timeout must be positive, got %v", cfg.Ollama.Timeout)
	}

	if strings.TrimSpace(cfg.Models.Primary) == "" {
		return fmt.Errorf("models.primary must not be empty")
	}
	for i, name := range cfg.Models.Fallbacks {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("models.fallbacks[%d] must not be empty", i)
		}
	}

	if cfg.Models.Temperature < 0 || cfg.Models.Temperature > 2 {
		return fmt.Errorf("models.temperature must be between 0 and 2, got %v", cfg.Models.Temperature)
	}
	if cfg.Models.MaxTokens < 0 {
		return fmt.Errorf("models.max_tokens must not be negative, got %d", cfg.Models.MaxTokens)
	}

	if cfg.Web.Port < 1 || cfg.Web.Port > 65535 {
		return fmt.Errorf("web.port must be between 1 and 65535, got %d", cfg.Web.Port)
	}

	if cfg.Limits.MaxFileSizeMB <= 0 {
		return fmt.Errorf("limits.max_file_size_mb must be positive, got %d", cfg.Limits.MaxFileSizeMB)
	}
	for _, ft := range cfg.Limits.AllowedFileTypes {
		if !strings.HasPrefix(ft, ".") {
			return fmt.Errorf("limits.allowed_file_types entries must start with '.', got %q", ft)
		}
	}

	return nil
}
