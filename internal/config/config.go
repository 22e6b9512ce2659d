// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Repair RepairConfig `mapstructure:"repair" yaml:"repair"`
	LLM    LLMConfig    `mapstructure:"llm" yaml:"llm"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// RepairConfig tunes the repair loop and its external test harness.
type RepairConfig struct {
	// ProgramsRoot is the checkout containing the buggy programs and the
	// test harness script. The harness is always invoked with this as its
	// working directory.
	ProgramsRoot string `mapstructure:"programs_root" yaml:"programs_root"`
	// ProgramsSubdir is the directory under ProgramsRoot holding the
	// single-file programs eligible for repair.
	ProgramsSubdir string `mapstructure:"programs_subdir" yaml:"programs_subdir"`
	// TesterScript is the harness entry point, relative to ProgramsRoot.
	TesterScript string `mapstructure:"tester_script" yaml:"tester_script"`
	// Python is the interpreter used to run programs and the harness.
	Python string `mapstructure:"python" yaml:"python"`
	// SourceSuffix is appended to a program name given without extension.
	SourceSuffix string        `mapstructure:"source_suffix" yaml:"source_suffix"`
	MaxAttempts  int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	TestTimeout  time.Duration `mapstructure:"test_timeout" yaml:"test_timeout"`
	// CSVOutput is where the batch command writes its summary rows.
	CSVOutput string `mapstructure:"csv_output" yaml:"csv_output"`
}

// LLMProvider defines the supported LLM providers.
type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
)

// LLMConfig defines the configuration for the generative oracle.
type LLMConfig struct {
	Provider    LLMProvider   `mapstructure:"provider" yaml:"provider"`
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"-"`
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	APITimeout  time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	TopP        float32       `mapstructure:"top_p" yaml:"top_p"`
	TopK        int           `mapstructure:"top_k" yaml:"top_k"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	// RequestsPerMinute rate-limits generation calls so long batch runs
	// stay inside free-tier quotas. Zero disables the limiter.
	RequestsPerMinute int `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "quixfix")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Repair --
	v.SetDefault("repair.programs_root", "Code-Refactoring-QuixBugs")
	v.SetDefault("repair.programs_subdir", "python_programs")
	v.SetDefault("repair.tester_script", "tester.py")
	v.SetDefault("repair.python", "python3")
	v.SetDefault("repair.source_suffix", ".py")
	v.SetDefault("repair.max_attempts", 3)
	v.SetDefault("repair.test_timeout", 30*time.Second)
	v.SetDefault("repair.csv_output", "apr_results_summary.csv")

	// -- LLM --
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.api_timeout", 60*time.Second)
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 512)
	v.SetDefault("llm.requests_per_minute", 0)
}

// NewDefaultConfig creates a configuration struct populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Unreachable with defaults only, but fail loudly if it happens.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// The API key is sensitive and always comes from the environment.
	// GOOGLE_API_KEY is honored for parity with other Gemini tooling.
	v.BindEnv("llm.api_key", "QUIXFIX_LLM_API_KEY", "GOOGLE_API_KEY")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Repair.Validate(); err != nil {
		return fmt.Errorf("repair configuration invalid: %w", err)
	}
	if c.LLM.APITimeout <= 0 {
		return fmt.Errorf("llm.api_timeout must be a positive duration")
	}
	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("llm.requests_per_minute must not be negative")
	}
	return nil
}

// Validate checks the repair loop settings.
func (r *RepairConfig) Validate() error {
	if r.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be greater than 0")
	}
	if r.TestTimeout <= 0 {
		return fmt.Errorf("test_timeout must be a positive duration")
	}
	if r.ProgramsRoot == "" {
		return fmt.Errorf("programs_root is required")
	}
	if r.TesterScript == "" {
		return fmt.Errorf("tester_script is required")
	}
	return nil
}
