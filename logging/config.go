package logging

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoggerConfig holds logger configuration for the alignment toolkit.
type LoggerConfig struct {
	DefaultLevel     string            `json:"defaultLevel"`
	Service          string            `json:"service"`
	Component        string            `json:"component,omitempty"`
	Environment      string            `json:"environment"`
	Sinks            []SinkConfig      `json:"sinks"`
	Throttling       *ThrottlingConfig `json:"throttling,omitempty"`
	StaticFields     map[string]any    `json:"staticFields,omitempty"`
	EnableCaller     bool              `json:"enableCaller"`
	EnableStacktrace bool              `json:"enableStacktrace"`
}

// ThrottlingConfig controls log output rate.
type ThrottlingConfig struct {
	Enabled    bool   `json:"enabled"`
	MaxRate    int    `json:"maxRate"`    // logs/second
	BurstSize  int    `json:"burstSize"`  // burst capacity
	WindowSize int    `json:"windowSize"` // seconds
	DropPolicy string `json:"dropPolicy"` // "drop-oldest" | "drop-newest" | "block"
}

// SinkConfig defines an output sink.
type SinkConfig struct {
	Type    string             `json:"type"` // console, file
	Level   string             `json:"level,omitempty"`
	Format  string             `json:"format"` // json, text, console
	Console *ConsoleSinkConfig `json:"console,omitempty"`
	File    *FileSinkConfig    `json:"file,omitempty"`
}

// ConsoleSinkConfig configures console output.
type ConsoleSinkConfig struct {
	Stream   string `json:"stream"` // Must be "stderr"
	Colorize bool   `json:"colorize"`
}

// FileSinkConfig configures file output.
type FileSinkConfig struct {
	Path       string `json:"path"`
	MaxSize    int    `json:"maxSize"`    // MB
	MaxAge     int    `json:"maxAge"`     // days
	MaxBackups int    `json:"maxBackups"` // number of old files to keep
	Compress   bool   `json:"compress"`
}

// LoadConfig loads logger configuration from a YAML or JSON file.
func LoadConfig(path string) (*LoggerConfig, error) {
	// #nosec G304 -- intentional user-controlled file access for loading logger configuration from user-specified path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var jsonData []byte
	if isYAML(path) {
		var yamlContent any
		if err := yaml.Unmarshal(data, &yamlContent); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		jsonData, err = json.Marshal(yamlContent)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
		}
	} else {
		jsonData = data
	}

	var config LoggerConfig
	if err := json.Unmarshal(jsonData, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := validateConsoleSinks(config.Sinks); err != nil {
		return nil, fmt.Errorf("sink validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults applies default values to config.
func applyDefaults(config *LoggerConfig) {
	if config.DefaultLevel == "" {
		config.DefaultLevel = "INFO"
	}
	if config.Environment == "" {
		config.Environment = "development"
	}
	if config.StaticFields == nil {
		config.StaticFields = make(map[string]any)
	}

	for i := range config.Sinks {
		sink := &config.Sinks[i]
		if sink.Format == "" {
			sink.Format = "console"
		}
		if sink.Type == "console" && sink.Console == nil {
			sink.Console = &ConsoleSinkConfig{
				Stream:   "stderr",
				Colorize: false,
			}
		}
	}
}

// validateConsoleSinks ensures console sinks only write to stderr.
func validateConsoleSinks(sinks []SinkConfig) error {
	for _, sink := range sinks {
		if sink.Type == "console" {
			if sink.Console != nil && sink.Console.Stream != "stderr" && sink.Console.Stream != "" {
				return fmt.Errorf("console sink must use stderr (stdout is forbidden), got: %s", sink.Console.Stream)
			}
		}
	}
	return nil
}

// isYAML checks if a file path indicates YAML format.
func isYAML(path string) bool {
	return len(path) > 5 && (path[len(path)-5:] == ".yaml" || path[len(path)-4:] == ".yml")
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig(service string) *LoggerConfig {
	return &LoggerConfig{
		DefaultLevel: "INFO",
		Service:      service,
		Environment:  "development",
		Sinks: []SinkConfig{
			{
				Type: "console",
				Console: &ConsoleSinkConfig{
					Stream:   "stderr",
					Colorize: false,
				},
			},
		},
		StaticFields:     make(map[string]any),
		EnableCaller:     false,
		EnableStacktrace: false,
	}
}
