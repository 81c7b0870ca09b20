package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Sentinel SentinelConfig `yaml:"sentinelsoc"`
}

// SentinelConfig is the project configuration.
type SentinelConfig struct {
	Input     InputConfig     `yaml:"input"`
	Detect    DetectConfig    `yaml:"detect"`
	Rules     RulesConfig     `yaml:"rules"`
	Triage    TriageConfig    `yaml:"triage"`
	Narrative NarrativeConfig `yaml:"narrative"`
	Output    OutputConfig    `yaml:"output"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// InputConfig locates the event sources and the feedback log.
type InputConfig struct {
	AuthEvents    string      `yaml:"auth_events"`
	HostInventory string      `yaml:"host_inventory"`
	FirewallLogs  string      `yaml:"firewall_logs"`
	Events        EventsInput `yaml:"events"`
	Feedback      string      `yaml:"feedback"`
}

// EventsInput controls the generic event source.
type EventsInput struct {
	Mode  string      `yaml:"mode"` // file|redis
	File  string      `yaml:"file"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig controls the Redis list source.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
	MaxDrain int    `yaml:"max_drain"`
}

// DetectConfig carries detection thresholds and policy sets.
type DetectConfig struct {
	TravelSpeedMPH    float64 `yaml:"travel_speed_mph"`
	PatchHighDays     int     `yaml:"patch_high_days"`
	PatchCriticalDays int     `yaml:"patch_critical_days"`
	PortWhitelist     []int   `yaml:"port_whitelist"`
	HighRiskPorts     []int   `yaml:"high_risk_ports"`
	FailedLoginCount  int     `yaml:"failed_login_count"`
	FailedLoginWindow int     `yaml:"failed_login_window_minutes"`
}

// RulesConfig controls the optional Sigma rule stage over generic events.
type RulesConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TriageConfig carries confidence adjustment constants and fan-out width.
type TriageConfig struct {
	StepUp   float64 `yaml:"step_up"`
	CapUp    float64 `yaml:"cap_up"`
	StepDown float64 `yaml:"step_down"`
	CapDown  float64 `yaml:"cap_down"`
	Workers  int     `yaml:"workers"`
}

// NarrativeConfig controls the narrative provider client.
type NarrativeConfig struct {
	Enabled     bool          `yaml:"enabled"`
	URL         string        `yaml:"url"`
	Model       string        `yaml:"model"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// OutputConfig controls alert and triage sinks.
type OutputConfig struct {
	Alerts SinkConfig       `yaml:"alerts"`
	Triage FileOutputConfig `yaml:"triage"`
}

// SinkConfig selects between file and HTTP delivery.
type SinkConfig struct {
	Mode string           `yaml:"mode"` // file|http
	File FileOutputConfig `yaml:"file"`
	HTTP HTTPOutputConfig `yaml:"http"`
}

// FileOutputConfig config for local JSONL output.
type FileOutputConfig struct {
	Path string `yaml:"path"`
}

// HTTPOutputConfig config for remote output.
type HTTPOutputConfig struct {
	URL     string            `yaml:"url"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

// MetricsConfig controls the Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
