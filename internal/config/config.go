package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Collaborator CollaboratorConfig `mapstructure:"collaborator"`
	Tracker      TrackerConfig      `mapstructure:"tracker"`
	Log          LogConfig          `mapstructure:"log"`
	Stub         StubConfig         `mapstructure:"stub"`
}

// CollaboratorConfig points at the upstream service that owns menu, order,
// and payment records.
type CollaboratorConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TrackerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

type StubConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	AdvanceInterval time.Duration `mapstructure:"advance_interval"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("collaborator.base_url", "http://localhost:8080")
	v.SetDefault("collaborator.timeout", 10*time.Second)
	v.SetDefault("tracker.poll_interval", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
	v.SetDefault("stub.host", "0.0.0.0")
	v.SetDefault("stub.port", 8080)
	v.SetDefault("stub.advance_interval", 15*time.Second)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *StubConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
