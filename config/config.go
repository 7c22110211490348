package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultPendingSlots  = 64
	defaultPruneSchedule = "@every 1m"
	defaultUpdatesBuffer = 100
)

var ErrNoRetention = errors.New("retention must set slot_window, ring_multiple or max_age")

type RelayConfig struct {
	PendingSlots int `yaml:"pending_slots"`
}

// RetentionConfig bounds every feed series. SlotWindow takes precedence over
// RingMultiple, which is multiplied by the ring size of the latest snapshot.
type RetentionConfig struct {
	SlotWindow    uint64        `yaml:"slot_window"`
	RingMultiple  uint64        `yaml:"ring_multiple"`
	MaxAge        time.Duration `yaml:"max_age"`
	PruneSchedule string        `yaml:"prune_schedule"`
}

type PresenterConfig struct {
	Host          string `yaml:"host"`
	AcceptUpdates bool   `yaml:"accept_updates"`
	UpdatesBuffer int    `yaml:"updates_buffer"`
}

type MetricsConfig struct {
	Host string `yaml:"host"`
}

type Config struct {
	LogLevel  logrus.Level     `yaml:"log_level"`
	Relay     *RelayConfig     `yaml:"relay"`
	Retention *RetentionConfig `yaml:"retention"`
	Presenter *PresenterConfig `yaml:"presenter"`
	Metrics   *MetricsConfig   `yaml:"metrics"`
}

func parseYaml(out interface{}, blob []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(blob))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("can't parse yaml: %w", err)
	}
	return nil
}

func processConfig(cfg *Config) error {
	if cfg.Relay == nil {
		cfg.Relay = new(RelayConfig)
	}
	if cfg.Relay.PendingSlots <= 0 {
		cfg.Relay.PendingSlots = defaultPendingSlots
	}
	if cfg.Presenter != nil && cfg.Presenter.UpdatesBuffer <= 0 {
		cfg.Presenter.UpdatesBuffer = defaultUpdatesBuffer
	}
	if cfg.Retention == nil {
		return ErrNoRetention
	}
	r := cfg.Retention
	if r.SlotWindow == 0 && r.RingMultiple == 0 && r.MaxAge == 0 {
		return ErrNoRetention
	}
	if r.PruneSchedule == "" {
		r.PruneSchedule = defaultPruneSchedule
	}
	if _, err := cron.ParseStandard(r.PruneSchedule); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", r.PruneSchedule, err)
	}
	return nil
}

func ReadConfig(blob []byte) (*Config, error) {
	cfg := &Config{LogLevel: logrus.InfoLevel}
	if err := parseYaml(cfg, blob); err != nil {
		return nil, err
	}
	if err := processConfig(cfg); err != nil {
		return nil, fmt.Errorf("can't process config: %w", err)
	}
	return cfg, nil
}

func ReadConfigWithEnv(blob []byte) (*Config, error) {
	return ReadConfig([]byte(os.ExpandEnv(string(blob))))
}

func ReadConfigFromFile(path string) (*Config, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}
	return ReadConfigWithEnv(blob)
}
