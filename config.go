package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bind            string    `yaml:"bind"`
	Port            int       `yaml:"port"`
	Token           string    `yaml:"token"`
	IntervalSeconds int       `yaml:"interval_seconds"`
	ProcessLimit    int       `yaml:"process_limit"`
	TempBreakpoints []float64 `yaml:"temp_breakpoints"`
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		Bind:            "0.0.0.0",
		Port:            8080,
		IntervalSeconds: 2,
		ProcessLimit:    15,
		TempBreakpoints: []float64{45, 60, 70},
	}
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Bind == "" {
		cfg.Bind = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = 2
	}
	if cfg.ProcessLimit <= 0 {
		cfg.ProcessLimit = 15
	}
	if len(cfg.TempBreakpoints) == 0 {
		cfg.TempBreakpoints = []float64{45, 60, 70}
	}

	return cfg, nil
}
