// Package config loads the panel configuration from a TOML document.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sosoyan/aton/asset"
	"github.com/sosoyan/aton/farm"
)

// Environment variables naming the Aton receiver.
const (
	EnvHost = "ATON_HOST"
	EnvPort = "ATON_PORT"
)

// Receiver fallbacks.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 9201
)

type Sequence struct {
	Step    int  `toml:"step"`
	Rebuild bool `toml:"rebuild"`
}

type Monitor struct {
	// Name prefix of the renderer child process.
	Process  string        `toml:"process"`
	Interval time.Duration `toml:"interval"`
}

type Config struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// Increment the port for every exported render node.
	PortIncrement bool `toml:"port_increment"`

	Sequence Sequence    `toml:"sequence"`
	Monitor  Monitor     `toml:"monitor"`
	Farm     farm.Config `toml:"farm"`
}

// Default returns the built-in configuration with the receiver address taken
// from the environment.
func Default() *Config {
	return &Config{
		Host:          host(),
		Port:          port(),
		PortIncrement: true,
		Sequence:      Sequence{Step: 1},
		Monitor:       Monitor{Process: "hick", Interval: time.Second},
	}
}

// Load reads the configuration at location, a file path or http(s) URL, on
// top of the defaults.
func Load(location string) (*Config, error) {
	res, err := asset.NewResource(location, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	cfg := Default()
	md, err := toml.NewDecoder(res).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", res.Path(), err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownKeys, res.Path(), undecoded)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if c.Sequence.Step < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidStep, c.Sequence.Step)
	}
	if c.Monitor.Interval <= 0 {
		c.Monitor.Interval = time.Second
	}
	return nil
}

// InstancePort returns the port for the n-th open panel.
func (c *Config) InstancePort(instance int) int {
	if instance > 0 {
		return c.Port + instance
	}
	return c.Port
}

func host() string {
	if v := os.Getenv(EnvHost); v != "" {
		return v
	}
	return DefaultHost
}

func port() int {
	if v, err := strconv.Atoi(os.Getenv(EnvPort)); err == nil && v > 0 {
		return v
	}
	return DefaultPort
}
