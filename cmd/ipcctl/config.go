// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package main

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envPrefix = "IPCCTL"

// Config holds ipcctl configuration.
// Values come from IPCCTL_* environment variables and may be overridden by global flags.
type Config struct {
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	LogDev        bool          `envconfig:"LOG_DEV" default:"false"`
	Perm          permValue     `envconfig:"PERM" default:"0600"`
	MetricsAddr   string        `envconfig:"METRICS_ADDR" default:"127.0.0.1:9105"`
	WatchInterval time.Duration `envconfig:"WATCH_INTERVAL" default:"5s"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return &cfg, nil
}

// RegisterFlags adds global flags, which override the loaded values.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&c.LogDev, "log-dev", c.LogDev, "human-readable development logging")
	fs.Var(&c.Perm, "perm", "default permissions of new objects, octal")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "listen address of the watch metrics endpoint")
	fs.DurationVar(&c.WatchInterval, "interval", c.WatchInterval, "watch polling interval")
}

// permValue holds octal permission bits.
// It is both a flag.Value and an envconfig.Decoder, so IPCCTL_PERM and -perm read the same.
type permValue uint32

func (p *permValue) String() string {
	return "0" + strconv.FormatUint(uint64(*p), 8)
}

func (p *permValue) Set(s string) error {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return err
	}
	if v&^uint64(os.ModePerm) != 0 {
		return errors.Errorf("invalid permissions %#o", v)
	}
	*p = permValue(v)
	return nil
}

// Decode implements envconfig.Decoder.
func (p *permValue) Decode(value string) error {
	return p.Set(value)
}
