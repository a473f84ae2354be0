package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hairyhenderson/go-airdrive/internal/env"
)

// config is the effective configuration for a single command
type config struct {
	Credential string `toml:"credential"`
	Drive      string `toml:"drive"`
	LocalDir   string `toml:"local_dir"`
	ChunkSize  int    `toml:"chunk_size"`
	Silent     bool   `toml:"silent"`
	Tracing    bool   `toml:"tracing"`
}

// loadConfigFile reads a TOML config file. Unknown keys are an error, so that
// typos don't go unnoticed.
func loadConfigFile(path string) (*config, error) {
	cfg := &config{}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return nil, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if cfg.ChunkSize < 0 {
		return nil, fmt.Errorf("config file %s: chunk_size must not be negative", path)
	}

	return cfg, nil
}

// resolveConfig applies the override chain: config file, then environment,
// then the flags that were explicitly set. The config file is optional, but
// when one is named it must exist.
func resolveConfig(envfs fs.FS, cfgPath string, flags *config, changed func(string) bool) (*config, error) {
	if cfgPath == "" {
		cfgPath = env.GetenvFS(envfs, "AIRDRIVE_CONFIG")
	}

	cfg := &config{}

	if cfgPath != "" {
		var err error

		cfg, err = loadConfigFile(cfgPath)
		if err != nil {
			return nil, err
		}
	}

	if v := env.GetenvFS(envfs, "AIRDRIVE_CREDENTIAL"); v != "" {
		cfg.Credential = v
	}

	if v := env.GetenvFS(envfs, "AIRDRIVE_DRIVE"); v != "" {
		cfg.Drive = v
	}

	if changed("credential") {
		cfg.Credential = flags.Credential
	}

	if changed("drive") {
		cfg.Drive = flags.Drive
	}

	if changed("local-dir") {
		cfg.LocalDir = flags.LocalDir
	}

	if changed("chunk-size") {
		cfg.ChunkSize = flags.ChunkSize
	}

	if changed("quiet") {
		cfg.Silent = flags.Silent
	}

	if changed("tracing") {
		cfg.Tracing = flags.Tracing
	}

	if cfg.Credential == "" {
		return nil, errors.New("no credential given: set --credential, AIRDRIVE_CREDENTIAL, or credential in the config file")
	}

	if cfg.Drive == "" {
		return nil, errors.New("no drive given: set --drive, AIRDRIVE_DRIVE, or drive in the config file")
	}

	return cfg, nil
}
