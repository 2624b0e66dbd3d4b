// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package main

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// config holds the optional rc file settings. Every field has a
// default, so a missing file changes nothing.
type config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	HistorySize int    `yaml:"history_size"`
}

// loadConfig reads $XDG_CONFIG_HOME/minishell/config.yaml if it
// exists. A broken file is reported and its defaults kept.
func loadConfig() *config {
	cfg := &config{
		Prompt:      "minishell$ ",
		HistorySize: 500,
	}
	if path, err := xdg.SearchConfigFile("minishell/config.yaml"); err == nil {
		data, err := os.ReadFile(path)
		if err == nil {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "minishell: %s: %v\n", path, err)
		}
	}
	if cfg.HistoryFile == "" {
		if path, err := xdg.DataFile("minishell/history"); err == nil {
			cfg.HistoryFile = path
		}
	}
	return cfg
}
