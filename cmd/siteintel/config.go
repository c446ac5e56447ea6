package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration. Environment variables
// override every field.
type fileConfig struct {
	Port      string `yaml:"port"`
	ProfileDB string `yaml:"profile_db"`
	LogLevel  string `yaml:"log_level"`

	Oracle struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"oracle"`

	ReaderProxyURL string `yaml:"reader_proxy_url"`

	Browser struct {
		Enabled bool   `yaml:"enabled"`
		Remote  string `yaml:"remote"`
	} `yaml:"browser"`

	Auth struct {
		User         string `yaml:"user"`
		PasswordHash string `yaml:"password_hash"` // bcrypt
	} `yaml:"auth"`

	Scrape struct {
		MaxPages          int `yaml:"max_pages"`
		PerPageCharBudget int `yaml:"per_page_char_budget"`
		TotalCharBudget   int `yaml:"total_char_budget"`
		DeadlineSeconds   int `yaml:"deadline_seconds"`
	} `yaml:"scrape"`
}

// loadConfig reads the YAML file when path is non-empty, then layers
// environment overrides on top.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	override(&cfg.Port, "PORT")
	override(&cfg.ProfileDB, "PROFILE_DB")
	override(&cfg.LogLevel, "LOG_LEVEL")
	override(&cfg.Oracle.BaseURL, "ORACLE_BASE_URL")
	override(&cfg.Oracle.Model, "ORACLE_MODEL")
	override(&cfg.Oracle.APIKey, "ORACLE_API_KEY")
	override(&cfg.ReaderProxyURL, "READER_PROXY_URL")
	override(&cfg.Browser.Remote, "BROWSER_REMOTE")
	override(&cfg.Auth.User, "AUTH_USER")
	override(&cfg.Auth.PasswordHash, "AUTH_PASSWORD_HASH")
	if os.Getenv("BROWSER_ENABLED") == "1" {
		cfg.Browser.Enabled = true
	}

	if cfg.Port == "" {
		cfg.Port = "8086"
	}
	if cfg.ProfileDB == "" {
		cfg.ProfileDB = "db/profiles.db"
	}
	if cfg.Auth.User == "" {
		cfg.Auth.User = "admin"
	}
	return cfg, nil
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
