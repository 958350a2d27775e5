// Package config holds settings for the tokenbridge CLI: where the issuer
// and guardian live and where the last token is kept.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrijs2005/tokenbridge/internal/flagx"
	"github.com/dmitrijs2005/tokenbridge/internal/timex"
)

type Config struct {
	IssuerURL      string        `env:"TOKENBRIDGE_ISSUER_URL"`
	GuardianURL    string        `env:"TOKENBRIDGE_GUARDIAN_URL"`
	TokenFile      string        `env:"TOKENBRIDGE_TOKEN_FILE"`
	RequestTimeout time.Duration `env:"TOKENBRIDGE_REQUEST_TIMEOUT"`
}

type JsonConfig struct {
	IssuerURL      string         `json:"issuer_url"`
	GuardianURL    string         `json:"guardian_url"`
	TokenFile      string         `json:"token_file"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// LoadDefaults points at local services and keeps the token under the
// user's home directory.
func (c *Config) LoadDefaults() {
	c.IssuerURL = "http://127.0.0.1:8080"
	c.GuardianURL = "http://127.0.0.1:8081"
	c.TokenFile = defaultTokenFile()
	c.RequestTimeout = 10 * time.Second
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tokenbridge", "token")
	}
	return filepath.Join(home, ".tokenbridge", "token")
}

// Load applies defaults, the JSON file named by -c/-config, TOKENBRIDGE_*
// variables and finally the leading flags of args. It returns what follows
// the flags: the command and its arguments.
//
//	-c string   JSON config file
//	-i string   issuer base URL
//	-g string   guardian base URL
//	-t string   token file
//	-w int      request timeout, seconds
func Load(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.JsonConfigFlags(args); path != "" {
		if err := parseJson(cfg, path); err != nil {
			return nil, nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("tokenbridge", flag.ContinueOnError)
	var jsonPath string
	fs.StringVar(&jsonPath, "c", "", "config file")
	fs.StringVar(&jsonPath, "config", "", "config file")
	fs.StringVar(&cfg.IssuerURL, "i", cfg.IssuerURL, "issuer base URL")
	fs.StringVar(&cfg.GuardianURL, "g", cfg.GuardianURL, "guardian base URL")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "token file")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parse flags: %w", err)
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "w" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})

	return cfg, fs.Args(), nil
}

func parseJson(cfg *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.IssuerURL != "" {
		cfg.IssuerURL = c.IssuerURL
	}
	if c.GuardianURL != "" {
		cfg.GuardianURL = c.GuardianURL
	}
	if c.TokenFile != "" {
		cfg.TokenFile = c.TokenFile
	}
	if c.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = c.RequestTimeout.Duration
	}
	return nil
}
