// Package config handles configuration for the guardian service. Sources
// apply in order: defaults, JSON file (-c/-config), TOKENBRIDGE_*
// environment variables, command-line flags.
package config

import (
	"os"

	"github.com/dmitrijs2005/tokenbridge/internal/secretsource"
)

// Config holds runtime settings for the guardian. The signing secret must
// be byte-identical to the issuer's.
type Config struct {
	EndpointAddrHTTP string
	EndpointAddrGRPC string
	SecretKey        string
	SecretFile       string
	SecretS3Key      string
	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8081"
	c.EndpointAddrGRPC = ":50051"
	c.S3Bucket = "vault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

func (c *Config) SecretSpec() secretsource.Spec {
	return secretsource.Spec{
		Literal: c.SecretKey,
		File:    c.SecretFile,
		S3Key:   c.SecretS3Key,
		S3: secretsource.S3Settings{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		},
	}
}

// LoadConfig builds a Config from os.Args.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
