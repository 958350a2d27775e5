package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig lists the settings that may come from the environment. Seed
// users are file-only.
type envConfig struct {
	EndpointAddrHTTP      string        `env:"TOKENBRIDGE_ISSUER_ADDR"`
	DatabaseDSN           string        `env:"TOKENBRIDGE_DATABASE_DSN"`
	SecretKey             string        `env:"TOKENBRIDGE_SECRET_KEY"`
	SecretFile            string        `env:"TOKENBRIDGE_SECRET_FILE"`
	SecretS3Key           string        `env:"TOKENBRIDGE_SECRET_S3_KEY"`
	TokenValidityDuration time.Duration `env:"TOKENBRIDGE_TOKEN_TTL"`
	MaxConcurrentHashes   int           `env:"TOKENBRIDGE_MAX_CONCURRENT_HASHES"`
	S3RootUser            string        `env:"TOKENBRIDGE_S3_ROOT_USER"`
	S3RootPassword        string        `env:"TOKENBRIDGE_S3_ROOT_PASSWORD"`
	S3Bucket              string        `env:"TOKENBRIDGE_S3_BUCKET"`
	S3Region              string        `env:"TOKENBRIDGE_S3_REGION"`
	S3BaseEndpoint        string        `env:"TOKENBRIDGE_S3_BASE_ENDPOINT"`
}

// parseEnv overlays TOKENBRIDGE_* variables; unset variables leave the
// field alone.
func parseEnv(config *Config) error {
	e := envConfig{
		EndpointAddrHTTP:      config.EndpointAddrHTTP,
		DatabaseDSN:           config.DatabaseDSN,
		SecretKey:             config.SecretKey,
		SecretFile:            config.SecretFile,
		SecretS3Key:           config.SecretS3Key,
		TokenValidityDuration: config.TokenValidityDuration,
		MaxConcurrentHashes:   config.MaxConcurrentHashes,
		S3RootUser:            config.S3RootUser,
		S3RootPassword:        config.S3RootPassword,
		S3Bucket:              config.S3Bucket,
		S3Region:              config.S3Region,
		S3BaseEndpoint:        config.S3BaseEndpoint,
	}
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	config.EndpointAddrHTTP = e.EndpointAddrHTTP
	config.DatabaseDSN = e.DatabaseDSN
	config.SecretKey = e.SecretKey
	config.SecretFile = e.SecretFile
	config.SecretS3Key = e.SecretS3Key
	config.TokenValidityDuration = e.TokenValidityDuration
	config.MaxConcurrentHashes = e.MaxConcurrentHashes
	config.S3RootUser = e.S3RootUser
	config.S3RootPassword = e.S3RootPassword
	config.S3Bucket = e.S3Bucket
	config.S3Region = e.S3Region
	config.S3BaseEndpoint = e.S3BaseEndpoint
	return nil
}
