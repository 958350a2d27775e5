package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/tokenbridge/internal/flagx"
	"github.com/dmitrijs2005/tokenbridge/internal/timex"
)

// JsonConfig is the on-disk shape of the issuer config file. Durations
// accept "24h" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	SecretFile            string         `json:"secret_file"`
	SecretS3Key           string         `json:"secret_s3_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	MaxConcurrentHashes   int            `json:"max_concurrent_hashes"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	SeedUsers             []SeedUser     `json:"seed_users"`
}

// parseJson overlays the file named by -c/-config, if any. Only fields
// present with a non-zero value replace what is already in config.
func parseJson(config *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SecretFile, c.SecretFile)
	setString(&config.SecretS3Key, c.SecretS3Key)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.MaxConcurrentHashes != 0 {
		config.MaxConcurrentHashes = c.MaxConcurrentHashes
	}
	if len(c.SeedUsers) > 0 {
		config.SeedUsers = c.SeedUsers
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
