package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays TOKENBRIDGE_* variables. The secret and S3 variables
// are shared with the issuer so one environment can drive both services.
func parseEnv(config *Config) error {
	e := struct {
		EndpointAddrHTTP string `env:"TOKENBRIDGE_GUARDIAN_ADDR"`
		EndpointAddrGRPC string `env:"TOKENBRIDGE_GUARDIAN_GRPC_ADDR"`
		SecretKey        string `env:"TOKENBRIDGE_SECRET_KEY"`
		SecretFile       string `env:"TOKENBRIDGE_SECRET_FILE"`
		SecretS3Key      string `env:"TOKENBRIDGE_SECRET_S3_KEY"`
		S3RootUser       string `env:"TOKENBRIDGE_S3_ROOT_USER"`
		S3RootPassword   string `env:"TOKENBRIDGE_S3_ROOT_PASSWORD"`
		S3Bucket         string `env:"TOKENBRIDGE_S3_BUCKET"`
		S3Region         string `env:"TOKENBRIDGE_S3_REGION"`
		S3BaseEndpoint   string `env:"TOKENBRIDGE_S3_BASE_ENDPOINT"`
	}(*config)

	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	*config = Config(e)
	return nil
}
