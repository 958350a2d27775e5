package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/tokenbridge/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":8081")
//	-r string   gRPC bind address (e.g. ":50051")
//	-s string   signing secret (literal, at least 64 bytes)
//	-f string   file holding the signing secret
//	-k string   S3 object key holding the signing secret
//	-u -p -b -g -e   S3 user, password, bucket, region, endpoint
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-r", "-s", "-f", "-k", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("guardian", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "r", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "signing secret")
	fs.StringVar(&config.SecretFile, "f", config.SecretFile, "signing secret file")
	fs.StringVar(&config.SecretS3Key, "k", config.SecretS3Key, "signing secret S3 object key")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
