package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/skillswap/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string         gRPC bind address (e.g., ":50051")
//	-m string         ops HTTP bind address (health, metrics)
//	-d string         PostgreSQL DSN
//	-s string         JWT HMAC secret key
//	-t duration       per-request timeout
//	-i int            initial coin grant
//	-otp string       OTP delivery mode: inline or out-of-band
//	-u string         S3 root user
//	-p string         S3 root password
//	-b string         S3 bucket name
//	-g string         S3 region
//	-e string         S3 base endpoint
//	-l duration       statement URL validity
//	-n string         NATS URL
//	-o string         OTLP gRPC endpoint
//	-v string         log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-m", "-d", "-s", "-t", "-i", "-otp", "-u", "-p", "-b", "-g", "-e", "-l", "-n", "-o", "-v",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.EndpointAddrHTTP, "m", config.EndpointAddrHTTP, "address and port for health and metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.RequestTimeout, "t", config.RequestTimeout, "per-request timeout")
	fs.Int64Var(&config.InitialGrant, "i", config.InitialGrant, "coins granted on first sync")
	fs.StringVar(&config.OTPDelivery, "otp", config.OTPDelivery, "otp delivery: inline or out-of-band")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 statements bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.DurationVar(&config.StatementURLValidity, "l", config.StatementURLValidity, "statement download URL validity")

	fs.StringVar(&config.NATSURL, "n", config.NATSURL, "NATS URL")
	fs.StringVar(&config.OTLPEndpoint, "o", config.OTLPEndpoint, "OTLP gRPC endpoint")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
