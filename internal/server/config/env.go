package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/skillswap/internal/flagx"
)

const envPrefix = "SKILLSWAP_"

// parseEnv overlays SKILLSWAP_* variables. When -env-file is given the file
// is loaded first; variables already present in the process environment win
// over the file. Malformed numeric or duration values panic, like a bad
// config file does.
func parseEnv(config *Config) {
	if f := flagx.EnvFileFlags(); f != "" {
		if err := godotenv.Load(f); err != nil {
			panic(err)
		}
	}

	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.RequestTimeout, "REQUEST_TIMEOUT")
	envInt64(&config.InitialGrant, "INITIAL_GRANT")
	envString(&config.OTPDelivery, "OTP_DELIVERY")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envDuration(&config.StatementURLValidity, "STATEMENT_URL_VALIDITY")
	envString(&config.NATSURL, "NATS_URL")
	envString(&config.OTLPEndpoint, "OTLP_ENDPOINT")
	envString(&config.LogLevel, "LOG_LEVEL")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func envInt64(dst *int64, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		panic(err)
	}
	*dst = n
}
