package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from FILEDROP_* environment variables.
// Unset variables leave the current values untouched.
//
// Recognized variables:
//
//	FILEDROP_ADDRESS           HTTP bind address
//	FILEDROP_SECRET_KEY        JWT HMAC secret
//	FILEDROP_JWT_ISSUER        expected issuer claim
//	FILEDROP_JWT_AUDIENCE      expected audience claim
//	FILEDROP_S3_ACCESS_KEY     S3 access key
//	FILEDROP_S3_SECRET_KEY     S3 secret key
//	FILEDROP_S3_REGION         S3 region
//	FILEDROP_S3_ENDPOINT       S3 base endpoint
//	FILEDROP_CONTAINER         bucket name
//	FILEDROP_RATE_LIMIT        requests per second (float)
//	FILEDROP_SHUTDOWN_TIMEOUT  duration string, e.g. "5s"
func parseEnv(config *Config) {
	setFromEnv(&config.EndpointAddrHTTP, "FILEDROP_ADDRESS")
	setFromEnv(&config.SecretKey, "FILEDROP_SECRET_KEY")
	setFromEnv(&config.JWTIssuer, "FILEDROP_JWT_ISSUER")
	setFromEnv(&config.JWTAudience, "FILEDROP_JWT_AUDIENCE")
	setFromEnv(&config.S3AccessKey, "FILEDROP_S3_ACCESS_KEY")
	setFromEnv(&config.S3SecretKey, "FILEDROP_S3_SECRET_KEY")
	setFromEnv(&config.S3Region, "FILEDROP_S3_REGION")
	setFromEnv(&config.S3BaseEndpoint, "FILEDROP_S3_ENDPOINT")
	setFromEnv(&config.Container, "FILEDROP_CONTAINER")

	if v := os.Getenv("FILEDROP_RATE_LIMIT"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		config.RequestsPerSec = rate
	}

	if v := os.Getenv("FILEDROP_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.ShutdownTimeout = d
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
