// Package config handles configuration for the filedrop server, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the filedrop server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - SecretKey: HMAC secret for verifying JWTs (HS256). Do not use test defaults in prod.
//   - JWTIssuer / JWTAudience: expected issuer and audience claims.
//   - S3AccessKey / S3SecretKey: credentials for the S3-compatible backend.
//   - S3Region / S3BaseEndpoint: object storage connection settings.
//   - Container: bucket holding all uploaded objects.
//   - RequestsPerSec: request rate limit; zero or negative disables limiting.
//   - ShutdownTimeout: grace period for draining in-flight requests on stop.
type Config struct {
	EndpointAddrHTTP string
	SecretKey        string
	JWTIssuer        string
	JWTAudience      string
	S3AccessKey      string
	S3SecretKey      string
	S3Region         string
	S3BaseEndpoint   string
	Container        string
	RequestsPerSec   float64
	ShutdownTimeout  time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.SecretKey = "secretKey"
	c.JWTIssuer = "filedrop"
	c.JWTAudience = "filedrop-api"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.Container = "file-uploads"
	c.RequestsPerSec = 0
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
