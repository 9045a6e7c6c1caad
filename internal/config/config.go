package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Provider string
	Region   string

	// Instances is the ordered list of DB instance identifiers to manage.
	Instances []string

	// Restore network placement
	SubnetGroup     string
	SecurityGroupID string

	DryRun            bool
	SkipFinalSnapshot bool
	DeleteConcurrency int

	RDS RDSConfig

	HTTPAddr            string
	HTTPShutdownTimeout time.Duration
}

type RDSConfig struct {
	Endpoint string // optional base endpoint override, e.g. LocalStack
}

// ConfigurationError reports a missing or invalid setting. It is fatal at
// startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "config: " + e.Key + ": " + e.Reason
}

// Load reads config from environment variables, applies defaults and validates.
func Load() (Config, error) {
	get := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return def
	}

	parseInt := func(key string, def int) int {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				return n
			}
		}
		return def
	}

	parseDur := func(key string, def time.Duration) time.Duration {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			if d, err := time.ParseDuration(v); err == nil {
				return d
			}
		}
		return def
	}

	parseBool := func(key string, def bool) bool {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			switch strings.ToLower(v) {
			case "1", "true", "yes", "y", "on":
				return true
			case "0", "false", "no", "n", "off":
				return false
			}
		}
		return def
	}

	raw, ok := os.LookupEnv("DB")
	if !ok {
		return Config{}, &ConfigurationError{Key: "DB", Reason: "not set (comma-separated DB instance identifiers)"}
	}

	// The misspelled variable is what existing deployments export.
	sg := strings.TrimSpace(get("VPC_SECURITY_GROUP_ID", ""))
	if sg == "" {
		sg = strings.TrimSpace(get("VPC_SEGURITY_GROUP_ID", ""))
	}

	region := strings.TrimSpace(get("AWS_REGION", ""))
	if region == "" {
		region = "us-east-1"
	}
	prov := strings.ToLower(strings.TrimSpace(get("PROVIDER", "")))
	if prov == "" {
		prov = "rds"
	}

	cfg := Config{
		Provider:  prov,
		Region:    region,
		Instances: SplitInstances(raw),

		SubnetGroup:     strings.TrimSpace(get("DB_SUBNET_GROUP_NAME", "")),
		SecurityGroupID: sg,

		DryRun:            parseBool("DEBUG", false),
		SkipFinalSnapshot: parseBool("DOWN_SKIP_FINAL_SNAPSHOT", false),
		DeleteConcurrency: parseInt("DELETE_CONCURRENCY", 0),

		RDS: RDSConfig{
			Endpoint: strings.TrimSpace(get("AWS_RDS_ENDPOINT", "")),
		},

		HTTPAddr:            get("HTTP_ADDR", ":3000"),
		HTTPShutdownTimeout: parseDur("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SplitInstances parses a comma-separated identifier list, dropping blanks.
// Order is preserved; it is the processing order of every workflow.
func SplitInstances(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validate checks provider-specific requirements.
func (c *Config) validate() error {
	if len(c.Instances) == 0 {
		return &ConfigurationError{Key: "DB", Reason: "no instance identifiers"}
	}
	switch c.Provider {
	case "rds":
	default:
		return &ConfigurationError{Key: "PROVIDER", Reason: "unsupported provider " + c.Provider}
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		c.HTTPAddr = ":3000"
	}
	return nil
}

// SecurityGroupIDs returns the restore security groups (zero or one entry).
func (c Config) SecurityGroupIDs() []string {
	if c.SecurityGroupID == "" {
		return nil
	}
	return []string{c.SecurityGroupID}
}
