package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// Bootstrap manager created on startup when no user has this email
	BootstrapManagerEmail string `mapstructure:"bootstrap_manager_email"`
	BootstrapManagerName  string `mapstructure:"bootstrap_manager_name"`

	// Identity lookups made by the auth middleware are cached for this long
	IdentityCacheTTLSeconds int `mapstructure:"identity_cache_ttl_seconds"`

	// Storage
	StorageDriver string `mapstructure:"storage_driver"` // dynamodb | memory

	// AWS
	AWSRegion           string `mapstructure:"aws_region"`
	AWSAccessKeyID      string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string `mapstructure:"dynamodb_table_prefix"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Rate Limiting
	RateLimitRequestsPerMinute int `mapstructure:"rate_limit_requests_per_minute"`

	// Dashboard
	CriticalRepairThreshold int `mapstructure:"critical_repair_threshold"`
	RepairHealthCeiling     int `mapstructure:"repair_health_ceiling"`
	RecentRequestsLimit     int `mapstructure:"recent_requests_limit"`

	// Worker
	HealthCheckSchedule string `mapstructure:"health_check_schedule"`

	// Base Path
	BasePath string `mapstructure:"basePath"`

	Tables []string `mapstructure:"tables"`
}

const (
	StorageDriverDynamoDB = "dynamodb"
	StorageDriverMemory   = "memory"
)

// TableName returns the prefixed physical table name for a logical table
func (c *Config) TableName(name string) string {
	if c.DynamoDBTablePrefix == "" {
		return name
	}
	return c.DynamoDBTablePrefix + "_" + name
}
