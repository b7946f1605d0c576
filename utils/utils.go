package utils

import (
	"encoding/json"
	"fmt"
	"maintrack-backend/models"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-super-secret-jwt-key-change-this-in-production"

// DefaultTables are the logical tables the service needs
var DefaultTables = []string{"requests", "equipment", "users", "teams", "workcenters", "categories"}

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper.
// A .env file in the working directory is loaded first; variables already
// present in the environment win.
func Load() (*models.Config, error) {
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	// Nested config files are flattened onto the flat keys
	if v.IsSet("app") {
		flattenNestedConfig(v)
	}

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if v.IsSet("jwt.expires_in") {
		expiresStr := v.GetString("jwt.expires_in")
		if expiresStr != "" {
			expires, err := time.ParseDuration(expiresStr)
			if err != nil {
				return nil, fmt.Errorf("invalid JWT expires_in format: %w", err)
			}
			config.JWTExpiresIn = expires
		}
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "MainTrack Backend")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8081")

	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_expires_in", 30*time.Minute)
	v.SetDefault("identity_cache_ttl_seconds", 30)
	v.SetDefault("bootstrap_manager_email", "")
	v.SetDefault("bootstrap_manager_name", "Administrator")

	v.SetDefault("storage_driver", models.StorageDriverDynamoDB)

	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "dev")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("cors_origins", []string{"*"})

	v.SetDefault("rate_limit_requests_per_minute", 100)

	v.SetDefault("critical_repair_threshold", 3)
	v.SetDefault("repair_health_ceiling", 5)
	v.SetDefault("recent_requests_limit", 10)

	v.SetDefault("health_check_schedule", "@every 5m")

	v.SetDefault("basePath", "/api/v1")

	v.SetDefault("tables", DefaultTables)
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.JWTSecret == defaultJWTSecret && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	switch c.StorageDriver {
	case models.StorageDriverDynamoDB, models.StorageDriverMemory:
	default:
		return fmt.Errorf("storage_driver must be %q or %q, got %q",
			models.StorageDriverDynamoDB, models.StorageDriverMemory, c.StorageDriver)
	}

	if c.CriticalRepairThreshold <= 0 || c.RepairHealthCeiling <= 0 {
		return fmt.Errorf("critical_repair_threshold and repair_health_ceiling must be positive")
	}
	if c.CriticalRepairThreshold > c.RepairHealthCeiling {
		return fmt.Errorf("critical_repair_threshold (%d) exceeds repair_health_ceiling (%d)",
			c.CriticalRepairThreshold, c.RepairHealthCeiling)
	}

	if c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		fmt.Println("No AWS credentials provided, assuming IAM role is used")
	}

	return nil
}

// flattenNestedConfig maps nested sections of a config file onto flat keys
func flattenNestedConfig(v *viper.Viper) {
	mapping := map[string]string{
		"app.name":                     "app_name",
		"app.version":                  "app_version",
		"app.env":                      "app_env",
		"app.host":                     "app_host",
		"app.port":                     "app_port",
		"jwt.secret":                   "jwt_secret",
		"storage.driver":               "storage_driver",
		"aws.region":                   "aws_region",
		"aws.access_key_id":            "aws_access_key_id",
		"aws.secret_access_key":        "aws_secret_access_key",
		"aws.dynamodb_endpoint":        "dynamodb_endpoint",
		"aws.dynamodb_table_prefix":    "dynamodb_table_prefix",
		"logging.level":                "log_level",
		"logging.format":               "log_format",
		"worker.health_check_schedule": "health_check_schedule",
	}
	for nested, flat := range mapping {
		if v.IsSet(nested) {
			v.Set(flat, v.GetString(nested))
		}
	}

	intMapping := map[string]string{
		"rate_limit.requests_per_minute":      "rate_limit_requests_per_minute",
		"jwt.identity_cache_ttl_seconds":      "identity_cache_ttl_seconds",
		"dashboard.critical_repair_threshold": "critical_repair_threshold",
		"dashboard.repair_health_ceiling":     "repair_health_ceiling",
		"dashboard.recent_requests_limit":     "recent_requests_limit",
	}
	for nested, flat := range intMapping {
		if v.IsSet(nested) {
			v.Set(flat, v.GetInt(nested))
		}
	}

	if v.IsSet("cors.origins") {
		v.Set("cors_origins", v.GetStringSlice("cors.origins"))
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateID returns a prefixed identifier such as "req_<uuid>"
func GenerateID(prefix string) string {
	return prefix + "_" + uuid.New().String()
}
