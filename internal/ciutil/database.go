package ciutil

import (
	"log/slog"
	"time"
)

// testDatabaseURLVars lists the accepted test database variables, preferred first.
var testDatabaseURLVars = []string{EnvItemsTestDBURL, EnvDatabaseURL, EnvItemsDatabaseURL}

// GetTestDatabaseURL returns a database URL for integration tests, checking
// ITEMS_TEST_DB_URL, then DATABASE_URL, then ITEMS_DATABASE_URL.
// It returns an empty string when none is set.
func GetTestDatabaseURL(logger *slog.Logger) string {
	dbURL := GetEnvWithFallbacks(testDatabaseURLVars, "", logger)
	if dbURL == "" && logger != nil {
		logger.Info("no database URL environment variables found", "checked_vars", testDatabaseURLVars)
	}
	return dbURL
}

// HealthCheckConfig controls how patiently tests wait for the database.
type HealthCheckConfig struct {
	MaxRetries    int
	RetryInterval time.Duration
}

// DefaultHealthCheckConfig suits a local database that is either up or not.
func DefaultHealthCheckConfig() HealthCheckConfig {
	return HealthCheckConfig{MaxRetries: 1, RetryInterval: 0}
}

// CIHealthCheckConfig allows for a database service container that is still starting.
func CIHealthCheckConfig() HealthCheckConfig {
	return HealthCheckConfig{MaxRetries: 10, RetryInterval: 2 * time.Second}
}

// HealthCheckConfigForEnvironment picks the CI or local configuration.
func HealthCheckConfigForEnvironment() HealthCheckConfig {
	if IsCI() {
		return CIHealthCheckConfig()
	}
	return DefaultHealthCheckConfig()
}
