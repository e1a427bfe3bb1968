package common

import (
	"os"
	"strconv"
)

var (
	// ProjectID is the GCP project hosting the PlatForge master resources.
	ProjectID string

	// Production is true when running against real cloud accounts.
	Production bool

	// IsLocalhost is true when running outside a managed runtime.
	IsLocalhost bool
)

func init() {
	ProjectID = GetEnv("PLATFORGE_PROJECT_ID", "")
	IsLocalhost = GetEnv("GAE_SERVICE", "") == ""
	Production, _ = strconv.ParseBool(GetEnv("PLATFORGE_PRODUCTION", "false"))
}

// GetEnv returns the value of the environment variable named by key,
// or fallback when the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

// Bool returns a pointer to the given bool value.
func Bool(v bool) *bool {
	return &v
}

// String returns a pointer to the given string value.
func String(v string) *string {
	return &v
}
