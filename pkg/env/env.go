// Package env reads process environment variables before the typed
// config is available.
package env

import "os"

// Get returns the variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
