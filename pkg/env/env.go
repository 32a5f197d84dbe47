package env

import "os"

// Get returns the value of the given environment variable or a fallback.
// Keys are resolved with the STOREFRONT_ prefix first so deploys can scope
// overrides without clobbering shared variables.
func Get(key, fallback string) string {
	if val := os.Getenv("STOREFRONT_" + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
