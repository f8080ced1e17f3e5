// Package env provides helpers for reading process environment variables.
package env

import (
	"os"
	"strings"
)

// LookupEnv behaves the same as `os.LookupEnv`, but additionally trims spaces
// in the value and treats a present-but-blank variable as absent.
func LookupEnv(key string) (string, bool) {
	if key == "" {
		return "", false
	}

	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)

	isPresent := ok && val != ""

	return val, isPresent
}
