package config

import (
	"strings"
	"sync"
)

// The process-wide routing API key. Binaries set it once during startup,
// before any batch runs; batches only read it.
var (
	credMu        sync.RWMutex
	defaultAPIKey string
)

// SetDefaultAPIKey installs the process-wide routing API key.
func SetDefaultAPIKey(key string) {
	credMu.Lock()
	defer credMu.Unlock()
	defaultAPIKey = strings.TrimSpace(key)
}

// DefaultAPIKey returns the process-wide routing API key, or "".
func DefaultAPIKey() string {
	credMu.RLock()
	defer credMu.RUnlock()
	return defaultAPIKey
}

// ResolveAPIKey prefers an explicit key over the process-wide one.
// ok is false when neither is set.
func ResolveAPIKey(explicit string) (key string, ok bool) {
	if k := strings.TrimSpace(explicit); k != "" {
		return k, true
	}
	if k := DefaultAPIKey(); k != "" {
		return k, true
	}
	return "", false
}
