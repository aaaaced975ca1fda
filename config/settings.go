package config

import (
	"strings"
	"sync"
)

// Accepted environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const databaseURLScheme = "postgres://"

// Settings holds per-pharmacy runtime settings. Setters validate their
// input and silently retain the previous value when given something
// invalid; nothing here returns an error.
type Settings struct {
	mu           sync.Mutex
	pharmacyName string
	environment  string
	databaseURL  string
	testMode     bool
}

// NewSettings creates a settings holder with development defaults
func NewSettings() *Settings {
	return &Settings{
		environment: EnvDevelopment,
	}
}

// PharmacyName returns the configured pharmacy name
func (s *Settings) PharmacyName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pharmacyName
}

// SetPharmacyName sets the pharmacy name; blank names are ignored
func (s *Settings) SetPharmacyName(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pharmacyName = name
}

// Environment returns the configured environment
func (s *Settings) Environment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.environment
}

// SetEnvironment accepts only development or production; anything else
// is ignored
func (s *Settings) SetEnvironment(env string) {
	if env != EnvDevelopment && env != EnvProduction {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environment = env
}

// DatabaseURL returns the configured database URL
func (s *Settings) DatabaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.databaseURL
}

// SetDatabaseURL accepts only postgres:// URLs; anything else is ignored
func (s *Settings) SetDatabaseURL(url string) {
	if !strings.HasPrefix(url, databaseURLScheme) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.databaseURL = url
}

// TestMode returns whether test mode is enabled
func (s *Settings) TestMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.testMode
}

// SetTestMode toggles test mode
func (s *Settings) SetTestMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.testMode = on
}
