package ports

import "go.trai.ch/fnspec/internal/core/domain"

// LoadSettings controls how a descriptor is loaded.
type LoadSettings struct {
	// Strict rejects unknown keys instead of ignoring them.
	Strict bool
	// IgnoredKey is called with the path of every unknown key skipped in non-strict mode.
	IgnoredKey func(path string)
	// UnsetReference is called with every ${NAME} reference that resolves to nothing.
	UnsetReference func(name string)
}

// LoadOption configures LoadSettings.
type LoadOption func(*LoadSettings)

// WithStrict makes unknown keys fail the load.
func WithStrict() LoadOption {
	return func(s *LoadSettings) {
		s.Strict = true
	}
}

// WithIgnoredKeyHook registers fn to observe unknown keys skipped in non-strict mode.
func WithIgnoredKeyHook(fn func(path string)) LoadOption {
	return func(s *LoadSettings) {
		s.IgnoredKey = fn
	}
}

// WithUnsetReferenceHook registers fn to observe references to names missing from the overrides.
func WithUnsetReferenceHook(fn func(name string)) LoadOption {
	return func(s *LoadSettings) {
		s.UnsetReference = fn
	}
}

// NewLoadSettings applies opts over the defaults.
func NewLoadSettings(opts ...LoadOption) LoadSettings {
	var s LoadSettings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// ConfigLoader defines the interface for loading deployment descriptors.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load parses and validates document, substituting ${NAME} references from overrides.
	Load(document string, overrides map[string]string, opts ...LoadOption) (*domain.DeploymentSpec, error)

	// LoadFile reads the descriptor at path and loads it like Load.
	LoadFile(path string, overrides map[string]string, opts ...LoadOption) (*domain.DeploymentSpec, error)

	// Discover walks up from cwd and returns the path of the nearest descriptor.
	Discover(cwd string) (string, error)
}
