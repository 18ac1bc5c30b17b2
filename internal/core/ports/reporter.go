package ports

import "go.trai.ch/fnspec/internal/core/domain"

// Reporter presents the outcome of loading a descriptor.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// Success reports a descriptor that loaded cleanly.
	Success(path string, spec *domain.DeploymentSpec, fingerprint string)
	// Failure reports a descriptor that failed to load.
	Failure(path string, err error)
}
