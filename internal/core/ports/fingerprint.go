package ports

import "go.trai.ch/fnspec/internal/core/domain"

// Fingerprinter computes a stable digest of a deployment spec.
//
//go:generate mockgen -source=fingerprint.go -destination=mocks/mock_fingerprint.go -package=mocks
type Fingerprinter interface {
	// Compute returns a hex digest that is equal for semantically equal specs.
	Compute(spec *domain.DeploymentSpec) string
}
