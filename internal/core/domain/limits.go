package domain

import "regexp"

const (
	// MaxTimeoutSeconds is the longest execution time the provider accepts for a function.
	MaxTimeoutSeconds = 540

	// TimeoutUnitSeconds is the only duration unit accepted for function timeouts.
	TimeoutUnitSeconds = "s"
)

// AllowedMemorySizes lists the memory sizes, in MB, the provider can allocate to a function.
var AllowedMemorySizes = []int{128, 256, 512, 1024, 2048, 4096, 8192}

// RuntimePattern matches runtime tags such as python37, nodejs10 or go111.
var RuntimePattern = regexp.MustCompile(`^[a-z]+[0-9]+$`)

// IsAllowedMemorySize reports whether mb is one of AllowedMemorySizes.
func IsAllowedMemorySize(mb int) bool {
	for _, allowed := range AllowedMemorySizes {
		if allowed == mb {
			return true
		}
	}
	return false
}
