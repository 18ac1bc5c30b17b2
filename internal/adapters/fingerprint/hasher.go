// Package fingerprint computes stable digests of deployment specs.
package fingerprint

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/fnspec/internal/core/domain"
	"go.trai.ch/fnspec/internal/core/ports"
)

var _ ports.Fingerprinter = (*Hasher)(nil)

// Hasher fingerprints deployment specs with xxhash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Compute returns a 16 character hex digest of spec.
// Package excludes are hashed as a set; plugins and events keep their order.
func (h *Hasher) Compute(spec *domain.DeploymentSpec) string {
	hasher := xxhash.New()

	writeFields(hasher, spec.Service)
	writeFields(hasher,
		spec.Provider.Name,
		spec.Provider.Stage,
		spec.Provider.Region,
		spec.Provider.Project,
		spec.Provider.CredentialsPath,
	)
	writeFields(hasher, spec.Plugins...)
	writeFields(hasher, slices.Sorted(slices.Values(spec.Package.Exclude))...)

	for _, name := range spec.FunctionNames() {
		fn := spec.Functions[name]
		hashFunction(hasher, &fn)
	}
	_, _ = hasher.Write([]byte{0})

	return fmt.Sprintf("%016x", hasher.Sum64())
}

func hashFunction(hasher *xxhash.Digest, fn *domain.FunctionSpec) {
	writeFields(hasher,
		fn.Name,
		strconv.Itoa(fn.MemorySizeMB),
		strconv.Itoa(fn.TimeoutSeconds),
		fn.Runtime,
		fn.Handler,
		fn.ServiceAccount,
	)
	hashMap(hasher, fn.Labels)

	for _, ev := range fn.Events {
		if topic, ok := ev.(domain.PubSubTopicEvent); ok {
			writeFields(hasher, string(topic.Kind()), topic.EventType, topic.Resource)
		}
	}
	_, _ = hasher.Write([]byte{0})

	hashMap(hasher, fn.Environment)
}

// hashMap hashes m in key order.
func hashMap(hasher *xxhash.Digest, m map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		_, _ = hasher.WriteString(m[k])
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

// writeFields writes each field followed by a separator, then a section separator.
func writeFields(hasher *xxhash.Digest, fields ...string) {
	for _, f := range fields {
		_, _ = hasher.WriteString(f)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}
