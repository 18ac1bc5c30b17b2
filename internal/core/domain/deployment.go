package domain

import (
	"maps"
	"slices"
)

// DeploymentSpec is the validated, typed form of a deployment descriptor.
// Values are built once by the config loader and must be treated as read-only.
type DeploymentSpec struct {
	Service   string
	Provider  ProviderSpec
	Plugins   []string
	Package   PackageSpec
	Functions map[string]FunctionSpec
}

// ProviderSpec describes the cloud provider the functions are deployed to.
type ProviderSpec struct {
	Name   string
	Stage  string
	Region string
	// Project is the provider project every topic resource must belong to.
	Project string
	// CredentialsPath is taken verbatim; its existence is not checked.
	CredentialsPath string
}

// PackageSpec holds packaging rules.
type PackageSpec struct {
	// Exclude keeps the declaration order so rendered output is reproducible.
	Exclude []string
}

// FunctionSpec describes one deployable function.
type FunctionSpec struct {
	Name           string
	MemorySizeMB   int
	TimeoutSeconds int
	Runtime        string
	Handler        string
	ServiceAccount string
	Labels         map[string]string
	Events         []Event
	// Environment values are opaque; JSON-encoded values are not decoded.
	Environment map[string]string
}

// FunctionNames returns the names of all functions in sorted order.
func (d *DeploymentSpec) FunctionNames() []string {
	return slices.Sorted(maps.Keys(d.Functions))
}

// Function returns the function with the given name.
func (d *DeploymentSpec) Function(name string) (FunctionSpec, bool) {
	fn, ok := d.Functions[name]
	return fn, ok
}

// Topics returns the distinct topic resources referenced by all functions, sorted.
func (d *DeploymentSpec) Topics() []string {
	seen := make(map[string]struct{})
	for _, fn := range d.Functions {
		for _, ev := range fn.Events {
			if topic, ok := ev.(PubSubTopicEvent); ok {
				seen[topic.Resource] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// MissingEnvironment returns the keys, in the given order, that the function does not declare.
func (f *FunctionSpec) MissingEnvironment(keys ...string) []string {
	var missing []string
	for _, key := range keys {
		if _, ok := f.Environment[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
