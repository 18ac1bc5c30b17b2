// Package config provides the deployment descriptor loader for fnspec.
package config

import (
	"fmt"
	"path/filepath"

	"go.trai.ch/fnspec/internal/core/domain"
	"go.trai.ch/fnspec/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Load parses document, validates it and returns the typed deployment spec.
// References such as ${NAME} are resolved from overrides; a nil map leaves the text untouched.
// Load has no side effects and is safe for concurrent use.
func Load(document string, overrides map[string]string, opts ...ports.LoadOption) (*domain.DeploymentSpec, error) {
	fv, err := newFieldValidator()
	if err != nil {
		return nil, err
	}
	return load(fv, document, overrides, ports.NewLoadSettings(opts...))
}

func load(
	fv *fieldValidator,
	document string,
	overrides map[string]string,
	settings ports.LoadSettings,
) (*domain.DeploymentSpec, error) {
	text, err := substitute(document, overrides, settings.UnsetReference)
	if err != nil {
		return nil, err
	}

	root, err := parse(text)
	if err != nil {
		return nil, err
	}

	p := &projector{settings: settings}
	desc, err := p.project(root)
	if err != nil {
		return nil, err
	}

	if err := fv.validate(desc); err != nil {
		return nil, err
	}

	if err := checkConsistency(desc); err != nil {
		return nil, err
	}

	return buildSpec(desc), nil
}

// Loader implements ports.ConfigLoader on top of a FileSystem.
type Loader struct {
	Logger    ports.Logger
	FS        FileSystem
	validator *fieldValidator
}

// NewLoader creates a new Loader reading from the operating system's filesystem.
func NewLoader(logger ports.Logger) (*Loader, error) {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading through fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) (*Loader, error) {
	fv, err := newFieldValidator()
	if err != nil {
		return nil, err
	}
	return &Loader{Logger: logger, FS: fsys, validator: fv}, nil
}

// Load validates document. Unknown keys skipped in non-strict mode and references to unset names are logged as warnings.
func (l *Loader) Load(
	document string,
	overrides map[string]string,
	opts ...ports.LoadOption,
) (*domain.DeploymentSpec, error) {
	settings := ports.NewLoadSettings(opts...)

	hook := settings.IgnoredKey
	settings.IgnoredKey = func(path string) {
		l.Logger.Warn(fmt.Sprintf("ignoring unknown key %q", path))
		if hook != nil {
			hook(path)
		}
	}

	unset := settings.UnsetReference
	settings.UnsetReference = func(name string) {
		l.Logger.Warn(fmt.Sprintf("reference %q is not set", name))
		if unset != nil {
			unset(name)
		}
	}

	return load(l.validator, document, overrides, settings)
}

// LoadFile reads the descriptor at path and loads it.
func (l *Loader) LoadFile(
	path string,
	overrides map[string]string,
	opts ...ports.LoadOption,
) (*domain.DeploymentSpec, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		err = zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
		return nil, zerr.With(err, "path", path)
	}

	spec, err := l.Load(string(data), overrides, opts...)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return spec, nil
}

// Discover walks up from cwd and returns the nearest serverless.yml or serverless.yaml.
func (l *Loader) Discover(cwd string) (string, error) {
	currentDir := cwd
	for {
		for _, name := range domain.DescriptorFileNames() {
			candidate := filepath.Join(currentDir, name)
			if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func buildSpec(desc *Descriptor) *domain.DeploymentSpec {
	spec := &domain.DeploymentSpec{
		Service: desc.Service,
		Provider: domain.ProviderSpec{
			Name:            desc.Provider.Name,
			Stage:           desc.Provider.Stage,
			Region:          desc.Provider.Region,
			Project:         desc.Provider.Project,
			CredentialsPath: desc.Provider.Credentials,
		},
		Plugins:   desc.Plugins,
		Package:   domain.PackageSpec{Exclude: desc.Package.Exclude},
		Functions: make(map[string]domain.FunctionSpec, len(desc.Functions)),
	}

	for _, fn := range desc.Functions {
		events := make([]domain.Event, 0, len(fn.Events))
		for _, ev := range fn.Events {
			events = append(events, domain.PubSubTopicEvent{
				EventType: ev.Event.EventType,
				Resource:  ev.Event.Resource,
			})
		}

		spec.Functions[fn.Name] = domain.FunctionSpec{
			Name:           fn.Name,
			MemorySizeMB:   *fn.MemorySize,
			TimeoutSeconds: *fn.Timeout,
			Runtime:        fn.Runtime,
			Handler:        fn.Handler,
			ServiceAccount: fn.ServiceAccount,
			Labels:         fn.Labels,
			Events:         events,
			Environment:    fn.Environment,
		}
	}

	return spec
}
