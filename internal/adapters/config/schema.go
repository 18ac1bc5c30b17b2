package config

import (
	"strconv"
	"strings"

	"go.trai.ch/fnspec/internal/core/domain"
	"go.trai.ch/fnspec/internal/core/ports"
)

// Descriptor is the schema-shaped form of a deployment descriptor, before field validation.
type Descriptor struct {
	Service   string         `yaml:"service" validate:"required"`
	Provider  ProviderDTO    `yaml:"provider"`
	Plugins   []string       `yaml:"plugins" validate:"dive,required"`
	Package   PackageDTO     `yaml:"package"`
	Functions []*FunctionDTO `yaml:"functions" validate:"-"`
}

// ProviderDTO represents the provider section.
type ProviderDTO struct {
	Name        string `yaml:"name" validate:"required"`
	Stage       string `yaml:"stage"`
	Region      string `yaml:"region"`
	Project     string `yaml:"project" validate:"required,project_id"`
	Credentials string `yaml:"credentials"`
}

// PackageDTO represents the package section.
type PackageDTO struct {
	Exclude []string `yaml:"exclude" validate:"unique,dive,required,glob"`
}

// FunctionDTO represents one entry of the functions mapping.
type FunctionDTO struct {
	Name           string            `yaml:"-" validate:"-"`
	MemorySize     *int              `yaml:"memorySize" validate:"required,memory_size"`
	Timeout        *int              `yaml:"timeout" validate:"required,gt=0,lte=540"`
	Runtime        string            `yaml:"runtime" validate:"required,runtime"`
	Handler        string            `yaml:"handler" validate:"required"`
	ServiceAccount string            `yaml:"serviceAccount" validate:"omitempty,email"`
	Labels         map[string]string `yaml:"labels" validate:"dive,keys,required,endkeys"`
	Events         []EventDTO        `yaml:"events" validate:"required,min=1,dive"`
	Environment    map[string]string `yaml:"environment" validate:"dive,keys,required,endkeys"`
}

// EventDTO wraps the single event variant supported by the descriptor.
type EventDTO struct {
	Event *PubSubEventDTO `yaml:"event" validate:"required"`
}

// PubSubEventDTO represents a topic trigger.
type PubSubEventDTO struct {
	EventType string `yaml:"eventType" validate:"required"`
	Resource  string `yaml:"resource" validate:"required,topic_path"`
}

// projector walks the generic tree into a Descriptor, coercing scalars on the way.
type projector struct {
	settings ports.LoadSettings
}

func (p *projector) project(root *Value) (*Descriptor, error) {
	if root.Kind != KindMap {
		return nil, &domain.SchemaError{Expected: "a mapping", Actual: root.Describe()}
	}

	desc := &Descriptor{}
	for _, key := range root.Keys {
		child := root.Map[key]

		var err error
		switch key {
		case "service":
			desc.Service, err = p.str(child, key)
		case "provider":
			err = p.provider(child, key, &desc.Provider)
		case "plugins":
			desc.Plugins, err = p.stringList(child, key)
		case "package":
			err = p.pkg(child, key, &desc.Package)
		case "functions":
			desc.Functions, err = p.functions(child, key)
		default:
			err = p.unknown(key)
		}
		if err != nil {
			return nil, err
		}
	}

	return desc, nil
}

func (p *projector) provider(v *Value, path string, out *ProviderDTO) error {
	if err := p.mapping(v, path); err != nil || v.IsNull() {
		return err
	}

	for _, key := range v.Keys {
		child, childPath := v.Map[key], keyPath(path, key)

		var err error
		switch key {
		case "name":
			out.Name, err = p.str(child, childPath)
		case "stage":
			out.Stage, err = p.str(child, childPath)
		case "region":
			out.Region, err = p.str(child, childPath)
		case "project":
			out.Project, err = p.str(child, childPath)
		case "credentials":
			out.Credentials, err = p.str(child, childPath)
		default:
			err = p.unknown(childPath)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *projector) pkg(v *Value, path string, out *PackageDTO) error {
	if err := p.mapping(v, path); err != nil || v.IsNull() {
		return err
	}

	for _, key := range v.Keys {
		child, childPath := v.Map[key], keyPath(path, key)

		var err error
		switch key {
		case "exclude":
			out.Exclude, err = p.stringList(child, childPath)
		default:
			err = p.unknown(childPath)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *projector) functions(v *Value, path string) ([]*FunctionDTO, error) {
	if err := p.mapping(v, path); err != nil || v.IsNull() {
		return nil, err
	}

	fns := make([]*FunctionDTO, 0, len(v.Keys))
	for _, name := range v.Keys {
		fn, err := p.function(v.Map[name], keyPath(path, name))
		if err != nil {
			return nil, err
		}
		fn.Name = name
		fns = append(fns, fn)
	}

	return fns, nil
}

func (p *projector) function(v *Value, path string) (*FunctionDTO, error) {
	fn := &FunctionDTO{}
	if err := p.mapping(v, path); err != nil || v.IsNull() {
		return fn, err
	}

	for _, key := range v.Keys {
		child, childPath := v.Map[key], keyPath(path, key)

		var err error
		switch key {
		case "memorySize":
			fn.MemorySize, err = p.present(child, childPath, p.integer)
		case "timeout":
			fn.Timeout, err = p.present(child, childPath, p.duration)
		case "runtime":
			fn.Runtime, err = p.str(child, childPath)
		case "handler":
			fn.Handler, err = p.str(child, childPath)
		case "serviceAccount":
			fn.ServiceAccount, err = p.str(child, childPath)
		case "labels":
			fn.Labels, err = p.stringMap(child, childPath)
		case "events":
			fn.Events, err = p.events(child, childPath)
		case "environment":
			fn.Environment, err = p.stringMap(child, childPath)
		default:
			err = p.unknown(childPath)
		}
		if err != nil {
			return nil, err
		}
	}

	return fn, nil
}

func (p *projector) events(v *Value, path string) ([]EventDTO, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.Kind != KindSeq {
		return nil, &domain.SchemaError{FieldPath: path, Expected: "a sequence", Actual: v.Describe()}
	}

	events := make([]EventDTO, 0, len(v.Seq))
	for i, item := range v.Seq {
		itemPath := indexPath(path, i)
		if item.Kind != KindMap {
			return nil, &domain.SchemaError{FieldPath: itemPath, Expected: "a mapping", Actual: item.Describe()}
		}

		var ev EventDTO
		for _, key := range item.Keys {
			child, childPath := item.Map[key], keyPath(itemPath, key)

			var err error
			switch key {
			case "event":
				ev.Event, err = p.pubSubEvent(child, childPath)
			default:
				err = &domain.SchemaError{FieldPath: childPath, Expected: "a supported event type (event)", Actual: strconv.Quote(key)}
			}
			if err != nil {
				return nil, err
			}
		}
		events = append(events, ev)
	}

	return events, nil
}

func (p *projector) pubSubEvent(v *Value, path string) (*PubSubEventDTO, error) {
	if err := p.mapping(v, path); err != nil || v.IsNull() {
		return nil, err
	}

	ev := &PubSubEventDTO{}
	for _, key := range v.Keys {
		child, childPath := v.Map[key], keyPath(path, key)

		var err error
		switch key {
		case "eventType":
			ev.EventType, err = p.str(child, childPath)
		case "resource":
			ev.Resource, err = p.str(child, childPath)
		default:
			err = p.unknown(childPath)
		}
		if err != nil {
			return nil, err
		}
	}

	return ev, nil
}

func (p *projector) unknown(path string) error {
	if p.settings.Strict {
		return &domain.SchemaError{FieldPath: path, Expected: "a known key", Actual: "an unknown key"}
	}
	if p.settings.IgnoredKey != nil {
		p.settings.IgnoredKey(path)
	}
	return nil
}

// mapping accepts a mapping or null.
func (p *projector) mapping(v *Value, path string) error {
	if v.IsNull() || v.Kind == KindMap {
		return nil
	}
	return &domain.SchemaError{FieldPath: path, Expected: "a mapping", Actual: v.Describe()}
}

// str accepts any scalar and returns its text; null yields "".
func (p *projector) str(v *Value, path string) (string, error) {
	switch {
	case v.IsNull():
		return "", nil
	case v.Kind == KindMap || v.Kind == KindSeq:
		return "", &domain.SchemaError{FieldPath: path, Expected: "a string", Actual: v.Describe()}
	default:
		return v.Raw, nil
	}
}

// integer accepts integers and numeric strings.
func (p *projector) integer(v *Value, path string) (int, error) {
	switch {
	case v.IsNull():
		return 0, nil
	case v.Kind == KindInt:
		return int(v.Int), nil
	case v.Kind == KindString:
		if n, err := strconv.Atoi(strings.TrimSpace(v.Raw)); err == nil {
			return n, nil
		}
	}
	return 0, &domain.SchemaError{FieldPath: path, Expected: "an integer", Actual: v.Describe()}
}

// present coerces a non-null value so that an explicit zero stays distinguishable from an absent key.
func (p *projector) present(v *Value, path string, coerce func(*Value, string) (int, error)) (*int, error) {
	if v.IsNull() {
		return nil, nil
	}
	n, err := coerce(v, path)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// duration accepts strings of digits followed by a unit suffix and returns seconds.
func (p *projector) duration(v *Value, path string) (int, error) {
	if v.IsNull() {
		return 0, nil
	}

	expected := `a duration string with unit suffix "` + domain.TimeoutUnitSeconds + `"`
	if v.Kind != KindString {
		return 0, &domain.SchemaError{FieldPath: path, Expected: expected, Actual: v.Describe()}
	}

	digits, ok := strings.CutSuffix(strings.TrimSpace(v.Raw), domain.TimeoutUnitSeconds)
	if !ok || digits == "" || strings.IndexFunc(digits, isNotDigit) >= 0 {
		return 0, &domain.SchemaError{FieldPath: path, Expected: expected, Actual: v.Describe()}
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &domain.SchemaError{FieldPath: path, Expected: expected, Actual: v.Describe()}
	}

	return n, nil
}

// stringList accepts a sequence of scalars; empty sequences yield nil.
func (p *projector) stringList(v *Value, path string) ([]string, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.Kind != KindSeq {
		return nil, &domain.SchemaError{FieldPath: path, Expected: "a sequence", Actual: v.Describe()}
	}

	var out []string
	for i, item := range v.Seq {
		s, err := p.str(item, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}

// stringMap accepts a mapping of scalars; empty mappings yield nil.
func (p *projector) stringMap(v *Value, path string) (map[string]string, error) {
	if err := p.mapping(v, path); err != nil || v.IsNull() || len(v.Keys) == 0 {
		return nil, err
	}

	out := make(map[string]string, len(v.Keys))
	for _, key := range v.Keys {
		s, err := p.str(v.Map[key], keyPath(path, key))
		if err != nil {
			return nil, err
		}
		out[key] = s
	}

	return out, nil
}

func isNotDigit(r rune) bool {
	return r < '0' || r > '9'
}
