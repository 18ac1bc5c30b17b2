package config

import (
	"bytes"
	"maps"
	"slices"
	"strconv"

	"go.trai.ch/fnspec/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const renderIndent = 2

// Render serializes spec back into the descriptor format with a deterministic layout:
// functions, labels and environment sorted by key; plugins and excludes in stored order.
func Render(spec *domain.DeploymentSpec) ([]byte, error) {
	root := mappingNode()
	appendPair(root, "service", stringNode(spec.Service))
	appendPair(root, "provider", providerNode(spec.Provider))
	if len(spec.Plugins) > 0 {
		appendPair(root, "plugins", listNode(spec.Plugins))
	}
	if len(spec.Package.Exclude) > 0 {
		pkg := mappingNode()
		appendPair(pkg, "exclude", listNode(spec.Package.Exclude))
		appendPair(root, "package", pkg)
	}

	functions := mappingNode()
	for _, name := range spec.FunctionNames() {
		fn := spec.Functions[name]
		appendPair(functions, name, functionNode(&fn))
	}
	appendPair(root, "functions", functions)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(renderIndent)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, zerr.Wrap(err, "failed to render deployment descriptor")
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to render deployment descriptor")
	}

	return buf.Bytes(), nil
}

func providerNode(p domain.ProviderSpec) *yaml.Node {
	n := mappingNode()
	appendOptional(n, "name", p.Name)
	appendOptional(n, "stage", p.Stage)
	appendOptional(n, "region", p.Region)
	appendOptional(n, "project", p.Project)
	appendOptional(n, "credentials", p.CredentialsPath)
	return n
}

func functionNode(fn *domain.FunctionSpec) *yaml.Node {
	n := mappingNode()
	appendPair(n, "memorySize", intNode(fn.MemorySizeMB))
	appendPair(n, "timeout", stringNode(strconv.Itoa(fn.TimeoutSeconds)+domain.TimeoutUnitSeconds))
	appendPair(n, "runtime", stringNode(fn.Runtime))
	appendPair(n, "handler", stringNode(fn.Handler))
	appendOptional(n, "serviceAccount", fn.ServiceAccount)
	if len(fn.Labels) > 0 {
		appendPair(n, "labels", stringMapNode(fn.Labels))
	}

	events := &yaml.Node{Kind: yaml.SequenceNode}
	for _, ev := range fn.Events {
		if topic, ok := ev.(domain.PubSubTopicEvent); ok {
			body := mappingNode()
			appendPair(body, "eventType", stringNode(topic.EventType))
			appendPair(body, "resource", stringNode(topic.Resource))
			item := mappingNode()
			appendPair(item, "event", body)
			events.Content = append(events.Content, item)
		}
	}
	appendPair(n, "events", events)

	if len(fn.Environment) > 0 {
		appendPair(n, "environment", stringMapNode(fn.Environment))
	}
	return n
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

func listNode(items []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, item := range items {
		n.Content = append(n.Content, stringNode(item))
	}
	return n
}

func stringMapNode(m map[string]string) *yaml.Node {
	n := mappingNode()
	for _, key := range slices.Sorted(maps.Keys(m)) {
		appendPair(n, key, stringNode(m[key]))
	}
	return n
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, stringNode(key), value)
}

func appendOptional(m *yaml.Node, key, value string) {
	if value != "" {
		appendPair(m, key, stringNode(value))
	}
}
