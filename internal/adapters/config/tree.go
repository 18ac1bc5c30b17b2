package config

import (
	"fmt"
	"strconv"

	"go.trai.ch/fnspec/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// Kind is the variant of a Value.
type Kind uint8

const (
	// KindNull is an explicit or implicit null.
	KindNull Kind = iota
	// KindMap is a mapping with string keys.
	KindMap
	// KindSeq is a sequence.
	KindSeq
	// KindString is a string scalar.
	KindString
	// KindInt is an integer scalar.
	KindInt
	// KindFloat is a floating point scalar.
	KindFloat
	// KindBool is a boolean scalar.
	KindBool
)

const (
	maxAliasDepth = 64
	// maxTreeNodes bounds the expanded size of a document, counting every alias expansion.
	maxTreeNodes = 100_000
)

// Value is a node of the generic document tree, independent of the descriptor schema.
type Value struct {
	Kind Kind
	// Raw is the scalar text as written in the document.
	Raw   string
	Int   int64
	Float float64
	Bool  bool
	// Keys keeps mapping keys in document order.
	Keys []string
	Map  map[string]*Value
	Seq  []*Value
	// Line and Column locate the value in the document, 1-based.
	Line   int
	Column int
}

// IsNull reports whether v is absent or null.
func (v *Value) IsNull() bool {
	return v == nil || v.Kind == KindNull
}

// Describe returns a short human-readable description of v for error messages.
func (v *Value) Describe() string {
	if v == nil {
		return "nothing"
	}
	switch v.Kind {
	case KindMap:
		return "a mapping"
	case KindSeq:
		return "a sequence"
	case KindString:
		return strconv.Quote(v.Raw)
	case KindInt, KindFloat, KindBool:
		return v.Raw
	default:
		return "null"
	}
}

// newTree converts a parsed YAML node into the generic tree.
// Duplicate mapping keys are rejected because yaml.v3 does not check them when decoding into a yaml.Node.
func newTree(n *yaml.Node) (*Value, error) {
	if n == nil || n.Kind == 0 {
		return &Value{Kind: KindNull}, nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return &Value{Kind: KindNull, Line: n.Line, Column: n.Column}, nil
		}
		n = n.Content[0]
	}
	b := &treeBuilder{remaining: maxTreeNodes}
	return b.value(n, "", 0)
}

// treeBuilder expands aliases while counting built nodes against a budget.
type treeBuilder struct {
	remaining int
}

func (b *treeBuilder) value(n *yaml.Node, path string, depth int) (*Value, error) {
	if n.Kind != yaml.AliasNode {
		if b.remaining == 0 {
			return nil, &domain.ParseError{
				Line:   n.Line,
				Column: n.Column,
				Err:    fmt.Errorf("document expands to more than %d nodes", maxTreeNodes),
			}
		}
		b.remaining--
	}

	switch n.Kind {
	case yaml.AliasNode:
		if depth >= maxAliasDepth || n.Alias == nil {
			return nil, &domain.SchemaError{FieldPath: path, Expected: "a resolvable alias", Actual: "*" + n.Value}
		}
		return b.value(n.Alias, path, depth+1)
	case yaml.MappingNode:
		return b.mapping(n, path, depth)
	case yaml.SequenceNode:
		v := &Value{Kind: KindSeq, Line: n.Line, Column: n.Column, Seq: make([]*Value, 0, len(n.Content))}
		for i, item := range n.Content {
			child, err := b.value(item, indexPath(path, i), depth)
			if err != nil {
				return nil, err
			}
			v.Seq = append(v.Seq, child)
		}
		return v, nil
	case yaml.ScalarNode:
		return buildScalar(n, path)
	default:
		return &Value{Kind: KindNull, Line: n.Line, Column: n.Column}, nil
	}
}

func (b *treeBuilder) mapping(n *yaml.Node, path string, depth int) (*Value, error) {
	v := &Value{
		Kind:   KindMap,
		Line:   n.Line,
		Column: n.Column,
		Map:    make(map[string]*Value, len(n.Content)/2),
	}

	var merged []*Value
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			source, err := b.value(valNode, path, depth+1)
			if err != nil {
				return nil, err
			}
			merged = append(merged, mergeSources(source)...)
			continue
		}

		if keyNode.Kind != yaml.ScalarNode {
			return nil, &domain.SchemaError{FieldPath: path, Expected: "scalar mapping keys", Actual: "a complex key"}
		}

		key := keyNode.Value
		childPath := keyPath(path, key)
		if _, exists := v.Map[key]; exists {
			return nil, &domain.SchemaError{
				FieldPath: childPath,
				Expected:  "unique keys",
				Actual:    fmt.Sprintf("duplicate key %q at line %d", key, keyNode.Line),
			}
		}

		child, err := b.value(valNode, childPath, depth)
		if err != nil {
			return nil, err
		}
		v.Keys = append(v.Keys, key)
		v.Map[key] = child
	}

	// Explicit keys win over merged ones.
	for _, src := range merged {
		for _, key := range src.Keys {
			if _, exists := v.Map[key]; exists {
				continue
			}
			v.Keys = append(v.Keys, key)
			v.Map[key] = src.Map[key]
		}
	}

	return v, nil
}

func mergeSources(v *Value) []*Value {
	switch v.Kind {
	case KindMap:
		return []*Value{v}
	case KindSeq:
		var out []*Value
		for _, item := range v.Seq {
			if item.Kind == KindMap {
				out = append(out, item)
			}
		}
		return out
	default:
		return nil
	}
}

func buildScalar(n *yaml.Node, path string) (*Value, error) {
	v := &Value{Raw: n.Value, Line: n.Line, Column: n.Column}

	var err error
	switch n.ShortTag() {
	case "!!null":
		v.Kind = KindNull
	case "!!bool":
		v.Kind = KindBool
		err = n.Decode(&v.Bool)
	case "!!int":
		v.Kind = KindInt
		err = n.Decode(&v.Int)
	case "!!float":
		v.Kind = KindFloat
		err = n.Decode(&v.Float)
	default:
		v.Kind = KindString
	}
	if err != nil {
		return nil, &domain.SchemaError{FieldPath: path, Expected: "a valid scalar", Actual: strconv.Quote(n.Value)}
	}

	return v, nil
}

func keyPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
