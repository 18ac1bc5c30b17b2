package config

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/drone/envsubst/v2"
	envparse "github.com/drone/envsubst/v2/parse"
	"go.trai.ch/fnspec/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// yamlPositionPattern extracts the position yaml.v3 embeds in its syntax error messages.
var yamlPositionPattern = regexp.MustCompile(`^yaml: line (\d+)(?:, column (\d+))?: (.*)$`)

// substitute resolves ${NAME} references against overrides only.
// A nil overrides map disables substitution so literal dollar signs survive.
// unset, when non-nil, is called once per referenced name that is neither defined nor defaulted.
func substitute(document string, overrides map[string]string, unset func(name string)) (string, error) {
	if overrides == nil {
		return document, nil
	}

	out, err := envsubst.Eval(document, func(name string) string {
		return overrides[name]
	})
	if err != nil {
		return "", &domain.ParseError{Err: zerr.Wrap(err, "variable substitution failed")}
	}

	if unset != nil {
		for _, name := range unsetReferences(document, overrides) {
			unset(name)
		}
	}

	return out, nil
}

// unsetReferences lists, in document order and without repeats, the referenced names missing from overrides.
// References carrying a default such as ${NAME:-value} are not listed.
func unsetReferences(document string, overrides map[string]string) []string {
	tree, err := envparse.Parse(document)
	if err != nil {
		return nil
	}

	var names []string
	seen := make(map[string]struct{})

	var walk func(n envparse.Node)
	walk = func(n envparse.Node) {
		switch n := n.(type) {
		case *envparse.ListNode:
			for _, child := range n.Nodes {
				walk(child)
			}
		case *envparse.FuncNode:
			for _, arg := range n.Args {
				walk(arg)
			}
			if _, ok := overrides[n.Param]; ok || hasDefault(n) {
				return
			}
			if _, ok := seen[n.Param]; !ok {
				seen[n.Param] = struct{}{}
				names = append(names, n.Param)
			}
		}
	}
	walk(tree.Root)

	return names
}

func hasDefault(n *envparse.FuncNode) bool {
	switch n.Name {
	case "-", ":-", "=", ":=":
		return len(n.Args) > 0
	}
	return false
}

// parse turns document text into the generic tree.
func parse(document string) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(document), &root); err != nil {
		return nil, newParseError(err)
	}
	return newTree(&root)
}

func newParseError(err error) *domain.ParseError {
	msg := err.Error()
	m := yamlPositionPattern.FindStringSubmatch(msg)
	if m == nil {
		return &domain.ParseError{Err: errors.New(strings.TrimPrefix(msg, "yaml: "))}
	}

	line, _ := strconv.Atoi(m[1])
	column, _ := strconv.Atoi(m[2])

	return &domain.ParseError{
		Line:   line,
		Column: column,
		Err:    errors.New(m[3]),
	}
}
