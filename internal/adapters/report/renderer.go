// Package report renders descriptor validation results as plain, line-oriented text.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/fnspec/internal/core/domain"
	"go.trai.ch/fnspec/internal/core/ports"
	"go.trai.ch/fnspec/internal/ui/output"
	"go.trai.ch/fnspec/internal/ui/style"
)

var _ ports.Reporter = (*Renderer)(nil)

// Renderer writes one block per reported descriptor.
type Renderer struct {
	mu     sync.Mutex
	w      io.Writer
	output *termenv.Output
}

// NewRenderer creates a Renderer writing to w, defaulting to stdout.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{w: w, output: output.New(w)}
}

// Success prints the descriptor summary followed by one line per function.
func (r *Renderer) Success(path string, spec *domain.DeploymentSpec, fingerprint string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	header := fmt.Sprintf("%s %s", style.Check, path)
	summary := fmt.Sprintf("%s: %s, %s [%s]",
		spec.Service,
		plural(len(spec.Functions), "function"),
		plural(len(spec.Topics()), "topic"),
		fingerprint,
	)
	r.println(r.color(header, style.Green) + " " + r.output.String(summary).Faint().String())

	for _, name := range spec.FunctionNames() {
		fn := spec.Functions[name]
		line := fmt.Sprintf("  %s %s %s %dMB %ds",
			style.Dot, name, fn.Runtime, fn.MemorySizeMB, fn.TimeoutSeconds)

		var topics []string
		for _, ev := range fn.Events {
			if topic, ok := ev.(domain.PubSubTopicEvent); ok {
				topics = append(topics, topic.Topic())
			}
		}
		if len(topics) > 0 {
			line += " " + style.Trigger + " " + strings.Join(topics, ", ")
		}
		r.println(r.color(line, style.Slate))
	}
}

// Failure prints the path and the failure reason.
func (r *Renderer) Failure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.println(r.color(fmt.Sprintf("%s %s", style.Cross, path), style.Red))
	r.println(r.color("  "+describe(err), style.Red))
}

func (r *Renderer) color(s string, c lipgloss.Color) string {
	return r.output.String(s).Foreground(termenv.RGBColor(string(c))).String()
}

func (r *Renderer) println(s string) {
	_, _ = fmt.Fprintln(r.w, s)
}

// describe returns the most specific message for err.
func describe(err error) string {
	var (
		parseErr       *domain.ParseError
		schemaErr      *domain.SchemaError
		consistencyErr *domain.ConsistencyError
	)
	switch {
	case errors.As(err, &parseErr):
		return parseErr.Error()
	case errors.As(err, &schemaErr):
		return schemaErr.Error()
	case errors.As(err, &consistencyErr):
		return consistencyErr.Error()
	default:
		return err.Error()
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
