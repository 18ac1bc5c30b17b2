package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/fnspec/internal/adapters/report"
	"go.trai.ch/fnspec/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTestRenderer(t *testing.T) (*report.Renderer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return report.NewRenderer(buf), buf
}

func TestRenderer_Success(t *testing.T) {
	r, buf := newTestRenderer(t)

	spec := &domain.DeploymentSpec{
		Service: "escavador-parser",
		Functions: map[string]domain.FunctionSpec{
			"process_profiles_escavador": {
				Name:           "process_profiles_escavador",
				MemorySizeMB:   256,
				TimeoutSeconds: 120,
				Runtime:        "python37",
				Events: []domain.Event{domain.PubSubTopicEvent{
					Resource: "projects/tribal-artifact-263821/topics/trigger_escavador_people_search",
				}},
			},
		},
	}

	r.Success("serverless.yml", spec, "0123456789abcdef")

	assert.Equal(t,
		"✓ serverless.yml escavador-parser: 1 function, 1 topic [0123456789abcdef]\n"+
			"  ● process_profiles_escavador python37 256MB 120s ← trigger_escavador_people_search\n",
		buf.String())
}

func TestRenderer_Success_NoFunctions(t *testing.T) {
	r, buf := newTestRenderer(t)

	r.Success("serverless.yml", &domain.DeploymentSpec{Service: "svc", Functions: map[string]domain.FunctionSpec{}}, "ffffffffffffffff")

	assert.Equal(t, "✓ serverless.yml svc: 0 functions, 0 topics [ffffffffffffffff]\n", buf.String())
}

func TestRenderer_Failure(t *testing.T) {
	r, buf := newTestRenderer(t)

	err := zerr.With(&domain.SchemaError{
		FieldPath: "functions.f.timeout",
		Expected:  `a duration string with unit suffix "s"`,
		Actual:    `"120"`,
	}, "path", "serverless.yml")

	r.Failure("serverless.yml", err)

	assert.Equal(t,
		"✗ serverless.yml\n"+
			"  schema error at functions.f.timeout: expected a duration string with unit suffix \"s\", got \"120\"\n",
		buf.String())
}

func TestRenderer_Failure_PlainError(t *testing.T) {
	r, buf := newTestRenderer(t)

	r.Failure("missing.yml", zerr.New("failed to read deployment descriptor"))

	assert.Equal(t, "✗ missing.yml\n  failed to read deployment descriptor\n", buf.String())
}
