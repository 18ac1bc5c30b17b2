package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fnspec/internal/core/domain"
)

func TestSplitTopicPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		project string
		topic   string
		ok      bool
	}{
		{
			name:    "valid path",
			path:    "projects/tribal-artifact-263821/topics/trigger_escavador_people_search",
			project: "tribal-artifact-263821",
			topic:   "trigger_escavador_people_search",
			ok:      true,
		},
		{name: "missing topics segment", path: "projects/tribal-artifact-263821/trigger"},
		{name: "bare topic name", path: "trigger_escavador_people_search"},
		{
			name:    "short project",
			path:    "projects/other/topics/trig",
			project: "other",
			topic:   "trig",
			ok:      true,
		},
		{name: "nested project segment", path: "projects/a/b/topics/some-topic"},
		{name: "short topic", path: "projects/tribal-artifact-263821/topics/ab"},
		{name: "empty", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, topic, ok := domain.SplitTopicPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.project, project)
			assert.Equal(t, tt.topic, topic)
			assert.Equal(t, tt.ok, domain.IsTopicPath(tt.path))
		})
	}
}

func TestProjectIDPattern(t *testing.T) {
	assert.True(t, domain.ProjectIDPattern.MatchString("tribal-artifact-263821"))
	assert.False(t, domain.ProjectIDPattern.MatchString("other"))
	assert.False(t, domain.ProjectIDPattern.MatchString("Tribal-Artifact"))
	assert.False(t, domain.ProjectIDPattern.MatchString("${PROJECT}"))
}

func TestPubSubTopicEvent(t *testing.T) {
	ev := domain.PubSubTopicEvent{
		EventType: "providers/cloud.pubsub/eventTypes/topic.publish",
		Resource:  "projects/tribal-artifact-263821/topics/email_notify",
	}

	assert.Equal(t, domain.EventKindPubSubTopic, ev.Kind())
	assert.Equal(t, "tribal-artifact-263821", ev.Project())
	assert.Equal(t, "email_notify", ev.Topic())
}

func TestDeploymentSpec_Accessors(t *testing.T) {
	spec := &domain.DeploymentSpec{
		Functions: map[string]domain.FunctionSpec{
			"zeta": {
				Name: "zeta",
				Events: []domain.Event{
					domain.PubSubTopicEvent{Resource: "projects/my-project-1/topics/topic-b"},
				},
			},
			"alpha": {
				Name: "alpha",
				Events: []domain.Event{
					domain.PubSubTopicEvent{Resource: "projects/my-project-1/topics/topic-a"},
					domain.PubSubTopicEvent{Resource: "projects/my-project-1/topics/topic-b"},
				},
				Environment: map[string]string{"LOG_LEVEL": "INFO"},
			},
		},
	}

	assert.Equal(t, []string{"alpha", "zeta"}, spec.FunctionNames())
	assert.Equal(t, []string{
		"projects/my-project-1/topics/topic-a",
		"projects/my-project-1/topics/topic-b",
	}, spec.Topics())

	fn, ok := spec.Function("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"TO_EMAILS"}, fn.MissingEnvironment("LOG_LEVEL", "TO_EMAILS"))
	assert.Empty(t, fn.MissingEnvironment("LOG_LEVEL"))

	_, ok = spec.Function("missing")
	assert.False(t, ok)
}

func TestIsAllowedMemorySize(t *testing.T) {
	assert.True(t, domain.IsAllowedMemorySize(256))
	assert.True(t, domain.IsAllowedMemorySize(8192))
	assert.False(t, domain.IsAllowedMemorySize(0))
	assert.False(t, domain.IsAllowedMemorySize(300))
}

func TestErrors_Unwrap(t *testing.T) {
	t.Run("parse error", func(t *testing.T) {
		cause := errors.New("did not find expected key")
		err := error(&domain.ParseError{Line: 3, Column: 7, Err: cause})

		assert.ErrorIs(t, err, domain.ErrParse)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "parse error at line 3, column 7: did not find expected key", err.Error())

		assert.Equal(t, "parse error at line 3: did not find expected key",
			(&domain.ParseError{Line: 3, Err: cause}).Error())
		assert.Equal(t, "parse error: did not find expected key",
			(&domain.ParseError{Err: cause}).Error())
	})

	t.Run("schema error", func(t *testing.T) {
		err := error(&domain.SchemaError{FieldPath: "provider.project", Expected: "a non-empty string", Actual: "nothing"})

		assert.ErrorIs(t, err, domain.ErrSchema)
		assert.Equal(t, "schema error at provider.project: expected a non-empty string, got nothing", err.Error())

		var schemaErr *domain.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "provider.project", schemaErr.FieldPath)
	})

	t.Run("schema error at root", func(t *testing.T) {
		err := &domain.SchemaError{Expected: "a mapping", Actual: "null"}
		assert.Equal(t, "schema error at document root: expected a mapping, got null", err.Error())
	})

	t.Run("consistency error", func(t *testing.T) {
		err := error(&domain.ConsistencyError{FieldPath: "functions.f.events[0].event.resource", Reason: "wrong project"})

		assert.ErrorIs(t, err, domain.ErrConsistency)
		assert.NotErrorIs(t, err, domain.ErrSchema)
		assert.Contains(t, err.Error(), "wrong project")
	})
}
