package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fnspec/cmd/fnspec/commands"
	"go.trai.ch/fnspec/internal/app"
	"go.trai.ch/fnspec/internal/build"
	"go.trai.ch/fnspec/internal/core/domain"
)

type mockApp struct {
	validateFunc func(ctx context.Context, paths []string, opts app.LoadOptions) error
	renderFunc   func(ctx context.Context, path string, w io.Writer, opts app.LoadOptions) error
	watchFunc    func(ctx context.Context, path string, opts app.LoadOptions) error
}

func (m *mockApp) Validate(ctx context.Context, paths []string, opts app.LoadOptions) error {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, paths, opts)
	}
	return nil
}

func (m *mockApp) Render(ctx context.Context, path string, w io.Writer, opts app.LoadOptions) error {
	if m.renderFunc != nil {
		return m.renderFunc(ctx, path, w, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, path string, opts app.LoadOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, path, opts)
	}
	return nil
}

func TestCommands_Validate(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.LoadOptions
		var capturedPaths []string
		called := false

		mock := &mockApp{
			validateFunc: func(_ context.Context, paths []string, opts app.LoadOptions) error {
				capturedOpts = opts
				capturedPaths = paths
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{
			"validate", "a/serverless.yml", "b/serverless.yml",
			"--strict",
			"--set", "PROJECT=tribal-artifact-263821",
			"-s", "PEOPLE=[{\"id\": 1}]",
			"--from-env",
			"--require-env", "LOG_LEVEL,VARS_BUCKET",
		})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, []string{"a/serverless.yml", "b/serverless.yml"}, capturedPaths)
		assert.True(t, capturedOpts.Strict)
		assert.True(t, capturedOpts.FromEnv)
		assert.Equal(t, map[string]string{
			"PROJECT": "tribal-artifact-263821",
			"PEOPLE":  `[{"id": 1}]`,
		}, capturedOpts.Overrides)
		assert.Equal(t, []string{"LOG_LEVEL", "VARS_BUCKET"}, capturedOpts.RequireEnv)
	})

	t.Run("defaults", func(t *testing.T) {
		var capturedOpts app.LoadOptions
		var capturedPaths []string

		mock := &mockApp{
			validateFunc: func(_ context.Context, paths []string, opts app.LoadOptions) error {
				capturedOpts = opts
				capturedPaths = paths
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"validate"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Empty(t, capturedPaths)
		assert.False(t, capturedOpts.Strict)
		assert.False(t, capturedOpts.FromEnv)
		assert.Nil(t, capturedOpts.Overrides)
		assert.Empty(t, capturedOpts.RequireEnv)
	})

	t.Run("rejects malformed override", func(t *testing.T) {
		mock := &mockApp{
			validateFunc: func(_ context.Context, _ []string, _ app.LoadOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"validate", "--set", "PROJECT"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Equal(t, domain.ErrInvalidOverride.Error(), err.Error())
	})

	t.Run("returns error on validation failure", func(t *testing.T) {
		mock := &mockApp{
			validateFunc: func(_ context.Context, _ []string, _ app.LoadOptions) error {
				return errors.Join(domain.ErrValidationFailed, errors.New("simulated error"))
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"validate", "serverless.yml"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})
}

func TestCommands_Render(t *testing.T) {
	t.Run("writes to command output", func(t *testing.T) {
		var capturedPath string
		mock := &mockApp{
			renderFunc: func(_ context.Context, path string, w io.Writer, _ app.LoadOptions) error {
				capturedPath = path
				_, err := io.WriteString(w, "service: escavador-parser\n")
				return err
			},
		}

		cli := commands.New(mock)
		out := new(bytes.Buffer)
		cli.SetOutput(out, new(bytes.Buffer))
		cli.SetArgs([]string{"render", "deploy/serverless.yml"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "deploy/serverless.yml", capturedPath)
		assert.Equal(t, "service: escavador-parser\n", out.String())
	})

	t.Run("discovers without argument", func(t *testing.T) {
		capturedPath := "unset"
		mock := &mockApp{
			renderFunc: func(_ context.Context, path string, _ io.Writer, _ app.LoadOptions) error {
				capturedPath = path
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"render"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Empty(t, capturedPath)
	})

	t.Run("rejects extra arguments", func(t *testing.T) {
		cli := commands.New(&mockApp{})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"render", "a.yml", "b.yml"})

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_Watch(t *testing.T) {
	var capturedPath string
	var capturedOpts app.LoadOptions
	mock := &mockApp{
		watchFunc: func(_ context.Context, path string, opts app.LoadOptions) error {
			capturedPath = path
			capturedOpts = opts
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"watch", "serverless.yml", "--strict"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "serverless.yml", capturedPath)
	assert.True(t, capturedOpts.Strict)
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fnspec version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", buf.String())
}

func TestCommands_VersionFlag(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"--version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "fnspec version "+build.Version)
}
