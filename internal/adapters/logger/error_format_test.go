package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/fnspec/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []logger.ErrorEntry
	}{
		{
			name: "single standard error",
			err:  errors.New("simple error"),
			want: []logger.ErrorEntry{{Message: "simple error"}},
		},
		{
			name: "zerr wrapped chain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer"),
			want: []logger.ErrorEntry{
				{Message: "outer layer", Metadata: map[string]any{}},
				{Message: "middle layer", Metadata: map[string]any{}},
				{Message: "root cause"},
			},
		},
		{
			name: "zerr with metadata",
			err:  zerr.With(zerr.With(zerr.New("base error"), "key1", "value1"), "key2", 42),
			want: []logger.ErrorEntry{
				{Message: "base error", Metadata: map[string]any{"key1": "value1", "key2": 42}},
			},
		},
		{
			name: "metadata on upgraded standard error",
			err:  zerr.With(errors.New("plain"), "path", "serverless.yml"),
			want: []logger.ErrorEntry{
				{Message: "plain", Metadata: map[string]any{"path": "serverless.yml"}},
			},
		},
		{
			name: "nil error",
			err:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.CollectErrorEntries(tt.err))
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "three entries",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name: "metadata sorted alphabetically",
			entries: []logger.ErrorEntry{
				{Message: "error", Metadata: map[string]any{"zebra": "z", "alpha": "a"}},
			},
			want: "Error: error\n       alpha: a\n       zebra: z",
		},
		{
			name:    "multiline cause message",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "cause line1\ncause line2"}},
			want:    "Error: main\n\n  Caused by:\n    → cause line1\n      cause line2",
		},
		{
			name:    "empty entries",
			entries: []logger.ErrorEntry{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
