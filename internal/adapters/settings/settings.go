// Package settings loads the CLI's own settings from FNSPEC_* environment variables.
package settings

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"go.trai.ch/zerr"
)

// EnvPrefix is the prefix of every environment variable read into Settings.
const EnvPrefix = "FNSPEC_"

const (
	// LogFormatPretty renders colored, human-readable log lines.
	LogFormatPretty = "pretty"
	// LogFormatJSON renders one JSON object per log line.
	LogFormatJSON = "json"
)

// DefaultDebounce is the default window for coalescing file change events.
const DefaultDebounce = 100 * time.Millisecond

// ErrInvalidSettings is returned when an FNSPEC_* variable holds an unusable value.
var ErrInvalidSettings = zerr.New("invalid settings")

// Settings holds the CLI defaults that can be changed through the environment.
type Settings struct {
	// Strict rejects unknown descriptor keys unless overridden on the command line.
	Strict bool `koanf:"strict"`
	// LogFormat is either "pretty" or "json".
	LogFormat string `koanf:"log_format"`
	// Filename, when set, is used instead of discovering serverless.yml.
	Filename string `koanf:"filename"`
	// Debounce is the quiet period before a changed descriptor is re-validated.
	Debounce time.Duration `koanf:"debounce"`
}

// Load reads Settings from os.Environ.
func Load() (*Settings, error) {
	return LoadFrom(os.Environ)
}

// LoadFrom reads Settings from the given environment source over the defaults.
func LoadFrom(environ func() []string) (*Settings, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"strict":     false,
		"log_format": LogFormatPretty,
		"filename":   "",
		"debounce":   DefaultDebounce.String(),
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, zerr.Wrap(err, "failed to load default settings")
	}

	provider := env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, val string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), strings.TrimSpace(val)
		},
		EnvironFunc: environ,
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, zerr.Wrap(err, "failed to read environment settings")
	}

	var s Settings
	err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			Result:           &s,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, zerr.Wrap(zerr.Wrap(err, "failed to decode settings"), ErrInvalidSettings.Error())
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Settings) validate() error {
	if !slices.Contains([]string{LogFormatPretty, LogFormatJSON}, s.LogFormat) {
		return zerr.With(zerr.With(ErrInvalidSettings, "variable", EnvPrefix+"LOG_FORMAT"), "value", s.LogFormat)
	}
	if s.Debounce <= 0 {
		return zerr.With(zerr.With(ErrInvalidSettings, "variable", EnvPrefix+"DEBOUNCE"), "value", s.Debounce.String())
	}
	return nil
}

// Environment returns the variables of environ as a flat map, for use as descriptor overrides.
func Environment(environ func() []string) (map[string]string, error) {
	raw, err := env.Provider("", env.Opt{EnvironFunc: environ}).Read()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read environment")
	}

	vars := make(map[string]string, len(raw))
	for key, val := range raw {
		if s, ok := val.(string); ok {
			vars[key] = s
		}
	}
	return vars, nil
}
