// Package app implements the application layer for fnspec.
package app

import (
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"runtime"
	"strings"
	"time"

	"go.trai.ch/fnspec/internal/adapters/config"
	"go.trai.ch/fnspec/internal/adapters/settings"
	"go.trai.ch/fnspec/internal/adapters/watcher"
	"go.trai.ch/fnspec/internal/core/domain"
	"go.trai.ch/fnspec/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	loader      ports.ConfigLoader
	logger      ports.Logger
	reporter    ports.Reporter
	fingerprint ports.Fingerprinter
	watcher     ports.Watcher

	strict   bool
	filename string
	debounce time.Duration
	getwd    func() (string, error)
	environ  func() []string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	reporter ports.Reporter,
	fingerprint ports.Fingerprinter,
	w ports.Watcher,
) *App {
	return &App{
		loader:      loader,
		logger:      log,
		reporter:    reporter,
		fingerprint: fingerprint,
		watcher:     w,
		debounce:    settings.DefaultDebounce,
		getwd:       os.Getwd,
		environ:     os.Environ,
	}
}

// WithSettings applies the environment-provided defaults.
func (a *App) WithSettings(s *settings.Settings) *App {
	a.strict = s.Strict
	a.filename = s.Filename
	a.debounce = s.Debounce
	return a
}

// WithWorkingDir makes descriptor discovery start at dir instead of the process working directory.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// WithEnviron replaces the process environment used by LoadOptions.FromEnv.
func (a *App) WithEnviron(environ func() []string) *App {
	a.environ = environ
	return a
}

// LoadOptions configures how descriptors are loaded.
type LoadOptions struct {
	// Overrides resolve ${NAME} references. Unset names resolve to their default or "".
	Overrides map[string]string
	// Strict rejects unknown keys. It is combined with the FNSPEC_STRICT default.
	Strict bool
	// FromEnv resolves references from the process environment beneath Overrides.
	FromEnv bool
	// RequireEnv lists environment keys every function must declare.
	RequireEnv []string
}

type result struct {
	spec *domain.DeploymentSpec
	err  error
}

// Validate loads every path concurrently and reports the results in argument order.
// With no paths the descriptor is discovered from the working directory.
func (a *App) Validate(ctx context.Context, paths []string, opts LoadOptions) error {
	if len(paths) == 0 {
		path, err := a.resolvePath("")
		if err != nil {
			return err
		}
		paths = []string{path}
	}

	overrides, err := a.overrides(opts)
	if err != nil {
		return err
	}
	loadOpts := a.loadOptions(opts)

	results := make([]result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			spec, err := a.loader.LoadFile(path, overrides, loadOpts...)
			if err == nil {
				err = checkRequiredEnv(spec, opts.RequireEnv)
			}
			results[i] = result{spec: spec, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var errs []error
	for i, res := range results {
		if res.err != nil {
			a.reporter.Failure(paths[i], res.err)
			errs = append(errs, res.err)
			continue
		}
		a.reporter.Success(paths[i], res.spec, a.fingerprint.Compute(res.spec))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrValidationFailed}, errs...)...)
	}
	return nil
}

// Render loads the descriptor at path and writes its canonical form to w.
func (a *App) Render(_ context.Context, path string, w io.Writer, opts LoadOptions) error {
	path, err := a.resolvePath(path)
	if err != nil {
		return err
	}

	overrides, err := a.overrides(opts)
	if err != nil {
		return err
	}

	spec, err := a.loader.LoadFile(path, overrides, a.loadOptions(opts)...)
	if err != nil {
		return err
	}
	if err := checkRequiredEnv(spec, opts.RequireEnv); err != nil {
		return err
	}

	out, err := config.Render(spec)
	if err != nil {
		return err
	}

	if _, err := w.Write(out); err != nil {
		return zerr.Wrap(err, "failed to write rendered descriptor")
	}
	return nil
}

// Watch validates the descriptor at path once and again after every burst of changes,
// until ctx is cancelled or the watcher stops.
func (a *App) Watch(ctx context.Context, path string, opts LoadOptions) error {
	path, err := a.resolvePath(path)
	if err != nil {
		return err
	}

	revalidate := func() {
		err := a.Validate(ctx, []string{path}, opts)
		if err != nil && !errors.Is(err, domain.ErrValidationFailed) {
			a.logger.Error(err)
		}
	}
	revalidate()

	if err := a.watcher.Start(ctx, path); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()
	a.logger.Info("watching " + path + " for changes")

	debouncer := watcher.NewDebouncer(a.debounce, func(_ []string) {
		if ctx.Err() != nil {
			return
		}
		a.logger.Info("change detected, re-validating " + path)
		revalidate()
	})

	for event := range a.watcher.Events() {
		if event.Operation == ports.OpRemove || event.Operation == ports.OpRename {
			a.logger.Warn(path + " was removed or renamed, waiting for it to reappear")
			continue
		}
		debouncer.Add(event.Path)
	}

	if ctx.Err() != nil {
		debouncer.Stop()
		return nil
	}
	debouncer.Flush()
	return nil
}

// ParseOverrides turns KEY=VALUE pairs into an overrides map. No pairs yield nil.
func ParseOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, zerr.With(domain.ErrInvalidOverride, "override", pair)
		}
		overrides[key] = value
	}
	return overrides, nil
}

func (a *App) resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if a.filename != "" {
		return a.filename, nil
	}

	cwd, err := a.getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return a.loader.Discover(cwd)
}

// overrides always returns a non-nil map so ${NAME:-default} references resolve
// even when nothing was set.
func (a *App) overrides(opts LoadOptions) (map[string]string, error) {
	vars := make(map[string]string, len(opts.Overrides))
	if opts.FromEnv {
		env, err := settings.Environment(a.environ)
		if err != nil {
			return nil, err
		}
		maps.Copy(vars, env)
	}
	maps.Copy(vars, opts.Overrides)
	return vars, nil
}

func (a *App) loadOptions(opts LoadOptions) []ports.LoadOption {
	if opts.Strict || a.strict {
		return []ports.LoadOption{ports.WithStrict()}
	}
	return nil
}

// checkRequiredEnv reports the first function, in name order, missing one of keys.
func checkRequiredEnv(spec *domain.DeploymentSpec, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	for _, name := range spec.FunctionNames() {
		fn := spec.Functions[name]
		if missing := fn.MissingEnvironment(keys...); len(missing) > 0 {
			return &domain.SchemaError{
				FieldPath: "functions." + name + ".environment." + missing[0],
				Expected:  "a declared environment variable",
				Actual:    "nothing",
			}
		}
	}
	return nil
}
