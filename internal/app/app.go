// Package app implements the application layer for cfgcache.
package app

import (
	"context"
	"errors"
	"io"
	"maps"
	"runtime"
	"slices"
	"strconv"
	"sync"

	"go.trai.ch/cfgcache/internal/build"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/zerr"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Collector records the problems of one cache pass.
type Collector interface {
	ports.ProblemsListener
	Problems() []domain.Problem
}

// App stores and loads configuration cache entries.
type App struct {
	store        ports.EntryStore
	registry     *codec.Registry
	projects     ports.ProjectProvider
	newCollector func() Collector
	logger       ports.Logger

	scopeLookup    ports.ScopeLookup
	scopeFactory   ports.ScopeFactory
	failOnProblems bool
	producer       string
	concurrency    int
}

// New creates a new App instance.
func New(
	store ports.EntryStore,
	registry *codec.Registry,
	projects ports.ProjectProvider,
	newCollector func() Collector,
	logger ports.Logger,
) *App {
	return &App{
		store:        store,
		registry:     registry,
		projects:     projects,
		newCollector: newCollector,
		logger:       logger,
		producer:     build.Version,
		concurrency:  runtime.NumCPU(),
	}
}

// WithScopes sets the scope lookup used on store and the factory used on load.
func (a *App) WithScopes(lookup ports.ScopeLookup, factory ports.ScopeFactory) *App {
	a.scopeLookup = lookup
	a.scopeFactory = factory
	return a
}

// WithFailOnProblems makes passes that recorded problems fail with domain.ErrProblemsReported.
func (a *App) WithFailOnProblems(fail bool) *App {
	a.failOnProblems = fail
	return a
}

// WithProducer overrides the producer version written to and expected from entries.
func (a *App) WithProducer(version string) *App {
	a.producer = version
	return a
}

// WithConcurrency limits how many entries StoreAll encodes at once.
func (a *App) WithConcurrency(n int) *App {
	a.concurrency = max(n, 1)
	return a
}

func (a *App) options(problems ports.ProblemsListener) []codec.Option {
	opts := []codec.Option{
		codec.WithRegistry(a.registry),
		codec.WithProjects(a.projects),
		codec.WithProblems(problems),
		codec.WithLogger(a.logger),
		codec.WithProducer(a.producer),
	}
	if a.scopeLookup != nil {
		opts = append(opts, codec.WithScopeLookup(a.scopeLookup))
	}
	if a.scopeFactory != nil {
		opts = append(opts,
			codec.WithScopeFactory(a.scopeFactory),
			codec.WithTypeLoader(a.scopeFactory.Root().LocalLoader()),
		)
	}
	return opts
}

// Store encodes roots into the entry under key. All roots share one identity table.
// The entry replaces the previous one only when the whole pass succeeds.
func (a *App) Store(ctx context.Context, key string, roots ...any) ([]domain.Problem, error) {
	collector := a.newCollector()

	w, err := a.store.Create(key, domain.EntryInfo{
		Producer: a.producer,
		Roots:    len(roots),
	})
	if err != nil {
		return nil, err
	}

	if err := a.encode(ctx, w, collector, roots); err != nil {
		return collector.Problems(), multierr.Append(zerr.With(zerr.Wrap(err, "cannot store cache entry"), "key", key), w.Discard())
	}

	problems := collector.Problems()
	if a.failOnProblems && len(problems) > 0 {
		return problems, multierr.Append(
			zerr.With(zerr.With(zerr.Wrap(domain.ErrProblemsReported, "cannot store cache entry"), "key", key), "problems", len(problems)),
			w.Discard(),
		)
	}
	if err := w.Close(); err != nil {
		return problems, err
	}
	return problems, nil
}

func (a *App) encode(ctx context.Context, w io.Writer, problems ports.ProblemsListener, roots []any) error {
	cw, err := codec.NewWriter(w, a.options(problems)...)
	if err != nil {
		return err
	}
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(root); err != nil {
			return err
		}
	}
	return cw.Close()
}

// StoreAll stores every entry concurrently. Entries are independent passes, so values
// shared between entries are written once per entry.
func (a *App) StoreAll(ctx context.Context, entries map[string][]any) (map[string][]domain.Problem, error) {
	var (
		mu     sync.Mutex
		report = make(map[string][]domain.Problem, len(entries))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for _, key := range slices.Sorted(maps.Keys(entries)) {
		roots := entries[key]
		g.Go(func() error {
			problems, err := a.Store(ctx, key, roots...)
			if len(problems) > 0 {
				mu.Lock()
				report[key] = problems
				mu.Unlock()
			}
			return err
		})
	}
	err := g.Wait()
	return report, err
}

// Load decodes the roots of the entry under key.
func (a *App) Load(ctx context.Context, key string) (roots []any, problems []domain.Problem, err error) {
	r, err := a.store.Open(key)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()

	collector := a.newCollector()
	cr, err := codec.NewReader(r, a.options(collector)...)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "cannot load cache entry"), "key", key)
	}
	defer func() {
		err = multierr.Append(err, cr.Close())
	}()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, collector.Problems(), ctxErr
		}
		v, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, collector.Problems(), zerr.With(zerr.Wrap(readErr, "cannot load cache entry"), "key", key)
		}
		roots = append(roots, v)
	}

	problems = collector.Problems()
	if a.failOnProblems && len(problems) > 0 {
		return roots, problems, zerr.With(zerr.With(zerr.Wrap(domain.ErrProblemsReported, "cannot load cache entry"), "key", key), "problems", len(problems))
	}
	return roots, problems, nil
}

// List returns the metadata of every stored entry.
func (a *App) List(_ context.Context) ([]domain.EntryInfo, error) {
	return a.store.List()
}

// Clean removes the entries under keys, or every entry when keys is empty.
// It returns the number of removed entries.
func (a *App) Clean(ctx context.Context, keys ...string) (int, error) {
	if len(keys) == 0 {
		infos, err := a.store.List()
		if err != nil {
			return 0, err
		}
		for _, info := range infos {
			keys = append(keys, info.Key)
		}
	}

	removed := 0
	var errs error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return removed, multierr.Append(errs, err)
		}
		if err := a.store.Remove(key); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		a.logger.Info("removed " + pluralEntries(removed))
	}
	return removed, errs
}

func pluralEntries(n int) string {
	if n == 1 {
		return "1 cache entry"
	}
	return strconv.Itoa(n) + " cache entries"
}
