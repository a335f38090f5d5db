// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"fmt"
	"path"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"codeberg.org/mustache-l10n/mustache-l10n/core/render"
	"codeberg.org/mustache-l10n/mustache-l10n/localizer"
	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
)

// recorder is a translation store that records every key looked up and
// translates nothing.
type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) Lookup(key, _ string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys = append(r.keys, key)

	return key
}

// take returns the recorded keys and forgets them.
func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := r.keys
	r.keys = nil

	return keys
}

// templateExtractor collects the keys of templates.
type templateExtractor struct {
	engine  *render.Engine
	dir     string // prefix of references
	binding string
	table   string
	data    map[string]any
}

// extractAll extracts every template of the engine concurrently.
func (te *templateExtractor) extractAll(ctx context.Context) (refs, error) {
	names, err := te.engine.Names()
	if err != nil {
		return nil, err
	}

	results := make([]refs, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			found, err := te.extract(name)
			if err != nil {
				return err
			}

			results[i] = found

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := refs{}
	for _, found := range results {
		all.merge(found)
	}

	return all, nil
}

// extract collects the keys of one template.
//
// Each localized section outside any other section is rendered on its own
// to learn the line of its key. Keys of nested sections depend on the
// enclosing sections' data, so they come from a full render with the data
// like the keys of filter calls, and are referenced by file.
func (te *templateExtractor) extract(name string) (refs, error) {
	tmpl, err := te.engine.Template(name)
	if err != nil {
		return nil, err
	}

	file := path.Join(te.dir, name+render.Extension)
	rec := &recorder{}
	l := localizer.New(localizer.WithStore(rec), localizer.WithTable(te.table))
	found := refs{}
	seen := map[string]bool{}

	for _, tag := range tmpl.RootTags() {
		if tag.Kind() != mustache.SectionTag || tag.Inverted() || tag.Name() != te.binding {
			continue
		}

		if _, err := l.RenderSection(tag, l.Register(mustache.NewContext(te.data), te.binding)); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", file, tag.Line(), err)
		}

		for _, k := range rec.take() {
			seen[k] = true
			found.add(key{table: te.table, id: k}, ref{file: file, line: tag.Line()})
		}
	}

	if _, err := tmpl.RenderContext(l.Register(mustache.NewContext(te.data), te.binding)); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	for _, k := range rec.take() {
		if !seen[k] {
			seen[k] = true
			found.add(key{table: te.table, id: k}, ref{file: file})
		}
	}

	return found, nil
}
