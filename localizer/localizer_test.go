// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
)

// recordingStore records the keys it is asked for and translates from m.
type recordingStore struct {
	mu   sync.Mutex
	m    map[string]string
	keys []string
}

func (s *recordingStore) Lookup(key, _ string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys = append(s.keys, key)

	if v, ok := s.m[key]; ok {
		return v
	}

	return key
}

func render(t *testing.T, l *Localizer, src string, data any) (string, error) {
	t.Helper()

	tmpl, err := mustache.Parse(src)
	require.NoError(t, err)

	return tmpl.Render(l.Bindings(Name), data)
}

func TestRenderSection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		src          string
		data         any
		translations map[string]string
		wantKey      string
		want         string
	}{
		{
			name:    "fallback to key with one argument",
			src:     "{{#localize}}Hello {{name}}{{/localize}}",
			data:    map[string]any{"name": "Arthur"},
			wantKey: "Hello %@",
			want:    "Hello Arthur",
		},
		{
			name:    "percent in key is doubled and restored",
			src:     "{{#localize}}50% {{when}} off{{/localize}}",
			data:    map[string]any{"when": "today"},
			wantKey: "50%% %@ off",
			want:    "50% today off",
		},
		{
			name:         "no variables uses the skeleton verbatim",
			src:          "{{#localize}}Hello{{/localize}}",
			translations: map[string]string{"Hello": "Bonjour"},
			wantKey:      "Hello",
			want:         "Bonjour",
		},
		{
			name:    "no variables keeps a single percent",
			src:     "{{#localize}}100% sure{{/localize}}",
			wantKey: "100% sure",
			want:    "100% sure",
		},
		{
			name:         "translated format",
			src:          "{{#localize}}Hello {{name}}, you have {{count}} messages{{/localize}}",
			data:         map[string]any{"name": "Arthur", "count": 3},
			translations: map[string]string{"Hello %@, you have %@ messages": "Bonjour %@, vous avez %@ messages"},
			wantKey:      "Hello %@, you have %@ messages",
			want:         "Bonjour Arthur, vous avez 3 messages",
		},
		{
			name:         "translation reorders arguments",
			src:          "{{#localize}}{{count}} books by {{author}}{{/localize}}",
			data:         map[string]any{"count": 2, "author": "Ende"},
			translations: map[string]string{"%@ books by %@": "Von %2$@: %1$@ Bücher"},
			wantKey:      "%@ books by %@",
			want:         "Von Ende: 2 Bücher",
		},
		{
			name:         "translation omits an argument",
			src:          "{{#localize}}Hello {{name}}{{/localize}}",
			data:         map[string]any{"name": "Arthur"},
			translations: map[string]string{"Hello %@": "Salut"},
			wantKey:      "Hello %@",
			want:         "Salut",
		},
		{
			name:    "arguments are escaped",
			src:     "{{#localize}}Hello {{name}}{{/localize}}",
			data:    map[string]any{"name": "<b>Arthur</b>"},
			wantKey: "Hello %@",
			want:    "Hello &lt;b&gt;Arthur&lt;/b&gt;",
		},
		{
			name:    "raw arguments are not escaped",
			src:     "{{#localize}}Hello {{{name}}}{{/localize}}",
			data:    map[string]any{"name": "<b>Arthur</b>"},
			wantKey: "Hello %@",
			want:    "Hello <b>Arthur</b>",
		},
		{
			name:    "boolean sections become part of the key",
			src:     "{{#localize}}{{#admin}}Admin {{/admin}}{{^admin}}User {{/admin}}{{name}}{{/localize}}",
			data:    map[string]any{"admin": true, "name": "Arthur"},
			wantKey: "Admin %@",
			want:    "Admin Arthur",
		},
		{
			name:    "loops contribute one argument per item",
			src:     "{{#localize}}Tags:{{#tags}} {{.}}{{/tags}}{{/localize}}",
			data:    map[string]any{"tags": []string{"a", "b", "c"}},
			wantKey: "Tags: %@ %@ %@",
			want:    "Tags: a b c",
		},
		{
			name:    "dotted names",
			src:     "{{#localize}}by {{user.name}}{{/localize}}",
			data:    map[string]any{"user": map[string]any{"name": "Arthur"}},
			wantKey: "by %@",
			want:    "by Arthur",
		},
		{
			name:         "filter inside a section is an argument",
			src:          "{{#localize}}Open {{localize(item)}}{{/localize}}",
			data:         map[string]any{"item": "door"},
			translations: map[string]string{"door": "porte", "Open %@": "Ouvrir la %@"},
			wantKey:      "Open %@",
			want:         "Ouvrir la porte",
		},
		{
			name:    "placeholder lookalike text",
			src:     "{{#localize}}%@ {{x}}{{/localize}}",
			data:    map[string]any{"x": "y"},
			wantKey: "%%@ %@",
			want:    "%@ y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &recordingStore{m: tt.translations}
			l := New(WithStore(store))

			got, err := render(t, l, tt.src, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, store.keys, tt.wantKey)
		})
	}
}

func TestRenderSectionArity(t *testing.T) {
	t.Parallel()

	tables := i18n.NewTables()
	tables.Set("", "Hello %@", "Bonjour %@ et %@")

	got, err := render(t, New(WithStore(tables)), "{{#localize}}Hello {{name}}{{/localize}}", map[string]any{"name": "Arthur"})
	require.ErrorIs(t, err, ErrArgumentCount)
	assert.Empty(t, got)

	var ae *ArityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 2, ae.Want)
	assert.Equal(t, 1, ae.Got)
}

func TestRenderSectionContentType(t *testing.T) {
	t.Parallel()

	l := New(WithStore(i18n.NewTables()))

	for _, ct := range []mustache.ContentType{mustache.HTML, mustache.Text} {
		tmpl, err := mustache.Parse("{{#localize}}a {{x}}{{/localize}}", mustache.WithContentType(ct))
		require.NoError(t, err)

		r, err := tmpl.RenderContext(l.Register(mustache.NewContext(map[string]any{"x": "<&>"}), Name))
		require.NoError(t, err)
		assert.Equal(t, ct, r.ContentType)

		if ct == mustache.HTML {
			assert.Equal(t, "a &lt;&amp;&gt;", r.Text)
		} else {
			assert.Equal(t, "a <&>", r.Text)
		}
	}
}

func TestRenderSectionIdempotent(t *testing.T) {
	t.Parallel()

	tables := i18n.NewTables()
	tables.Set("", "%@ has %@ items", "%@ a %@ objets")

	l := New(WithStore(tables))
	tmpl := mustache.MustParse("{{#localize}}{{name}} has {{count}} items{{/localize}}")
	data := map[string]any{"name": "Arthur", "count": 4}

	first, err := tmpl.Render(l.Bindings(Name), data)
	require.NoError(t, err)

	second, err := tmpl.Render(l.Bindings(Name), data)
	require.NoError(t, err)

	assert.Equal(t, "Arthur a 4 objets", first)
	assert.Equal(t, first, second)
}

// probe records the localized section captures it is rendered under.
type probe struct {
	captures []*capture
	states   []passState
}

func (p *probe) RenderSection(_ *mustache.Tag, ctx *mustache.Context) (mustache.Rendering, error) {
	for _, o := range ctx.Observers() {
		if c, ok := o.(*capture); ok {
			p.captures = append(p.captures, c)
			p.states = append(p.states, c.state)
		}
	}

	return mustache.Rendering{}, nil
}

func TestRenderSectionStateIsReset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		src        string
		wantErr    error
		wantStates []passState
	}{
		{
			name:       "success",
			src:        "{{#localize}}{{#probe}}{{/probe}}Hello {{name}}{{/localize}}",
			wantStates: []passState{stateSkeleton, stateArguments},
		},
		{
			name:       "render failure",
			src:        "{{#localize}}{{#probe}}{{/probe}}Hello {{name(name)}}{{/localize}}",
			wantErr:    mustache.ErrNotAFilter,
			wantStates: []passState{stateSkeleton},
		},
		{
			name:       "arity failure",
			src:        "{{#localize}}{{#probe}}{{/probe}}Bye {{name}}{{/localize}}",
			wantErr:    ErrArgumentCount,
			wantStates: []passState{stateSkeleton, stateArguments},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tables := i18n.NewTables()
			tables.Set("", "Bye %@", "%@ %@")

			p := &probe{}
			l := New(WithStore(tables))

			tmpl := mustache.MustParse(tt.src)
			_, err := tmpl.Render(l.Bindings(Name), map[string]any{"probe": p, "name": "Arthur"})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantStates, p.states)

			for _, c := range p.captures {
				assert.Equal(t, stateIdle, c.state)
				assert.Nil(t, c.args)
			}
		})
	}
}

func TestRenderSectionRenderErrorPassesThrough(t *testing.T) {
	t.Parallel()

	_, err := render(t, New(WithStore(i18n.NewTables())), "{{#localize}}{{nope(x)}}{{/localize}}", nil)
	require.ErrorIs(t, err, mustache.ErrNotAFilter)
	assert.NotErrorIs(t, err, ErrArgumentPass)
}

func TestRenderSectionArgumentPassFailure(t *testing.T) {
	t.Parallel()

	errFlaky := errors.New("flaky")
	calls := 0

	flaky := mustache.FilterFunc(func(v any) (any, error) {
		calls++
		if calls > 1 {
			return nil, errFlaky
		}

		return v, nil
	})

	_, err := render(t, New(WithStore(i18n.NewTables())), "{{#localize}}{{flaky(x)}}{{/localize}}",
		map[string]any{"flaky": flaky, "x": "y"})
	require.ErrorIs(t, err, ErrArgumentPass)
	require.ErrorIs(t, err, errFlaky)
}

func TestRenderSectionNested(t *testing.T) {
	t.Parallel()

	outer := New(WithStore(i18n.NewTables()))
	inner := New(WithStore(i18n.NewTables()), WithTable("other"))

	tests := []struct {
		name string
		data []any
		src  string
	}{
		{
			name: "same localizer",
			data: []any{outer.Bindings(Name)},
			src:  "{{#localize}}a {{#localize}}b {{x}}{{/localize}}{{/localize}}",
		},
		{
			name: "different localizers",
			data: []any{outer.Bindings(Name), inner.Bindings("other")},
			src:  "{{#localize}}a {{#other}}b {{x}}{{/other}}{{/localize}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl := mustache.MustParse(tt.src)
			_, err := tmpl.Render(append(tt.data, map[string]any{"x": "y"})...)
			require.ErrorIs(t, err, ErrNestedLocalization)
		})
	}

	// Sequential sections with one localizer are fine.
	got, err := render(t, outer, "{{#localize}}a {{x}}{{/localize}} {{#localize}}b {{x}}{{/localize}}", map[string]any{"x": "y"})
	require.NoError(t, err)
	assert.Equal(t, "a y b y", got)
}

func TestRenderSectionConcurrent(t *testing.T) {
	t.Parallel()

	tables := i18n.NewTables()
	tables.Set("", "Item %@ of %@", "Élément %@ sur %@")

	l := New(WithStore(tables))
	tmpl := mustache.MustParse("{{#localize}}Item {{i}} of {{n}}{{/localize}}")

	var g errgroup.Group

	for i := range 50 {
		g.Go(func() error {
			got, err := tmpl.Render(l.Bindings(Name), map[string]any{"i": i, "n": 50})
			if err != nil {
				return err
			}

			if want := fmt.Sprintf("Élément %d sur 50", i); got != want {
				return fmt.Errorf("got %q, want %q", got, want)
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
}

func TestLocalizeValue(t *testing.T) {
	t.Parallel()

	tables := i18n.NewTables()
	tables.Set("", "Title", "Titre")
	tables.Set("", "100%", "100 %")
	tables.Set("errors", "Title", "Erreur")

	l := New(WithStore(tables))

	r := l.LocalizeValue(mustache.Rendering{Text: "Title", ContentType: mustache.Text})
	assert.Equal(t, mustache.Rendering{Text: "Titre", ContentType: mustache.Text}, r)

	r = l.LocalizeValue(mustache.Rendering{Text: "100%", ContentType: mustache.HTML})
	assert.Equal(t, mustache.Rendering{Text: "100 %", ContentType: mustache.HTML}, r, "no format substitution")

	got, err := render(t, l, "<h1>{{localize(title)}}</h1>{{localize(missing)}}", map[string]any{"title": "Title", "missing": "<x>"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Titre</h1>&lt;x&gt;", got)

	got, err = render(t, New(WithStore(tables), WithTable("errors")), "{{localize(title)}}", map[string]any{"title": "Title"})
	require.NoError(t, err)
	assert.Equal(t, "Erreur", got)
}

func TestForLocale(t *testing.T) {
	t.Parallel()

	b := i18n.NewBundle(language.English)
	require.NoError(t, b.AddMessages(language.French, "", map[string]string{"Hello %@": "Bonjour %@"}))
	require.NoError(t, b.AddMessages(language.Japanese, "", map[string]string{"Hello %@": "こんにちは %@"}))

	l := New(WithStore(b))

	got, err := render(t, l.ForLocale(language.Japanese), "{{#localize}}Hello {{name}}{{/localize}}", map[string]any{"name": "Arthur"})
	require.NoError(t, err)
	assert.Equal(t, "こんにちは Arthur", got)

	plain := New(WithStore(i18n.StoreFunc(func(key, _ string) string { return key })))
	assert.Same(t, plain, plain.ForLocale(language.French))
}

func TestDefaultStore(t *testing.T) {
	prev := i18n.Default()
	t.Cleanup(func() { i18n.SetDefault(prev) })

	l := New()

	tables := i18n.NewTables()
	tables.Set("", "Hello %@", "Hallo %@")
	i18n.SetDefault(tables)

	got, err := render(t, l, "{{#localize}}Hello {{name}}{{/localize}}", map[string]any{"name": "Arthur"})
	require.NoError(t, err)
	assert.Equal(t, "Hallo Arthur", got)
	assert.Same(t, tables, l.Store())
}
