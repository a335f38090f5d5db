// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package mustache

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Context is the rendering environment: a stack of values and observers.
//
// A Context is never modified. Push and Extend return a new Context that
// shares the receiver as its parent.
type Context struct {
	parent   *Context
	value    any
	hasValue bool
	observer Observer
}

// NewContext returns a context with values pushed in order, so the last
// value is looked up first.
func NewContext(values ...any) *Context {
	c := &Context{}
	for _, v := range values {
		c = c.Push(v)
	}

	return c
}

// Push returns a context where value is looked up before the receiver's values.
func (c *Context) Push(value any) *Context {
	return &Context{parent: c, value: value, hasValue: true}
}

// Extend returns a context that notifies o around every tag rendered in it.
func (c *Context) Extend(o Observer) *Context {
	return &Context{parent: c, observer: o}
}

// Top returns the most recently pushed value.
func (c *Context) Top() any {
	for l := c; l != nil; l = l.parent {
		if l.hasValue {
			return l.value
		}
	}

	return nil
}

// Lookup resolves a dotted name such as "user.name". The first component
// is searched from the top of the stack down; the rest are resolved on
// the value found. "." returns the top value.
func (c *Context) Lookup(name string) (any, bool) {
	if name == "." {
		return c.Top(), true
	}

	scoped := strings.HasPrefix(name, ".")

	return c.lookupPath(strings.Split(strings.TrimPrefix(name, "."), "."), scoped)
}

// Observers returns the observers in scope, most recently pushed first.
func (c *Context) Observers() []Observer {
	var out []Observer

	for l := c; l != nil; l = l.parent {
		if l.observer != nil {
			out = append(out, l.observer)
		}
	}

	return out
}

func (c *Context) lookupPath(path []string, scoped bool) (any, bool) {
	if len(path) == 0 {
		return c.Top(), true
	}

	var (
		value any
		found bool
	)

	if scoped {
		value, found = valueForKey(c.Top(), path[0])
	} else {
		for l := c; l != nil && !found; l = l.parent {
			if l.hasValue {
				value, found = valueForKey(l.value, path[0])
			}
		}
	}

	for _, key := range path[1:] {
		if !found {
			break
		}

		value, found = valueForKey(value, key)
	}

	if !found {
		return nil, false
	}

	return value, true
}

// valueForKey reads key from maps with string keys, struct fields and
// zero-argument methods. A lowercase key also matches the exported
// field or method of the same name.
func valueForKey(v any, key string) (any, bool) {
	if v == nil {
		return nil, false
	}

	rv := reflect.ValueOf(v)

	// A nil pointer has no fields, and its value methods would panic.
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, false
	}

	if m := methodByName(rv, key); m.IsValid() {
		return m.Call(nil)[0].Interface(), true
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}

		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}

		return mv.Interface(), true
	case reflect.Struct:
		for _, name := range []string{key, exported(key)} {
			f := rv.FieldByName(name)
			if f.IsValid() && f.CanInterface() {
				return f.Interface(), true
			}
		}
	}

	return nil, false
}

func methodByName(rv reflect.Value, key string) reflect.Value {
	for _, name := range []string{key, exported(key)} {
		m := rv.MethodByName(name)
		if m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() == 1 {
			return m
		}
	}

	return reflect.Value{}
}

func exported(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
