// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"

	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
)

var errPackageErrors = errors.New("packages failed to load")

// callShape gives the argument positions of a lookup function of package
// i18n. A negative table means the default table.
type callShape struct {
	table, key int
}

var lookupCalls = map[string]callShape{
	"Tr":           {table: -1, key: 1},
	"NewUserError": {table: -1, key: 1},
	"TrT":          {table: 1, key: 2},
}

// goScanner collects the keys of one package.
type goScanner struct {
	found   refs
	root    string
	fset    *token.FileSet
	info    *types.Info
	i18nPkg map[string]bool
}

// extractGo loads the packages matching patterns from dir and collects every
// constant key handed to package i18n, either through its lookup functions
// or as a value of type i18n.MsgKey.
func extractGo(dir, root string, patterns ...string) (refs, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Dir: dir}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		return nil, errPackageErrors
	}

	found := refs{}
	i18nPkg := i18nPackages(pkgs)

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		s := &goScanner{found: found, root: root, fset: p.Fset, info: p.TypesInfo, i18nPkg: i18nPkg}

		for _, f := range p.Syntax {
			ast.Inspect(f, s.visit)
		}
	}

	return found, nil
}

// i18nPackages finds the packages named i18n that declare a string-based
// MsgKey, wherever they live in the import graph.
func i18nPackages(pkgs []*packages.Package) map[string]bool {
	out := map[string]bool{}

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.Name != "i18n" || p.Types == nil {
			return
		}

		obj, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			return
		}

		if b, ok := obj.Type().Underlying().(*types.Basic); ok && b.Info()&types.IsString != 0 {
			out[p.PkgPath] = true
		}
	})

	return out
}

func (s *goScanner) visit(n ast.Node) bool {
	switch x := n.(type) {
	case *ast.CallExpr:
		s.call(x)
	case *ast.CompositeLit:
		s.literal(x)
	}

	return true
}

func (s *goScanner) constant(expr ast.Expr) (string, bool) {
	tv, ok := s.info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

func (s *goScanner) fromI18n(obj types.Object) bool {
	return obj != nil && obj.Pkg() != nil && s.i18nPkg[obj.Pkg().Path()]
}

func (s *goScanner) isMsgKey(t types.Type) bool {
	named, ok := t.(*types.Named)

	return ok && named.Obj().Name() == "MsgKey" && s.fromI18n(named.Obj())
}

// keyIf records expr under the default table when t is MsgKey and expr is
// a constant.
func (s *goScanner) keyIf(t types.Type, expr ast.Expr) {
	if !s.isMsgKey(t) {
		return
	}

	if id, ok := s.constant(expr); ok {
		s.record(expr.Pos(), i18n.DefaultTable, id)
	}
}

func (s *goScanner) literal(x *ast.CompositeLit) {
	t := s.info.TypeOf(x)
	if t == nil {
		return
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		for _, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				s.keyIf(u.Key(), kv.Key)
				s.keyIf(u.Elem(), kv.Value)
			}
		}
	case *types.Slice:
		s.elements(u.Elem(), x.Elts)
	case *types.Array:
		s.elements(u.Elem(), x.Elts)
	case *types.Struct:
		s.fields(u, x.Elts)
	}
}

func (s *goScanner) elements(elem types.Type, elts []ast.Expr) {
	for _, elt := range elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			elt = kv.Value // indexed element
		}

		s.keyIf(elem, elt)
	}
}

func (s *goScanner) fields(st *types.Struct, elts []ast.Expr) {
	for i, elt := range elts {
		kv, keyed := elt.(*ast.KeyValueExpr)
		if !keyed {
			if i < st.NumFields() {
				s.keyIf(st.Field(i).Type(), elt)
			}

			continue
		}

		name, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}

		for f := range st.Fields() {
			if f.Name() == name.Name {
				s.keyIf(f.Type(), kv.Value)
			}
		}
	}
}

func (s *goScanner) call(x *ast.CallExpr) {
	// Conversion such as i18n.MsgKey("Hello").
	if tv, ok := s.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 {
			s.keyIf(tv.Type, x.Args[0])
		}

		return
	}

	if s.lookupCall(x) {
		return
	}

	sig, ok := s.info.TypeOf(x.Fun).(*types.Signature)
	if !ok || sig.Params().Len() == 0 {
		return
	}

	params := sig.Params()
	last := params.Len() - 1

	for i, arg := range x.Args {
		switch {
		case sig.Variadic() && i >= last:
			// f(keys...) is covered by the slice literal, if any.
			if x.Ellipsis.IsValid() {
				continue
			}

			s.keyIf(params.At(last).Type().(*types.Slice).Elem(), arg)
		case i < params.Len():
			s.keyIf(params.At(i).Type(), arg)
		}
	}
}

// lookupCall records the key of a call to one of lookupCalls and reports
// whether x was such a call.
func (s *goScanner) lookupCall(x *ast.CallExpr) bool {
	sel, ok := x.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}

	fn, ok := s.info.Uses[sel.Sel].(*types.Func)
	if !ok || !s.fromI18n(fn) {
		return false
	}

	shape, ok := lookupCalls[fn.Name()]
	if !ok {
		return false
	}

	if shape.key >= len(x.Args) {
		return true
	}

	table := i18n.DefaultTable
	if shape.table >= 0 {
		if table, ok = s.constant(x.Args[shape.table]); !ok {
			return true
		}
	}

	if id, ok := s.constant(x.Args[shape.key]); ok {
		s.record(x.Args[shape.key].Pos(), table, id)
	}

	return true
}

// record adds a reference to id, with the file relative to the project root.
func (s *goScanner) record(pos token.Pos, table, id string) {
	p := s.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(s.root, file); err == nil {
		file = rel
	}

	s.found.add(key{table: table, id: id}, ref{file: filepath.ToSlash(file), line: p.Line})
}
