// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
i18n_extract writes gettext templates (.pot) with the keys used by
Go sources and Mustache templates, one file per translation table.

Keys of localized sections are extracted the way the renderer builds them,
with placeholders as %@ and literal percent signs doubled.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/mustache-l10n/mustache-l10n/core/audit"
	"codeberg.org/mustache-l10n/mustache-l10n/core/render"
	"codeberg.org/mustache-l10n/mustache-l10n/localizer"
)

func main() {
	audit.SetDefaultLogger()

	outDir := flag.String("o", "po", "output directory")
	templatesDir := flag.String("templates", "templates", "directory of .mustache templates; empty to skip")
	dataFile := flag.String("data", "", "YAML data to render templates with, for keys of filter calls")
	binding := flag.String("binding", localizer.Name, "name the localizer is bound to in templates")
	table := flag.String("table", "", "translation table of template keys")
	goPatterns := flag.String("go", "./...", "comma-separated Go package patterns; empty to skip")
	flag.Parse()

	if err := run(context.Background(), options{
		outDir:       *outDir,
		templatesDir: *templatesDir,
		dataFile:     *dataFile,
		binding:      *binding,
		table:        *table,
		goPatterns:   splitPatterns(*goPatterns),
	}); err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}
}

type options struct {
	outDir       string
	templatesDir string
	dataFile     string
	binding      string
	table        string
	goPatterns   []string
}

func run(ctx context.Context, opts options) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	root := findProjectRoot(wd)
	all := refs{}

	if len(opts.goPatterns) > 0 {
		found, err := extractGo(wd, root, opts.goPatterns...)
		if err != nil {
			return err
		}

		all.merge(found)
	}

	if opts.templatesDir != "" {
		data, err := render.LoadData(opts.dataFile)
		if err != nil {
			return err
		}

		// References are relative to the project root.
		dir := opts.templatesDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(wd, dir)
		}

		if rel, err := filepath.Rel(root, dir); err == nil {
			dir = rel
		}

		te := &templateExtractor{
			engine:  render.NewEngine(os.DirFS(opts.templatesDir)),
			dir:     filepath.ToSlash(dir),
			binding: opts.binding,
			table:   opts.table,
			data:    data,
		}

		found, err := te.extractAll(ctx)
		if err != nil {
			return err
		}

		all.merge(found)
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	now := time.Now()

	for _, table := range all.tables() {
		if err := writePOTFile(filepath.Join(opts.outDir, table+".pot"), all, table, now); err != nil {
			return err
		}
	}

	log.Info().
		Int("keys", len(all)).
		Strs("tables", all.tables()).
		Str("dir", opts.outDir).
		Msg("Wrote templates")

	return nil
}

func writePOTFile(name string, rs refs, table string, now time.Time) error {
	f, err := os.Create(name) // #nosec G304 -- output path chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	if err := writePOT(f, rs, table, now); err != nil {
		_ = f.Close()

		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	return f.Close()
}

func splitPatterns(s string) []string {
	var out []string

	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// findProjectRoot attempts to find a stable root directory for source references.
// Preference order:
//  1. git toplevel directory
//  2. nearest parent directory that contains go.mod
//  3. the provided working directory
func findProjectRoot(wd string) string {
	if root := gitTopLevel(wd); root != "" {
		return root
	}

	if root := nearestGoModDir(wd); root != "" {
		return root
	}

	return wd
}

func gitTopLevel(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return ""
	}

	return filepath.Clean(root)
}

func nearestGoModDir(start string) string {
	for dir := filepath.Clean(start); ; {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}
