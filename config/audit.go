// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/mustache-l10n/mustache-l10n/core/audit"
)

const (
	renderDirPermissions = 0o700
	logFilePermissions   = 0o666
)

// setupAudit points the global logger at Log.Outputs and prepares the
// directory saved renders go to.
func (cfg *Config) setupAudit() {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Development.InDevelopment {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	writers := make([]io.Writer, 0, max(1, len(cfg.Log.Outputs)))

	if len(cfg.Log.Outputs) == 0 {
		writers = append(writers, ConsoleWriter(os.Stderr))
	}

	for _, output := range cfg.Log.Outputs {
		w, err := cfg.logWriter(output)
		if err != nil {
			// The logger is what failed, so report on stderr directly.
			fmt.Fprintf(os.Stderr, "Skipping log output %s: %v\n", output, err)

			continue
		}

		writers = append(writers, w)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))

	audit.SaveRenders = cfg.Development.SaveRenders
	audit.RenderDirectory = cfg.Development.RenderSaveLocation

	if !audit.SaveRenders {
		return
	}

	if err := os.MkdirAll(audit.RenderDirectory, renderDirPermissions); err != nil {
		log.Error().
			Err(err).
			Str("path", audit.RenderDirectory).
			Msg("Failed to create render directory, not saving renders")

		audit.SaveRenders = false
	}
}

// logWriter opens one entry of Log.Outputs. Files get raw JSON when
// Log.Format is "json".
func (cfg *Config) logWriter(output string) (io.Writer, error) {
	switch output {
	case "/dev/stdout":
		return ConsoleWriter(os.Stdout), nil
	case "/dev/stderr":
		return ConsoleWriter(os.Stderr), nil
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec:G302,G304
	if err != nil {
		return nil, err
	}

	if cfg.Log.Format == "json" {
		return file, nil
	}

	return ConsoleWriter(file), nil
}

// ConsoleWriter returns a human-readable writer to f, colored when f is a
// terminal. Colored output folds audit spans into one short line.
func ConsoleWriter(f *os.File) io.Writer {
	fd := f.Fd()
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	w := zerolog.ConsoleWriter{Out: f, NoColor: !color, TimeFormat: time.DateTime}
	if color {
		w.FormatPrepare = foldAuditFields
	}

	return w
}

func foldAuditFields(m map[string]any) error {
	if m["sys"] != "audit" {
		return nil
	}

	m["message"] = fmt.Sprintf("[%s] %s %s", m["kind"], m["status"], m["target"])

	for _, field := range []string{"sys", "kind", "status", "target", "request_id"} {
		delete(m, field)
	}

	return nil
}
