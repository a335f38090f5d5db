// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
mustache-l10n renders localized Mustache templates.

Given a template file, it renders the file to standard output with the
configured translation catalog. With -serve, it runs a preview server that
renders the templates directory on request, in the language each client asks
for.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/config"
	"codeberg.org/mustache-l10n/mustache-l10n/core/audit"
	"codeberg.org/mustache-l10n/mustache-l10n/core/render"
	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
	"codeberg.org/mustache-l10n/mustache-l10n/server/router"
	"codeberg.org/mustache-l10n/mustache-l10n/server/routes"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 10 * time.Second
	idleTimeout       time.Duration = 30 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second
)

var (
	errNoTemplate    = errors.New("no template given; pass a template file or -serve")
	errInvalidLocale = errors.New("invalid locale")
)

var (
	localeFlag  = flag.String("locale", "", "Locale to render in. Defaults to catalog.defaultLocale.")
	dataFlag    = flag.String("data", "", "YAML file with the rendering data. Overrides render.dataFile.")
	serveFlag   = flag.Bool("serve", false, "Run the preview server instead of rendering a template.")
	versionFlag = flag.Bool("version", false, "Print the version and exit.")
)

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

// run loads the configuration and catalog, then renders or serves.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if *versionFlag {
		fmt.Println("mustache-l10n", config.Global.Build.String())

		return nil
	}

	if err := setupCatalog(&config.Global); err != nil {
		return fmt.Errorf("failed to initialize i18n engine: %w", err)
	}

	if *dataFlag != "" {
		config.Global.Render.DataFile = *dataFlag
	}

	data, err := render.LoadData(config.Global.Render.DataFile)
	if err != nil {
		return err
	}

	if *serveFlag {
		return serve(data)
	}

	if flag.NArg() == 0 {
		return errNoTemplate
	}

	tag := config.Global.BaseTag()

	if *localeFlag != "" {
		if tag, err = language.Parse(*localeFlag); err != nil {
			return fmt.Errorf("%w %q: %w", errInvalidLocale, *localeFlag, err)
		}
	}

	return renderFile(i18n.WithTag(context.Background(), tag), os.Stdout, flag.Arg(0), data)
}

// setupCatalog installs the catalog of cfg as the default translation store.
// Without a catalog directory, every lookup falls back to its key.
func setupCatalog(cfg *config.Config) error {
	if cfg.Catalog.Dir == "" {
		log.Info().Msg("No catalog directory configured, rendering untranslated")

		return nil
	}

	_, err := i18n.Setup(os.DirFS(cfg.Catalog.Dir), cfg.Catalog.Format, cfg.BaseTag(), cfg.StoreOptions()...)

	return err
}

func newEngine(cfg *config.Config, dir string) *render.Engine {
	return render.NewEngine(os.DirFS(dir),
		render.WithContentType(cfg.Render.ContentType),
		render.WithBinding(cfg.Render.BindingName),
		render.WithTable(cfg.Catalog.Table),
	)
}

// renderFile renders the template file at path to w, in the language of ctx.
func renderFile(ctx context.Context, w io.Writer, path string, data map[string]any) error {
	engine := newEngine(&config.Global, filepath.Dir(path))

	r, err := engine.Render(ctx, filepath.Base(path), data)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, r.Text)

	return err
}

// serve runs the preview server until it fails or SIGINT or SIGTERM asks it
// to stop, then drains open connections.
func serve(data map[string]any) error {
	preview := &routes.Preview{
		Engine: newEngine(&config.Global, config.Global.Render.TemplatesDir),
		Data:   data,
		Reload: config.Global.Development.InDevelopment,
	}

	server := &http.Server{
		Handler:           router.New(preview),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	listener, err := listen()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

// listen binds the configured host and port. Port 0 picks a free one.
func listen() (net.Listener, error) {
	addr := net.JoinHostPort(config.Global.Basic.Host, config.Global.Basic.Port)

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	bound, _ := listener.Addr().(*net.TCPAddr)

	log.Info().
		Stringer("address", listener.Addr()).
		Str("url", fmt.Sprintf("http://localhost:%d/", bound.AddrPort().Port())).
		Msg("Listening on address")

	return listener, nil
}
