package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anshulm/webpage"
	"github.com/anshulm/webpage/config"
	webhttp "github.com/anshulm/webpage/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the webpage HTTP server.

Every template in the template directory becomes a page: index.html is
served at /, about.html at /about, and so on. Templates whose name starts
with an underscore or lives under a partials/ directory are treated as
partials and get no route. The error template is reserved for error pages.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8093, "HTTP server port")
	serveCmd.Flags().Bool("reload", false, "re-parse templates on every request")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var configFiles []string
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		configFiles = append(configFiles, configFile)
	}
	cfg, err := config.Load(configFiles, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx = config.WithContext(ctx, cfg)

	renderer, err := webpage.NewFS(os.DirFS(cfg.Templates.Dir), webpage.Options{
		Ext:    cfg.Templates.Ext,
		Reload: cfg.Templates.Reload,
	}, webpage.Context(cfg.Context))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	slog.Info("templates loaded", "dir", cfg.Templates.Dir, "count", len(renderer.Names()))

	handler := webhttp.NewHandler(&webhttp.HandlerConfig{
		ErrorTemplate: cfg.Templates.ErrorTemplate,
		StaticDir:     cfg.Static.Dir,
		StaticRoute:   cfg.Static.Route,
		CORS:          cfg.CORS,
	}, renderer)

	if err := registerPages(handler, renderer, cfg); err != nil {
		return fmt.Errorf("register pages: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// registerPages maps every non-partial template to a route derived from its
// file name.
func registerPages(handler *webhttp.Handler, renderer *webpage.Renderer, cfg *config.Config) error {
	for _, name := range renderer.Names() {
		if !servableTemplate(name, cfg) {
			continue
		}

		pattern := "/" + strings.TrimSuffix(name, cfg.Templates.Ext)
		if pattern == "/index" {
			pattern = "/"
		}

		template := name
		err := handler.Page(routeName(name, cfg.Templates.Ext), pattern, template,
			func(w http.ResponseWriter, r *http.Request) (webpage.Context, error) {
				return webpage.Context{}, nil
			})
		if err != nil {
			return err
		}
		slog.Debug("page registered", "pattern", pattern, "template", template)
	}
	return nil
}

func servableTemplate(name string, cfg *config.Config) bool {
	if name == cfg.Templates.ErrorTemplate {
		return false
	}
	base := name
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		if strings.HasPrefix(name, "partials/") {
			return false
		}
		base = name[idx+1:]
	}
	return !strings.HasPrefix(base, "_")
}

func routeName(name, ext string) string {
	return strings.ReplaceAll(strings.TrimSuffix(name, ext), "/", "_")
}
