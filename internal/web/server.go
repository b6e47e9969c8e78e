// Package web serves the browser front-end of the content generator.
package web

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/session"
)

const shutdownTimeout = 5 * time.Second

// StartOpts holds configuration for the UI server.
type StartOpts struct {
	Controller *session.Controller
	Store      *history.Store
	Addr       string
	Out        io.Writer
}

// Start launches the UI server. It blocks until ctx is cancelled, then shuts
// down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Addr == "" {
		opts.Addr = ":3000"
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(opts.Controller, opts.Store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    opts.Addr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️ web server shutdown: %v", err)
		}
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Content generator running at http://localhost%s\n", opts.Addr)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with every UI and API route.
func NewRouter(ctrl *session.Controller, store *history.Store) (*gin.Engine, error) {
	if ctrl == nil || store == nil {
		return nil, fmt.Errorf("web: controller and store are required")
	}

	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	registerRoutes(router, &handlers{ctrl: ctrl, store: store})
	return router, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
