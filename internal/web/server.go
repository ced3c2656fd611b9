// Package web serves the book-selection form and recommendation results.
package web

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Opts holds configuration for the web server.
type Opts struct {
	DB *gorm.DB

	// Port to listen on; defaults to 8000.
	Port int
	// MainURL is the path serving the book-selection page; defaults to /.
	MainURL string
	// RequestTimeout bounds request reads and response writes.
	RequestTimeout time.Duration
	// Workers bounds concurrent recommendation computations.
	Workers int
	// MinRatings and TopN tune the recommender.
	MinRatings int
	TopN       int

	Out io.Writer
}

// Start launches the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts Opts) error {
	if opts.DB == nil {
		return fmt.Errorf("web: db is required")
	}
	applyOptDefaults(&opts)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("web: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	registerRoutes(router, &opts)

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  opts.RequestTimeout,
		WriteTimeout: opts.RequestTimeout,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Shelfrec running at http://localhost:%d%s\n", opts.Port, opts.MainURL)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}

func applyOptDefaults(opts *Opts) {
	if opts.Port <= 0 {
		opts.Port = 8000
	}
	if opts.MainURL == "" {
		opts.MainURL = "/"
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MinRatings <= 0 {
		opts.MinRatings = 8
	}
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
}

// parseTemplates loads the embedded HTML templates.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
