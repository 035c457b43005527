// Command supler-demo serves the person form over HTTP and prints its
// documents for inspection.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	supler "github.com/reoring/supler"
	"github.com/reoring/supler/examples/person"
	"github.com/reoring/supler/i18n"
	"github.com/reoring/supler/internal/config"
	"github.com/reoring/supler/internal/ctxlog"
	"github.com/reoring/supler/middleware"
	echomw "github.com/reoring/supler/middleware/echo"
	ginmw "github.com/reoring/supler/middleware/gin"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "serve":
		serveCmd(os.Args[2:])
	case "schema":
		schemaCmd(os.Args[2:])
	case "render":
		renderCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "supler-demo\n\nUsage:\n  supler-demo serve [-config demo.yaml]\n  supler-demo schema\n  supler-demo render [-config demo.yaml]")
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var path string
	fs.StringVar(&path, "config", "", "YAML configuration file")
	_ = fs.Parse(args)

	cfg, err := config.LoadFile(path)
	if err != nil {
		fatalf("%v", err)
	}
	logger := ctxlog.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	app, err := newApp(cfg, logger, person.NewMemStore(), &person.MemMailer{})
	if err != nil {
		fatalf("%v", err)
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: app.handler(), ReadHeaderTimeout: 5 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	logger.Info("listening", "addr", cfg.Addr, "adapter", cfg.Adapter)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatalf("serve: %v", err)
	}
}

func schemaCmd(args []string) {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	_ = fs.Parse(args)
	writeJSON(os.Stdout, person.NewForm().JSONSchema())
}

func renderCmd(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var path string
	fs.StringVar(&path, "config", "", "YAML configuration file")
	_ = fs.Parse(args)

	cfg, err := config.LoadFile(path)
	if err != nil {
		fatalf("%v", err)
	}
	app, err := newApp(cfg, ctxlog.New(cfg.Log.Level, cfg.Log.Format, os.Stderr), person.NewMemStore(), &person.MemMailer{})
	if err != nil {
		fatalf("%v", err)
	}
	writeJSON(os.Stdout, supler.NewInitial(app.form, person.Person{}))
}

// app holds what every adapter serves: the configured form and the services
// its actions use.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	form   *supler.Form[person.Person]
	store  person.Store
	mailer person.Mailer
}

func newApp(cfg *config.Config, logger *slog.Logger, store person.Store, mailer person.Mailer) (*app, error) {
	bundle, err := loadBundle(cfg.I18n.Bundle)
	if err != nil {
		return nil, err
	}
	formCfg := &supler.Config{
		Translator:       bundle.Translator(cfg.I18n.Language),
		SanitizeMessages: cfg.SanitizeMessages,
		Logger:           logger,
	}
	return &app{
		cfg:    cfg,
		logger: logger,
		form:   person.NewForm().WithConfig(formCfg),
		store:  store,
		mailer: mailer,
	}, nil
}

func loadBundle(path string) (*i18n.Bundle, error) {
	if path == "" {
		return person.Messages()
	}
	return i18n.LoadBundleFile(path)
}

// withRequestScope attaches the logger and the action services to ctx.
func (a *app) withRequestScope(ctx context.Context) context.Context {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	ctx = supler.WithService[person.Store](ctx, a.store)
	return supler.WithService[person.Mailer](ctx, a.mailer)
}

// load binds the person addressed by the id query parameter; no id starts
// an empty person.
func (a *app) load(ctx context.Context, id string) (*supler.FormWithObject[person.Person], error) {
	if id == "" {
		return supler.NewInitial(a.form, person.Person{}), nil
	}
	p, ok, err := a.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("person %q: %w", id, middleware.ErrNotFound)
	}
	return supler.NewInitial(a.form, p), nil
}

func (a *app) handler() http.Handler {
	switch a.cfg.Adapter {
	case config.AdapterGin:
		return a.ginHandler()
	case config.AdapterEcho:
		return a.echoHandler()
	default:
		return a.httpHandler()
	}
}

func (a *app) httpHandler() http.Handler {
	forms := middleware.Handler(func(r *http.Request) (*supler.FormWithObject[person.Person], error) {
		return a.load(r.Context(), r.URL.Query().Get("id"))
	})
	mux := http.NewServeMux()
	mux.Handle("/people", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forms.ServeHTTP(w, r.WithContext(a.withRequestScope(r.Context())))
	}))
	mux.HandleFunc("/schema", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, a.form.JSONSchema())
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

func (a *app) ginHandler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), func(c *gin.Context) {
		c.Request = c.Request.WithContext(a.withRequestScope(c.Request.Context()))
		c.Next()
	})
	r.Any("/people", ginmw.Handle(func(c *gin.Context) (*supler.FormWithObject[person.Person], error) {
		return a.load(c.Request.Context(), c.Query("id"))
	}))
	r.GET("/schema", func(c *gin.Context) { c.JSON(http.StatusOK, a.form.JSONSchema()) })
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	return r
}

func (a *app) echoHandler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(a.withRequestScope(c.Request().Context())))
			return next(c)
		}
	})
	e.Any("/people", echomw.Handle(func(c echo.Context) (*supler.FormWithObject[person.Person], error) {
		return a.load(c.Request().Context(), c.QueryParam("id"))
	}))
	e.GET("/schema", func(c echo.Context) error { return c.JSON(http.StatusOK, a.form.JSONSchema()) })
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e
}

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatalf("encode: %v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
