// Package server serves the survey dashboard over HTTP.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/sodash/internal/present"
	"github.com/KaramelBytes/sodash/internal/question"
	"github.com/KaramelBytes/sodash/internal/report"
	"github.com/KaramelBytes/sodash/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds dashboard settings.
type Config struct {
	Addr  string
	Chart present.ChartSize
}

// App is the dashboard HTTP application.
type App struct {
	router    *chi.Mux
	sess      *session.Session
	templates *template.Template
	cfg       Config
	log       *slog.Logger
}

// New builds the router for sess.
func New(sess *session.Session, cfg Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		cfg.Chart = present.DefaultChartSize
	}
	a := &App{router: chi.NewRouter(), sess: sess, templates: templates, cfg: cfg, log: log}
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler { return a.router }

func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5, "text/html", "application/json"))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/questions/{id}", a.handleQuestion)
	a.router.Get("/healthz", a.handleHealth)

	a.router.Get("/api/questions", a.handleListQuestions)
	a.router.Get("/api/questions/{id}", a.handleGetQuestion)
	a.router.Get("/api/questions/{id}/chart.png", a.handleChart)
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("dashboard listening", "addr", a.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type page struct {
	Year      string
	Questions []question.Question
	Dataset   string
	Rows      int
	Baseline  string

	Report      *report.Renderable
	Unavailable bool
	Metric      string
	Table       template.HTML
	HasChart    bool
	ChartWidth  int
}

func (a *App) basePage() page {
	p := page{Year: a.sess.Year(), Questions: a.sess.Questions()}
	if cur := a.sess.Current(); cur != nil {
		p.Dataset = cur.Name()
		p.Rows = cur.Len()
	}
	if a.sess.HasBaseline() {
		p.Baseline = a.sess.BaselineYear()
	}
	return p
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "index.html", a.basePage())
}

func (a *App) handleQuestion(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.lookup(w, r)
	if !ok {
		return
	}
	p := a.basePage()
	p.Report = rep
	p.ChartWidth = a.cfg.Chart.Width
	switch rep.Kind {
	case report.Unavailable:
		p.Unavailable = true
	case report.SingleMetric:
		if m := rep.Metric; m != nil {
			p.Metric = fmt.Sprintf("%s: %s (%s vs %s: %s)", m.Label, present.Amount(m.Value), present.Delta(m.Delta), m.BaselineLabel, present.Amount(m.Baseline))
		}
		p.Table = template.HTML(present.HTML(rep))
	default:
		p.HasChart = true
		p.Table = template.HTML(present.HTML(rep))
	}
	a.renderTemplate(w, "question.html", p)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (a *App) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.sess.Questions())
}

func (a *App) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (a *App) handleChart(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.lookup(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := present.Chart(&buf, rep, a.cfg.Chart); err != nil {
		if errors.Is(err, present.ErrNoChart) {
			http.Error(w, "no chart for this question", http.StatusNotFound)
			return
		}
		a.log.Error("chart render failed", "question", rep.Question, "err", err)
		http.Error(w, "chart error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", present.ChartFileName(rep)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// lookup resolves the {id} URL parameter, writing a 404 for unknown ids.
func (a *App) lookup(w http.ResponseWriter, r *http.Request) (*report.Renderable, bool) {
	id := chi.URLParam(r, "id")
	rep, err := a.sess.Report(id)
	if err != nil {
		if errors.Is(err, question.ErrUnknownQuestion) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return nil, false
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return rep, true
}

func (a *App) renderTemplate(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		a.log.Error("template error", "template", name, "err", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
