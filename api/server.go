package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matt-g-everett/ledtx/stream"
)

// Controller is the part of stream.Controller exposed over HTTP.
type Controller interface {
	Status() stream.Status
	Cycle() (bool, error)
	CancelFade() bool
}

// Api serves the web client, metrics and animation control.
type Api struct {
	controller Controller
	logger     *zap.Logger
	router     chi.Router
}

// NewApi creates an Api serving static files from staticDir and metrics
// gathered from gatherer.
func NewApi(controller Controller, staticDir string, gatherer prometheus.Gatherer, logger *zap.Logger) *Api {
	a := new(Api)
	a.controller = controller
	a.logger = logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Route("/api/animation", func(r chi.Router) {
		r.Get("/", a.getStatus)
		r.Post("/cycle", a.postCycle)
		r.Post("/cancel", a.postCancel)
	})
	r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	a.router = r

	return a
}

// Handler returns the root HTTP handler.
func (a *Api) Handler() http.Handler {
	return a.router
}

func (a *Api) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("Cannot write response", zap.Error(err))
	}
}

func (a *Api) getStatus(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.controller.Status())
}

func (a *Api) postCycle(w http.ResponseWriter, r *http.Request) {
	started, err := a.controller.Cycle()
	if err != nil {
		a.logger.Error("Cannot start crossfade", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !started {
		a.writeJSON(w, http.StatusConflict, a.controller.Status())
		return
	}
	a.writeJSON(w, http.StatusAccepted, a.controller.Status())
}

func (a *Api) postCancel(w http.ResponseWriter, r *http.Request) {
	if !a.controller.CancelFade() {
		a.writeJSON(w, http.StatusConflict, a.controller.Status())
		return
	}
	a.writeJSON(w, http.StatusAccepted, a.controller.Status())
}

// Serve listens on addr until ctx is done.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("Shutdown failed", zap.Error(err))
		}
	}()

	a.logger.Info("Listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
