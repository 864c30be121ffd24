package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"survey-service/internal/app"
)

// Services bundles the use cases served over HTTP. Ready is optional and
// backs /healthz.
type Services struct {
	Accounts    *app.AccountService
	Catalog     *app.CatalogService
	Assignments *app.AssignmentResolver
	Recorder    *app.ResponseRecorder
	Results     *app.ResultAggregator
	Ready       func(ctx context.Context) error
}

type Handler struct {
	svc      Services
	upgrader websocket.Upgrader
}

func NewHandler(svc Services) *Handler {
	return &Handler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes builds the chi router with the full API surface.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.root)
	r.Get("/healthz", h.health)

	r.Post("/users/admin", h.registerAdministrator)
	r.Post("/users/cliente", h.registerClient)
	r.Post("/auth/login", h.login)

	r.Get("/proyectos", h.listProjects)
	r.Post("/proyectos", h.createProject)

	r.Route("/encuestas", func(r chi.Router) {
		r.Get("/", h.listSurveys)
		r.Post("/", h.createSurvey)
		r.Get("/all", h.listSurveys)
		r.Get("/cliente/{idCliente}", h.pendingSurveys)
		r.Get("/cliente/{idCliente}/respondidas", h.completedSurveys)
		r.Get("/respuestas/{idEncuesta}/{idCliente}", h.submittedAnswers)
		r.Get("/{idEncuesta}/preguntas", h.surveyQuestions)
		r.Get("/{idEncuesta}/resultados", h.surveyResults)
		r.Get("/{idEncuesta}/resultados/ws", h.serveResultsWS)
	})
	r.Get("/encuesta/preguntas/{idEncuesta}", h.surveyQuestions)
	r.Post("/encuesta/responder", h.recordResponse)

	return r
}

func (h *Handler) root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Backend funcionando"))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.svc.Ready != nil {
		if err := h.svc.Ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
