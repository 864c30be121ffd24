package http

import (
	"net/http"

	"survey-service/internal/app"
	"survey-service/internal/domain"
)

type credentialsRequest struct {
	Login    string `json:"usuario"`
	Password string `json:"contraseña"`
}

type clientRequest struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Login     string `json:"usuario"`
	Password  string `json:"contraseña"`
	Role      string `json:"rol"`
	ProjectID int64  `json:"proyectoId"`
}

type projectRequest struct {
	Name string `json:"nombre"`
}

type surveyRequest struct {
	Title     string                 `json:"titulo"`
	ProjectID int64                  `json:"proyectoId"`
	AdminID   int64                  `json:"administradorId"`
	Questions []domain.QuestionDraft `json:"preguntas"`
}

type responseRequest struct {
	SurveyID int64                `json:"idEncuesta"`
	ClientID int64                `json:"idCliente"`
	Answers  []domain.AnswerInput `json:"respuestas"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type loginResponse struct {
	User any    `json:"user"`
	Kind string `json:"tipo"`
}

func (h *Handler) registerAdministrator(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.svc.Accounts.RegisterAdministrator(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) registerClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.svc.Accounts.RegisterClient(r.Context(), app.ClientRegistration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Login:     req.Login,
		Password:  req.Password,
		Role:      req.Role,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Accounts.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: res.User(), Kind: res.Kind})
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Catalog.ListProjects(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.svc.Catalog.CreateProject(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) listSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.svc.Catalog.ListSurveys(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, surveys)
}

func (h *Handler) createSurvey(w http.ResponseWriter, r *http.Request) {
	var req surveyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.svc.Catalog.CreateSurvey(r.Context(), domain.SurveyDraft{
		Title:     req.Title,
		ProjectID: req.ProjectID,
		AdminID:   req.AdminID,
		Questions: req.Questions,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"encuestaId": id})
}

func (h *Handler) pendingSurveys(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "idCliente")
	if err != nil {
		writeError(w, r, err)
		return
	}
	surveys, err := h.svc.Assignments.Pending(r.Context(), clientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, surveys)
}

func (h *Handler) completedSurveys(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "idCliente")
	if err != nil {
		writeError(w, r, err)
		return
	}
	surveys, err := h.svc.Assignments.Completed(r.Context(), clientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, surveys)
}

func (h *Handler) surveyQuestions(w http.ResponseWriter, r *http.Request) {
	surveyID, err := pathID(r, "idEncuesta")
	if err != nil {
		writeError(w, r, err)
		return
	}
	questions, err := h.svc.Catalog.Questions(r.Context(), surveyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) surveyResults(w http.ResponseWriter, r *http.Request) {
	surveyID, err := pathID(r, "idEncuesta")
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.svc.Results.Aggregate(r.Context(), surveyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) recordResponse(w http.ResponseWriter, r *http.Request) {
	var req responseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.svc.Recorder.Record(r.Context(), req.SurveyID, req.ClientID, req.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Respuestas guardadas correctamente", "idRespuesta": id})
}

func (h *Handler) submittedAnswers(w http.ResponseWriter, r *http.Request) {
	surveyID, err := pathID(r, "idEncuesta")
	if err != nil {
		writeError(w, r, err)
		return
	}
	clientID, err := pathID(r, "idCliente")
	if err != nil {
		writeError(w, r, err)
		return
	}
	answers, err := h.svc.Recorder.Answers(r.Context(), surveyID, clientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answers)
}
