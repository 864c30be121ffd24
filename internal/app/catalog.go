package app

import (
	"context"
	"strings"
	"time"

	"survey-service/internal/domain"
)

// CatalogService manages projects and surveys.
type CatalogService struct {
	projects  ProjectStore
	surveys   SurveyStore
	questions QuestionRepository
	now       func() time.Time
}

func NewCatalogService(projects ProjectStore, surveys SurveyStore, questions QuestionRepository) *CatalogService {
	return &CatalogService{
		projects:  projects,
		surveys:   surveys,
		questions: questions,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateProject creates a project; names are unique ignoring case.
func (s *CatalogService) CreateProject(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, domain.Validation("nombre es requerido")
	}
	id, err := s.projects.CreateProject(ctx, name)
	if err != nil {
		return 0, domain.Storage(err)
	}
	return id, nil
}

func (s *CatalogService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

// CreateSurvey validates the draft and stores the survey with all its
// questions and options in one write.
func (s *CatalogService) CreateSurvey(ctx context.Context, draft domain.SurveyDraft) (int64, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if err := validateDraft(draft); err != nil {
		return 0, err
	}
	for i := range draft.Questions {
		q := &draft.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		if !q.Type.HasOptions() {
			q.Options = nil
		}
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = s.now()
	}
	id, err := s.surveys.CreateSurvey(ctx, draft)
	if err != nil {
		return 0, domain.Storage(err)
	}
	return id, nil
}

// ListSurveys returns every survey with its project name, newest first.
func (s *CatalogService) ListSurveys(ctx context.Context) ([]domain.SurveySummary, error) {
	surveys, err := s.surveys.ListSurveys(ctx)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if surveys == nil {
		surveys = []domain.SurveySummary{}
	}
	return surveys, nil
}

// Questions returns the questions of a survey; options are attached to
// multiple-choice and scale questions.
func (s *CatalogService) Questions(ctx context.Context, surveyID int64) ([]domain.Question, error) {
	if surveyID <= 0 {
		return nil, domain.Validation("idEncuesta debe ser un entero positivo")
	}
	questions, err := s.questions.GetQuestions(ctx, surveyID)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}

func validateDraft(draft domain.SurveyDraft) error {
	if draft.Title == "" {
		return domain.Validation("titulo es requerido")
	}
	if draft.ProjectID <= 0 {
		return domain.Validation("proyectoId es requerido")
	}
	if draft.AdminID <= 0 {
		return domain.Validation("administradorId es requerido")
	}
	for i, q := range draft.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return domain.Validation("preguntas[%d]: pregunta es requerida", i)
		}
		if !q.Type.Valid() {
			return domain.Validation("preguntas[%d]: tipo %q no soportado", i, q.Type)
		}
		if !q.Type.HasOptions() {
			continue
		}
		if len(q.Options) == 0 {
			return domain.Validation("preguntas[%d]: se requiere al menos una opción", i)
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return domain.Validation("preguntas[%d].opciones[%d]: texto vacío", i, j)
			}
		}
	}
	return nil
}
