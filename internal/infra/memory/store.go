package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"survey-service/internal/domain"
)

type membership struct {
	projectID int64
	clientID  int64
}

// Store is an in-memory storage gateway implementing every app store port.
// It enforces the same uniqueness and reference rules as the Postgres schema,
// and each multi-row write happens under one lock.
type Store struct {
	mu sync.RWMutex

	seq         map[string]int64
	projects    []domain.Project
	admins      []domain.Administrator
	clients     []domain.Client
	memberships []membership
	surveys     []domain.Survey
	questions   []domain.Question
	options     []domain.Option
	responses   []domain.Response
	details     []domain.ResponseDetail
}

func NewStore() *Store {
	return &Store{seq: make(map[string]int64)}
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) CreateProject(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if strings.EqualFold(p.Name, name) {
			return 0, domain.ErrDuplicateProject
		}
	}
	p := domain.Project{ID: s.nextID("proyecto"), Name: name}
	s.projects = append(s.projects, p)
	return p.ID, nil
}

func (s *Store) ListProjects(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Project, len(s.projects))
	copy(out, s.projects)
	return out, nil
}

func (s *Store) CreateAdministrator(_ context.Context, admin domain.Administrator) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.Login == admin.Login {
			return 0, domain.ErrDuplicateLogin
		}
	}
	admin.ID = s.nextID("administrador")
	s.admins = append(s.admins, admin)
	return admin.ID, nil
}

func (s *Store) CreateClient(_ context.Context, client domain.Client) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.Login == client.Login {
			return 0, domain.ErrDuplicateLogin
		}
	}
	client.ID = s.nextID("cliente")
	s.clients = append(s.clients, client)
	return client.ID, nil
}

func (s *Store) AddMembership(_ context.Context, projectID, clientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasProjectLocked(projectID) || !s.hasClientLocked(clientID) {
		return domain.ErrUnknownReference
	}
	for _, m := range s.memberships {
		if m.projectID == projectID && m.clientID == clientID {
			return domain.Conflict("el cliente ya pertenece al proyecto")
		}
	}
	s.memberships = append(s.memberships, membership{projectID: projectID, clientID: clientID})
	return nil
}

func (s *Store) AdministratorByLogin(_ context.Context, login string) (*domain.Administrator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Login == login {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) ClientByLogin(_ context.Context, login string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.Login == login {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) ProjectIDsForClient(_ context.Context, clientID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0)
	for _, m := range s.memberships {
		if m.clientID == clientID {
			ids = append(ids, m.projectID)
		}
	}
	return ids, nil
}

func (s *Store) SurveysForProjects(_ context.Context, projectIDs []int64) ([]domain.SurveySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[int64]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = struct{}{}
	}
	out := make([]domain.SurveySummary, 0)
	for _, sv := range s.surveys {
		if _, ok := wanted[sv.ProjectID]; ok {
			out = append(out, s.summaryLocked(sv))
		}
	}
	return out, nil
}

func (s *Store) ListSurveys(_ context.Context) ([]domain.SurveySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SurveySummary, 0, len(s.surveys))
	for _, sv := range s.surveys {
		out = append(out, s.summaryLocked(sv))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) CreateSurvey(_ context.Context, draft domain.SurveyDraft) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasProjectLocked(draft.ProjectID) || !s.hasAdminLocked(draft.AdminID) {
		return 0, domain.ErrUnknownReference
	}
	survey := domain.Survey{
		ID:        s.nextID("encuesta"),
		Title:     draft.Title,
		CreatedAt: draft.CreatedAt,
		ProjectID: draft.ProjectID,
		AdminID:   draft.AdminID,
	}
	s.surveys = append(s.surveys, survey)
	for _, qd := range draft.Questions {
		q := domain.Question{ID: s.nextID("pregunta"), SurveyID: survey.ID, Text: qd.Text, Type: qd.Type}
		s.questions = append(s.questions, q)
		for _, label := range qd.Options {
			s.options = append(s.options, domain.Option{ID: s.nextID("opcion"), QuestionID: q.ID, Label: label})
		}
	}
	return survey.ID, nil
}

// LoadQuestions returns a survey's questions ordered by id, with options
// attached to option-bearing types.
func (s *Store) LoadQuestions(_ context.Context, surveyID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSurveyLocked(surveyID) {
		return nil, domain.ErrSurveyNotFound
	}
	out := make([]domain.Question, 0)
	for _, q := range s.questions {
		if q.SurveyID != surveyID {
			continue
		}
		if q.Type.HasOptions() {
			q.Options = make([]domain.Option, 0)
			for _, opt := range s.options {
				if opt.QuestionID == q.ID {
					q.Options = append(q.Options, opt)
				}
			}
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *Store) AnsweredSurveyIDs(_ context.Context, clientID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0)
	for _, r := range s.responses {
		if r.ClientID == clientID {
			ids = append(ids, r.SurveyID)
		}
	}
	return ids, nil
}

func (s *Store) HasResponse(_ context.Context, surveyID, clientID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findResponseLocked(surveyID, clientID) != nil, nil
}

func (s *Store) RecordResponse(_ context.Context, header domain.Response, details []domain.ResponseDetail) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findResponseLocked(header.SurveyID, header.ClientID) != nil {
		return 0, domain.ErrAlreadyAnswered
	}
	if !s.hasSurveyLocked(header.SurveyID) || !s.hasClientLocked(header.ClientID) {
		return 0, domain.ErrUnknownReference
	}
	for _, d := range details {
		if s.questionLocked(d.QuestionID) == nil {
			return 0, domain.ErrUnknownReference
		}
		if d.OptionID != nil && s.optionLocked(*d.OptionID) == nil {
			return 0, domain.ErrUnknownReference
		}
	}

	header.ID = s.nextID("respuesta")
	s.responses = append(s.responses, header)
	for _, d := range details {
		d.ResponseID = header.ID
		s.details = append(s.details, d)
	}
	return header.ID, nil
}

func (s *Store) SubmittedAnswers(_ context.Context, surveyID, clientID int64) ([]domain.SubmittedAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := s.findResponseLocked(surveyID, clientID)
	if resp == nil {
		return []domain.SubmittedAnswer{}, nil
	}
	out := make([]domain.SubmittedAnswer, 0)
	for _, d := range s.details {
		if d.ResponseID != resp.ID {
			continue
		}
		answer := domain.SubmittedAnswer{QuestionID: d.QuestionID, Text: d.Text, OptionID: d.OptionID}
		if q := s.questionLocked(d.QuestionID); q != nil {
			answer.Question = q.Text
			answer.Type = q.Type
		}
		if d.OptionID != nil {
			if opt := s.optionLocked(*d.OptionID); opt != nil {
				label := opt.Label
				answer.OptionLabel = &label
			}
		}
		out = append(out, answer)
	}
	return out, nil
}

func (s *Store) CountOptionResponses(_ context.Context, optionID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.details {
		if d.OptionID != nil && *d.OptionID == optionID {
			n++
		}
	}
	return n, nil
}

func (s *Store) OpenAnswers(_ context.Context, questionID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0)
	for _, d := range s.details {
		if d.QuestionID == questionID && d.Text != nil {
			out = append(out, *d.Text)
		}
	}
	return out, nil
}

func (s *Store) summaryLocked(sv domain.Survey) domain.SurveySummary {
	summary := domain.SurveySummary{ID: sv.ID, Title: sv.Title, CreatedAt: sv.CreatedAt, ProjectID: sv.ProjectID}
	for _, p := range s.projects {
		if p.ID == sv.ProjectID {
			name := p.Name
			summary.Project = &name
			break
		}
	}
	return summary
}

func (s *Store) findResponseLocked(surveyID, clientID int64) *domain.Response {
	for i := range s.responses {
		if s.responses[i].SurveyID == surveyID && s.responses[i].ClientID == clientID {
			return &s.responses[i]
		}
	}
	return nil
}

func (s *Store) questionLocked(id int64) *domain.Question {
	for i := range s.questions {
		if s.questions[i].ID == id {
			return &s.questions[i]
		}
	}
	return nil
}

func (s *Store) optionLocked(id int64) *domain.Option {
	for i := range s.options {
		if s.options[i].ID == id {
			return &s.options[i]
		}
	}
	return nil
}

func (s *Store) hasProjectLocked(id int64) bool {
	for _, p := range s.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) hasClientLocked(id int64) bool {
	for _, c := range s.clients {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) hasAdminLocked(id int64) bool {
	for _, a := range s.admins {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) hasSurveyLocked(id int64) bool {
	for _, sv := range s.surveys {
		if sv.ID == id {
			return true
		}
	}
	return false
}
