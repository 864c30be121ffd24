package app_test

import (
	"context"
	"errors"
	"sync"

	"survey-service/internal/domain"
)

var errBackend = errors.New("backend unavailable")

type stubQuestions struct {
	questions map[int64][]domain.Question
}

func (s *stubQuestions) GetQuestions(_ context.Context, surveyID int64) ([]domain.Question, error) {
	qs, ok := s.questions[surveyID]
	if !ok {
		return nil, domain.ErrSurveyNotFound
	}
	return qs, nil
}

type stubResults struct {
	mu            sync.Mutex
	counts        map[int64]int
	answers       map[int64][]string
	failOptions   map[int64]bool
	failQuestions map[int64]bool
	countCalls    int
}

func (s *stubResults) CountOptionResponses(_ context.Context, optionID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCalls++
	if s.failOptions[optionID] {
		return 0, errBackend
	}
	return s.counts[optionID], nil
}

func (s *stubResults) OpenAnswers(_ context.Context, questionID int64) ([]string, error) {
	if s.failQuestions[questionID] {
		return nil, errBackend
	}
	return s.answers[questionID], nil
}

type stubAssignments struct {
	projects  map[int64][]int64
	surveys   []domain.SurveySummary
	answered  map[int64][]int64
	failStage string
}

func (s *stubAssignments) ProjectIDsForClient(_ context.Context, clientID int64) ([]int64, error) {
	if s.failStage == "memberships" {
		return nil, errBackend
	}
	return s.projects[clientID], nil
}

func (s *stubAssignments) SurveysForProjects(_ context.Context, projectIDs []int64) ([]domain.SurveySummary, error) {
	if s.failStage == "surveys" {
		return nil, errBackend
	}
	wanted := map[int64]bool{}
	for _, id := range projectIDs {
		wanted[id] = true
	}
	var out []domain.SurveySummary
	for _, sv := range s.surveys {
		if wanted[sv.ProjectID] {
			out = append(out, sv)
		}
	}
	return out, nil
}

func (s *stubAssignments) ListSurveys(context.Context) ([]domain.SurveySummary, error) {
	return s.surveys, nil
}

func (s *stubAssignments) CreateSurvey(context.Context, domain.SurveyDraft) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubAssignments) AnsweredSurveyIDs(_ context.Context, clientID int64) ([]int64, error) {
	if s.failStage == "responses" {
		return nil, errBackend
	}
	return s.answered[clientID], nil
}

func (s *stubAssignments) HasResponse(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func (s *stubAssignments) RecordResponse(context.Context, domain.Response, []domain.ResponseDetail) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubAssignments) SubmittedAnswers(context.Context, int64, int64) ([]domain.SubmittedAnswer, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }
