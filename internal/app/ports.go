package app

import (
	"context"

	"survey-service/internal/domain"
)

// MembershipStore resolves which projects a client belongs to.
type MembershipStore interface {
	ProjectIDsForClient(ctx context.Context, clientID int64) ([]int64, error)
}

// SurveyStore reads and writes surveys. CreateSurvey persists the survey, its
// questions and their options as one unit.
type SurveyStore interface {
	SurveysForProjects(ctx context.Context, projectIDs []int64) ([]domain.SurveySummary, error)
	ListSurveys(ctx context.Context) ([]domain.SurveySummary, error)
	CreateSurvey(ctx context.Context, draft domain.SurveyDraft) (int64, error)
}

// ResponseStore persists submissions. RecordResponse writes the header and all
// details as one unit and returns domain.ErrAlreadyAnswered when the
// (survey, client) pair already has a header.
type ResponseStore interface {
	AnsweredSurveyIDs(ctx context.Context, clientID int64) ([]int64, error)
	HasResponse(ctx context.Context, surveyID, clientID int64) (bool, error)
	RecordResponse(ctx context.Context, header domain.Response, details []domain.ResponseDetail) (int64, error)
	SubmittedAnswers(ctx context.Context, surveyID, clientID int64) ([]domain.SubmittedAnswer, error)
}

// ResultStore answers the per-option and per-question reads of the aggregator.
type ResultStore interface {
	CountOptionResponses(ctx context.Context, optionID int64) (int, error)
	OpenAnswers(ctx context.Context, questionID int64) ([]string, error)
}

// QuestionRepository loads the question catalog of a survey (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, surveyID int64) ([]domain.Question, error)
}

// AccountStore persists administrators, clients and memberships. Create calls
// return domain.ErrDuplicateLogin on a login name collision; lookups return
// nil without error when nothing matches.
type AccountStore interface {
	CreateAdministrator(ctx context.Context, admin domain.Administrator) (int64, error)
	CreateClient(ctx context.Context, client domain.Client) (int64, error)
	AddMembership(ctx context.Context, projectID, clientID int64) error
	AdministratorByLogin(ctx context.Context, login string) (*domain.Administrator, error)
	ClientByLogin(ctx context.Context, login string) (*domain.Client, error)
}

// ProjectStore persists projects. CreateProject returns domain.ErrDuplicateProject
// when the name exists ignoring case.
type ProjectStore interface {
	CreateProject(ctx context.Context, name string) (int64, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// FeedRepository abstracts how live result feeds are tracked (in-memory, Redis, etc).
type FeedRepository interface {
	GetOrCreate(surveyID int64) *Feed
	Get(surveyID int64) (*Feed, bool)
	DeleteIfEmpty(surveyID int64)
}

// ResultPublisher is notified after a response is recorded.
type ResultPublisher interface {
	Publish(ctx context.Context, surveyID int64)
}
