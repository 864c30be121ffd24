package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"survey-service/internal/domain"
)

func TestCreateProjectRejectsNameIgnoringCase(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if _, err := store.CreateProject(ctx, "Ventas"); err != nil {
		t.Fatalf("create project: %v", err)
	}
	_, err := store.CreateProject(ctx, "VENTAS")
	if !errors.Is(err, domain.ErrDuplicateProject) {
		t.Fatalf("expected duplicate project, got %v", err)
	}
	projects, _ := store.ListProjects(ctx)
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
}

func TestCreateClientRejectsDuplicateLogin(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if _, err := store.CreateClient(ctx, domain.Client{Login: "ana"}); err != nil {
		t.Fatalf("create client: %v", err)
	}
	_, err := store.CreateClient(ctx, domain.Client{Login: "ana"})
	if !errors.Is(err, domain.ErrDuplicateLogin) {
		t.Fatalf("expected duplicate login, got %v", err)
	}
	if n := store.clientCount(); n != 1 {
		t.Fatalf("expected 1 client row, got %d", n)
	}
	// Logins are unique per table, not across tables.
	if _, err := store.CreateAdministrator(ctx, domain.Administrator{Login: "ana"}); err != nil {
		t.Fatalf("admin with client login: %v", err)
	}
}

func TestRecordResponseWritesHeaderAndDetails(t *testing.T) {
	ctx := context.Background()
	store, surveyID := seededStore(t)
	clientID, err := store.CreateClient(ctx, domain.Client{Login: "luis"})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	questions, _ := store.LoadQuestions(ctx, surveyID)
	optionID := questions[0].Options[0].ID
	text := "Muy bien"

	id, err := store.RecordResponse(ctx, domain.Response{SurveyID: surveyID, ClientID: clientID, SubmittedAt: time.Now()},
		[]domain.ResponseDetail{
			{QuestionID: questions[0].ID, OptionID: &optionID},
			{QuestionID: questions[1].ID, Text: &text},
		})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive response id, got %d", id)
	}
	headers, details := store.responseCount()
	if headers != 1 || details != 2 {
		t.Fatalf("expected 1 header and 2 details, got %d and %d", headers, details)
	}

	_, err = store.RecordResponse(ctx, domain.Response{SurveyID: surveyID, ClientID: clientID}, []domain.ResponseDetail{
		{QuestionID: questions[1].ID, Text: &text},
	})
	if !errors.Is(err, domain.ErrAlreadyAnswered) {
		t.Fatalf("expected already answered, got %v", err)
	}

	answers, err := store.SubmittedAnswers(ctx, surveyID, clientID)
	if err != nil {
		t.Fatalf("submitted answers: %v", err)
	}
	if len(answers) != 2 || answers[0].OptionLabel == nil || *answers[0].OptionLabel != "Sí" {
		t.Fatalf("unexpected answers: %+v", answers)
	}
	if answers[1].Type != domain.QuestionOpenText || answers[1].Text == nil || *answers[1].Text != text {
		t.Fatalf("unexpected open answer: %+v", answers[1])
	}
}

func TestRecordResponseRejectsUnknownOption(t *testing.T) {
	ctx := context.Background()
	store, surveyID := seededStore(t)
	clientID, _ := store.CreateClient(ctx, domain.Client{Login: "eva"})
	questions, _ := store.LoadQuestions(ctx, surveyID)
	bogus := int64(999)

	_, err := store.RecordResponse(ctx, domain.Response{SurveyID: surveyID, ClientID: clientID},
		[]domain.ResponseDetail{{QuestionID: questions[0].ID, OptionID: &bogus}})
	if !errors.Is(err, domain.ErrUnknownReference) {
		t.Fatalf("expected unknown reference, got %v", err)
	}
	if headers, _ := store.responseCount(); headers != 0 {
		t.Fatalf("expected nothing persisted, got %d headers", headers)
	}
}

func TestSurveysForProjectsResolvesProjectName(t *testing.T) {
	ctx := context.Background()
	store, surveyID := seededStore(t)

	surveys, err := store.SurveysForProjects(ctx, []int64{1})
	if err != nil {
		t.Fatalf("surveys for projects: %v", err)
	}
	if len(surveys) != 1 || surveys[0].ID != surveyID {
		t.Fatalf("unexpected surveys: %+v", surveys)
	}
	if surveys[0].Project == nil || *surveys[0].Project != "Clima laboral" {
		t.Fatalf("expected project name, got %v", surveys[0].Project)
	}

	none, _ := store.SurveysForProjects(ctx, []int64{99})
	if len(none) != 0 {
		t.Fatalf("expected no surveys, got %d", len(none))
	}
}
