package app_test

import (
	"context"
	"testing"
	"time"

	"survey-service/internal/app"
	"survey-service/internal/domain"
)

func TestResolverClientWithoutProjectsGetsEmptyLists(t *testing.T) {
	stub := &stubAssignments{}
	resolver := app.NewAssignmentResolver(stub, stub, stub)

	pending, err := resolver.Pending(context.Background(), 5)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	completed, err := resolver.Completed(context.Background(), 5)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if pending == nil || completed == nil {
		t.Fatalf("expected empty, non-nil lists")
	}
	if len(pending) != 0 || len(completed) != 0 {
		t.Fatalf("expected no surveys, got pending=%d completed=%d", len(pending), len(completed))
	}
}

func TestResolverPartitionsByRecordedResponses(t *testing.T) {
	p1 := "P1"
	stub := &stubAssignments{
		projects: map[int64][]int64{7: {1}},
		surveys: []domain.SurveySummary{
			{ID: 10, Title: "S1", ProjectID: 1, Project: &p1, CreatedAt: time.Now()},
			{ID: 11, Title: "S2", ProjectID: 1, Project: &p1, CreatedAt: time.Now()},
			{ID: 12, Title: "other", ProjectID: 2},
		},
		answered: map[int64][]int64{7: {10}},
	}
	resolver := app.NewAssignmentResolver(stub, stub, stub)

	pending, err := resolver.Pending(context.Background(), 7)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != 11 {
		t.Fatalf("expected pending [S2], got %+v", pending)
	}

	completed, err := resolver.Completed(context.Background(), 7)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != 10 {
		t.Fatalf("expected completed [S1], got %+v", completed)
	}
}

func TestResolverDeduplicatesCompleted(t *testing.T) {
	stub := &stubAssignments{
		projects: map[int64][]int64{3: {1, 2}},
		surveys: []domain.SurveySummary{
			{ID: 20, ProjectID: 1},
			{ID: 20, ProjectID: 1},
		},
		answered: map[int64][]int64{3: {20, 20}},
	}
	resolver := app.NewAssignmentResolver(stub, stub, stub)

	completed, err := resolver.Completed(context.Background(), 3)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected one completed entry, got %d", len(completed))
	}
}

func TestResolverKeepsDanglingProjectAsNull(t *testing.T) {
	stub := &stubAssignments{
		projects: map[int64][]int64{4: {9}},
		surveys:  []domain.SurveySummary{{ID: 30, ProjectID: 9, Project: nil}},
	}
	resolver := app.NewAssignmentResolver(stub, stub, stub)

	pending, err := resolver.Pending(context.Background(), 4)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Project != nil {
		t.Fatalf("expected one survey with null project, got %+v", pending)
	}
}

func TestResolverErrors(t *testing.T) {
	cases := []struct {
		name     string
		clientID int64
		stage    string
		want     domain.Kind
	}{
		{name: "zero id", clientID: 0, want: domain.KindValidation},
		{name: "negative id", clientID: -4, want: domain.KindValidation},
		{name: "membership failure", clientID: 1, stage: "memberships", want: domain.KindStorage},
		{name: "survey failure", clientID: 1, stage: "surveys", want: domain.KindStorage},
		{name: "response failure", clientID: 1, stage: "responses", want: domain.KindStorage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAssignments{
				projects:  map[int64][]int64{1: {1}},
				surveys:   []domain.SurveySummary{{ID: 1, ProjectID: 1}},
				failStage: tc.stage,
			}
			resolver := app.NewAssignmentResolver(stub, stub, stub)
			_, err := resolver.Pending(context.Background(), tc.clientID)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := domain.KindOf(err); got != tc.want {
				t.Fatalf("expected kind %s, got %s (%v)", tc.want, got, err)
			}
		})
	}
}
