package app

import (
	"context"

	"survey-service/internal/domain"
)

// AssignmentResolver partitions the surveys of a client's projects into
// pending and completed.
type AssignmentResolver struct {
	memberships MembershipStore
	surveys     SurveyStore
	responses   ResponseStore
}

func NewAssignmentResolver(memberships MembershipStore, surveys SurveyStore, responses ResponseStore) *AssignmentResolver {
	return &AssignmentResolver{memberships: memberships, surveys: surveys, responses: responses}
}

// Pending returns the assigned surveys the client has not answered yet.
func (r *AssignmentResolver) Pending(ctx context.Context, clientID int64) ([]domain.SurveySummary, error) {
	pending, _, err := r.resolve(ctx, clientID)
	return pending, err
}

// Completed returns the assigned surveys the client has answered, one entry per survey.
func (r *AssignmentResolver) Completed(ctx context.Context, clientID int64) ([]domain.SurveySummary, error) {
	_, completed, err := r.resolve(ctx, clientID)
	return completed, err
}

func (r *AssignmentResolver) resolve(ctx context.Context, clientID int64) ([]domain.SurveySummary, []domain.SurveySummary, error) {
	if clientID <= 0 {
		return nil, nil, domain.Validation("idCliente debe ser un entero positivo")
	}

	projectIDs, err := r.memberships.ProjectIDsForClient(ctx, clientID)
	if err != nil {
		return nil, nil, domain.Storage(err)
	}
	if len(projectIDs) == 0 {
		return []domain.SurveySummary{}, []domain.SurveySummary{}, nil
	}

	assigned, err := r.surveys.SurveysForProjects(ctx, projectIDs)
	if err != nil {
		return nil, nil, domain.Storage(err)
	}

	answeredIDs, err := r.responses.AnsweredSurveyIDs(ctx, clientID)
	if err != nil {
		return nil, nil, domain.Storage(err)
	}
	answered := make(map[int64]struct{}, len(answeredIDs))
	for _, id := range answeredIDs {
		answered[id] = struct{}{}
	}

	pending, completed := partitionSurveys(assigned, answered)
	return pending, completed, nil
}

// partitionSurveys splits surveys by presence in answered. Completed entries
// are deduplicated by survey id; pending keeps storage order.
func partitionSurveys(surveys []domain.SurveySummary, answered map[int64]struct{}) ([]domain.SurveySummary, []domain.SurveySummary) {
	pending := make([]domain.SurveySummary, 0, len(surveys))
	completed := make([]domain.SurveySummary, 0)
	seen := make(map[int64]struct{})
	for _, s := range surveys {
		if _, ok := answered[s.ID]; !ok {
			pending = append(pending, s)
			continue
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		completed = append(completed, s)
	}
	return pending, completed
}
