package app

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"survey-service/internal/domain"
)

const defaultAggregatorConcurrency = 8

// ResultAggregator builds survey reports: option tallies with percentages for
// multiple-choice questions and raw answers for open questions.
type ResultAggregator struct {
	questions   QuestionRepository
	results     ResultStore
	feeds       FeedRepository
	concurrency int
	logger      *slog.Logger
}

// NewResultAggregator builds an aggregator. concurrency bounds the in-flight
// sub-queries of one report; values <= 0 use the default.
func NewResultAggregator(questions QuestionRepository, results ResultStore, feeds FeedRepository, concurrency int) *ResultAggregator {
	if concurrency <= 0 {
		concurrency = defaultAggregatorConcurrency
	}
	return &ResultAggregator{
		questions:   questions,
		results:     results,
		feeds:       feeds,
		concurrency: concurrency,
		logger:      slog.Default(),
	}
}

// Aggregate computes the report of a survey. A failed count or answer fetch
// degrades to zero or an empty list for that option or question only.
func (a *ResultAggregator) Aggregate(ctx context.Context, surveyID int64) (domain.SurveyReport, error) {
	if surveyID <= 0 {
		return domain.SurveyReport{}, domain.Validation("idEncuesta debe ser un entero positivo")
	}

	questions, err := a.questions.GetQuestions(ctx, surveyID)
	if err != nil {
		return domain.SurveyReport{}, domain.Storage(err)
	}

	choice := make([]domain.MultipleChoiceResult, 0)
	open := make([]domain.OpenTextResult, 0)
	for _, q := range questions {
		switch q.Type {
		case domain.QuestionMultipleChoice:
			tallies := make([]domain.OptionTally, len(q.Options))
			for i, opt := range q.Options {
				tallies[i] = domain.OptionTally{OptionID: opt.ID, Label: opt.Label}
			}
			choice = append(choice, domain.MultipleChoiceResult{QuestionID: q.ID, Question: q.Text, Options: tallies})
		case domain.QuestionOpenText:
			open = append(open, domain.OpenTextResult{QuestionID: q.ID, Question: q.Text, Answers: []string{}})
		}
	}

	// Each goroutine writes only its own slot, so no locking is needed.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range choice {
		for j := range choice[i].Options {
			tally := &choice[i].Options[j]
			questionID := choice[i].QuestionID
			g.Go(func() error {
				n, err := a.results.CountOptionResponses(gctx, tally.OptionID)
				if err != nil {
					a.logger.Warn("option count failed, reporting zero",
						"survey_id", surveyID, "question_id", questionID, "option_id", tally.OptionID, "error", err)
					return nil
				}
				tally.Count = n
				return nil
			})
		}
	}
	for i := range open {
		res := &open[i]
		g.Go(func() error {
			answers, err := a.results.OpenAnswers(gctx, res.QuestionID)
			if err != nil {
				a.logger.Warn("open answers fetch failed, reporting empty",
					"survey_id", surveyID, "question_id", res.QuestionID, "error", err)
				return nil
			}
			if answers != nil {
				res.Answers = answers
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return domain.SurveyReport{}, err
	}

	total := 0
	for i := range choice {
		choice[i].Total = applyPercentages(choice[i].Options)
		total += choice[i].Total
	}

	return domain.SurveyReport{
		SurveyID:       surveyID,
		TotalResponses: total,
		MultipleChoice: choice,
		OpenText:       open,
	}, nil
}

// applyPercentages fills each tally's share of the question total and returns
// that total. All percentages are 0 when nobody answered.
func applyPercentages(tallies []domain.OptionTally) int {
	sum := 0
	for _, t := range tallies {
		sum += t.Count
	}
	for i := range tallies {
		if sum == 0 {
			tallies[i].Percentage = 0
			continue
		}
		tallies[i].Percentage = float64(tallies[i].Count) / float64(sum) * 100
	}
	return sum
}

// Subscribe returns a channel that receives the current report immediately and
// a fresh one after every recorded response. The caller must invoke the
// returned cancel function to avoid leaks.
func (a *ResultAggregator) Subscribe(ctx context.Context, surveyID int64) (<-chan domain.SurveyReport, func(), error) {
	if a.feeds == nil {
		return nil, nil, errors.New("live results are not configured")
	}
	report, err := a.Aggregate(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}
	for {
		feed := a.feeds.GetOrCreate(surveyID)
		ch, cancel := feed.subscribe(report)
		// The feed may have been dropped by a concurrent unsubscribe in between.
		if current, ok := a.feeds.Get(surveyID); ok && current == feed {
			return ch, func() {
				cancel()
				a.feeds.DeleteIfEmpty(surveyID)
			}, nil
		}
		cancel()
	}
}

// Publish recomputes the report of a survey and pushes it to live subscribers, if any.
func (a *ResultAggregator) Publish(ctx context.Context, surveyID int64) {
	if a.feeds == nil {
		return
	}
	feed, ok := a.feeds.Get(surveyID)
	if !ok || feed.IsEmpty() {
		return
	}
	report, err := a.Aggregate(ctx, surveyID)
	if err != nil {
		a.logger.Warn("live report refresh failed", "survey_id", surveyID, "error", err)
		return
	}
	feed.broadcast(report)
}
