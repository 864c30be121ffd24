package app

import (
	"context"
	"errors"
	"time"

	"survey-service/internal/domain"
)

// publishTimeout bounds the background refresh triggered by a new response.
const publishTimeout = 10 * time.Second

// ResponseRecorder stores one client's answers to one survey.
type ResponseRecorder struct {
	responses ResponseStore
	publisher ResultPublisher
	now       func() time.Time
}

// NewResponseRecorder builds a recorder; publisher may be nil.
func NewResponseRecorder(responses ResponseStore, publisher ResultPublisher) *ResponseRecorder {
	return &ResponseRecorder{
		responses: responses,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record validates the submission, rejects a second response for the same
// (survey, client) pair, and persists header plus details in one write.
// Option ids are not checked against the survey's questions.
func (r *ResponseRecorder) Record(ctx context.Context, surveyID, clientID int64, answers []domain.AnswerInput) (int64, error) {
	if err := validateSubmission(surveyID, clientID, answers); err != nil {
		return 0, err
	}

	done, err := r.responses.HasResponse(ctx, surveyID, clientID)
	if err != nil {
		return 0, domain.Storage(err)
	}
	if done {
		return 0, domain.ErrAlreadyAnswered
	}

	header := domain.Response{SurveyID: surveyID, ClientID: clientID, SubmittedAt: r.now()}
	details := make([]domain.ResponseDetail, 0, len(answers))
	for _, a := range answers {
		details = append(details, domain.ResponseDetail{
			QuestionID: a.QuestionID,
			Text:       a.Text,
			OptionID:   a.OptionID,
		})
	}

	id, err := r.responses.RecordResponse(ctx, header, details)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyAnswered) {
			return 0, domain.ErrAlreadyAnswered
		}
		return 0, domain.Storage(err)
	}

	if r.publisher != nil {
		// Subscribers are refreshed off the request path; the write above is
		// already committed.
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		go func() {
			defer cancel()
			r.publisher.Publish(pctx, surveyID)
		}()
	}
	return id, nil
}

// Answers returns the stored answers of a client for a survey.
func (r *ResponseRecorder) Answers(ctx context.Context, surveyID, clientID int64) ([]domain.SubmittedAnswer, error) {
	if surveyID <= 0 || clientID <= 0 {
		return nil, domain.Validation("idEncuesta e idCliente deben ser enteros positivos")
	}
	answers, err := r.responses.SubmittedAnswers(ctx, surveyID, clientID)
	if err != nil {
		return nil, domain.Storage(err)
	}
	if len(answers) == 0 {
		return nil, domain.ErrResponseNotFound
	}
	return answers, nil
}

func validateSubmission(surveyID, clientID int64, answers []domain.AnswerInput) error {
	if surveyID <= 0 {
		return domain.Validation("idEncuesta es requerido")
	}
	if clientID <= 0 {
		return domain.Validation("idCliente es requerido")
	}
	if len(answers) == 0 {
		return domain.Validation("respuestas no puede estar vacío")
	}
	for i, a := range answers {
		if a.QuestionID <= 0 {
			return domain.Validation("respuestas[%d]: idPregunta es requerido", i)
		}
		hasText := a.Text != nil
		hasOption := a.OptionID != nil
		if hasText == hasOption {
			return domain.Validation("respuestas[%d]: se requiere exactamente uno de contenido_texto o idOpcion", i)
		}
		if hasOption && *a.OptionID <= 0 {
			return domain.Validation("respuestas[%d]: idOpcion inválido", i)
		}
	}
	return nil
}
