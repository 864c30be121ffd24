package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"survey-service/internal/domain"
)

// Store is the Postgres storage gateway. Multi-row writes run in one
// transaction; uniqueness is enforced by the schema.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateProject(ctx context.Context, name string) (int64, error) {
	row := projectRow{Name: name}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return 0, constraintError(err, domain.ErrDuplicateProject)
	}
	return row.ID, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var rows []projectRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("idproyecto ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]domain.Project, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Project{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (s *Store) CreateAdministrator(ctx context.Context, admin domain.Administrator) (int64, error) {
	row := administratorRow{Login: admin.Login, Password: string(admin.PasswordHash)}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return 0, constraintError(err, domain.ErrDuplicateLogin)
	}
	return row.ID, nil
}

func (s *Store) CreateClient(ctx context.Context, client domain.Client) (int64, error) {
	row := clientRow{
		FirstName: client.FirstName,
		LastName:  client.LastName,
		Login:     client.Login,
		Password:  string(client.PasswordHash),
		Role:      client.Role,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return 0, constraintError(err, domain.ErrDuplicateLogin)
	}
	return row.ID, nil
}

func (s *Store) AddMembership(ctx context.Context, projectID, clientID int64) error {
	row := membershipRow{ProjectID: projectID, ClientID: clientID}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return constraintError(err, domain.Conflict("el cliente ya pertenece al proyecto"))
	}
	return nil
}

func (s *Store) AdministratorByLogin(ctx context.Context, login string) (*domain.Administrator, error) {
	var row administratorRow
	err := s.db.NewSelect().Model(&row).Where("usuario = ?", login).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find administrator: %w", err)
	}
	return &domain.Administrator{ID: row.ID, Login: row.Login, PasswordHash: []byte(row.Password)}, nil
}

func (s *Store) ClientByLogin(ctx context.Context, login string) (*domain.Client, error) {
	var row clientRow
	err := s.db.NewSelect().Model(&row).Where("usuario = ?", login).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	return &domain.Client{
		ID:           row.ID,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Login:        row.Login,
		PasswordHash: []byte(row.Password),
		Role:         row.Role,
	}, nil
}

func (s *Store) ProjectIDsForClient(ctx context.Context, clientID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := s.db.NewSelect().
		Model((*membershipRow)(nil)).
		Column("idproyecto").
		Where("idcliente = ?", clientID).
		OrderExpr("idproyecto ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("client projects: %w", err)
	}
	return ids, nil
}

func (s *Store) SurveysForProjects(ctx context.Context, projectIDs []int64) ([]domain.SurveySummary, error) {
	if len(projectIDs) == 0 {
		return []domain.SurveySummary{}, nil
	}
	var rows []surveyRow
	err := s.db.NewSelect().
		Model(&rows).
		Relation("Project").
		Where("?TableAlias.idproyecto IN (?)", bun.In(projectIDs)).
		OrderExpr("?TableAlias.idencuesta ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("project surveys: %w", err)
	}
	return summaries(rows), nil
}

func (s *Store) ListSurveys(ctx context.Context) ([]domain.SurveySummary, error) {
	var rows []surveyRow
	err := s.db.NewSelect().
		Model(&rows).
		Relation("Project").
		OrderExpr("?TableAlias.fecha DESC, ?TableAlias.idencuesta DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	return summaries(rows), nil
}

func (s *Store) CreateSurvey(ctx context.Context, draft domain.SurveyDraft) (int64, error) {
	survey := surveyRow{
		Title:     draft.Title,
		CreatedAt: draft.CreatedAt,
		ProjectID: draft.ProjectID,
		AdminID:   draft.AdminID,
	}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&survey).Exec(ctx); err != nil {
			return err
		}
		for _, qd := range draft.Questions {
			question := questionRow{SurveyID: survey.ID, Text: qd.Text, Type: string(qd.Type)}
			if _, err := tx.NewInsert().Model(&question).Exec(ctx); err != nil {
				return err
			}
			if len(qd.Options) == 0 {
				continue
			}
			options := make([]optionRow, 0, len(qd.Options))
			for _, label := range qd.Options {
				options = append(options, optionRow{QuestionID: question.ID, Label: label})
			}
			if _, err := tx.NewInsert().Model(&options).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, constraintError(err, nil)
	}
	return survey.ID, nil
}

// LoadQuestions returns a survey's questions ordered by id with their options.
func (s *Store) LoadQuestions(ctx context.Context, surveyID int64) ([]domain.Question, error) {
	exists, err := s.db.NewSelect().Model((*surveyRow)(nil)).Where("idencuesta = ?", surveyID).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("find survey: %w", err)
	}
	if !exists {
		return nil, domain.ErrSurveyNotFound
	}

	var rows []questionRow
	err = s.db.NewSelect().
		Model(&rows).
		Relation("Options", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.idopcion ASC")
		}).
		Where("?TableAlias.idencuesta = ?", surveyID).
		OrderExpr("?TableAlias.idpregunta ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	out := make([]domain.Question, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.question())
	}
	return out, nil
}

func (s *Store) AnsweredSurveyIDs(ctx context.Context, clientID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := s.db.NewSelect().
		Model((*responseRow)(nil)).
		Column("idencuesta").
		Where("idcliente = ?", clientID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("answered surveys: %w", err)
	}
	return ids, nil
}

func (s *Store) HasResponse(ctx context.Context, surveyID, clientID int64) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*responseRow)(nil)).
		Where("idencuesta = ? AND idcliente = ?", surveyID, clientID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("find response: %w", err)
	}
	return exists, nil
}

func (s *Store) RecordResponse(ctx context.Context, header domain.Response, details []domain.ResponseDetail) (int64, error) {
	resp := responseRow{SurveyID: header.SurveyID, ClientID: header.ClientID, SubmittedAt: header.SubmittedAt}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&resp).Exec(ctx); err != nil {
			return err
		}
		if len(details) == 0 {
			return nil
		}
		rows := make([]detailRow, 0, len(details))
		for _, d := range details {
			rows = append(rows, detailRow{ResponseID: resp.ID, QuestionID: d.QuestionID, Text: d.Text, OptionID: d.OptionID})
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return 0, constraintError(err, domain.ErrAlreadyAnswered)
	}
	return resp.ID, nil
}

const submittedAnswersQuery = `
SELECT d.idpregunta, p.texto AS pregunta, p.tipo, d.contenido_texto, d.idopcion, o.texto AS opcion
FROM respuesta r
JOIN detalle_respuesta d ON d.idrespuesta = r.idrespuesta
JOIN pregunta p ON p.idpregunta = d.idpregunta
LEFT JOIN opcion o ON o.idopcion = d.idopcion
WHERE r.idencuesta = ? AND r.idcliente = ?
ORDER BY d.iddetalle`

func (s *Store) SubmittedAnswers(ctx context.Context, surveyID, clientID int64) ([]domain.SubmittedAnswer, error) {
	var rows []submittedRow
	if err := s.db.NewRaw(submittedAnswersQuery, surveyID, clientID).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("submitted answers: %w", err)
	}
	out := make([]domain.SubmittedAnswer, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.SubmittedAnswer{
			QuestionID:  r.QuestionID,
			Question:    r.Question,
			Type:        domain.QuestionType(r.Type),
			Text:        r.Text,
			OptionID:    r.OptionID,
			OptionLabel: r.OptionLabel,
		})
	}
	return out, nil
}

func summaries(rows []surveyRow) []domain.SurveySummary {
	out := make([]domain.SurveySummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.summary())
	}
	return out
}
