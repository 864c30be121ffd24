package postgres

import (
	"time"

	"github.com/uptrace/bun"
	"survey-service/internal/domain"
)

type projectRow struct {
	bun.BaseModel `bun:"table:proyecto,alias:pr"`

	ID   int64  `bun:"idproyecto,pk,autoincrement"`
	Name string `bun:"nombre,notnull"`
}

type administratorRow struct {
	bun.BaseModel `bun:"table:administrador,alias:ad"`

	ID       int64  `bun:"idadmin,pk,autoincrement"`
	Login    string `bun:"usuario,notnull"`
	Password string `bun:"contrasena,notnull"`
}

type clientRow struct {
	bun.BaseModel `bun:"table:cliente,alias:cl"`

	ID        int64  `bun:"idcliente,pk,autoincrement"`
	FirstName string `bun:"nombre,notnull"`
	LastName  string `bun:"apellido,notnull"`
	Login     string `bun:"usuario,notnull"`
	Password  string `bun:"contrasena,notnull"`
	Role      string `bun:"rol,notnull"`
}

type membershipRow struct {
	bun.BaseModel `bun:"table:proyecto_cliente,alias:pc"`

	ProjectID int64 `bun:"idproyecto,pk"`
	ClientID  int64 `bun:"idcliente,pk"`
}

type surveyRow struct {
	bun.BaseModel `bun:"table:encuesta,alias:e"`

	ID        int64     `bun:"idencuesta,pk,autoincrement"`
	Title     string    `bun:"titulo,notnull"`
	CreatedAt time.Time `bun:"fecha,notnull"`
	ProjectID int64     `bun:"idproyecto,notnull"`
	AdminID   int64     `bun:"idadmin,notnull"`

	Project *projectRow `bun:"rel:belongs-to,join:idproyecto=idproyecto"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:pregunta,alias:p"`

	ID       int64  `bun:"idpregunta,pk,autoincrement"`
	SurveyID int64  `bun:"idencuesta,notnull"`
	Text     string `bun:"texto,notnull"`
	Type     string `bun:"tipo,notnull"`

	Options []optionRow `bun:"rel:has-many,join:idpregunta=idpregunta"`
}

type optionRow struct {
	bun.BaseModel `bun:"table:opcion,alias:o"`

	ID         int64  `bun:"idopcion,pk,autoincrement"`
	QuestionID int64  `bun:"idpregunta,notnull"`
	Label      string `bun:"texto,notnull"`
}

type responseRow struct {
	bun.BaseModel `bun:"table:respuesta,alias:r"`

	ID          int64     `bun:"idrespuesta,pk,autoincrement"`
	SurveyID    int64     `bun:"idencuesta,notnull"`
	ClientID    int64     `bun:"idcliente,notnull"`
	SubmittedAt time.Time `bun:"fecha,notnull"`
}

type detailRow struct {
	bun.BaseModel `bun:"table:detalle_respuesta,alias:d"`

	ID         int64   `bun:"iddetalle,pk,autoincrement"`
	ResponseID int64   `bun:"idrespuesta,notnull"`
	QuestionID int64   `bun:"idpregunta,notnull"`
	Text       *string `bun:"contenido_texto"`
	OptionID   *int64  `bun:"idopcion"`
}

// submittedRow is the shape of the answers-by-client join.
type submittedRow struct {
	QuestionID  int64   `bun:"idpregunta"`
	Question    string  `bun:"pregunta"`
	Type        string  `bun:"tipo"`
	Text        *string `bun:"contenido_texto"`
	OptionID    *int64  `bun:"idopcion"`
	OptionLabel *string `bun:"opcion"`
}

func (r surveyRow) summary() domain.SurveySummary {
	s := domain.SurveySummary{ID: r.ID, Title: r.Title, CreatedAt: r.CreatedAt, ProjectID: r.ProjectID}
	if r.Project != nil && r.Project.ID != 0 {
		name := r.Project.Name
		s.Project = &name
	}
	return s
}

func (r questionRow) question() domain.Question {
	q := domain.Question{ID: r.ID, SurveyID: r.SurveyID, Text: r.Text, Type: domain.QuestionType(r.Type)}
	if !q.Type.HasOptions() {
		return q
	}
	q.Options = make([]domain.Option, 0, len(r.Options))
	for _, o := range r.Options {
		q.Options = append(q.Options, domain.Option{ID: o.ID, QuestionID: o.QuestionID, Label: o.Label})
	}
	return q
}
