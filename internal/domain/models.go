package domain

import "time"

// QuestionType is the kind of a survey question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "opcion_multiple"
	QuestionOpenText       QuestionType = "abierta"
	QuestionScale          QuestionType = "escala"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionOpenText, QuestionScale:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type own selectable options.
func (t QuestionType) HasOptions() bool {
	return t == QuestionMultipleChoice || t == QuestionScale
}

// DefaultClientRole is assigned when a client registers without a role.
const DefaultClientRole = "cliente"

type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

type Administrator struct {
	ID           int64  `json:"id"`
	Login        string `json:"usuario"`
	PasswordHash []byte `json:"-"`
}

type Client struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"nombre"`
	LastName     string `json:"apellido"`
	Login        string `json:"usuario"`
	PasswordHash []byte `json:"-"`
	Role         string `json:"rol"`
}

// Survey is the stored survey header.
type Survey struct {
	ID        int64
	Title     string
	CreatedAt time.Time
	ProjectID int64
	AdminID   int64
}

// SurveySummary is a survey joined with its project name for display.
// Project is nil when the project reference cannot be resolved.
type SurveySummary struct {
	ID        int64     `json:"id"`
	Title     string    `json:"titulo"`
	CreatedAt time.Time `json:"fecha"`
	ProjectID int64     `json:"proyectoId"`
	Project   *string   `json:"proyecto"`
}

type Option struct {
	ID         int64  `json:"idopcion"`
	QuestionID int64  `json:"idpregunta"`
	Label      string `json:"texto"`
}

type Question struct {
	ID       int64        `json:"idpregunta"`
	SurveyID int64        `json:"idencuesta"`
	Text     string       `json:"pregunta"`
	Type     QuestionType `json:"tipo"`
	Options  []Option     `json:"opciones,omitempty"`
}

// QuestionDraft is one question of a survey being created.
type QuestionDraft struct {
	Text    string       `json:"pregunta"`
	Type    QuestionType `json:"tipo"`
	Options []string     `json:"opciones,omitempty"`
}

// SurveyDraft carries everything needed to create a survey in one write.
type SurveyDraft struct {
	Title     string
	ProjectID int64
	AdminID   int64
	CreatedAt time.Time
	Questions []QuestionDraft
}

// Response is the header of one client's submission for one survey.
type Response struct {
	ID          int64
	SurveyID    int64
	ClientID    int64
	SubmittedAt time.Time
}

// ResponseDetail is a single answer; exactly one of Text and OptionID is set.
type ResponseDetail struct {
	ResponseID int64
	QuestionID int64
	Text       *string
	OptionID   *int64
}

// AnswerInput is one inbound answer of a submission.
type AnswerInput struct {
	QuestionID int64   `json:"idPregunta"`
	Text       *string `json:"contenido_texto,omitempty"`
	OptionID   *int64  `json:"idOpcion,omitempty"`
}

// SubmittedAnswer is a stored answer joined with its question and chosen option.
type SubmittedAnswer struct {
	QuestionID  int64        `json:"idpregunta"`
	Question    string       `json:"pregunta"`
	Type        QuestionType `json:"tipo"`
	Text        *string      `json:"contenido_texto"`
	OptionID    *int64       `json:"idopcion"`
	OptionLabel *string      `json:"opcion"`
}

// OptionTally is the response count of one option.
type OptionTally struct {
	OptionID   int64   `json:"idopcion"`
	Label      string  `json:"opcion"`
	Count      int     `json:"cantidad"`
	Percentage float64 `json:"porcentaje"`
}

type MultipleChoiceResult struct {
	QuestionID int64         `json:"idpregunta"`
	Question   string        `json:"pregunta"`
	Options    []OptionTally `json:"opciones"`
	Total      int           `json:"total_respuestas"`
}

type OpenTextResult struct {
	QuestionID int64    `json:"idpregunta"`
	Question   string   `json:"pregunta"`
	Answers    []string `json:"respuestas"`
}

// SurveyReport is the aggregated result of a survey. TotalResponses counts
// multiple-choice answers only.
type SurveyReport struct {
	SurveyID       int64                  `json:"idEncuesta"`
	TotalResponses int                    `json:"totalRespuestas"`
	MultipleChoice []MultipleChoiceResult `json:"preguntasOpcionMultiple"`
	OpenText       []OpenTextResult       `json:"preguntasAbiertas"`
}

// LoginResult identifies who authenticated.
type LoginResult struct {
	Kind          string         `json:"tipo"`
	Administrator *Administrator `json:"-"`
	Client        *Client        `json:"-"`
}

const (
	AccountAdministrator = "administrador"
	AccountClient        = "cliente"
)

// User returns the authenticated principal for serialization.
func (r LoginResult) User() any {
	if r.Administrator != nil {
		return r.Administrator
	}
	return r.Client
}
