package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_survey_schema.sql
var createSurveySchemaSQL string

// Migrations holds every schema migration of the survey store.
var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createSurveySchemaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS
				detalle_respuesta, respuesta, opcion, pregunta, encuesta,
				proyecto_cliente, cliente, administrador, proyecto`)
			return err
		},
	)
}
