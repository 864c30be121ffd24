package postgres

import (
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"survey-service/internal/domain"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// constraintError translates constraint violations into domain errors.
// A unique violation becomes onUnique; a foreign key violation becomes
// domain.ErrUnknownReference. Anything else is returned unchanged.
func constraintError(err error, onUnique error) error {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Field('C') {
	case sqlStateUniqueViolation:
		if onUnique != nil {
			return onUnique
		}
	case sqlStateForeignKeyViolation:
		return domain.ErrUnknownReference
	}
	return err
}
