package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultReader runs the per-option counts and per-question answer reads of
// the aggregator directly on a pgx pool.
type ResultReader struct {
	pool *pgxpool.Pool
}

func NewResultReader(pool *pgxpool.Pool) *ResultReader {
	return &ResultReader{pool: pool}
}

func (r *ResultReader) CountOptionResponses(ctx context.Context, optionID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM detalle_respuesta WHERE idopcion=$1`, optionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count option %d: %w", optionID, err)
	}
	return n, nil
}

func (r *ResultReader) OpenAnswers(ctx context.Context, questionID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT contenido_texto FROM detalle_respuesta
		 WHERE idpregunta=$1 AND contenido_texto IS NOT NULL
		 ORDER BY iddetalle`, questionID)
	if err != nil {
		return nil, fmt.Errorf("open answers %d: %w", questionID, err)
	}
	defer rows.Close()

	answers := make([]string, 0)
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("open answers %d: %w", questionID, err)
	}
	return answers, nil
}
