package database

import (
	"database/sql"
	"fmt"

	"attendance.service/internal/config"
	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// NewInstrumentedConnection opens the API's settings and report job pool.
// Every query becomes a span tagged with the database name.
func NewInstrumentedConnection(cfg config.Config) (*sql.DB, error) {
	attrs := otelsql.WithAttributes(
		semconv.DBSystemPostgreSQL,
		semconv.DBNameKey.String(cfg.DBName),
	)
	db, err := otelsql.Open("pgx", urlDSN(cfg), attrs, otelsql.WithSQLCommenter(true))
	if err != nil {
		return nil, fmt.Errorf("error opening instrumented database: %w", err)
	}
	configurePool(db, cfg)

	if err := ping(db); err != nil {
		return nil, err
	}
	return db, nil
}
