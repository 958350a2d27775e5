package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	MemoryDSN    = "memory"
	SQLitePrefix = "sqlite:"
)

// Open selects a backend from dsn, connects and migrates it:
//
//	memory            in-process map, *sql.DB is nil
//	sqlite:<path>     embedded SQLite file
//	anything else     PostgreSQL connection string for pgx
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	if dsn == MemoryDSN {
		return nil, NewMemoryRepositoryManager(), nil
	}

	var (
		driver string
		source string
		m      RepositoryManager
	)
	if path, ok := strings.CutPrefix(dsn, SQLitePrefix); ok {
		driver, source, m = "sqlite", path, &SQLiteRepositoryManager{}
	} else {
		driver, source, m = "pgx", dsn, &PostgresRepositoryManager{}
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// one writer at a time; avoids SQLITE_BUSY under concurrent registrations
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	return db, m, nil
}
