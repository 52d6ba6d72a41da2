package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"pulse-survey/internal/logger"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createVersionTable = `CREATE TABLE schema_migrations (version VARCHAR2(255) NOT NULL PRIMARY KEY)`

// oraNameInUse is returned by Oracle when the table already exists.
const oraNameInUse = "ORA-00955"

// Migration is one embedded ".up.sql" file.
type Migration struct {
	Version string
	SQL     string
}

// Migrations lists the embedded up migrations in version order.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not read migrations: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		content, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return nil, fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		out = append(out, Migration{
			Version: strings.TrimSuffix(name, ".up.sql"),
			SQL:     strings.TrimRight(strings.TrimSpace(string(content)), ";"),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// RunMigrations applies every embedded migration that is not yet recorded in
// schema_migrations. It returns the versions it applied.
func RunMigrations(ctx context.Context, db *sql.DB) ([]string, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, createVersionTable); err != nil && !strings.Contains(err.Error(), oraNameInUse) {
		return nil, fmt.Errorf("could not create schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("could not read applied migrations: %w", err)
	}
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return nil, fmt.Errorf("could not scan applied migration: %w", err)
		}
		applied[version] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read applied migrations: %w", err)
	}

	var ran []string
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if _, err := db.ExecContext(ctx, m.SQL); err != nil {
			return ran, fmt.Errorf("could not execute migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (:1)`, m.Version); err != nil {
			return ran, fmt.Errorf("could not record migration %s: %w", m.Version, err)
		}
		logger.Get().Info("Executed migration", zap.String("version", m.Version))
		ran = append(ran, m.Version)
	}

	logger.Get().Info("Migrations completed successfully", zap.Int("applied", len(ran)))
	return ran, nil
}
