package db

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	embeddedmigrations "github.com/solatis/dumpscrub/migrations"
)

// MigrationStatus represents the state of a single migration.
type MigrationStatus struct {
	ID        string
	Checksum  string
	Applied   bool
	AppliedAt *time.Time
}

// migration represents a parsed migration file.
type migration struct {
	ID       string
	Checksum string
	SQL      string
}

// MigrateUp runs all pending migrations against the database.
// Selects the embedded migrations for the driver dialect, validates
// checksums of already-applied migrations, and applies pending ones in
// filename order, each inside a transaction together with its bookkeeping
// row so a failure leaves no partial state.
func MigrateUp(database *sqlx.DB) error {
	migrations, err := loadMigrations(database)
	if err != nil {
		return err
	}

	if err := createMigrationsTable(database); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// SHA256 checksums detect modification of already-applied migrations.
	applied, err := appliedChecksums(database)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	for _, m := range migrations {
		if have, ok := applied[m.ID]; ok && have != m.Checksum {
			return fmt.Errorf("checksum mismatch for migration %s: expected %s, got %s", m.ID, m.Checksum, have)
		}
	}

	for _, m := range migrations {
		if _, ok := applied[m.ID]; ok {
			continue
		}

		tx, err := database.Beginx()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %s: %w", m.ID, err)
		}
		if err := applyMigration(tx, m); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
		if err := recordMigration(tx, m); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", m.ID, err)
		}
	}

	return nil
}

// MigrateStatus returns the status of all migrations (applied and pending).
func MigrateStatus(database *sqlx.DB) ([]MigrationStatus, error) {
	migrations, err := loadMigrations(database)
	if err != nil {
		return nil, err
	}

	if err := createMigrationsTable(database); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := database.Queryx("SELECT migration_id, checksum, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]MigrationStatus)
	for rows.Next() {
		var status MigrationStatus
		var appliedAt string
		if err := rows.Scan(&status.ID, &status.Checksum, &appliedAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, appliedAt); err == nil {
			status.AppliedAt = &t
		}
		status.Applied = true
		applied[status.ID] = status
	}

	var statuses []MigrationStatus
	for _, m := range migrations {
		if s, ok := applied[m.ID]; ok {
			statuses = append(statuses, s)
		} else {
			statuses = append(statuses, MigrationStatus{ID: m.ID, Checksum: m.Checksum})
		}
	}
	return statuses, nil
}

// loadMigrations reads the embedded migrations matching the driver dialect,
// sorted by filename for deterministic ordering.
func loadMigrations(database *sqlx.DB) ([]migration, error) {
	var migrationsFS embed.FS
	var dir string

	switch database.DriverName() {
	case "sqlite3":
		migrationsFS = embeddedmigrations.SqliteMigrations
		dir = "sqlite"
	case "postgres":
		migrationsFS = embeddedmigrations.PostgresMigrations
		dir = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", database.DriverName())
	}

	var migrations []migration
	err := fs.WalkDir(migrationsFS, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}
		content, err := migrationsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		hash := sha256.Sum256(content)
		migrations = append(migrations, migration{
			ID:       filepath.Base(path),
			Checksum: fmt.Sprintf("%x", hash),
			SQL:      string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse migrations: %w", err)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].ID < migrations[j].ID
	})
	return migrations, nil
}

func createMigrationsTable(database *sqlx.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			migration_id TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

func appliedChecksums(database *sqlx.DB) (map[string]string, error) {
	rows, err := database.Queryx("SELECT migration_id, checksum FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var id, checksum string
		if err := rows.Scan(&id, &checksum); err != nil {
			return nil, err
		}
		applied[id] = checksum
	}
	return applied, nil
}

// applyMigration executes a single migration SQL within a transaction.
// Comment lines are stripped first, then statements split on semicolons;
// lib/pq does not support multiple statements in a single Exec.
func applyMigration(tx *sqlx.Tx, m migration) error {
	for _, stmt := range strings.Split(stripSQLComments(m.SQL), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}
	return nil
}

func stripSQLComments(sql string) string {
	var b strings.Builder
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func recordMigration(tx *sqlx.Tx, m migration) error {
	_, err := tx.Exec(
		tx.Rebind("INSERT INTO schema_migrations (migration_id, checksum, applied_at) VALUES (?, ?, ?)"),
		m.ID, m.Checksum, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
