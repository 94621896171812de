package history

import (
	"database/sql"

	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS applies (
	       id           TEXT PRIMARY KEY,
	       timestamp    INTEGER NOT NULL CHECK (typeof(timestamp) = 'integer'),
	       source       TEXT NOT NULL,
	       plan_name    TEXT NOT NULL,
	       power_plan   TEXT NOT NULL,
	       cpu_curve    TEXT NOT NULL DEFAULT '',
	       gpu_curve    TEXT NOT NULL DEFAULT '',
	       cpu_adjusted INTEGER NOT NULL CHECK (cpu_adjusted IN (0, 1)),
	       gpu_adjusted INTEGER NOT NULL CHECK (gpu_adjusted IN (0, 1)),
	       success      INTEGER NOT NULL CHECK (success IN (0, 1)),
	       error        TEXT NOT NULL DEFAULT ''
	   );
	   CREATE INDEX IF NOT EXISTS applies_timestamp ON applies (timestamp);`

	insertApplySQL = `
    INSERT INTO applies (
        id, timestamp, source,
        plan_name, power_plan,
        cpu_curve, gpu_curve,
        cpu_adjusted, gpu_adjusted,
        success, error
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectRecentSQL = `
    SELECT
        id, timestamp, source,
        plan_name, power_plan,
        cpu_curve, gpu_curve,
        cpu_adjusted, gpu_adjusted,
        success, error
    FROM applies
    ORDER BY timestamp DESC, rowid DESC
    LIMIT ?`
)

// InitSchema creates a new database schema with the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	log.Debug().Msg("Creating database...")

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	// Track transaction state
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				// Only log if it's not the "already committed" error
				if !errors.Is(err, sql.ErrTxDone) {
					log.Debug().Err(err).Msg("Failed to rollback transaction")
				}
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, failure{Phase: "create_tables", SQL: createTablesSQL, Error: err.Error()})
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, failure{Phase: "record_version", Error: err.Error()})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Info().
		Int("version", SchemaVersion).
		Msg("History schema initialized")

	return nil
}

// GetSchemaVersion returns the current schema version, 0 for an empty database
func GetSchemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	exists, err := TableExists(db, "schema_versions")
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaValidationFailed, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.WithData(ErrSchemaValidationFailed, failure{Phase: "get_version", Error: err.Error()})
	}

	return version, nil
}

// TableExists checks if a table exists
func TableExists(db *sql.DB, tableName string) (bool, error) {
	var exists bool
	err := db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM sqlite_master
            WHERE type='table' AND name=?
        )
    `, tableName).Scan(&exists)
	if err != nil {
		return false, errors.New().WithData(ErrSchemaValidationFailed, failure{Phase: "check_table_exists", Table: tableName, Error: err.Error()})
	}
	return exists, nil
}
