package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

type repository struct {
	db     *sql.DB
	logger logger.Logger
	cfg    Config
	mu     sync.Mutex
	closed bool
}

func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, failure{Phase: "create_directory", Path: cfg.DBPath, Error: err.Error()})
	}

	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, failure{Phase: "open_database", Error: err.Error()})
	}

	if err := ValidateAndUpdateSchema(db, cfg.backupDir(), log); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	log.Debug().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("History repository initialized")

	return &repository{
		db:     db,
		logger: log,
		cfg:    cfg,
	}, nil
}

func (r *repository) Insert(ctx context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	if r.closed {
		return errFactory.New(ErrStorageAccess)
	}

	_, err := r.db.ExecContext(ctx, insertApplySQL,
		record.ID,
		record.Timestamp.UnixMilli(),
		string(record.Source),
		record.PlanName,
		record.PowerPlan,
		record.CPUCurve,
		record.GPUCurve,
		boolToInt(record.CPUAdjusted),
		boolToInt(record.GPUAdjusted),
		boolToInt(record.Success),
		record.Error,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to insert history record")
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	return nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	if r.closed {
		return nil, errFactory.New(ErrStorageAccess)
	}

	rows, err := r.db.QueryContext(ctx, selectRecentSQL, limit)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			record                            Record
			millis                            int64
			source                            string
			cpuAdjusted, gpuAdjusted, success int
		)
		if err := rows.Scan(
			&record.ID, &millis, &source,
			&record.PlanName, &record.PowerPlan,
			&record.CPUCurve, &record.GPUCurve,
			&cpuAdjusted, &gpuAdjusted,
			&success, &record.Error,
		); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		record.Timestamp = time.UnixMilli(millis)
		record.Source = Source(source)
		record.CPUAdjusted = cpuAdjusted == 1
		record.GPUAdjusted = gpuAdjusted == 1
		record.Success = success == 1
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return records, nil
}

func (r *repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	// Checkpoint WAL and cleanup on close
	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errors.New().WithData(ErrStorageClose, failure{Phase: "checkpoint_wal", Error: err.Error()})
	}

	if err := r.db.Close(); err != nil {
		return errors.New().WithData(ErrStorageClose, failure{Phase: "close_database", Error: err.Error()})
	}

	r.logger.Debug().Msg("History repository closed")

	return nil
}
