package history

import (
	"context"
	"time"

	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/logger"
	"github.com/google/uuid"
)

type service struct {
	repo Repository
	cfg  Config
	now  func() time.Time
}

// No-op implementation
type noopRecorder struct{}

// Discard returns a recorder that keeps nothing.
func Discard() Recorder {
	return &noopRecorder{}
}

// NewRecorder opens the history database, or returns a recorder that keeps
// nothing when history is disabled.
func NewRecorder(cfg Config, log logger.Logger) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("Apply history disabled, using no-op recorder")
		return Discard(), nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &service{repo: repo, cfg: cfg, now: time.Now}, nil
}

// Record fills in ID and Timestamp when they are unset.
func (s *service) Record(ctx context.Context, record *Record) error {
	errFactory := errors.New()

	if record == nil || record.PlanName == "" {
		return errFactory.New(ErrInvalidRecord)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now()
	}

	return s.repo.Insert(ctx, record)
}

func (s *service) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	return s.repo.Recent(ctx, limit)
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}

func (*service) Enabled() bool {
	return true
}

func (*noopRecorder) Record(_ context.Context, _ *Record) error {
	return nil
}

func (*noopRecorder) Recent(_ context.Context, _ int) ([]Record, error) {
	return nil, nil
}

func (*noopRecorder) Close() error {
	return nil
}

func (*noopRecorder) Enabled() bool {
	return false
}
