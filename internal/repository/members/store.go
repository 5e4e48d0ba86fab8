// Package members stores membership applications through gorm.
package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rishad-007/BRUDF/internal/config"
	"github.com/Rishad-007/BRUDF/internal/db"
	domain "github.com/Rishad-007/BRUDF/internal/domain/members"
	"github.com/Rishad-007/BRUDF/pkg/logger"
	"gorm.io/gorm"
)

// Store owns the members table. It is unusable until Initialize succeeds
// and after Shutdown; operations then fail with domain.ErrStoreNotReady.
type Store struct {
	cfg config.DBConfig
	log logger.Logger
	now func() time.Time

	mu sync.RWMutex
	db *gorm.DB
}

type Option func(*Store)

// WithClock overrides the clock used for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(cfg config.DBConfig, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		cfg: cfg,
		log: log.With("component", "members_store"),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromDB wraps a handle whose schema is already in place.
func NewStoreFromDB(gormDB *gorm.DB, log logger.Logger, opts ...Option) *Store {
	s := NewStore(config.DBConfig{}, log, opts...)
	s.db = gormDB
	return s
}

func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	gormDB, err := db.Open(s.cfg, s.log)
	if err != nil {
		initErr := &domain.StorageInitError{Op: "open", Err: err}
		s.log.InternalError("members: open failed", err, "driver", s.cfg.Driver)
		return initErr
	}

	if err := db.EnsureSchema(gormDB.WithContext(ctx), s.cfg.Driver); err != nil {
		closeHandle(gormDB)
		initErr := &domain.StorageInitError{Op: "schema", Err: err}
		s.log.InternalError("members: schema failed", err, "driver", s.cfg.Driver)
		return initErr
	}

	s.db = gormDB
	s.log.Info("members: store ready", "driver", s.cfg.Driver)
	return nil
}

// Shutdown waits for in-flight operations and closes the handle.
func (s *Store) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}

	s.log.Info("members: store closed")
	return nil
}

func (s *Store) Create(ctx context.Context, input domain.Input) (*domain.Member, error) {
	conn, release, err := s.acquire("create")
	if err != nil {
		return nil, err
	}
	defer release()

	record, err := s.newRecord(input)
	if err != nil {
		return nil, s.writeError("create", err)
	}

	if err := conn.WithContext(ctx).Create(record).Error; err != nil {
		return nil, s.writeError("create", err)
	}

	member, err := record.Member()
	if err != nil {
		return nil, s.readError("create", err)
	}
	return &member, nil
}

func (s *Store) Update(ctx context.Context, id int64, input domain.Input) (*domain.Member, bool, error) {
	conn, release, err := s.acquire("update")
	if err != nil {
		return nil, false, err
	}
	defer release()

	interests, err := domain.EncodeInterests(input.Interests)
	if err != nil {
		return nil, false, s.writeError("update", err, "id", id)
	}

	var updated *domain.Record
	err = conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Record{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"name":        input.Name,
				"email":       input.Email,
				"phone":       input.Phone,
				"blood_group": input.BloodGroup,
				"department":  input.Department,
				"year":        input.Year,
				"motivation":  input.Motivation,
				"experience":  input.Experience,
				"interests":   interests,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var record domain.Record
		if err := tx.Where("id = ?", id).First(&record).Error; err != nil {
			return err
		}
		updated = &record
		return nil
	})
	if err != nil {
		return nil, false, s.writeError("update", err, "id", id)
	}
	if updated == nil {
		return nil, false, nil
	}

	member, err := updated.Member()
	if err != nil {
		return nil, false, s.readError("update", err, "id", id)
	}
	return &member, true, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Member, error) {
	conn, release, err := s.acquire("list")
	if err != nil {
		return nil, err
	}
	defer release()

	var records []domain.Record
	if err := conn.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Find(&records).Error; err != nil {
		return nil, s.readError("list", err)
	}

	items := make([]domain.Member, 0, len(records))
	for _, record := range records {
		member, err := record.Member()
		if err != nil {
			return nil, s.readError("list", err, "id", record.ID)
		}
		items = append(items, member)
	}
	return items, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Record, bool, error) {
	conn, release, err := s.acquire("get")
	if err != nil {
		return nil, false, err
	}
	defer release()

	var record domain.Record
	if err := conn.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, s.readError("get", err, "id", id)
	}
	return &record, true, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	conn, release, err := s.acquire("delete")
	if err != nil {
		return false, err
	}
	defer release()

	result := conn.WithContext(ctx).Delete(&domain.Record{}, "id = ?", id)
	if result.Error != nil {
		return false, s.writeError("delete", result.Error, "id", id)
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	conn, release, err := s.acquire("stats")
	if err != nil {
		return domain.Stats{}, err
	}
	defer release()

	var total int64
	if err := conn.WithContext(ctx).Model(&domain.Record{}).Count(&total).Error; err != nil {
		return domain.Stats{}, s.readError("stats", err)
	}
	return domain.Stats{TotalMembers: total}, nil
}

// acquire holds the read lock for the whole operation so Shutdown waits for it.
func (s *Store) acquire(op string) (*gorm.DB, func(), error) {
	s.mu.RLock()
	if s.db == nil {
		s.mu.RUnlock()
		s.log.InternalError("members: store not ready", domain.ErrStoreNotReady, "op", op)
		return nil, nil, domain.ErrStoreNotReady
	}
	return s.db, s.mu.RUnlock, nil
}

func (s *Store) newRecord(input domain.Input) (*domain.Record, error) {
	interests, err := domain.EncodeInterests(input.Interests)
	if err != nil {
		return nil, err
	}

	return &domain.Record{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		BloodGroup: input.BloodGroup,
		Department: input.Department,
		Year:       input.Year,
		Motivation: input.Motivation,
		Experience: input.Experience,
		Interests:  interests,
		CreatedAt:  s.now(),
	}, nil
}

func (s *Store) writeError(op string, err error, args ...any) error {
	attrs := append([]any{"op", op}, args...)
	if isDuplicateEmail(err) {
		s.log.BusinessError("members: duplicate email", err, attrs...)
		return domain.ErrDuplicateEmail
	}

	s.log.InternalError("members: write failed", err, attrs...)
	return &domain.StorageWriteError{Op: op, Err: err}
}

func (s *Store) readError(op string, err error, args ...any) error {
	s.log.InternalError("members: read failed", err, append([]any{"op", op}, args...)...)
	return fmt.Errorf("members %s: %w", op, err)
}

func isDuplicateEmail(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value")
}

func closeHandle(gormDB *gorm.DB) {
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

var _ domain.Repository = (*Store)(nil)
