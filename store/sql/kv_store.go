package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-crm-connect/core"
)

// KVStore is the SQL-backed EphemeralStore. Consume runs the read and the
// delete in one transaction so a state token or parked credential is handed
// out at most once even with concurrent callers.
type KVStore struct {
	db   *bun.DB
	repo repository.Repository[*kvRecord]
	now  func() time.Time
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil || s.db == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: kv store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("sqlstore: key is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("sqlstore: ttl must be positive")
	}

	now := s.timeNow()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*kvRecord)(nil)).
			Where("key = ?", key).
			Exec(ctx); err != nil {
			return err
		}
		record := &kvRecord{
			ID:        uuid.NewString(),
			Key:       key,
			Value:     append([]byte(nil), value...),
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err := s.repo.CreateTx(ctx, tx, record)
		return err
	})
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: kv store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("sqlstore: key is required")
	}

	record := &kvRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrKeyNotFound, key)
		}
		return nil, err
	}
	if s.timeNow().After(record.ExpiresAt) {
		_ = s.Delete(ctx, key)
		return nil, fmt.Errorf("%w: %s", core.ErrKeyNotFound, key)
	}
	return append([]byte(nil), record.Value...), nil
}

func (s *KVStore) Consume(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: kv store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("sqlstore: key is required")
	}

	var value []byte
	expired := false
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record := &kvRecord{}
		if err := tx.NewSelect().
			Model(record).
			Where("key = ?", key).
			Limit(1).
			Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", core.ErrKeyNotFound, key)
			}
			return err
		}
		if _, err := tx.NewDelete().
			Model((*kvRecord)(nil)).
			Where("key = ?", key).
			Exec(ctx); err != nil {
			return err
		}
		if s.timeNow().After(record.ExpiresAt) {
			expired = true
			return nil
		}
		value = append([]byte(nil), record.Value...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, fmt.Errorf("%w: %s", core.ErrKeyNotFound, key)
	}
	return value, nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: kv store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("sqlstore: key is required")
	}
	_, err := s.db.NewDelete().
		Model((*kvRecord)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	return err
}

// PurgeExpired removes rows whose TTL elapsed without a consumer. Readers
// already treat them as absent; this just reclaims the space.
func (s *KVStore) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: kv store is not configured")
	}
	result, err := s.db.NewDelete().
		Model((*kvRecord)(nil)).
		Where("expires_at < ?", s.timeNow()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

func (s *KVStore) timeNow() time.Time {
	if s != nil && s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

var _ core.EphemeralStore = (*KVStore)(nil)
