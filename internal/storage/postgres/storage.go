package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	"github.com/polkiloo/aiblend-payments/internal/domain/repository"
)

const (
	collectionPayments = "payments"
	collectionUsers    = "users"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

var newDocumentID = uuid.NewString

// Storage keeps JSON documents grouped by collection in a single table.
// Every write is one statement on one row, which makes it atomic.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type paymentRepository struct {
	storage *Storage
}

type userRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            collection TEXT NOT NULL,
            id TEXT NOT NULL,
            data JSONB NOT NULL DEFAULT '{}'::jsonb,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (collection, id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_documents_payment_order ON documents ((data->>'orderId')) WHERE collection = 'payments'`,
		`CREATE INDEX IF NOT EXISTS idx_documents_payment_status ON documents ((data->>'status'), created_at) WHERE collection = 'payments'`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- PaymentRepository implementation ---

func (r *paymentRepository) Create(ctx context.Context, record model.PaymentRecord) (*model.PaymentRecord, error) {
	const query = `INSERT INTO documents (collection, id, data, created_at) VALUES ($1, $2, $3::jsonb, $4)`
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode payment: %w", err)
	}
	id := newDocumentID()
	if _, err := r.storage.pool.Exec(ctx, query, collectionPayments, id, string(data), record.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	record.ID = id
	return &record, nil
}

func (r *paymentRepository) SaveCaptured(ctx context.Context, paymentID string, document map[string]any) error {
	const query = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
                   ON CONFLICT (collection, id) DO UPDATE
                   SET data = documents.data || EXCLUDED.data, updated_at = NOW()`
	data, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("encode payment: %w", err)
	}
	if _, err := r.storage.pool.Exec(ctx, query, collectionPayments, paymentID, string(data)); err != nil {
		return fmt.Errorf("upsert payment: %w", err)
	}
	return nil
}

// MarkCaptured leaves records that are already captured untouched, so a
// replayed confirmation does not rewrite updatedAt.
func (r *paymentRepository) MarkCaptured(ctx context.Context, orderID, paymentID string, at time.Time) (int64, error) {
	const query = `UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
                   WHERE collection = $1 AND data->>'orderId' = $2
                     AND data->>'status' IS DISTINCT FROM $4`
	patch, err := json.Marshal(map[string]any{
		"status":    model.PaymentStatusCaptured,
		"paymentId": paymentID,
		"updatedAt": at,
	})
	if err != nil {
		return 0, fmt.Errorf("encode payment patch: %w", err)
	}
	tag, err := r.storage.pool.Exec(ctx, query, collectionPayments, orderID, string(patch), string(model.PaymentStatusCaptured))
	if err != nil {
		return 0, fmt.Errorf("mark payment captured: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *paymentRepository) SelectStale(ctx context.Context, createdBefore time.Time, limit int) ([]model.PaymentRecord, error) {
	const query = `SELECT id, data FROM documents
                   WHERE collection = $1 AND data->>'status' = $2 AND created_at < $3
                   ORDER BY created_at
                   LIMIT $4`
	rows, err := r.storage.pool.Query(ctx, query, collectionPayments, string(model.PaymentStatusCreated), createdBefore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PaymentRecord
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var record model.PaymentRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("decode payment %s: %w", id, err)
		}
		record.ID = id
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) MarkExpired(ctx context.Context, id string, at time.Time) (bool, error) {
	const query = `UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
                   WHERE collection = $1 AND id = $2 AND data->>'status' = $4`
	patch, err := json.Marshal(map[string]any{
		"status":        model.PaymentStatusFailed,
		"failureReason": model.FailureReasonExpired,
		"updatedAt":     at,
	})
	if err != nil {
		return false, fmt.Errorf("encode payment patch: %w", err)
	}
	tag, err := r.storage.pool.Exec(ctx, query, collectionPayments, id, string(patch), string(model.PaymentStatusCreated))
	if err != nil {
		return false, fmt.Errorf("mark payment expired: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// --- UserRepository implementation ---

// Upgrade keeps the stored upgradedAt when the same payment is applied
// again so that repeated reconciliation leaves the document unchanged.
func (r *userRepository) Upgrade(ctx context.Context, upgrade model.Upgrade) error {
	const query = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
                   ON CONFLICT (collection, id) DO UPDATE
                   SET data = CASE
                           WHEN documents.data->>'lastPaymentId' = EXCLUDED.data->>'lastPaymentId'
                                AND documents.data ? 'upgradedAt'
                           THEN documents.data || (EXCLUDED.data - 'upgradedAt')
                           ELSE documents.data || EXCLUDED.data
                       END,
                       updated_at = NOW()`
	data, err := json.Marshal(model.UserAccount{
		ProStatus:     true,
		LastPaymentID: upgrade.PaymentID,
		UpgradedAt:    &upgrade.UpgradedAt,
	})
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if _, err := r.storage.pool.Exec(ctx, query, collectionUsers, upgrade.UserID, string(data)); err != nil {
		return fmt.Errorf("upgrade user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, userID string) (*model.UserAccount, error) {
	const query = `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	var data []byte
	err := r.storage.pool.QueryRow(ctx, query, collectionUsers, userID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	var user model.UserAccount
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	user.ID = userID
	return &user, nil
}
