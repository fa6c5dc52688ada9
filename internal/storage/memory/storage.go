package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	"github.com/polkiloo/aiblend-payments/internal/domain/repository"
)

const (
	CollectionPayments = "payments"
	CollectionUsers    = "users"
)

type document struct {
	data      map[string]any
	createdAt time.Time
}

// Storage is a process-local document store with the same merge semantics
// as the PostgreSQL storage. Documents are kept in their JSON form.
type Storage struct {
	mu          sync.Mutex
	collections map[string]map[string]*document
	newID       func() string
	now         func() time.Time
}

type paymentRepository struct {
	storage *Storage
}

type userRepository struct {
	storage *Storage
}

// New creates empty storage.
func New() *Storage {
	return &Storage{
		collections: make(map[string]map[string]*document),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Close is a no-op kept for parity with persistent storage.
func (s *Storage) Close() {}

// HealthCheck always succeeds.
func (s *Storage) HealthCheck(context.Context) error { return nil }

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

// Put replaces a document. Intended for seeding.
func (s *Storage) Put(collection, id string, data map[string]any) error {
	normalized, err := toDocument(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = &document{data: normalized, createdAt: s.now()}
	return nil
}

// Document returns a copy of stored document.
func (s *Storage) Document(collection, id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, false
	}
	return copyData(doc.data), true
}

// Documents returns copies of every document in a collection keyed by id.
func (s *Storage) Documents(collection string) map[string]map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string]map[string]any, len(s.collections[collection]))
	for id, doc := range s.collections[collection] {
		result[id] = copyData(doc.data)
	}
	return result
}

func (s *Storage) collection(name string) map[string]*document {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]*document)
		s.collections[name] = c
	}
	return c
}

// merge must be called with mu held.
func (s *Storage) merge(collection, id string, patch map[string]any, createdAt time.Time) {
	docs := s.collection(collection)
	doc, ok := docs[id]
	if !ok {
		docs[id] = &document{data: patch, createdAt: createdAt}
		return
	}
	for k, v := range patch {
		doc.data[k] = v
	}
}

// --- PaymentRepository implementation ---

func (r *paymentRepository) Create(_ context.Context, record model.PaymentRecord) (*model.PaymentRecord, error) {
	data, err := toDocument(record)
	if err != nil {
		return nil, err
	}
	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()
	id := r.storage.newID()
	r.storage.collection(CollectionPayments)[id] = &document{data: data, createdAt: record.CreatedAt}
	record.ID = id
	return &record, nil
}

func (r *paymentRepository) SaveCaptured(_ context.Context, paymentID string, doc map[string]any) error {
	data, err := toDocument(doc)
	if err != nil {
		return err
	}
	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()
	r.storage.merge(CollectionPayments, paymentID, data, r.storage.now())
	return nil
}

func (r *paymentRepository) MarkCaptured(_ context.Context, orderID, paymentID string, at time.Time) (int64, error) {
	patch, err := toDocument(map[string]any{
		"status":    model.PaymentStatusCaptured,
		"paymentId": paymentID,
		"updatedAt": at,
	})
	if err != nil {
		return 0, err
	}
	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()
	var affected int64
	for id, doc := range r.storage.collection(CollectionPayments) {
		if doc.data["orderId"] == orderID && doc.data["status"] != string(model.PaymentStatusCaptured) {
			r.storage.merge(CollectionPayments, id, copyData(patch), doc.createdAt)
			affected++
		}
	}
	return affected, nil
}

func (r *paymentRepository) SelectStale(_ context.Context, createdBefore time.Time, limit int) ([]model.PaymentRecord, error) {
	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()

	type candidate struct {
		id  string
		doc *document
	}
	var candidates []candidate
	for id, doc := range r.storage.collection(CollectionPayments) {
		if doc.data["status"] == string(model.PaymentStatusCreated) && doc.createdAt.Before(createdBefore) {
			candidates = append(candidates, candidate{id: id, doc: doc})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].doc.createdAt.Before(candidates[j].doc.createdAt)
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]model.PaymentRecord, 0, len(candidates))
	for _, c := range candidates {
		var record model.PaymentRecord
		if err := fromDocument(c.doc.data, &record); err != nil {
			return nil, fmt.Errorf("decode payment %s: %w", c.id, err)
		}
		record.ID = c.id
		result = append(result, record)
	}
	return result, nil
}

func (r *paymentRepository) MarkExpired(_ context.Context, id string, at time.Time) (bool, error) {
	patch, err := toDocument(map[string]any{
		"status":        model.PaymentStatusFailed,
		"failureReason": model.FailureReasonExpired,
		"updatedAt":     at,
	})
	if err != nil {
		return false, err
	}
	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()
	doc, ok := r.storage.collection(CollectionPayments)[id]
	if !ok || doc.data["status"] != string(model.PaymentStatusCreated) {
		return false, nil
	}
	r.storage.merge(CollectionPayments, id, patch, doc.createdAt)
	return true, nil
}

// --- UserRepository implementation ---

func (r *userRepository) Upgrade(_ context.Context, upgrade model.Upgrade) error {
	patch, err := toDocument(model.UserAccount{
		ProStatus:     true,
		LastPaymentID: upgrade.PaymentID,
		UpgradedAt:    &upgrade.UpgradedAt,
	})
	if err != nil {
		return err
	}
	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()
	if doc, ok := r.storage.collection(CollectionUsers)[upgrade.UserID]; ok {
		_, hasUpgradedAt := doc.data["upgradedAt"]
		if hasUpgradedAt && doc.data["lastPaymentId"] == upgrade.PaymentID {
			delete(patch, "upgradedAt")
		}
	}
	r.storage.merge(CollectionUsers, upgrade.UserID, patch, r.storage.now())
	return nil
}

func (r *userRepository) Get(_ context.Context, userID string) (*model.UserAccount, error) {
	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()
	doc, ok := r.storage.collection(CollectionUsers)[userID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	var user model.UserAccount
	if err := fromDocument(doc.data, &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	user.ID = userID
	return &user, nil
}

func toDocument(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func fromDocument(doc map[string]any, target any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func copyData(data map[string]any) map[string]any {
	// Round-trip through JSON also copies nested maps.
	out, err := toDocument(data)
	if err != nil {
		return map[string]any{}
	}
	return out
}
