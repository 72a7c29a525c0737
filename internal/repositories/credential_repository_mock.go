package repositories

import (
	"sync"
	"time"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// MockCredentialRepository is an in-memory implementation of CredentialRepository.
type MockCredentialRepository struct {
	records map[string]models.CredentialRecord
	mu      sync.RWMutex
}

// NewMockCredentialRepository creates a new instance of MockCredentialRepository.
func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{
		records: make(map[string]models.CredentialRecord),
	}
}

// Save stores a copy of the record.
func (r *MockCredentialRepository) Save(record *models.CredentialRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *record
	stored.Sealed = append([]byte(nil), record.Sealed...)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.records[record.Ref] = stored
	return nil
}

// GetByRef returns a copy of the record with ref.
func (r *MockCredentialRepository) GetByRef(ref string) (*models.CredentialRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[ref]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	return &record, nil
}

// Delete removes the record with ref.
func (r *MockCredentialRepository) Delete(ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, ref)
	return nil
}

// DeleteExpired removes records that expired before now.
func (r *MockCredentialRepository) DeleteExpired(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for ref, record := range r.records {
		if !record.ExpiresAt.After(now) {
			delete(r.records, ref)
			n++
		}
	}
	return n, nil
}
