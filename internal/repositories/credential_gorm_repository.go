package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/khalef-khalil/nkcommerce/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCredentialRepository is a GORM implementation of CredentialRepository.
type GORMCredentialRepository struct {
	db *gorm.DB
}

// NewGORMCredentialRepository creates a new instance of GORMCredentialRepository.
func NewGORMCredentialRepository(db *gorm.DB) *GORMCredentialRepository {
	return &GORMCredentialRepository{
		db: db,
	}
}

// Migrate creates or updates the credential table.
func (r *GORMCredentialRepository) Migrate() error {
	if err := r.db.AutoMigrate(&models.CredentialRecord{}); err != nil {
		return fmt.Errorf("failed to migrate credential vault: %w", err)
	}
	return nil
}

// Save inserts the record or replaces the one with the same reference.
func (r *GORMCredentialRepository) Save(record *models.CredentialRecord) error {
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// GetByRef retrieves a record by its cookie reference.
func (r *GORMCredentialRepository) GetByRef(ref string) (*models.CredentialRecord, error) {
	var record models.CredentialRecord
	if err := r.db.First(&record, "ref = ?", ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &record, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (r *GORMCredentialRepository) Delete(ref string) error {
	if err := r.db.Delete(&models.CredentialRecord{}, "ref = ?", ref).Error; err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// DeleteExpired purges records that expired before now.
func (r *GORMCredentialRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&models.CredentialRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge expired credentials: %w", res.Error)
	}
	return res.RowsAffected, nil
}
