package repositories

import (
	"errors"
	"time"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// ErrCredentialNotFound is returned when no record matches a reference.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository defines the interface for vaulted credential access.
type CredentialRepository interface {
	Save(record *models.CredentialRecord) error
	GetByRef(ref string) (*models.CredentialRecord, error)
	Delete(ref string) error
	DeleteExpired(now time.Time) (int64, error)
}
