package models

import "time"

// CredentialRecord is a vaulted credential. Ref is the opaque value kept in
// the browser cookie; Sealed is the encrypted token.
type CredentialRecord struct {
	Ref       string    `gorm:"primaryKey;type:varchar(36)"`
	Scope     string    `gorm:"index;type:varchar(16)"`
	Sealed    []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
