package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/khalef-khalil/nkcommerce/internal/models"
	"github.com/khalef-khalil/nkcommerce/internal/repositories"
)

const nonceSize = 24

// Vault encrypts tokens at rest and persists them through a repository.
// It is shared by every request; VaultStore binds it to one cookie jar.
type Vault struct {
	repo repositories.CredentialRepository
	key  [32]byte
	now  func() time.Time
}

// NewVault derives the secretbox key from secret.
func NewVault(repo repositories.CredentialRepository, secret string) *Vault {
	return &Vault{
		repo: repo,
		key:  sha256.Sum256([]byte(secret)),
		now:  time.Now,
	}
}

// Bind returns a Store whose cookies only carry vault references.
func (v *Vault) Bind(jar CookieJar) *VaultStore {
	return &VaultStore{vault: v, jar: jar}
}

// Purge deletes expired records.
func (v *Vault) Purge() (int64, error) {
	return v.repo.DeleteExpired(v.now())
}

func (v *Vault) seal(plain string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(plain), &nonce, &v.key), nil
}

func (v *Vault) open(sealed []byte) (string, error) {
	if len(sealed) < nonceSize {
		return "", errors.New("sealed credential too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &v.key)
	if !ok {
		return "", errors.New("sealed credential failed authentication")
	}
	return string(plain), nil
}

// VaultStore is a request-bound Store backed by a Vault.
type VaultStore struct {
	vault *Vault
	jar   CookieJar
}

// Get resolves the scope cookie's reference and decrypts the token.
func (s *VaultStore) Get(scope Scope) (string, bool) {
	ref := s.jar.Cookie(scope.CookieName())
	if ref == "" {
		return "", false
	}
	record, err := s.vault.repo.GetByRef(ref)
	if err != nil {
		if !errors.Is(err, repositories.ErrCredentialNotFound) {
			log.Printf("Error reading vaulted %s credential: %v", scope, err)
		}
		return "", false
	}
	if record.Scope != string(scope) {
		return "", false
	}
	if !s.vault.now().Before(record.ExpiresAt) {
		if err := s.vault.repo.Delete(ref); err != nil {
			log.Printf("Error deleting expired %s credential: %v", scope, err)
		}
		return "", false
	}
	token, err := s.vault.open(record.Sealed)
	if err != nil {
		log.Printf("Discarding vaulted %s credential: %v", scope, err)
		return "", false
	}
	return token, true
}

// Set replaces the scope credential with value under a fresh reference.
func (s *VaultStore) Set(scope Scope, value string) error {
	if err := scope.validate(); err != nil {
		return err
	}
	if old := s.jar.Cookie(scope.CookieName()); old != "" {
		if err := s.vault.repo.Delete(old); err != nil {
			return fmt.Errorf("failed to replace %s credential: %w", scope, err)
		}
	}

	sealed, err := s.vault.seal(value)
	if err != nil {
		return fmt.Errorf("failed to seal %s credential: %w", scope, err)
	}
	now := s.vault.now()
	record := &models.CredentialRecord{
		Ref:       uuid.New().String(),
		Scope:     string(scope),
		Sealed:    sealed,
		ExpiresAt: now.Add(scope.TTL()),
		CreatedAt: now,
	}
	if err := s.vault.repo.Save(record); err != nil {
		return fmt.Errorf("failed to store %s credential: %w", scope, err)
	}
	s.jar.SetCookie(scope.CookieName(), record.Ref, record.ExpiresAt)
	return nil
}

// Clear deletes the vaulted record and its cookie.
func (s *VaultStore) Clear(scope Scope) error {
	if err := scope.validate(); err != nil {
		return err
	}
	if ref := s.jar.Cookie(scope.CookieName()); ref != "" {
		if err := s.vault.repo.Delete(ref); err != nil {
			return fmt.Errorf("failed to clear %s credential: %w", scope, err)
		}
	}
	s.jar.ClearCookie(scope.CookieName())
	return nil
}
