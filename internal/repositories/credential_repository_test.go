package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

func newTestGORMRepository(t *testing.T) *GORMCredentialRepository {
	t.Helper()
	db, err := OpenDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	repo := NewGORMCredentialRepository(db)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repo
}

// repositoryContract runs the behavior both implementations share.
func repositoryContract(t *testing.T, repo CredentialRepository) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)

	live := &models.CredentialRecord{Ref: "ref-live", Scope: "shopper", Sealed: []byte{1, 2, 3}, ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	stale := &models.CredentialRecord{Ref: "ref-stale", Scope: "admin", Sealed: []byte{4}, ExpiresAt: now.Add(-time.Hour), CreatedAt: now}
	require.NoError(t, repo.Save(live))
	require.NoError(t, repo.Save(stale))

	got, err := repo.GetByRef("ref-live")
	require.NoError(t, err)
	assert.Equal(t, "shopper", got.Scope)
	assert.Equal(t, []byte{1, 2, 3}, got.Sealed)

	live.Sealed = []byte{9}
	require.NoError(t, repo.Save(live))
	got, err = repo.GetByRef("ref-live")
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, got.Sealed)

	_, err = repo.GetByRef("missing")
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	n, err := repo.DeleteExpired(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repo.GetByRef("ref-stale")
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	require.NoError(t, repo.Delete("ref-live"))
	require.NoError(t, repo.Delete("ref-live"))
	_, err = repo.GetByRef("ref-live")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestGORMCredentialRepository(t *testing.T) {
	repositoryContract(t, newTestGORMRepository(t))
}

func TestMockCredentialRepository(t *testing.T) {
	repositoryContract(t, NewMockCredentialRepository())
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := OpenDatabase("mysql", "dsn")
	assert.Error(t, err)
}
