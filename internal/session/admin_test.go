package session_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khalef-khalil/nkcommerce/internal/credentials"
	"github.com/khalef-khalil/nkcommerce/internal/models"
	"github.com/khalef-khalil/nkcommerce/internal/session"
)

func TestAdmin_LoginNonAdministratorPersistsNothing(t *testing.T) {
	api := new(MockBackend)
	store := credentials.NewMemoryStore()
	a := session.NewAdmin(api, store, session.Policy{})

	api.On("ObtainToken", mock.Anything, "bob", "pw").Return("tok-bob", nil).Once()
	api.On("FetchAdminIdentity", mock.Anything, "tok-bob").
		Return(&models.AdminIdentity{ID: 2, Username: "bob"}, nil).Once()

	snap, err := a.Login(context.Background(), "bob", "pw")
	assert.ErrorIs(t, err, session.ErrNotAdministrator)
	assert.NotErrorIs(t, err, session.ErrInvalidCredentials)
	assert.False(t, snap.Authenticated())
	assert.False(t, credentials.Present(store, credentials.Admin))
	api.AssertExpectations(t)
}

func TestAdmin_LoginSuperuser(t *testing.T) {
	api := new(MockBackend)
	store := credentials.NewMemoryStore()
	a := session.NewAdmin(api, store, session.Policy{})

	api.On("ObtainToken", mock.Anything, "carol", "pw").Return("tok-carol", nil).Once()
	api.On("FetchAdminIdentity", mock.Anything, "tok-carol").
		Return(&models.AdminIdentity{ID: 3, Username: "carol", IsSuperuser: true}, nil).Once()

	snap, err := a.Login(context.Background(), "carol", "pw")
	require.NoError(t, err)
	assert.True(t, snap.Authenticated())
	token, ok := store.Get(credentials.Admin)
	assert.True(t, ok)
	assert.Equal(t, "tok-carol", token)
	assert.False(t, credentials.Present(store, credentials.Shopper))
}

func TestAdmin_SupersededLoginPersistsNothing(t *testing.T) {
	api := new(MockBackend)
	store := credentials.NewMemoryStore()
	a := session.NewAdmin(api, store, session.Policy{})

	api.On("ObtainToken", mock.Anything, "carol", "pw").Return("tok-carol", nil).Once()
	api.On("FetchAdminIdentity", mock.Anything, "tok-carol").
		Run(func(mock.Arguments) {
			_, err := a.Logout()
			require.NoError(t, err)
		}).
		Return(&models.AdminIdentity{ID: 3, Username: "carol", IsSuperuser: true}, nil).Once()

	snap, err := a.Login(context.Background(), "carol", "pw")
	assert.ErrorIs(t, err, session.ErrSuperseded)
	assert.False(t, snap.Authenticated())
	assert.Nil(t, snap.Identity)
	assert.False(t, credentials.Present(store, credentials.Admin))
}

func TestAdmin_LoginInvalidCredentials(t *testing.T) {
	api := new(MockBackend)
	a := session.NewAdmin(api, credentials.NewMemoryStore(), session.Policy{})

	api.On("ObtainToken", mock.Anything, "carol", "nope").Return("", status(400)).Once()

	_, err := a.Login(context.Background(), "carol", "nope")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
}

func TestAdmin_ResumeDemotedAccount(t *testing.T) {
	api := new(MockBackend)
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Set(credentials.Admin, "tok-carol"))
	a := session.NewAdmin(api, store, session.Policy{})

	api.On("FetchAdminIdentity", mock.Anything, "tok-carol").
		Return(&models.AdminIdentity{ID: 3, Username: "carol"}, nil).Once()

	snap, err := a.Resume(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAdministrator)
	assert.Equal(t, session.StateAnonymous, snap.State)
	assert.False(t, credentials.Present(store, credentials.Admin))
}

func TestAdmin_ResumeRejectedCredential(t *testing.T) {
	api := new(MockBackend)
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Set(credentials.Admin, "expired"))
	a := session.NewAdmin(api, store, session.Policy{})

	api.On("FetchAdminIdentity", mock.Anything, "expired").Return(nil, status(401)).Once()

	_, err := a.Resume(context.Background())
	assert.ErrorIs(t, err, session.ErrSessionExpired)
	assert.False(t, credentials.Present(store, credentials.Admin))
}

func TestAdmin_LogoutLeavesShopperAlone(t *testing.T) {
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Set(credentials.Admin, "tok-carol"))
	require.NoError(t, store.Set(credentials.Shopper, "tok-alice"))
	api := new(MockBackend)
	a := session.NewAdmin(api, store, session.Policy{})

	snap, err := a.Logout()
	require.NoError(t, err)
	assert.Equal(t, session.StateAnonymous, snap.State)
	assert.False(t, credentials.Present(store, credentials.Admin))
	assert.True(t, credentials.Present(store, credentials.Shopper))
	assert.Empty(t, api.Calls)
}

func TestCapability(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		policy   session.Policy
		expected bool
	}{
		{"staff", `{"username":"x","is_staff":true}`, session.Policy{}, true},
		{"superuser", `{"username":"x","is_superuser":true}`, session.Policy{}, true},
		{"is_admin string", `{"username":"x","is_admin":"true"}`, session.Policy{}, true},
		{"is_admin number", `{"username":"x","is_admin":1}`, session.Policy{}, true},
		{"plain shopper", `{"username":"alice"}`, session.Policy{}, false},
		{"false string", `{"username":"x","is_staff":"false"}`, session.Policy{}, false},
		{"role wins over flags", `{"username":"x","is_staff":true,"role":"customer"}`, session.Policy{}, false},
		{"admin role", `{"username":"x","role":"admin"}`, session.Policy{}, true},
		{"username without opt-in", `{"username":"shopadmin"}`, session.Policy{}, false},
		{"username with opt-in", `{"username":"shopadmin"}`, session.Policy{UsernameFallback: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var identity models.AdminIdentity
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &identity))
			assert.Equal(t, tt.expected, session.Capability(&identity, tt.policy))
		})
	}

	assert.False(t, session.Capability(nil, session.Policy{UsernameFallback: true}))
}
