package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalef-khalil/nkcommerce/internal/credentials"
	"github.com/khalef-khalil/nkcommerce/internal/models"
)

type recorded struct {
	method        string
	path          string
	authorization string
	requestID     string
	sessionID     string
	body          map[string]interface{}
}

// fakeBackend records every request and answers with handler.
func fakeBackend(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			method:        r.Method,
			path:          r.URL.Path,
			authorization: r.Header.Get("Authorization"),
			requestID:     r.Header.Get("X-Request-ID"),
		}
		if ck, err := r.Cookie("sessionid"); err == nil {
			rec.sessionID = ck.Value
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &rec.body))
		}
		calls = append(calls, rec)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestAdminScoped(t *testing.T) {
	assert.True(t, AdminScoped("/orders/admin/commandes/"))
	assert.True(t, AdminScoped("/orders/stats/sales/"))
	assert.True(t, AdminScoped("/orders/commandes/7/confirm/"))
	assert.False(t, AdminScoped("/orders/commandes/"))
	assert.False(t, AdminScoped("/products/"))
}

func TestDo_CredentialSelection(t *testing.T) {
	srv, calls := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	ctx := context.Background()

	both := credentials.NewMemoryStore()
	require.NoError(t, both.Set(credentials.Shopper, "shop"))
	require.NoError(t, both.Set(credentials.Admin, "adm"))
	shopperOnly := credentials.NewMemoryStore()
	require.NoError(t, shopperOnly.Set(credentials.Shopper, "shop"))

	tests := []struct {
		name     string
		store    credentials.Store
		call     Call
		expected string
	}{
		{"shopper path", both, Call{Path: "/orders/commandes/"}, "Token shop"},
		{"admin path prefers admin", both, Call{Path: "/orders/admin/commandes/"}, "Token adm"},
		{"stats path prefers admin", both, Call{Path: "/orders/stats/orders/"}, "Token adm"},
		{"admin path falls back to shopper", shopperOnly, Call{Path: "/orders/stats/orders/"}, "Token shop"},
		{"explicit scope", both, Call{Path: "/products/", Scope: credentials.Admin}, "Token adm"},
		{"explicit credential", both, Call{Path: "/users/me/", Credential: "fresh"}, "Token fresh"},
		{"anonymous", credentials.NewMemoryStore(), Call{Path: "/products/"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(srv.URL, time.Second).WithStore(tt.store)
			require.NoError(t, client.Do(ctx, tt.call, nil))

			last := (*calls)[len(*calls)-1]
			assert.Equal(t, tt.expected, last.authorization)
			assert.NotEmpty(t, last.requestID)
		})
	}
}

func TestDo_ErrorMapping(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		kind    error
		message string
	}{
		{http.StatusBadRequest, `{"error":"Stock insuffisant"}`, ErrValidation, "Stock insuffisant"},
		{http.StatusBadRequest, `{"username":["Ce champ est obligatoire."],"email":["Adresse invalide."]}`, ErrValidation, "email: Adresse invalide.; username: Ce champ est obligatoire."},
		{http.StatusUnauthorized, `{"detail":"Token invalide."}`, ErrUnauthorized, "Token invalide."},
		{http.StatusForbidden, `{"detail":"Permission refusée"}`, ErrForbidden, "Permission refusée"},
		{http.StatusNotFound, `<html>Not Found</html>`, ErrNotFound, "Not Found"},
		{http.StatusInternalServerError, ``, ErrServer, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv, _ := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			err := New(srv.URL, time.Second).Do(context.Background(), Call{Path: "/x/"}, nil)

			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.status, StatusOf(err))
			assert.Equal(t, tt.message, MessageOf(err))
		})
	}
}

func TestDo_TransportFailure(t *testing.T) {
	srv, _ := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	err := New(srv.URL, time.Second).Do(context.Background(), Call{Path: "/products/"}, nil)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 0, StatusOf(err))
}

func TestDo_VisitorRelay(t *testing.T) {
	srv, calls := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("sessionid"); err != nil {
			http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "anon-1", Path: "/"})
		}
		writeJSON(w, http.StatusOK, `{"id":1,"articles":[],"montant_total":"0","nombre_articles":0}`)
	})
	store := credentials.NewMemoryStore()
	client := New(srv.URL, time.Second).WithStore(store)

	_, err := client.FetchCart(context.Background())
	require.NoError(t, err)
	sid, ok := store.Get(credentials.Visitor)
	require.True(t, ok)
	assert.Equal(t, "anon-1", sid)

	_, err = client.FetchCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anon-1", (*calls)[1].sessionID)
}

func TestGetList_AcceptsBothShapes(t *testing.T) {
	srv, _ := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/":
			writeJSON(w, http.StatusOK, `{"count":1,"results":[{"id":1,"nom":"Oud","prix":"120.00"}]}`)
		default:
			writeJSON(w, http.StatusOK, `[{"id":2,"nom":"Rose","prix":"80"}]`)
		}
	})
	client := New(srv.URL, time.Second)

	paged, err := client.ListProducts(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "Oud", paged[0].Nom)

	bare, err := client.NewArrivals(context.Background())
	require.NoError(t, err)
	require.Len(t, bare, 1)
	assert.Equal(t, "Rose", bare[0].Nom)
}

func TestCartActions(t *testing.T) {
	srv, calls := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/orders/panier/convertir_en_commande/" {
			writeJSON(w, http.StatusCreated, `{"message":"Commande créée","id_commande":42}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":1,"articles":[],"montant_total":"0","nombre_articles":0}`)
	})
	client := New(srv.URL, time.Second).WithStore(credentials.NewMemoryStore())
	ctx := context.Background()

	_, err := client.AddToCart(ctx, 3, 2)
	require.NoError(t, err)
	_, err = client.UpdateCartItem(ctx, 11, 4)
	require.NoError(t, err)
	_, err = client.RemoveCartItem(ctx, 11)
	require.NoError(t, err)
	_, err = client.ClearCart(ctx)
	require.NoError(t, err)
	order, err := client.PlaceOrder(ctx, models.DeliveryInfo{NomComplet: "Alice"})
	require.NoError(t, err)

	assert.Equal(t, 42, order.ID)
	assert.Equal(t, models.StatusPending, order.Statut)

	paths := make([]string, 0, len(*calls))
	for _, c := range *calls {
		assert.Equal(t, http.MethodPost, c.method)
		paths = append(paths, c.path)
	}
	assert.Equal(t, []string{
		"/orders/panier/ajouter_produit/",
		"/orders/panier/modifier_quantite/",
		"/orders/panier/supprimer_article/",
		"/orders/panier/vider/",
		"/orders/panier/convertir_en_commande/",
	}, paths)
	assert.Equal(t, float64(3), (*calls)[0].body["produit_id"])
	assert.Equal(t, float64(11), (*calls)[1].body["article_id"])
}

func TestObtainToken(t *testing.T) {
	srv, calls := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"abc123","user":{"username":"alice"}}`)
	})
	token, err := New(srv.URL, time.Second).ObtainToken(context.Background(), "alice", "pw")
	require.NoError(t, err)

	assert.Equal(t, "abc123", token)
	assert.Equal(t, "/users/public/token/", (*calls)[0].path)
	assert.Equal(t, "", (*calls)[0].authorization)
}

func TestRegister_SendsPasswordConfirmation(t *testing.T) {
	srv, calls := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"user":{"id":4,"username":"dora","email":"d@x.io"},"token":"tok-dora"}`)
	})
	client := New(srv.URL, time.Second)

	tests := []struct {
		name string
		req  models.RegisterRequest
		want string
	}{
		{"filled from password", models.RegisterRequest{Username: "dora", Email: "d@x.io", Password: "secret1"}, "secret1"},
		{"kept when given", models.RegisterRequest{Username: "dora", Email: "d@x.io", Password: "secret1", Password2: "secret1"}, "secret1"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := client.Register(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, "tok-dora", reg.Token)
			assert.Equal(t, "dora", reg.User.Username)

			call := (*calls)[i]
			assert.Equal(t, "/users/public/register/", call.path)
			assert.Equal(t, tt.want, call.body["password2"])
			assert.Equal(t, call.body["password"], call.body["password2"])
		})
	}
}

func TestConfirmOrderUsesAdminCredential(t *testing.T) {
	srv, calls := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"ok"}`)
	})
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Set(credentials.Shopper, "shop"))
	require.NoError(t, store.Set(credentials.Admin, "adm"))

	require.NoError(t, New(srv.URL, time.Second).WithStore(store).ConfirmOrder(context.Background(), 7))
	assert.Equal(t, "/orders/commandes/7/confirm/", (*calls)[0].path)
	assert.Equal(t, "Token adm", (*calls)[0].authorization)
}

func TestAPIError_IsOneKind(t *testing.T) {
	err := error(&APIError{Status: http.StatusConflict})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrServer))
}
