package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw      string
		expected Flag
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"True"`, true},
		{`"false"`, false},
		{`"yes"`, false},
		{`1`, true},
		{`0`, false},
		{`null`, false},
		{`{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f Flag
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &f))
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestIdentity_CloneIsDeep(t *testing.T) {
	photo := "a.jpg"
	orig := &Identity{ID: 1, Username: "alice", Profil: &Profile{Ville: "Tunis", Photo: &photo}}

	c := orig.Clone()
	c.Profil.Ville = "Sfax"
	*c.Profil.Photo = "b.jpg"

	assert.Equal(t, "Tunis", orig.Profil.Ville)
	assert.Equal(t, "a.jpg", *orig.Profil.Photo)
	assert.Nil(t, (*Identity)(nil).Clone())
}

func TestCart_DecodeServerTotals(t *testing.T) {
	raw := `{"id":7,"client":null,"articles":[{"id":11,"produit":{"id":3,"nom":"Oud","prix":"120.50"},"quantite":2,"montant_total":"241.00"}],"montant_total":"241.00","nombre_articles":2}`

	var cart Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &cart))

	assert.Nil(t, cart.Client)
	require.Len(t, cart.Articles, 1)
	assert.True(t, decimal.RequireFromString("241").Equal(cart.MontantTotal))
	assert.Equal(t, 2, cart.NombreArticles)

	c := cart.Clone()
	c.Articles[0].Quantite = 5
	assert.Equal(t, 2, cart.Articles[0].Quantite)
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, StatusConfirmed.Valid())
	assert.False(t, OrderStatus("expediee").Valid())
}
