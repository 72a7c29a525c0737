package cart_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khalef-khalil/nkcommerce/internal/apiclient"
	"github.com/khalef-khalil/nkcommerce/internal/cart"
	"github.com/khalef-khalil/nkcommerce/internal/credentials"
	"github.com/khalef-khalil/nkcommerce/internal/models"
	"github.com/khalef-khalil/nkcommerce/internal/session"
)

// MockCartAPI is a mock implementation of cart.API.
type MockCartAPI struct {
	mock.Mock
}

func (m *MockCartAPI) cart(args mock.Arguments) (*models.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartAPI) FetchCart(ctx context.Context) (*models.Cart, error) {
	return m.cart(m.Called(ctx))
}

func (m *MockCartAPI) AddToCart(ctx context.Context, productID, quantity int) (*models.Cart, error) {
	return m.cart(m.Called(ctx, productID, quantity))
}

func (m *MockCartAPI) UpdateCartItem(ctx context.Context, itemID, quantity int) (*models.Cart, error) {
	return m.cart(m.Called(ctx, itemID, quantity))
}

func (m *MockCartAPI) RemoveCartItem(ctx context.Context, itemID int) (*models.Cart, error) {
	return m.cart(m.Called(ctx, itemID))
}

func (m *MockCartAPI) ClearCart(ctx context.Context) (*models.Cart, error) {
	return m.cart(m.Called(ctx))
}

func (m *MockCartAPI) PlaceOrder(ctx context.Context, delivery models.DeliveryInfo) (*models.Order, error) {
	args := m.Called(ctx, delivery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func cartWith(items int, total string) *models.Cart {
	c := &models.Cart{ID: 1, NombreArticles: items, MontantTotal: decimal.RequireFromString(total)}
	for i := 0; i < items; i++ {
		c.Articles = append(c.Articles, models.CartItem{ID: 10 + i, Quantite: 1})
	}
	return c
}

func TestSynchronizer_RefreshReplacesWholesale(t *testing.T) {
	api := new(MockCartAPI)
	s := cart.NewSynchronizer(api)
	assert.Nil(t, s.Cart())
	assert.False(t, s.Summary().Loaded)

	api.On("FetchCart", mock.Anything).Return(cartWith(2, "90.00"), nil).Once()
	api.On("FetchCart", mock.Anything).Return(cartWith(1, "45.00"), nil).Once()

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)
	got, err := s.Refresh(context.Background())
	require.NoError(t, err)

	assert.Len(t, got.Articles, 1)
	summary := s.Summary()
	assert.True(t, summary.Loaded)
	assert.Equal(t, 1, summary.Items)
	assert.True(t, decimal.RequireFromString("45").Equal(summary.Total))
	api.AssertExpectations(t)
}

func TestSynchronizer_RefreshIsIdempotent(t *testing.T) {
	api := new(MockCartAPI)
	s := cart.NewSynchronizer(api)

	api.On("FetchCart", mock.Anything).Return(cartWith(2, "90.00"), nil).Twice()

	first, err := s.Refresh(context.Background())
	require.NoError(t, err)
	firstSummary := s.Summary()
	second, err := s.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSummary, s.Summary())
	assert.Equal(t, first, s.Cart())
	api.AssertExpectations(t)
}

func TestSynchronizer_AddItemAdoptsServerCart(t *testing.T) {
	api := new(MockCartAPI)
	s := cart.NewSynchronizer(api)

	server := cartWith(1, "120.50")
	server.Articles[0].Quantite = 3
	api.On("AddToCart", mock.Anything, 3, 2).Return(server, nil).Once()

	got, err := s.AddItem(context.Background(), 3, 2)
	require.NoError(t, err)

	// The server said 3, not the 2 that was asked for.
	assert.Equal(t, 3, got.Articles[0].Quantite)
	assert.Equal(t, server.MontantTotal, s.Cart().MontantTotal)
}

func TestSynchronizer_RejectsInvalidQuantity(t *testing.T) {
	api := new(MockCartAPI)
	s := cart.NewSynchronizer(api)

	_, err := s.AddItem(context.Background(), 3, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	_, err = s.SetItemQuantity(context.Background(), 10, -1)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	_, err = s.RemoveItem(context.Background(), 0)
	assert.ErrorIs(t, err, cart.ErrInvalidItem)
	assert.Empty(t, api.Calls)
}

func TestSynchronizer_FailedMutationKeepsCartAndResyncs(t *testing.T) {
	api := new(MockCartAPI)
	s := cart.NewSynchronizer(api)

	api.On("FetchCart", mock.Anything).Return(cartWith(1, "45.00"), nil).Once()
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	stockErr := &apiclient.APIError{Method: "POST", Path: "/orders/panier/ajouter_produit/", Status: 400, Message: "Stock insuffisant"}
	api.On("AddToCart", mock.Anything, 3, 50).Return(nil, stockErr).Once()
	api.On("FetchCart", mock.Anything).Return(cartWith(1, "45.00"), nil).Once()

	got, err := s.AddItem(context.Background(), 3, 50)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Equal(t, "Stock insuffisant", apiclient.MessageOf(err))
	assert.Len(t, s.Cart().Articles, 1)
	api.AssertExpectations(t)
}

func TestSynchronizer_RefreshFailureKeepsCart(t *testing.T) {
	api := new(MockCartAPI)
	s := cart.NewSynchronizer(api)

	api.On("FetchCart", mock.Anything).Return(cartWith(2, "90.00"), nil).Once()
	api.On("FetchCart", mock.Anything).Return(nil, fmt.Errorf("%w: timeout", apiclient.ErrTransport)).Once()

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)
	_, err = s.Refresh(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrTransport)
	assert.Len(t, s.Cart().Articles, 2)
}

func TestSynchronizer_StaleResponseIsDiscarded(t *testing.T) {
	api := new(MockCartAPI)
	s := cart.NewSynchronizer(api)

	// While the add is in flight a refresh starts and wins.
	api.On("AddToCart", mock.Anything, 3, 1).
		Run(func(mock.Arguments) {
			_, err := s.Refresh(context.Background())
			require.NoError(t, err)
		}).
		Return(cartWith(1, "45.00"), nil).Once()
	api.On("FetchCart", mock.Anything).Return(cartWith(2, "90.00"), nil).Once()

	got, err := s.AddItem(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Len(t, got.Articles, 2)
	assert.Equal(t, 2, s.Summary().Items)
}

func TestSynchronizer_CheckoutResetsLocally(t *testing.T) {
	api := new(MockCartAPI)
	s := cart.NewSynchronizer(api)

	api.On("FetchCart", mock.Anything).Return(cartWith(2, "90.00"), nil).Once()
	_, err := s.Current(context.Background())
	require.NoError(t, err)

	delivery := models.DeliveryInfo{
		NomComplet: "Alice Martin",
		Email:      "alice@example.com",
		Telephone:  "+21620000000",
		Adresse:    "1 rue de Carthage",
		Ville:      "Tunis",
	}
	api.On("PlaceOrder", mock.Anything, delivery).
		Return(&models.Order{ID: 42, Statut: models.StatusPending}, nil).Once()

	order, err := s.Checkout(context.Background(), delivery)
	require.NoError(t, err)
	assert.Equal(t, 42, order.ID)
	assert.Nil(t, s.Cart())
	api.AssertNotCalled(t, "ClearCart", mock.Anything)

	// The next read fetches the now empty server cart.
	api.On("FetchCart", mock.Anything).Return(cartWith(0, "0"), nil).Once()
	got, err := s.Current(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Articles)
	api.AssertExpectations(t)
}

func TestSynchronizer_CheckoutValidatesDelivery(t *testing.T) {
	api := new(MockCartAPI)
	s := cart.NewSynchronizer(api)

	_, err := s.Checkout(context.Background(), models.DeliveryInfo{NomComplet: "Alice"})
	assert.ErrorIs(t, err, cart.ErrInvalidDelivery)
	assert.Empty(t, api.Calls)
}

// MockShopperAPI satisfies session.ShopperAPI for the follow test.
type MockShopperAPI struct {
	mock.Mock
}

func (m *MockShopperAPI) ObtainToken(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockShopperAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.Registration, error) {
	args := m.Called(ctx, req)
	return nil, args.Error(1)
}

func (m *MockShopperAPI) FetchIdentity(ctx context.Context, credential string) (*models.Identity, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockShopperAPI) UpdateIdentity(ctx context.Context, credential string, patch models.ProfileInput) (*models.Identity, error) {
	args := m.Called(ctx, credential, patch)
	return nil, args.Error(1)
}

func TestSynchronizer_FollowRefreshesOnCredentialChange(t *testing.T) {
	cartAPI := new(MockCartAPI)
	shopperAPI := new(MockShopperAPI)
	shopper := session.NewShopper(shopperAPI, credentials.NewMemoryStore())
	s := cart.NewSynchronizer(cartAPI)
	s.Follow(shopper)

	shopperAPI.On("ObtainToken", mock.Anything, "alice", "pw").Return("abc123", nil).Once()
	shopperAPI.On("FetchIdentity", mock.Anything, "abc123").Return(&models.Identity{ID: 1, Username: "alice"}, nil).Once()
	cartAPI.On("FetchCart", mock.Anything).Return(cartWith(3, "135.00"), nil).Once()
	cartAPI.On("FetchCart", mock.Anything).Return(cartWith(0, "0"), nil).Once()

	_, err := shopper.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Summary().Items)

	_, err = shopper.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Summary().Items)
	cartAPI.AssertExpectations(t)
}
