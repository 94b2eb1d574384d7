package service_test

import (
	"context"
	"testing"

	"kal-storefront/internal/domain"
	"kal-storefront/internal/mocks"
	"kal-storefront/internal/service"
	"kal-storefront/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Save(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		item          *domain.CatalogItem
		prepareMocks  func(repo *mocks.CatalogRepository)
		expectedError error
		created       bool
	}{
		{
			name: "success_create_assigns_id",
			item: &domain.CatalogItem{Name: " Espetinho de Cupim ", Price: money("19.5"), Category: domain.CategorySkewers},
			prepareMocks: func(repo *mocks.CatalogRepository) {
				repo.On("SaveItem", ctx, mock.MatchedBy(func(item *domain.CatalogItem) bool {
					return item.ID != "" && item.Name == "Espetinho de Cupim" && item.Price.StringFixed(2) == "19.50"
				})).Return(true, nil).Once()
			},
			created: true,
		},
		{
			name: "success_update_existing",
			item: &domain.CatalogItem{ID: "1", Name: "Picanha", Price: money("20"), Category: domain.CategorySkewers},
			prepareMocks: func(repo *mocks.CatalogRepository) {
				repo.On("SaveItem", ctx, mock.AnythingOfType("*domain.CatalogItem")).Return(false, nil).Once()
			},
		},
		{
			name:          "error_blank_name",
			item:          &domain.CatalogItem{Name: "  ", Price: money("1"), Category: domain.CategoryDrinks},
			prepareMocks:  func(repo *mocks.CatalogRepository) {},
			expectedError: service.ErrInvalidItem,
		},
		{
			name:          "error_negative_price",
			item:          &domain.CatalogItem{Name: "Água", Price: money("-1"), Category: domain.CategoryDrinks},
			prepareMocks:  func(repo *mocks.CatalogRepository) {},
			expectedError: service.ErrInvalidItem,
		},
		{
			name:          "error_unknown_category",
			item:          &domain.CatalogItem{Name: "Sorvete", Price: money("8"), Category: "Sobremesas"},
			prepareMocks:  func(repo *mocks.CatalogRepository) {},
			expectedError: service.ErrInvalidItem,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewCatalogRepository(t)
			testCase.prepareMocks(repo)

			created, err := service.NewCatalogService(repo).Save(ctx, testCase.item)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.created, created)
		})
	}
}

func TestCatalogService_ListAndHighlights(t *testing.T) {
	ctx := context.Background()
	svc := service.NewCatalogService(storage.NewMemoryStore())

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(domain.DefaultMenu()))

	drinks, err := svc.List(ctx, domain.CategoryDrinks)
	require.NoError(t, err)
	require.NotEmpty(t, drinks)
	for _, item := range drinks {
		assert.Equal(t, domain.CategoryDrinks, item.Category)
	}

	_, err = svc.List(ctx, "Sobremesas")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	highlights, err := svc.Highlights(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, highlights)
	for _, item := range highlights {
		assert.True(t, item.Popular)
	}
}

func TestCatalogService_DeleteKeepsPlacedOrders(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	catalog := service.NewCatalogService(store)
	carts := service.NewCartService(store, store, nil)
	orders := service.NewOrderService(service.OrderServiceConfig{Orders: store, Carts: store, Settings: store})

	_, err := carts.Add(ctx, "s1", "1", 1)
	require.NoError(t, err)
	details := deliveryDetails()
	details.DeliveryMethod = domain.MethodPickup
	details.PaymentMethod = domain.PayPix
	receipt, err := orders.Checkout(ctx, "s1", details)
	require.NoError(t, err)

	require.NoError(t, catalog.Delete(ctx, "1"))
	assert.ErrorIs(t, catalog.Delete(ctx, "1"), domain.ErrItemNotFound)

	placed, err := orders.Get(ctx, receipt.Order.ID)
	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, "Espetinho de Picanha", placed.Items[0].Item.Name)
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		mutate        func(s *domain.StoreSettings)
		expectedError error
	}{
		{name: "success", mutate: func(s *domain.StoreSettings) { s.WebhookURL = "https://hooks.example.com/x" }},
		{name: "success_default_layout", mutate: func(s *domain.StoreSettings) { s.MenuLayout = "" }},
		{name: "error_missing_contact", mutate: func(s *domain.StoreSettings) { s.ContactNumber = " " }, expectedError: service.ErrInvalidSettings},
		{name: "error_negative_fee", mutate: func(s *domain.StoreSettings) { s.DeliveryFee = money("-2") }, expectedError: service.ErrInvalidSettings},
		{name: "error_unknown_layout", mutate: func(s *domain.StoreSettings) { s.MenuLayout = "grid" }, expectedError: service.ErrInvalidSettings},
		{name: "error_relative_webhook", mutate: func(s *domain.StoreSettings) { s.WebhookURL = "/hook" }, expectedError: service.ErrInvalidSettings},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			svc := service.NewSettingsService(store)

			settings := domain.DefaultSettings()
			testCase.mutate(&settings)
			saved, err := svc.Update(ctx, settings)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.True(t, saved.MenuLayout.Valid())

			public, err := svc.Public(ctx)
			require.NoError(t, err)
			assert.Equal(t, saved.ContactNumber, public.ContactNumber)
		})
	}
}
