package storage_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"kal-storefront/internal/domain"
	"kal-storefront/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPostgres(t *testing.T) (*storage.PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})
	return storage.NewPostgresRepository(mockDB), mock
}

var itemColumns = []string{"id", "name", "description", "price", "category", "image_url", "popular"}

func TestEnsureSchemaExecutesStatements(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS menu_items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS store_settings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orders").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS orders_session_idx").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestSeedSkipsPopulatedCatalog(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM menu_items`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("INSERT INTO store_settings").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Seed(context.Background()))
}

func TestSeedInsertsDefaultMenu(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM menu_items`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for range domain.DefaultMenu() {
		mock.ExpectQuery("INSERT INTO menu_items").
			WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))
	}
	mock.ExpectExec("INSERT INTO store_settings").WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Seed(context.Background()))
}

func TestListItems(t *testing.T) {
	repo, mock := setupPostgres(t)

	mock.ExpectQuery("SELECT id, name, description, price, category, image_url, popular").
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow("1", "Espetinho de Picanha", "Angus", "18.00", "Espetinhos Premium", "", true).
			AddRow("13", "Refrigerante Lata", "Lata", "6.00", "Bebidas Geladas", "", false))

	items, err := repo.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.CategorySkewers, items[0].Category)
	assert.True(t, decimal.RequireFromString("18").Equal(items[0].Price))
	assert.True(t, items[0].Popular)
}

func TestGetItem(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(mock sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM menu_items").WithArgs("1").
					WillReturnRows(sqlmock.NewRows(itemColumns).
						AddRow("1", "Espetinho de Picanha", "Angus", "18.00", "Espetinhos Premium", "", true))
			},
		},
		{
			name: "not_found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("FROM menu_items").WithArgs("1").WillReturnError(sql.ErrNoRows)
			},
			expectedError: domain.ErrItemNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := setupPostgres(t)
			testCase.setup(mock)

			item, err := repo.GetItem(context.Background(), "1")
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Espetinho de Picanha", item.Name)
		})
	}
}

func TestSaveItemReportsInsert(t *testing.T) {
	repo, mock := setupPostgres(t)
	item := &domain.CatalogItem{ID: "x", Name: "Cupim", Price: decimal.RequireFromString("19.50"), Category: domain.CategorySkewers}

	mock.ExpectQuery("INSERT INTO menu_items").
		WithArgs("x", "Cupim", "", item.Price, domain.CategorySkewers, "", false).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))

	created, err := repo.SaveItem(context.Background(), item)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestDeleteItem(t *testing.T) {
	repo, mock := setupPostgres(t)
	mock.ExpectExec("DELETE FROM menu_items").WithArgs("1").WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DeleteItem(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestUpdateItemImageMissing(t *testing.T) {
	repo, mock := setupPostgres(t)
	mock.ExpectExec("UPDATE menu_items SET image_url").
		WithArgs("/uploads/item_9.png", "9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateItemImage(context.Background(), "9", "/uploads/item_9.png")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestGetSettingsFallsBackToDefaults(t *testing.T) {
	repo, mock := setupPostgres(t)
	mock.ExpectQuery("FROM store_settings").WillReturnError(sql.ErrNoRows)

	settings, err := repo.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSaveSettings(t *testing.T) {
	repo, mock := setupPostgres(t)
	settings := domain.DefaultSettings()

	mock.ExpectExec("INSERT INTO store_settings").
		WithArgs(settings.ContactNumber, settings.PaymentKey, settings.MenuLayout, settings.DeliveryFee,
			settings.AssistantInstruction, settings.WebhookURL).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.SaveSettings(context.Background(), settings))
}

func sampleOrder(t *testing.T) *domain.Order {
	t.Helper()
	lines := []domain.CartLine{{Item: domain.DefaultMenu()[0], Quantity: 2}}
	details := domain.OrderDetails{CustomerName: "Ana", CustomerPhone: "1", DeliveryMethod: domain.MethodDelivery, PaymentMethod: domain.PayPix}
	order, err := domain.NewOrder("ABCD1234", "s1", details, lines, decimal.NewFromInt(5), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	return order
}

func orderRow(t *testing.T, order *domain.Order) *sqlmock.Rows {
	t.Helper()
	customer, err := json.Marshal(order.Customer)
	require.NoError(t, err)
	items, err := json.Marshal(order.Items)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "session_id", "customer", "items", "subtotal", "delivery_fee", "total", "status", "created_at", "updated_at"}).
		AddRow(order.ID, order.SessionID, customer, items, "36.00", "5.00", "41.00", string(order.Status), order.CreatedAt, order.UpdatedAt)
}

func TestCreateAndGetOrder(t *testing.T) {
	repo, mock := setupPostgres(t)
	order := sampleOrder(t)

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, "s1", sqlmock.AnyArg(), sqlmock.AnyArg(), order.Subtotal, order.DeliveryFee, order.Total,
			domain.StatusPending, order.CreatedAt, order.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM orders WHERE id").WithArgs(order.ID).WillReturnRows(orderRow(t, order))

	require.NoError(t, repo.CreateOrder(context.Background(), order))

	stored, err := repo.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Customer.CustomerName)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	require.True(t, stored.DeliveryFee.Valid)
	assert.True(t, decimal.RequireFromString("41").Equal(stored.Total))
}

func TestCreateOrderDuplicateID(t *testing.T) {
	repo, mock := setupPostgres(t)
	order := sampleOrder(t)

	mock.ExpectExec("INSERT INTO orders").WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.CreateOrder(context.Background(), order)
	assert.ErrorIs(t, err, domain.ErrDuplicateOrder)
}

func TestGetOrderNotFound(t *testing.T) {
	repo, mock := setupPostgres(t)
	mock.ExpectQuery("FROM orders WHERE id").WithArgs("NOPE").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetOrder(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestLatestOrderForSession(t *testing.T) {
	repo, mock := setupPostgres(t)
	order := sampleOrder(t)
	mock.ExpectQuery("WHERE session_id").WithArgs("s1").WillReturnRows(orderRow(t, order))

	latest, err := repo.LatestOrderForSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, latest.ID)
}

func TestUpdateOrderStatus(t *testing.T) {
	at := time.Now()

	tests := []struct {
		name          string
		affected      int64
		expectedError error
	}{
		{name: "updated", affected: 1},
		{name: "status_moved_on", affected: 0, expectedError: domain.ErrInvalidTransition},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := setupPostgres(t)
			mock.ExpectExec("UPDATE orders SET status").
				WithArgs(domain.StatusPreparing, at, "ABCD1234", domain.StatusPending).
				WillReturnResult(sqlmock.NewResult(0, testCase.affected))

			err := repo.UpdateOrderStatus(context.Background(), "ABCD1234", domain.StatusPending, domain.StatusPreparing, at)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQRCodeRoundTrip(t *testing.T) {
	repo, mock := setupPostgres(t)
	mock.ExpectExec("UPDATE orders SET qr_code").WithArgs([]byte("png"), "ABCD1234").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT qr_code FROM orders").WithArgs("ABCD1234").
		WillReturnRows(sqlmock.NewRows([]string{"qr_code"}).AddRow([]byte("png")))

	require.NoError(t, repo.SaveQRCode(context.Background(), "ABCD1234", []byte("png")))
	qr, err := repo.GetQRCode(context.Background(), "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), qr)
}
