package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"kal-storefront/internal/domain"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const uniqueViolation = pq.ErrorCode("23505")

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
		position BIGSERIAL,
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		popular BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS store_settings (
		id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		contact_number TEXT NOT NULL,
		payment_key TEXT NOT NULL DEFAULT '',
		menu_layout TEXT NOT NULL DEFAULT 'standard',
		delivery_fee NUMERIC(10, 2) NOT NULL DEFAULT 0,
		assistant_instruction TEXT NOT NULL DEFAULT '',
		webhook_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		customer JSONB NOT NULL,
		items JSONB NOT NULL,
		subtotal NUMERIC(10, 2) NOT NULL,
		delivery_fee NUMERIC(10, 2),
		total NUMERIC(10, 2) NOT NULL,
		status TEXT NOT NULL,
		qr_code BYTEA,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_session_idx ON orders (session_id, created_at DESC)`,
}

// EnsureSchema creates the storefront tables when they are missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "ensure schema `%s`", stmt)
		}
	}
	return nil
}

// Seed loads the default menu into an empty catalog and the default settings
// when none are stored.
func (r *PostgresRepository) Seed(ctx context.Context) error {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		return errors.Wrap(err, "count menu items")
	}
	if count == 0 {
		for _, item := range domain.DefaultMenu() {
			item := item
			if _, err := r.SaveItem(ctx, &item); err != nil {
				return errors.Wrapf(err, "seed item %s", item.ID)
			}
		}
	}

	defaults := domain.DefaultSettings()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO store_settings (id, contact_number, payment_key, menu_layout, delivery_fee, assistant_instruction, webhook_url)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		defaults.ContactNumber, defaults.PaymentKey, defaults.MenuLayout, defaults.DeliveryFee,
		defaults.AssistantInstruction, defaults.WebhookURL)
	return errors.Wrap(err, "seed settings")
}

func (r *PostgresRepository) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, description, price, category, image_url, popular
		FROM menu_items
		ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CatalogItem{}
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.ImageURL, &item.Popular); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetItem(ctx context.Context, id string) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, price, category, image_url, popular
		FROM menu_items
		WHERE id = $1`, id).
		Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.ImageURL, &item.Popular)
	if err == sql.ErrNoRows {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveItem upserts by id and reports whether a new row was inserted.
func (r *PostgresRepository) SaveItem(ctx context.Context, item *domain.CatalogItem) (bool, error) {
	var inserted bool
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (id, name, description, price, category, image_url, popular)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
			category = EXCLUDED.category, image_url = EXCLUDED.image_url, popular = EXCLUDED.popular
		RETURNING (xmax = 0)`,
		item.ID, item.Name, item.Description, item.Price, item.Category, item.ImageURL, item.Popular).
		Scan(&inserted)
	return inserted, err
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) UpdateItemImage(ctx context.Context, id, imageURL string) error {
	result, err := r.DB.ExecContext(ctx, "UPDATE menu_items SET image_url = $1 WHERE id = $2", imageURL, id)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) GetSettings(ctx context.Context) (domain.StoreSettings, error) {
	var settings domain.StoreSettings
	err := r.DB.QueryRowContext(ctx, `
		SELECT contact_number, payment_key, menu_layout, delivery_fee, assistant_instruction, webhook_url
		FROM store_settings
		WHERE id = 1`).
		Scan(&settings.ContactNumber, &settings.PaymentKey, &settings.MenuLayout, &settings.DeliveryFee,
			&settings.AssistantInstruction, &settings.WebhookURL)
	if err == sql.ErrNoRows {
		return domain.DefaultSettings(), nil
	}
	return settings, err
}

func (r *PostgresRepository) SaveSettings(ctx context.Context, settings domain.StoreSettings) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO store_settings (id, contact_number, payment_key, menu_layout, delivery_fee, assistant_instruction, webhook_url)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET contact_number = EXCLUDED.contact_number, payment_key = EXCLUDED.payment_key,
			menu_layout = EXCLUDED.menu_layout, delivery_fee = EXCLUDED.delivery_fee,
			assistant_instruction = EXCLUDED.assistant_instruction, webhook_url = EXCLUDED.webhook_url`,
		settings.ContactNumber, settings.PaymentKey, settings.MenuLayout, settings.DeliveryFee,
		settings.AssistantInstruction, settings.WebhookURL)
	return err
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return errors.Wrap(err, "encode customer")
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return errors.Wrap(err, "encode items")
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO orders (id, session_id, customer, items, subtotal, delivery_fee, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.SessionID, customer, items, order.Subtotal, order.DeliveryFee, order.Total,
		order.Status, order.CreatedAt, order.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Wrapf(domain.ErrDuplicateOrder, "order %s", order.ID)
	}
	return err
}

const orderColumns = `id, session_id, customer, items, subtotal, delivery_fee, total, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order    domain.Order
		customer []byte
		items    []byte
		fee      decimal.NullDecimal
	)
	if err := row.Scan(&order.ID, &order.SessionID, &customer, &items, &order.Subtotal, &fee, &order.Total,
		&order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(customer, &order.Customer); err != nil {
		return nil, errors.Wrap(err, "decode customer")
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, errors.Wrap(err, "decode items")
	}
	order.DeliveryFee = fee
	return &order, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrOrderNotFound
	}
	return order, err
}

func (r *PostgresRepository) LatestOrderForSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, sessionID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrOrderNotFound
	}
	return order, err
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`, to, at, id, from)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errors.Wrapf(domain.ErrInvalidTransition, "order %s is no longer %s", id, from)
	}
	return nil
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, id string, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, id)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, id string) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx, `SELECT qr_code FROM orders WHERE id = $1`, id).Scan(&qr)
	if err == sql.ErrNoRows {
		return nil, domain.ErrOrderNotFound
	}
	return qr, err
}
