package httpapi_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	httpapi "kal-storefront/internal/api/http"
	"kal-storefront/internal/domain"
	"kal-storefront/internal/service"
	"kal-storefront/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminToken = "let-me-in"

type testServer struct {
	store   *storage.MemoryStore
	handler http.Handler
	upload  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := storage.NewMemoryStore()
	aggregator := service.NewAggregator(nil, store)
	locks := service.NewSessionLocks()

	orders := service.NewOrderService(service.OrderServiceConfig{
		Orders:    store,
		Carts:     store,
		Settings:  store,
		Publisher: service.InlinePublisher{Aggregator: aggregator},
		QR:        service.DefaultQRGenerator{BaseURL: "http://localhost:8080"},
		Locks:     locks,
	})
	handler := httpapi.NewHandler(
		service.NewCatalogService(store),
		service.NewSettingsService(store),
		service.NewCartService(store, store, locks),
		orders,
		service.NewAssistantService(nil, store, store, time.Second),
		service.NewStatsService(store, store),
	)
	handler.AdminToken = adminToken
	handler.UploadDir = t.TempDir()

	return &testServer{store: store, handler: httpapi.NewRouter(handler), upload: handler.UploadDir}
}

type requestOption func(*http.Request)

func withSession(id string) requestOption {
	return func(r *http.Request) { r.Header.Set(httpapi.SessionHeader, id) }
}

func asAdmin(r *http.Request) { r.Header.Set("Authorization", "Bearer "+adminToken) }

func (s *testServer) do(t *testing.T, method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()
	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func tableDetails() domain.OrderDetails {
	return domain.OrderDetails{
		CustomerName:   "Bruno",
		CustomerPhone:  "11 98888-7777",
		DeliveryMethod: domain.MethodTable,
		TableNumber:    "7",
		PaymentMethod:  domain.PayPix,
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(httpapi.RequestIDHeader))
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestMenuEndpoints(t *testing.T) {
	srv := newTestServer(t)

	testCases := []struct {
		name       string
		path       string
		wantStatus int
		wantCount  int
	}{
		{name: "full menu", path: "/api/menu", wantStatus: http.StatusOK, wantCount: len(domain.DefaultMenu())},
		{name: "drinks only", path: "/api/menu?category=Bebidas+Geladas", wantStatus: http.StatusOK, wantCount: -1},
		{name: "unknown category", path: "/api/menu?category=Sobremesas", wantStatus: http.StatusBadRequest},
		{name: "highlights", path: "/api/menu/highlights", wantStatus: http.StatusOK, wantCount: -1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, testCase.path, nil)
			require.Equal(t, testCase.wantStatus, rec.Code)
			if rec.Code != http.StatusOK {
				return
			}
			var items []domain.CatalogItem
			decodeBody(t, rec, &items)
			assert.NotEmpty(t, items)
			if testCase.wantCount >= 0 {
				assert.Len(t, items, testCase.wantCount)
			}
		})
	}
}

func TestPublicSettingsHideAdminFields(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/settings", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "assistant_instruction")
	assert.NotContains(t, rec.Body.String(), "webhook_url")
}

func TestCartEndpoints(t *testing.T) {
	srv := newTestServer(t)
	session := withSession("cart-session")

	rec := srv.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"item_id": "1", "quantity": 2}, session)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"item_id": "15"}, session)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/cart/items/15", map[string]int{"delta": -5}, session)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart struct {
		Subtotal decimal.Decimal `json:"subtotal"`
		Count    int             `json:"count"`
	}
	decodeBody(t, rec, &cart)
	assert.Equal(t, 3, cart.Count)
	assert.True(t, decimal.NewFromInt(45).Equal(cart.Subtotal))

	rec = srv.do(t, http.MethodDelete, "/api/cart/items/15", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &cart)
	assert.Equal(t, 2, cart.Count)

	rec = srv.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"item_id": "missing"}, session)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/cart", nil, session)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/cart", nil, session)
	decodeBody(t, rec, &cart)
	assert.Equal(t, 0, cart.Count)
}

func TestCheckoutRejectsInvalidForm(t *testing.T) {
	srv := newTestServer(t)
	session := withSession("s-invalid")
	srv.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"item_id": "1", "quantity": 1}, session)

	details := tableDetails()
	details.TableNumber = ""
	rec := srv.do(t, http.MethodPost, "/api/checkout", details, session)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error      string `json:"error"`
		Validation struct {
			Problems map[string]string `json:"problems"`
		} `json:"validation"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "missing", body.Validation.Problems["table_number"])

	rec = srv.do(t, http.MethodPost, "/api/checkout", json.RawMessage(`{}`), withSession("empty-cart"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutPreviewReportsChange(t *testing.T) {
	srv := newTestServer(t)
	session := withSession("s-preview")
	srv.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"item_id": "1", "quantity": 2}, session)

	details := tableDetails()
	details.PaymentMethod = domain.PayCash
	details.NeedChange = true
	details.ChangeFor = "50,00"

	rec := srv.do(t, http.MethodPost, "/api/checkout/preview", details, session)
	require.Equal(t, http.StatusOK, rec.Code)

	var preview struct {
		Total     decimal.Decimal     `json:"total"`
		Valid     bool                `json:"valid"`
		ChangeDue decimal.NullDecimal `json:"change_due"`
	}
	decodeBody(t, rec, &preview)
	assert.True(t, preview.Valid)
	assert.True(t, decimal.NewFromInt(36).Equal(preview.Total))
	require.True(t, preview.ChangeDue.Valid)
	assert.True(t, decimal.NewFromInt(14).Equal(preview.ChangeDue.Decimal))
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	session := withSession("s-order")
	srv.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"item_id": "1", "quantity": 2}, session)

	rec := srv.do(t, http.MethodPost, "/api/checkout", tableDetails(), session)
	require.Equal(t, http.StatusCreated, rec.Code)

	var receipt struct {
		Order      domain.Order `json:"order"`
		HandoffURL string       `json:"handoff_url"`
		QRLink     string       `json:"qr_link"`
	}
	decodeBody(t, rec, &receipt)
	orderID := receipt.Order.ID
	assert.Equal(t, domain.StatusPending, receipt.Order.Status)
	assert.Contains(t, receipt.HandoffURL, "https://wa.me/")

	rec = srv.do(t, http.MethodGet, "/api/cart", nil, session)
	assert.Contains(t, rec.Body.String(), `"count":0`)

	rec = srv.do(t, http.MethodGet, "/api/orders/current", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), orderID)

	rec = srv.do(t, http.MethodGet, receipt.QRLink, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	path := "/api/admin/orders/" + orderID + "/status"
	rec = srv.do(t, http.MethodPatch, path, map[string]string{"status": "ready"}, asAdmin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPatch, path, map[string]string{"status": "dancing"}, asAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, next := range []domain.OrderStatus{domain.StatusPreparing, domain.StatusReady, domain.StatusFinished} {
		rec = srv.do(t, http.MethodPatch, path, map[string]domain.OrderStatus{"status": next}, asAdmin)
		require.Equal(t, http.StatusOK, rec.Code, next)
	}

	rec = srv.do(t, http.MethodPatch, path, map[string]string{"status": "canceled"}, asAdmin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/admin/stats", nil, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.OrderStats
	decodeBody(t, rec, &stats)
	assert.Equal(t, int64(1), stats.OrdersByStatus[domain.StatusFinished])
	assert.Equal(t, int64(0), stats.OrdersByStatus[domain.StatusPending])
	require.NotEmpty(t, stats.TopItems)
	assert.Equal(t, "1", stats.TopItems[0].ItemID)

	rec = srv.do(t, http.MethodGet, "/api/orders/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminAuth(t *testing.T) {
	srv := newTestServer(t)

	testCases := []struct {
		name       string
		opts       []requestOption
		wantStatus int
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", opts: []requestOption{func(r *http.Request) { r.Header.Set("Authorization", "Bearer guess") }}, wantStatus: http.StatusUnauthorized},
		{name: "valid token", opts: []requestOption{asAdmin}, wantStatus: http.StatusOK},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, "/api/admin/orders", nil, testCase.opts...)
			assert.Equal(t, testCase.wantStatus, rec.Code)
		})
	}
}

func TestAdminMenuManagement(t *testing.T) {
	srv := newTestServer(t)

	item := map[string]interface{}{
		"name":     "Cupim",
		"price":    "27.90",
		"category": "Espetinhos Premium",
	}
	rec := srv.do(t, http.MethodPost, "/api/admin/menu", item, asAdmin)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.CatalogItem
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.ID)

	item["price"] = "29.90"
	rec = srv.do(t, http.MethodPut, "/api/admin/menu/"+created.ID, item, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	item["category"] = "Sobremesas"
	rec = srv.do(t, http.MethodPut, "/api/admin/menu/"+created.ID, item, asAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/admin/menu/"+created.ID, nil, asAdmin)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/admin/menu/"+created.ID, nil, asAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminSettingsUpdate(t *testing.T) {
	srv := newTestServer(t)

	update := domain.DefaultSettings()
	update.DeliveryFee = decimal.RequireFromString("7.5")
	rec := srv.do(t, http.MethodPut, "/api/admin/settings", update, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/settings", nil)
	var public domain.PublicSettings
	decodeBody(t, rec, &public)
	assert.True(t, decimal.RequireFromString("7.5").Equal(public.DeliveryFee))

	update.ContactNumber = ""
	rec = srv.do(t, http.MethodPut, "/api/admin/settings", update, asAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminImageUpload(t *testing.T) {
	srv := newTestServer(t)
	png, err := service.DefaultQRGenerator{BaseURL: "http://localhost"}.Generate("IMG")
	require.NoError(t, err)

	upload := func(declared string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="photo"`)
		header.Set("Content-Type", declared)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, _ = part.Write(content)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/menu/1/image", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		asAdmin(req)
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, req)
		return rec
	}

	testCases := []struct {
		name       string
		declared   string
		content    []byte
		wantStatus int
	}{
		{name: "text declared as png", declared: "image/png", content: []byte("<script>alert(1)</script>"), wantStatus: http.StatusBadRequest},
		{name: "empty file", declared: "image/png", content: nil, wantStatus: http.StatusBadRequest},
		{name: "png declared as text", declared: "text/plain", content: png, wantStatus: http.StatusOK},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rec := upload(testCase.declared, testCase.content)
			assert.Equal(t, testCase.wantStatus, rec.Code)
		})
	}

	_, err = os.Stat(filepath.Join(srv.upload, "item_1.png"))
	require.NoError(t, err)

	rec := srv.do(t, http.MethodGet, "/uploads/item_1.png", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestAssistantWithoutCredentials(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/assistant", map[string]string{"message": "tem picanha?"})
	require.Equal(t, http.StatusOK, rec.Code)
	var reply service.Reply
	decodeBody(t, rec, &reply)
	assert.Equal(t, service.ReplyMissingCredentials, reply.Kind)

	rec = srv.do(t, http.MethodPost, "/api/assistant", map[string]string{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
