package httpapi

import (
	"net/http"
	"time"

	"kal-storefront/internal/domain"
	"kal-storefront/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Catalog   service.CatalogServiceInterface
	Settings  service.SettingsServiceInterface
	Carts     service.CartServiceInterface
	Orders    service.OrderServiceInterface
	Assistant service.AssistantServiceInterface
	Stats     service.StatsServiceInterface

	AdminToken string
	UploadDir  string
}

func NewHandler(catalog service.CatalogServiceInterface, settings service.SettingsServiceInterface,
	carts service.CartServiceInterface, orders service.OrderServiceInterface,
	assistant service.AssistantServiceInterface, stats service.StatsServiceInterface) *Handler {
	return &Handler{
		Catalog:   catalog,
		Settings:  settings,
		Carts:     carts,
		Orders:    orders,
		Assistant: assistant,
		Stats:     stats,
		UploadDir: "./uploads",
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/menu", h.listMenu).Methods("GET")
	r.HandleFunc("/api/menu/highlights", h.listHighlights).Methods("GET")
	r.HandleFunc("/api/menu/categories", h.listCategories).Methods("GET")
	r.HandleFunc("/api/settings", h.getPublicSettings).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{itemId}", h.updateCartItem).Methods("PATCH")
	r.HandleFunc("/api/cart/items/{itemId}", h.removeCartItem).Methods("DELETE")

	r.HandleFunc("/api/checkout/preview", h.previewCheckout).Methods("POST")
	r.HandleFunc("/api/checkout", h.submitCheckout).Methods("POST")

	r.HandleFunc("/api/orders/current", h.getCurrentOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	r.HandleFunc("/api/assistant", h.askAssistant).Methods("POST")

	h.registerAdminRoutes(r.PathPrefix("/api/admin").Subrouter())
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.List(r.Context(), domain.Category(r.URL.Query().Get("category")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) listHighlights(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Highlights(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Categories)
}

func (h *Handler) getPublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Public(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type cartView struct {
	SessionID string            `json:"session_id"`
	Lines     []domain.CartLine `json:"lines"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Count     int               `json:"count"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func newCartView(cart *domain.Cart) cartView {
	return cartView{
		SessionID: cart.SessionID,
		Lines:     cart.Lines,
		Subtotal:  cart.Subtotal(),
		Count:     cart.Count(),
		UpdatedAt: cart.UpdatedAt,
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.Get(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(cart))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Carts.Clear(r.Context(), sessionID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cart, err := h.Carts.Add(r.Context(), sessionID(r), req.ItemID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(cart))
}

type updateQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cart, err := h.Carts.UpdateQuantity(r.Context(), sessionID(r), mux.Vars(r)["itemId"], req.Delta)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(cart))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.Remove(r.Context(), sessionID(r), mux.Vars(r)["itemId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(cart))
}

func (h *Handler) previewCheckout(w http.ResponseWriter, r *http.Request) {
	var details domain.OrderDetails
	if !decodeJSON(w, r, &details) {
		return
	}
	preview, err := h.Orders.Preview(r.Context(), sessionID(r), details)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var details domain.OrderDetails
	if !decodeJSON(w, r, &details) {
		return
	}
	receipt, err := h.Orders.Checkout(r.Context(), sessionID(r), details)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) getCurrentOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Current(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qrCode, err := h.Orders.QRCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(qrCode) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "QR code not found"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

type assistantRequest struct {
	Message string `json:"message"`
}

func (h *Handler) askAssistant(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply, err := h.Assistant.Ask(r.Context(), req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
