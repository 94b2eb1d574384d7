package httpapi

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"kal-storefront/internal/domain"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxUploadSize = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (h *Handler) registerAdminRoutes(r *mux.Router) {
	r.Use(AdminAuth(h.AdminToken))

	r.HandleFunc("/menu", h.adminListMenu).Methods("GET")
	r.HandleFunc("/menu", h.saveMenuItem).Methods("POST")
	r.HandleFunc("/menu/{id}", h.saveMenuItem).Methods("PUT")
	r.HandleFunc("/menu/{id}", h.deleteMenuItem).Methods("DELETE")
	r.HandleFunc("/menu/{id}/image", h.uploadMenuItemImage).Methods("POST")

	r.HandleFunc("/settings", h.getSettings).Methods("GET")
	r.HandleFunc("/settings", h.updateSettings).Methods("PUT")

	r.HandleFunc("/orders", h.listOrders).Methods("GET")
	r.HandleFunc("/orders/{id}/status", h.updateOrderStatus).Methods("PATCH")

	r.HandleFunc("/stats", h.getStats).Methods("GET")
}

func (h *Handler) adminListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.List(r.Context(), "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// saveMenuItem creates the item when no id is known and replaces it otherwise.
func (h *Handler) saveMenuItem(w http.ResponseWriter, r *http.Request) {
	var item domain.CatalogItem
	if !decodeJSON(w, r, &item) {
		return
	}
	if id, ok := mux.Vars(r)["id"]; ok {
		item.ID = id
	}
	created, err := h.Catalog.Save(r.Context(), &item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) uploadMenuItemImage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.Catalog.Get(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "File too large"})
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Error retrieving the file"})
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Error reading the file"})
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read file"})
		return
	}

	// Type comes from the content, not the declared part header.
	ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid file type. Only JPEG, PNG, GIF, WebP allowed"})
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0755); err != nil {
		log.WithError(err).Error("failed to create upload directory")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to create upload directory"})
		return
	}

	filename := "item_" + sanitize(id) + ext
	dst, err := os.Create(filepath.Join(h.UploadDir, filename))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to create file"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to save file"})
		return
	}

	imageURL := "/uploads/" + filename
	if err := h.Catalog.UpdateImage(r.Context(), id, imageURL); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Image uploaded successfully",
		"image_url": imageURL,
	})
}

func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.StoreSettings
	if !decodeJSON(w, r, &settings) {
		return
	}
	saved, err := h.Settings.Update(r.Context(), settings)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.Orders.Transition(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
