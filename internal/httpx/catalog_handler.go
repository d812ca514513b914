package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/Jadline/MinoxidilKe-sub001/internal/orders"
	"github.com/go-chi/chi/v5"
)

type CatalogRepo interface {
	ListShippingMethods(ctx context.Context, country, city string) ([]orders.ShippingMethod, error)
	ListPickupLocations(ctx context.Context, country string) ([]orders.PickupLocation, error)
}

type CatalogHandler struct {
	Repo CatalogRepo
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/shipping-methods", h.shippingMethods)
	r.Get("/pickup-locations", h.pickupLocations)
}

// Unset inputs are not an error: the form refetches on every keystroke
// of the address fields and an incomplete key just has no options yet.
func (h *CatalogHandler) shippingMethods(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	city := r.URL.Query().Get("city")
	if country == "" || city == "" {
		writeJSON(w, http.StatusOK, []orders.ShippingMethod{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ms, err := h.Repo.ListShippingMethods(ctx, country, city)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (h *CatalogHandler) pickupLocations(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		writeJSON(w, http.StatusOK, []orders.PickupLocation{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ls, err := h.Repo.ListPickupLocations(ctx, country)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ls)
}
