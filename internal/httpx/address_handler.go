package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Jadline/MinoxidilKe-sub001/internal/orders"
	"github.com/go-chi/chi/v5"
)

type AddressRepo interface {
	Save(ctx context.Context, a orders.Address) (string, error)
	List(ctx context.Context, userID string) ([]orders.Address, error)
}

type AddressHandler struct {
	Repo AddressRepo
}

func (h *AddressHandler) Register(r *chi.Mux) {
	r.Post("/addresses", h.save)
	r.Get("/addresses", h.list)
}

func (h *AddressHandler) save(w http.ResponseWriter, r *http.Request) {
	var a orders.Address
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if a.Country == "" || a.Street == "" || a.City == "" {
		writeFieldErrors(w, http.StatusBadRequest,
			fieldError{Field: "address", Message: "country, street and city are required"})
		return
	}
	a.UserID = userID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := h.Repo.Save(ctx, a)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *AddressHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	as, err := h.Repo.List(ctx, userID(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, as)
}
