package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Jadline/MinoxidilKe-sub001/internal/mpesa"
	"github.com/Jadline/MinoxidilKe-sub001/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PushGateway is the Daraja surface the handlers need; *mpesa.Client
// satisfies it.
type PushGateway interface {
	STKPush(ctx context.Context, amount int, phone, reference string) (*mpesa.STKPushResponse, error)
	RegisterURL(ctx context.Context, confirmationURL, validationURL string) error
}

type NotesRepo interface {
	SavePaymentNote(ctx context.Context, note orders.PaymentNote) error
}

type PaymentsHandler struct {
	Gateway PushGateway
	Notes   NotesRepo
}

// Register wires the payment routes; auth wraps the routes a browser
// session must not hit anonymously.
func (h *PaymentsHandler) Register(r *chi.Mux, auth func(http.Handler) http.Handler) {
	r.Post("/payments", h.createIntent)
	r.With(auth).Post("/mpesa-notify", h.notify)
	r.With(auth).Post("/mpesa/stkpush", h.stkPush)
	r.With(auth).Post("/mpesa/registerurl", h.registerURL)
}

// createIntent starts a card payment. Card capture itself is delegated
// to the payment widget; this only hands back a client secret.
func (h *PaymentsHandler) createIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}
	id := "pi_" + uuid.NewString()
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           id,
		"amount":       req.Amount,
		"clientSecret": id + "_secret_" + uuid.NewString(),
	})
}

// notify records a manual "I have paid" notice. Purely informational;
// staff reconcile it out of band.
func (h *PaymentsHandler) notify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID   string `json:"orderId"`
		Phone     string `json:"phone"`
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Phone == "" {
		writeFieldErrors(w, http.StatusBadRequest,
			fieldError{Field: "phone", Message: "phone number is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	note := orders.PaymentNote{OrderID: req.OrderID, Phone: req.Phone, Reference: req.Reference}
	if err := h.Notes.SavePaymentNote(ctx, note); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "received"})
}

func (h *PaymentsHandler) stkPush(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"orderId"`
		Amount  int    `json:"amount"`
		Phone   string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Phone == "" || req.Amount <= 0 {
		writeFieldErrors(w, http.StatusBadRequest,
			fieldError{Field: "phone", Message: "phone and a positive amount are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	resp, err := h.Gateway.STKPush(ctx, req.Amount, req.Phone, req.OrderID)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentsHandler) registerURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfirmationURL string `json:"confirmationUrl"`
		ValidationURL   string `json:"validationUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.Gateway.RegisterURL(ctx, req.ConfirmationURL, req.ValidationURL); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}
