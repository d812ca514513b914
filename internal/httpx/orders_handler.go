package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	kafkax "github.com/Jadline/MinoxidilKe-sub001/internal/kafka"
	"github.com/Jadline/MinoxidilKe-sub001/internal/orders"
	"github.com/Jadline/MinoxidilKe-sub001/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type OrdersRepo interface {
	CreateOrderTx(ctx context.Context, in orders.CreateOrderInput) (orderID string, total int, existed bool, err error)
	GetOrder(ctx context.Context, orderID string) (orders.Order, error)
}

type OrdersHandler struct {
	Repo     OrdersRepo
	Producer *kafkax.Producer
	Redis    *redis.Client
	Service  string
}

// CreateOrderReq is the wire shape the checkout pipeline sends. Every
// optional field arrives as an empty string, never null.
type CreateOrderReq struct {
	ExternalID string             `json:"externalId"`
	Items      []orders.ItemInput `json:"items"`

	DeliveryType       string `json:"deliveryType"`
	ShippingMethodName string `json:"shippingMethodName"`
	ShippingCost       int    `json:"shippingCost"`
	PickupLocationID   string `json:"pickupLocationId"`
	PickupLocationName string `json:"pickupLocationName"`

	Address     orders.Address `json:"address"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email"`
	PaymentType string         `json:"paymentType"`
	MpesaNumber string         `json:"mpesaNumber"`
	Total       int            `json:"total"`
}

type CreateOrderResp struct {
	OrderID    string `json:"orderId"`
	Total      int    `json:"total"`
	Status     string `json:"status"`
	Idempotent bool   `json:"idempotent"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if errs := validateCreateOrder(req); len(errs) > 0 {
		writeFieldErrors(w, http.StatusBadRequest, errs...)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	in := orders.CreateOrderInput{
		ExternalID:         req.ExternalID,
		UserID:             userID(r),
		Items:              req.Items,
		DeliveryType:       req.DeliveryType,
		ShippingMethodName: req.ShippingMethodName,
		ShippingCost:       req.ShippingCost,
		PickupLocationID:   req.PickupLocationID,
		PickupLocationName: req.PickupLocationName,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
		PaymentType:        req.PaymentType,
		MpesaNumber:        req.MpesaNumber,
	}
	orderID, total, existed, err := h.Repo.CreateOrderTx(ctx, in)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.Redis != nil {
		// Idempotency shortcut in Redis (TTL 24h); DB stays the truth.
		idemKey := fmt.Sprintf(redisx.KeyIdemOrderCreate, req.ExternalID)
		_ = h.Redis.Set(ctx, idemKey, orderID, redisx.TTLIdempotency).Err()

		// Cache status (PENDING) so GET is fast.
		statusKey := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		_ = h.Redis.Set(ctx, statusKey, `{"status":"PENDING"}`, redisx.TTLStatusCache).Err()
	}

	if !existed {
		h.publishCreated(r, in, orderID, total)
	}

	writeJSON(w, http.StatusAccepted, CreateOrderResp{
		OrderID: orderID, Total: total, Status: string(orders.StatusPending), Idempotent: existed,
	})
}

func (h *OrdersHandler) publishCreated(r *http.Request, in orders.CreateOrderInput, orderID string, total int) {
	items := make([]orders.ItemPrice, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, orders.ItemPrice{ProductID: it.ProductID, Qty: it.Qty, Price: it.Price})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID:     orderID,
			ExternalID:  in.ExternalID,
			UserID:      in.UserID,
			Items:       items,
			Total:       total,
			PaymentType: in.PaymentType,
			MpesaNumber: in.MpesaNumber,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// validateCreateOrder re-checks the pipeline's preconditions; a client
// that skipped them gets structured errors back, not a DB write.
func validateCreateOrder(req CreateOrderReq) []fieldError {
	var errs []fieldError
	if req.ExternalID == "" {
		errs = append(errs, fieldError{Field: "externalId", Message: "externalId is required"})
	}
	if len(req.Items) == 0 {
		errs = append(errs, fieldError{Field: "items", Message: "cart is empty"})
	}
	switch req.DeliveryType {
	case "ship":
		if req.Address.Country == "" || req.Address.Street == "" || req.Address.City == "" {
			errs = append(errs, fieldError{Field: "address", Message: "country, street and city are required for shipping"})
		}
		if req.ShippingMethodName == "" {
			errs = append(errs, fieldError{Field: "shippingMethodName", Message: "select a shipping method"})
		}
	case "pickup":
		if req.PickupLocationID == "" {
			errs = append(errs, fieldError{Field: "pickupLocationId", Message: "select a pickup location"})
		}
	default:
		errs = append(errs, fieldError{Field: "deliveryType", Message: "deliveryType must be ship or pickup"})
	}
	if req.PaymentType != "mpesa" && req.PaymentType != "on_delivery" {
		errs = append(errs, fieldError{Field: "paymentType", Message: "paymentType must be mpesa or on_delivery"})
	}
	return errs
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) try cache: the hot path is the checkout page polling the status
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	// 2) cache miss: serve the full order from the DB and refresh the
	// status cache
	o, err := h.Repo.GetOrder(ctx, orderID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if h.Redis != nil {
		b, _ := json.Marshal(map[string]any{"status": o.Status})
		_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	}
	writeJSON(w, http.StatusOK, o)
}
