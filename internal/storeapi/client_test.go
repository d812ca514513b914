package storeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jadline/MinoxidilKe-sub001/internal/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder(t *testing.T) {
	var got checkout.OrderDraft
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orderId": "ord-1", "total": got.Total, "status": "PENDING",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	conf, err := c.PlaceOrder(context.Background(), checkout.OrderDraft{
		ExternalID: "ext-1", DeliveryType: checkout.DeliveryShip, Total: 5500,
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", conf.OrderID)
	assert.Equal(t, 5500, conf.Total)
	assert.Equal(t, "ext-1", got.ExternalID)
}

func TestPlaceOrderSurfacesFirstStructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": "validation failed",
			"errors": []map[string]string{
				{"field": "city", "message": "we do not deliver to this city"},
				{"field": "phone", "message": "phone looks wrong"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.PlaceOrder(context.Background(), checkout.OrderDraft{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "we do not deliver to this city", apiErr.UserMessage())
}

func TestPlaceOrderFallsBackToFlatError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "duplicate order"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.PlaceOrder(context.Background(), checkout.OrderDraft{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "duplicate order", apiErr.UserMessage())
}

func TestNotifyPaymentRequiresPhone(t *testing.T) {
	c := NewClient("http://backend.invalid", "tok")
	err := c.NotifyPayment(context.Background(), "ord-1", "", "ref")
	assert.ErrorIs(t, err, ErrPhoneRequired)
}

func TestNotifyPaymentSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mpesa-notify", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "received"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	require.NoError(t, c.NotifyPayment(context.Background(), "ord-1", "254712345678", "MPESA-REF"))
}

func TestShippingMethodsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shipping-methods", r.URL.Path)
		assert.Equal(t, "Kenya", r.URL.Query().Get("country"))
		assert.Equal(t, "Nairobi", r.URL.Query().Get("city"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "sm1", "name": "Courier", "costKes": 300},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	ms, err := c.ShippingMethods(context.Background(), "Kenya", "Nairobi")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, 300, ms[0].Cost)
}

func TestCreatePaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"clientSecret": "pi_1_secret_2"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	secret, err := c.CreatePaymentIntent(context.Background(), 5500)
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_2", secret)
}
