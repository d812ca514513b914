package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jadline/MinoxidilKe-sub001/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogRepo struct {
	methods   []orders.ShippingMethod
	locations []orders.PickupLocation
}

func (f *fakeCatalogRepo) ListShippingMethods(context.Context, string, string) ([]orders.ShippingMethod, error) {
	return f.methods, nil
}
func (f *fakeCatalogRepo) ListPickupLocations(context.Context, string) ([]orders.PickupLocation, error) {
	return f.locations, nil
}

func TestShippingMethodsEmptyInputs(t *testing.T) {
	h := &CatalogHandler{Repo: &fakeCatalogRepo{methods: []orders.ShippingMethod{{ID: "sm1"}}}}
	r := NewRouter()
	h.Register(r)

	// missing city -> empty list, not an error and no repo hit needed
	req := httptest.NewRequest(http.MethodGet, "/shipping-methods?country=Kenya", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []orders.ShippingMethod
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got)
}

func TestShippingMethodsHappyPath(t *testing.T) {
	h := &CatalogHandler{Repo: &fakeCatalogRepo{
		methods: []orders.ShippingMethod{{ID: "sm1", Name: "Courier", Cost: 300}},
	}}
	r := NewRouter()
	h.Register(r)

	req := httptest.NewRequest(http.MethodGet, "/shipping-methods?country=Kenya&city=Nairobi", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []orders.ShippingMethod
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 300, got[0].Cost)
}

func TestCreateOrderRejectsIncompletePayload(t *testing.T) {
	h := &OrdersHandler{} // validation fails before repo/redis/kafka are touched
	r := NewRouter()
	h.Register(r)

	body := `{"externalId":"ext-1","items":[{"id":"p1","price":2600,"quantity":2}],"deliveryType":"ship","paymentType":"mpesa"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error  string       `json:"error"`
		Errors []fieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, resp.Errors[0].Message, resp.Error, "flat error mirrors the first structured one")
}

func TestCreateOrderRejectsPickupWithoutLocation(t *testing.T) {
	h := &OrdersHandler{}
	r := NewRouter()
	h.Register(r)

	body := `{"externalId":"ext-1","items":[{"id":"p1","price":100,"quantity":1}],"deliveryType":"pickup","paymentType":"on_delivery"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "pickupLocationId")
}

type fakeOrdersRepo struct {
	order  orders.Order
	getErr error
}

func (f *fakeOrdersRepo) CreateOrderTx(context.Context, orders.CreateOrderInput) (string, int, bool, error) {
	return "", 0, false, nil
}

func (f *fakeOrdersRepo) GetOrder(context.Context, string) (orders.Order, error) {
	return f.order, f.getErr
}

func TestGetOrderServesFullOrderOnCacheMiss(t *testing.T) {
	h := &OrdersHandler{Repo: &fakeOrdersRepo{order: orders.Order{
		ID: "ord-1", Status: orders.StatusPending, DeliveryType: "ship", Total: 5500,
	}}}
	r := NewRouter()
	h.Register(r)

	req := httptest.NewRequest(http.MethodGet, "/orders/ord-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ord-1", got.ID)
	assert.Equal(t, orders.StatusPending, got.Status)
	assert.Equal(t, 5500, got.Total)
}

func TestGetOrderUnknownIDIsNotFound(t *testing.T) {
	h := &OrdersHandler{Repo: &fakeOrdersRepo{getErr: errors.New("no rows in result set")}}
	r := NewRouter()
	h.Register(r)

	req := httptest.NewRequest(http.MethodGet, "/orders/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeNotesRepo struct {
	notes []orders.PaymentNote
}

func (f *fakeNotesRepo) SavePaymentNote(_ context.Context, n orders.PaymentNote) error {
	f.notes = append(f.notes, n)
	return nil
}

func TestNotifyRequiresPhone(t *testing.T) {
	notes := &fakeNotesRepo{}
	h := &PaymentsHandler{Notes: notes}
	r := NewRouter()
	h.Register(r, RequireBearer("tok"))

	req := httptest.NewRequest(http.MethodPost, "/mpesa-notify", strings.NewReader(`{"orderId":"ord-1"}`))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, notes.notes)
}

func TestNotifyStoresNote(t *testing.T) {
	notes := &fakeNotesRepo{}
	h := &PaymentsHandler{Notes: notes}
	r := NewRouter()
	h.Register(r, RequireBearer("tok"))

	body := `{"orderId":"ord-1","phone":"254712345678","reference":"QW12345"}`
	req := httptest.NewRequest(http.MethodPost, "/mpesa-notify", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, notes.notes, 1)
	assert.Equal(t, "254712345678", notes.notes[0].Phone)
}

func TestNotifyRejectsMissingToken(t *testing.T) {
	h := &PaymentsHandler{Notes: &fakeNotesRepo{}}
	r := NewRouter()
	h.Register(r, RequireBearer("tok"))

	req := httptest.NewRequest(http.MethodPost, "/mpesa-notify", strings.NewReader(`{"phone":"254712345678"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateIntentValidatesAmount(t *testing.T) {
	h := &PaymentsHandler{}
	r := NewRouter()
	h.Register(r, RequireBearer("tok"))

	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"amount":0}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"amount":5500}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "clientSecret")
}
