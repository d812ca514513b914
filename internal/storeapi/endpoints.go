package storeapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Jadline/MinoxidilKe-sub001/internal/checkout"
	"github.com/Jadline/MinoxidilKe-sub001/internal/delivery"
)

// PlaceOrder submits the draft. Implements checkout.Gateway.
func (c *Client) PlaceOrder(ctx context.Context, draft checkout.OrderDraft) (checkout.Confirmation, error) {
	var resp struct {
		OrderID string `json:"orderId"`
		Total   int    `json:"total"`
		Status  string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", draft, &resp); err != nil {
		return checkout.Confirmation{}, err
	}
	return checkout.Confirmation{OrderID: resp.OrderID, Total: resp.Total, Status: resp.Status}, nil
}

func (c *Client) SaveAddress(ctx context.Context, addr checkout.Address) error {
	return c.do(ctx, http.MethodPost, "/addresses", addr, nil)
}

func (c *Client) ListAddresses(ctx context.Context) ([]checkout.Address, error) {
	var out []checkout.Address
	if err := c.do(ctx, http.MethodGet, "/addresses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ShippingMethods implements delivery.Catalog.
func (c *Client) ShippingMethods(ctx context.Context, country, city string) ([]delivery.ShippingMethod, error) {
	q := url.Values{"country": {country}, "city": {city}}
	var out []delivery.ShippingMethod
	if err := c.do(ctx, http.MethodGet, "/shipping-methods?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PickupLocations implements delivery.Catalog.
func (c *Client) PickupLocations(ctx context.Context, country string) ([]delivery.PickupLocation, error) {
	q := url.Values{"country": {country}}
	var out []delivery.PickupLocation
	if err := c.do(ctx, http.MethodGet, "/pickup-locations?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ErrPhoneRequired guards the manual payment notice; the backend never
// sees a notification without a phone number.
var ErrPhoneRequired = errors.New("phone number is required")

// NotifyPayment is the user-initiated "I have paid" notice for push
// payment orders. Informational only, reconciled by staff out of band.
func (c *Client) NotifyPayment(ctx context.Context, orderID, phone, reference string) error {
	if phone == "" {
		return ErrPhoneRequired
	}
	body := map[string]string{
		"orderId":   orderID,
		"phone":     phone,
		"reference": reference,
	}
	return c.do(ctx, http.MethodPost, "/mpesa-notify", body, nil)
}

// CreatePaymentIntent starts a card payment and returns the client
// secret for the payment widget. Card capture happens in the widget.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int) (string, error) {
	var resp struct {
		ClientSecret string `json:"clientSecret"`
	}
	body := map[string]int{"amount": amount}
	if err := c.do(ctx, http.MethodPost, "/payments", body, &resp); err != nil {
		return "", err
	}
	return resp.ClientSecret, nil
}
