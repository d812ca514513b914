package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
)

// ErrSubmissionInFlight means a submit lost the guard race. The first
// submission proceeds; this one did nothing.
var ErrSubmissionInFlight = errors.New("order submission already in flight")

// Submit runs the order pipeline: preconditions, phone normalization,
// draft build, POST. Preconditions fail fast with zero side effects and
// no network call. On success the cart is cleared, the address saved
// best-effort and cached order history invalidated; on failure the
// guard is released and the cart kept so the user can retry.
func (c *Checkout) Submit(ctx context.Context) (Confirmation, error) {
	if !c.guard.TryAcquire() {
		return Confirmation{}, ErrSubmissionInFlight
	}
	defer c.guard.Release()

	c.mu.Lock()
	if errs := c.validateLocked(); len(errs) > 0 {
		c.mu.Unlock()
		return Confirmation{}, errs[0]
	}
	draft := c.buildDraftLocked()
	c.state = StateSubmitting
	c.mu.Unlock()

	conf, err := c.Gateway.PlaceOrder(ctx, draft)
	if err != nil {
		c.mu.Lock()
		c.toLocked(StateFailed)
		c.toLocked(StateChoosingPayment) // keep entered data, allow retry
		c.failure = userMessage(err)
		c.mu.Unlock()
		return Confirmation{}, err
	}

	// Non-blocking side effects. An address-save failure is logged and
	// swallowed; it never rolls back the order.
	if draft.DeliveryType == DeliveryShip {
		go func(addr Address) {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.Gateway.SaveAddress(sctx, addr); err != nil {
				log.Printf("checkout: address save failed: %v", err)
			}
		}(draft.Address)
	}
	if c.InvalidateHistory != nil {
		c.InvalidateHistory()
	}
	c.Cart.Clear()

	c.mu.Lock()
	c.toLocked(StateSubmitted)
	c.failure = ""
	c.draftID = ""
	c.mu.Unlock()
	return conf, nil
}

// buildDraftLocked freezes the current selections into a payload. The
// external id survives until the next field change, so retrying the
// identical draft reuses it.
func (c *Checkout) buildDraftLocked() OrderDraft {
	if c.draftID == "" {
		c.draftID = uuid.NewString()
	}
	d := OrderDraft{
		ExternalID:   c.draftID,
		Items:        draftItems(c.Cart.Items()),
		DeliveryType: c.deliveryType,
		Address:      c.address,
		Phone:        NormalizePhone(c.address.Phone, c.dialCode),
		Email:        c.address.Email,
		PaymentType:  c.payment,
		Total:        c.totalLocked(),
	}
	if c.deliveryType == DeliveryShip && c.shipping != nil {
		d.ShippingMethodName = c.shipping.Name
		d.ShippingCost = c.shipping.Cost
	}
	if c.deliveryType == DeliveryPickup && c.pickup != nil {
		d.PickupLocationID = c.pickup.ID
		d.PickupLocationName = c.pickup.Name
	}
	if c.payment == PaymentMpesa {
		d.MpesaNumber = c.mpesaNumber
		if d.MpesaNumber == "" {
			d.MpesaNumber = d.Phone
		} else {
			d.MpesaNumber = NormalizePhone(d.MpesaNumber, c.dialCode)
		}
	}
	return d
}

// userMessage picks the first structured error message from the API
// error, falling back to a generic notice.
func userMessage(err error) string {
	var api interface{ UserMessage() string }
	if errors.As(err, &api) {
		if m := api.UserMessage(); m != "" {
			return m
		}
	}
	return "We could not place your order. Please try again."
}
