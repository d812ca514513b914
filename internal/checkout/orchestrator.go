package checkout

import (
	"context"
	"sync"

	"github.com/Jadline/MinoxidilKe-sub001/internal/cart"
	"github.com/Jadline/MinoxidilKe-sub001/internal/currency"
	"github.com/Jadline/MinoxidilKe-sub001/internal/delivery"
)

// Confirmation is what the backend hands back for a created order.
type Confirmation struct {
	OrderID string
	Total   int
	Status  string
}

// Gateway is the backend surface the checkout drives. Implemented by
// storeapi.Client.
type Gateway interface {
	PlaceOrder(ctx context.Context, draft OrderDraft) (Confirmation, error)
	SaveAddress(ctx context.Context, addr Address) error
}

// Checkout collects the address, delivery and payment selections and
// owns the submission guard. The cart ledger and currency converter are
// passed in, never ambient.
type Checkout struct {
	Cart     *cart.Ledger
	Currency *currency.Converter
	Resolver *delivery.Resolver
	Gateway  Gateway

	// InvalidateHistory, when set, is called after a successful order
	// so cached order-history views refetch.
	InvalidateHistory func()

	mu           sync.Mutex
	state        State
	deliveryType DeliveryType
	address      Address
	dialCode     string
	shipping     *delivery.ShippingMethod
	pickup       *delivery.PickupLocation
	payment      PaymentMethod
	mpesaNumber  string
	draftID      string
	failure      string

	guard SubmitGuard
}

func New(ledger *cart.Ledger, conv *currency.Converter, resolver *delivery.Resolver, gw Gateway) *Checkout {
	return &Checkout{
		Cart:     ledger,
		Currency: conv,
		Resolver: resolver,
		Gateway:  gw,
		state:    StateChoosingDelivery,
		dialCode: "254",
	}
}

func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// toLocked moves the state machine, silently refusing transitions the
// table forbids (e.g. anything out of SUBMITTED).
func (c *Checkout) toLocked(s State) {
	if CanTransition(c.state, s) {
		c.state = s
	}
}

// FailureMessage is the user-facing notice from the last failed submit.
func (c *Checkout) FailureMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// SetDeliveryType switches between shipping and pickup. The other
// mode's selection is cleared, not hidden, so a stale shipping method
// can never leak into a pickup order.
func (c *Checkout) SetDeliveryType(t DeliveryType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t == c.deliveryType {
		return
	}
	c.deliveryType = t
	c.draftID = ""
	switch t {
	case DeliveryShip:
		c.pickup = nil
		c.toLocked(StateFillingAddress)
		if c.Resolver != nil {
			go c.Resolver.RefreshShipping(context.Background(), c.address.Country, c.address.City)
		}
	case DeliveryPickup:
		c.shipping = nil
		c.toLocked(StateChoosingPickup)
		if c.Resolver != nil {
			go c.Resolver.RefreshPickup(context.Background(), c.address.Country)
		}
	}
}

func (c *Checkout) DeliveryType() DeliveryType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deliveryType
}

// SetAddress replaces the whole address block. Shipping options are
// keyed by (country, city); a change to either refetches them, and the
// resolver discards any response for the superseded key.
func (c *Checkout) SetAddress(a Address) {
	c.mu.Lock()
	keyChanged := a.Country != c.address.Country || a.City != c.address.City
	c.address = a
	c.draftID = ""
	refresh := keyChanged && c.Resolver != nil && c.deliveryType == DeliveryShip
	c.mu.Unlock()

	if refresh {
		go c.Resolver.RefreshShipping(context.Background(), a.Country, a.City)
	}
}

func (c *Checkout) Address() Address {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.address
}

func (c *Checkout) SetDialCode(code string) {
	c.mu.Lock()
	c.dialCode = code
	c.draftID = ""
	c.mu.Unlock()
}

func (c *Checkout) SelectShippingMethod(m delivery.ShippingMethod) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deliveryType != DeliveryShip {
		return
	}
	cp := m
	c.shipping = &cp
	c.draftID = ""
}

func (c *Checkout) SelectPickupLocation(l delivery.PickupLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deliveryType != DeliveryPickup {
		return
	}
	cp := l
	c.pickup = &cp
	c.draftID = ""
}

func (c *Checkout) SetPaymentMethod(p PaymentMethod) {
	c.mu.Lock()
	c.payment = p
	c.draftID = ""
	c.toLocked(StateChoosingPayment)
	c.mu.Unlock()
}

// SetMpesaNumber records the phone the user says they pay from; only
// meaningful for push payment.
func (c *Checkout) SetMpesaNumber(n string) {
	c.mu.Lock()
	c.mpesaNumber = n
	c.draftID = ""
	c.mu.Unlock()
}

// Total is subtotal plus shipping cost when shipping; pickup adds
// nothing even when the location carries a cost of zero.
func (c *Checkout) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

func (c *Checkout) totalLocked() int {
	total := c.Cart.Subtotal()
	if c.deliveryType == DeliveryShip && c.shipping != nil {
		total += c.shipping.Cost
	}
	return total
}

// FormattedTotal renders the total in the selected display currency.
// Informational only in non-base currency; the draft always carries
// the base amount.
func (c *Checkout) FormattedTotal() string {
	return c.Currency.Format(c.Total())
}

// Validate runs the required-field policy for the current delivery
// type. Returns every failure so the form can mark all fields at once.
func (c *Checkout) Validate() []ValidationError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Checkout) validateLocked() []ValidationError {
	var errs []ValidationError

	if c.Cart.Count() == 0 {
		errs = append(errs, ValidationError{Field: "cart", Message: "your cart is empty"})
	}

	switch c.deliveryType {
	case DeliveryShip:
		if c.address.Country == "" {
			errs = append(errs, ValidationError{Field: "country", Message: "country is required"})
		}
		if c.address.Street == "" {
			errs = append(errs, ValidationError{Field: "street", Message: "street address is required"})
		}
		if c.address.City == "" {
			errs = append(errs, ValidationError{Field: "city", Message: "city is required"})
		}
		if c.address.Phone == "" {
			errs = append(errs, ValidationError{Field: "phone", Message: "phone number is required"})
		} else if err := ValidatePhone(c.address.Phone, c.dialCode); err != nil {
			errs = append(errs, err.(ValidationError))
		}
		if c.shipping == nil {
			errs = append(errs, ValidationError{Field: "shippingMethod", Message: "select a shipping method"})
		}
		if err := ValidatePostalCode(c.address.Country, c.address.PostalCode); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	case DeliveryPickup:
		if c.pickup == nil {
			errs = append(errs, ValidationError{Field: "pickupLocation", Message: "select a pickup location"})
		}
	default:
		errs = append(errs, ValidationError{Field: "deliveryType", Message: "choose delivery or pickup"})
	}

	if c.address.Email != "" {
		if err := ValidateEmail(c.address.Email); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}

	if c.payment == "" {
		errs = append(errs, ValidationError{Field: "paymentMethod", Message: "choose a payment method"})
	}
	if c.payment == PaymentMpesa && c.mpesaNumber == "" && c.address.Phone == "" {
		errs = append(errs, ValidationError{Field: "mpesaNumber", Message: "enter the M-Pesa number you will pay from"})
	}

	return errs
}
