package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Jadline/MinoxidilKe-sub001/internal/delivery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu         sync.Mutex
	placeCalls int
	saveCalls  int
	block      chan struct{} // when set, PlaceOrder parks until closed
	placeErr   error
	saveErr    error
	lastDraft  OrderDraft
}

func (g *fakeGateway) PlaceOrder(_ context.Context, draft OrderDraft) (Confirmation, error) {
	g.mu.Lock()
	g.placeCalls++
	g.lastDraft = draft
	block, err := g.block, g.placeErr
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{OrderID: "ord-1", Total: draft.Total, Status: "PENDING"}, nil
}

func (g *fakeGateway) SaveAddress(context.Context, Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saveCalls++
	return g.saveErr
}

func (g *fakeGateway) placed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.placeCalls
}

func (g *fakeGateway) saved() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saveCalls
}

func readyCheckout(gw Gateway) *Checkout {
	c := newTestCheckout(gw)
	c.SetDeliveryType(DeliveryShip)
	c.SetAddress(Address{
		Country: "Kenya", Street: "Moi Ave", City: "Nairobi",
		Phone: "0712345678", Email: "jane@example.com",
	})
	c.SelectShippingMethod(delivery.ShippingMethod{ID: "sm1", Name: "Courier", Cost: 300})
	c.SetPaymentMethod(PaymentOnDelivery)
	return c
}

func TestSubmitHappyPath(t *testing.T) {
	gw := &fakeGateway{}
	c := readyCheckout(gw)

	conf, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", conf.OrderID)
	assert.Equal(t, StateSubmitted, c.State())
	assert.Zero(t, c.Cart.Count(), "cart must be cleared after the backend acknowledged")

	d := gw.lastDraft
	assert.Equal(t, 5500, d.Total)
	assert.Equal(t, "254712345678", d.Phone)
	assert.Equal(t, "Courier", d.ShippingMethodName)
	assert.Equal(t, 300, d.ShippingCost)
	assert.NotEmpty(t, d.ExternalID)
}

func TestSubmitEmptyCartFailsFast(t *testing.T) {
	gw := &fakeGateway{}
	c := readyCheckout(gw)
	c.Cart.Clear()

	_, err := c.Submit(context.Background())
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cart", verr.Field)
	assert.Zero(t, gw.placed(), "no network call for a precondition failure")
}

func TestSubmitPickupWithoutLocationFailsFast(t *testing.T) {
	gw := &fakeGateway{}
	c := readyCheckout(gw)
	c.SetDeliveryType(DeliveryPickup)

	_, err := c.Submit(context.Background())
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pickupLocation", verr.Field)
	assert.Zero(t, gw.placed())
}

func TestDoubleSubmitProducesOneOrder(t *testing.T) {
	gw := &fakeGateway{block: make(chan struct{})}
	c := readyCheckout(gw)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return gw.placed() == 1 },
		time.Second, time.Millisecond, "first submit should be in flight")

	// second click while the POST is in flight loses synchronously
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(gw.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gw.placed(), "overlapping submits must reach the network once")
}

type gatewayErr struct{ msg string }

func (e gatewayErr) Error() string       { return e.msg }
func (e gatewayErr) UserMessage() string { return e.msg }

func TestSubmitFailureKeepsDataAndAllowsRetry(t *testing.T) {
	gw := &fakeGateway{placeErr: gatewayErr{msg: "city not served"}}
	c := readyCheckout(gw)

	_, err := c.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateChoosingPayment, c.State(), "failure returns to payment, not the start")
	assert.Equal(t, "city not served", c.FailureMessage())
	assert.Equal(t, 2, c.Cart.Count(), "cart untouched on failure")

	// guard was released: a retry reaches the network again
	gw.mu.Lock()
	gw.placeErr = nil
	gw.mu.Unlock()
	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, gw.placed())
}

func TestRetrySameDraftReusesExternalID(t *testing.T) {
	gw := &fakeGateway{placeErr: gatewayErr{msg: "timeout"}}
	c := readyCheckout(gw)

	_, _ = c.Submit(context.Background())
	first := gw.lastDraft.ExternalID

	gw.mu.Lock()
	gw.placeErr = nil
	gw.mu.Unlock()
	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, gw.lastDraft.ExternalID, "pure retry must reuse the external id")
}

func TestFieldChangeSupersedesDraft(t *testing.T) {
	gw := &fakeGateway{placeErr: gatewayErr{msg: "timeout"}}
	c := readyCheckout(gw)

	_, _ = c.Submit(context.Background())
	first := gw.lastDraft.ExternalID

	c.SetMpesaNumber("0700000000") // any field change supersedes the draft
	gw.mu.Lock()
	gw.placeErr = nil
	gw.mu.Unlock()
	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, gw.lastDraft.ExternalID)
}

func TestAddressSaveFailureDoesNotFailOrder(t *testing.T) {
	gw := &fakeGateway{saveErr: errors.New("address book down")}
	c := readyCheckout(gw)

	conf, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", conf.OrderID)
	assert.Equal(t, StateSubmitted, c.State())

	assert.Eventually(t, func() bool { return gw.saved() == 1 },
		time.Second, 10*time.Millisecond, "address save should have been attempted")
}

func TestInvalidateHistoryFiresOnSuccess(t *testing.T) {
	gw := &fakeGateway{}
	c := readyCheckout(gw)
	invalidated := false
	c.InvalidateHistory = func() { invalidated = true }

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestMpesaDraftCarriesNormalizedPayerNumber(t *testing.T) {
	gw := &fakeGateway{}
	c := readyCheckout(gw)
	c.SetPaymentMethod(PaymentMpesa)
	c.SetMpesaNumber("0722000111")

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "254722000111", gw.lastDraft.MpesaNumber)
	assert.Equal(t, PaymentMpesa, gw.lastDraft.PaymentType)
}
