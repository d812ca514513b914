package delivery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu      sync.Mutex
	methods map[string][]ShippingMethod // keyed country|city
	blocks  map[string]chan struct{}    // park a fetch until released
	err     error
	calls   int
}

func (f *fakeCatalog) ShippingMethods(_ context.Context, country, city string) ([]ShippingMethod, error) {
	key := country + "|" + city
	f.mu.Lock()
	f.calls++
	block := f.blocks[key]
	ms, err := f.methods[key], f.err
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return ms, err
}

func (f *fakeCatalog) PickupLocations(_ context.Context, country string) ([]PickupLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []PickupLocation{{ID: "pl1", Name: country + " shop"}}, nil
}

func TestRefreshShippingInstallsResults(t *testing.T) {
	cat := &fakeCatalog{methods: map[string][]ShippingMethod{
		"Kenya|Nairobi": {{ID: "sm1", Name: "Courier", Cost: 300}},
	}}
	r := NewResolver(cat)

	r.RefreshShipping(context.Background(), "Kenya", "Nairobi")
	ms, err := r.ShippingMethods()
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "Courier", ms[0].Name)
}

func TestEmptyInputsShortCircuit(t *testing.T) {
	cat := &fakeCatalog{}
	r := NewResolver(cat)

	r.RefreshShipping(context.Background(), "", "Nairobi")
	ms, err := r.ShippingMethods()
	assert.NoError(t, err)
	assert.Empty(t, ms)
	assert.Zero(t, cat.calls, "no network call for an incomplete key")

	r.RefreshPickup(context.Background(), "")
	ls, err := r.PickupLocations()
	assert.NoError(t, err)
	assert.Empty(t, ls)
	assert.Zero(t, cat.calls)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	nairobi := make(chan struct{})
	cat := &fakeCatalog{
		methods: map[string][]ShippingMethod{
			"Kenya|Nairobi": {{ID: "slow", Name: "Slow courier", Cost: 100}},
			"Kenya|Mombasa": {{ID: "fast", Name: "Coast courier", Cost: 500}},
		},
		blocks: map[string]chan struct{}{"Kenya|Nairobi": nairobi},
	}
	r := NewResolver(cat)

	done := make(chan struct{})
	go func() {
		r.RefreshShipping(context.Background(), "Kenya", "Nairobi") // parks
		close(done)
	}()
	require.Eventually(t, func() bool {
		cat.mu.Lock()
		defer cat.mu.Unlock()
		return cat.calls == 1
	}, time.Second, time.Millisecond, "Nairobi fetch should be in flight")

	// user moves on to Mombasa while Nairobi is still in flight
	r.RefreshShipping(context.Background(), "Kenya", "Mombasa")
	close(nairobi)
	<-done

	ms, err := r.ShippingMethods()
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "fast", ms[0].ID, "late Nairobi response must not clobber Mombasa")
}

func TestFetchErrorIsNonFatal(t *testing.T) {
	cat := &fakeCatalog{err: errors.New("upstream down")}
	r := NewResolver(cat)

	r.RefreshShipping(context.Background(), "Kenya", "Nairobi")
	ms, err := r.ShippingMethods()
	assert.Error(t, err)
	assert.Empty(t, ms)

	// recovery on the next refresh
	cat.mu.Lock()
	cat.err = nil
	cat.methods = map[string][]ShippingMethod{"Kenya|Nairobi": {{ID: "sm1", Name: "Courier"}}}
	cat.mu.Unlock()
	r.RefreshShipping(context.Background(), "Kenya", "Nairobi")
	ms, err = r.ShippingMethods()
	assert.NoError(t, err)
	assert.Len(t, ms, 1)
}
