package delivery

import (
	"context"
	"sync"
)

// Catalog is the upstream source of delivery options.
type Catalog interface {
	ShippingMethods(ctx context.Context, country, city string) ([]ShippingMethod, error)
	PickupLocations(ctx context.Context, country string) ([]PickupLocation, error)
}

type shipKey struct {
	country, city string
}

// Resolver caches the delivery options for the currently selected
// address inputs. Refreshes are keyed by their inputs: a response whose
// originating key no longer matches the current key is discarded, so a
// slow fetch for an abandoned (country, city) pair can never overwrite
// the options for the pair the user settled on. A nil catalog behaves
// like one with no options.
type Resolver struct {
	catalog Catalog

	mu        sync.Mutex
	shipCur   shipKey
	methods   []ShippingMethod
	shipErr   error
	pickupCur string
	locations []PickupLocation
	pickupErr error
}

func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// RefreshShipping fetches shipping methods for (country, city) and
// installs them if the key is still current when the fetch returns.
// Empty inputs short-circuit to an empty list with no network call.
func (r *Resolver) RefreshShipping(ctx context.Context, country, city string) {
	key := shipKey{country, city}
	r.mu.Lock()
	r.shipCur = key
	if r.catalog == nil || country == "" || city == "" {
		r.methods, r.shipErr = nil, nil
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	methods, err := r.catalog.ShippingMethods(ctx, country, city)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shipCur != key {
		return // stale response for an abandoned key
	}
	r.methods, r.shipErr = methods, err
}

// RefreshPickup fetches pickup locations for country, same keying rules.
func (r *Resolver) RefreshPickup(ctx context.Context, country string) {
	r.mu.Lock()
	r.pickupCur = country
	if r.catalog == nil || country == "" {
		r.locations, r.pickupErr = nil, nil
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	locations, err := r.catalog.PickupLocations(ctx, country)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pickupCur != country {
		return
	}
	r.locations, r.pickupErr = locations, err
}

// ShippingMethods returns the current options and the last fetch error.
// An error here is non-fatal; the caller blocks submission, not the UI.
func (r *Resolver) ShippingMethods() ([]ShippingMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.methods, r.shipErr
}

func (r *Resolver) PickupLocations() ([]PickupLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locations, r.pickupErr
}
