package orders

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepo serves the delivery-option lookups. Read-only; rows are
// maintained by staff tooling outside this service.
type CatalogRepo struct{ DB *pgxpool.Pool }

func (r *CatalogRepo) ListShippingMethods(ctx context.Context, country, city string) ([]ShippingMethod, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, cost, COALESCE(description, '')
		FROM shipping_methods
		WHERE country=$1 AND city=$2
		ORDER BY cost`, country, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ShippingMethod{}
	for rows.Next() {
		var m ShippingMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.Cost, &m.Description); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) ListPickupLocations(ctx context.Context, country string) ([]PickupLocation, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, address, cost
		FROM pickup_locations
		WHERE country=$1
		ORDER BY name`, country)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PickupLocation{}
	for rows.Next() {
		var l PickupLocation
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Cost); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
