package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AddressRepo is the address book. Saving is best-effort relative to
// order creation: a failed save never fails an order.
type AddressRepo struct{ DB *pgxpool.Pool }

func (r *AddressRepo) Save(ctx context.Context, a Address) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO addresses(id, user_id, country, first_name, last_name, company,
		                      street, apartment, city, postal_code, phone, email, instructions)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		id, a.UserID, a.Country, a.FirstName, a.LastName, a.Company,
		a.Street, a.Apartment, a.City, a.PostalCode, a.Phone, a.Email, a.Instructions)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *AddressRepo) List(ctx context.Context, userID string) ([]Address, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, country, first_name, last_name, company, street, apartment,
		       city, postal_code, phone, email, instructions, created_at
		FROM addresses
		WHERE user_id=$1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Address{}
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.Country, &a.FirstName, &a.LastName, &a.Company,
			&a.Street, &a.Apartment, &a.City, &a.PostalCode, &a.Phone, &a.Email,
			&a.Instructions, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.UserID = userID
		out = append(out, a)
	}
	return out, rows.Err()
}
