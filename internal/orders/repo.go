package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItemInput struct {
	ProductID   string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Qty         int    `json:"quantity"`
	ImageRef    string `json:"image"`
}

type CreateOrderInput struct {
	ExternalID         string
	UserID             string
	Items              []ItemInput
	DeliveryType       string
	ShippingMethodName string
	ShippingCost       int
	PickupLocationID   string
	PickupLocationName string
	Address            Address
	Phone              string
	Email              string
	PaymentType        string
	MpesaNumber        string
}

type Repo struct{ DB *pgxpool.Pool }

var ErrInvalidTransition = errors.New("invalid status transition")

// CreateOrderTx: idempotent via external_id.
// - if external_id already exists -> return existing order_id + total (existed=true).
// The total is recomputed server-side from item prices plus shipping
// cost; the client's figure is never trusted.
func (r *Repo) CreateOrderTx(ctx context.Context, in CreateOrderInput) (orderID string, total int, existed bool, err error) {
	row := r.DB.QueryRow(ctx, `SELECT id, total FROM orders WHERE external_id=$1`, in.ExternalID)
	if err = row.Scan(&orderID, &total); err == nil {
		return orderID, total, true, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return "", 0, false, err
	}

	for _, it := range in.Items {
		if it.Qty <= 0 {
			return "", 0, false, fmt.Errorf("invalid qty for product %s", it.ProductID)
		}
		if it.Price < 0 {
			return "", 0, false, fmt.Errorf("invalid price for product %s", it.ProductID)
		}
		total += it.Price * it.Qty
	}
	if in.DeliveryType == "ship" {
		total += in.ShippingCost
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", 0, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderID = uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, external_id, user_id, status, delivery_type,
		                   shipping_method_name, shipping_cost,
		                   pickup_location_id, pickup_location_name,
		                   country, first_name, last_name, company, street, apartment,
		                   city, postal_code, instructions,
		                   phone, email, payment_type, mpesa_number, total)
		VALUES ($1,$2,$3,'PENDING',$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`, orderID, in.ExternalID, in.UserID, in.DeliveryType,
		in.ShippingMethodName, in.ShippingCost,
		in.PickupLocationID, in.PickupLocationName,
		in.Address.Country, in.Address.FirstName, in.Address.LastName, in.Address.Company,
		in.Address.Street, in.Address.Apartment, in.Address.City, in.Address.PostalCode,
		in.Address.Instructions,
		in.Phone, in.Email, in.PaymentType, in.MpesaNumber, total)
	if err != nil {
		return "", 0, false, err
	}

	for _, it := range in.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, name, description, price, qty, image_ref)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			orderID, it.ProductID, it.Name, it.Description, it.Price, it.Qty, it.ImageRef,
		)
		if err != nil {
			return "", 0, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", 0, false, err
	}
	return orderID, total, false, nil
}

func (r *Repo) GetOrder(ctx context.Context, orderID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, external_id, user_id, status, delivery_type,
		       shipping_method_name, shipping_cost,
		       pickup_location_id, pickup_location_name,
		       phone, email, payment_type, mpesa_number, total,
		       created_at, updated_at
		FROM orders WHERE id=$1`, orderID).Scan(
		&o.ID, &o.ExternalID, &o.UserID, &o.Status, &o.DeliveryType,
		&o.ShippingMethodName, &o.ShippingCost,
		&o.PickupLocationID, &o.PickupLocationName,
		&o.Phone, &o.Email, &o.PaymentType, &o.MpesaNumber, &o.Total,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) GetOrderStatus(ctx context.Context, orderID string) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&s)
	if err != nil {
		return "", err
	}
	return Status(s), nil
}

// UpdateStatus enforces the transition table; anything else is a bug
// upstream and gets ErrInvalidTransition.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, to Status) error {
	cur, err := r.GetOrderStatus(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(cur, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur, to)
	}
	_, err = r.DB.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, orderID, to)
	return err
}

func (r *Repo) SavePaymentNote(ctx context.Context, note PaymentNote) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO payment_notes(id, order_id, phone, reference)
		VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), note.OrderID, note.Phone, note.Reference)
	return err
}
