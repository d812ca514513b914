package checkout

import "github.com/Jadline/MinoxidilKe-sub001/internal/cart"

// DraftItem is a cart line frozen into a submission payload.
type DraftItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Qty         int    `json:"quantity"`
	ImageRef    string `json:"image"`
}

// OrderDraft is the fully validated, submission-ready payload. Every
// field is enumerated explicitly; optional fields default to "" rather
// than being omitted, so the wire shape is stable. A draft is built per
// submission attempt and superseded by any field change; ExternalID is
// reused on a pure retry of the same draft so the backend can dedup an
// ambiguous-failure resubmit.
type OrderDraft struct {
	ExternalID string      `json:"externalId"`
	Items      []DraftItem `json:"items"`

	DeliveryType       DeliveryType `json:"deliveryType"`
	ShippingMethodName string       `json:"shippingMethodName"`
	ShippingCost       int          `json:"shippingCost"`
	PickupLocationID   string       `json:"pickupLocationId"`
	PickupLocationName string       `json:"pickupLocationName"`

	Address Address `json:"address"`
	// Phone is the canonical dialCode+national form from NormalizePhone.
	Phone string `json:"phone"`
	Email string `json:"email"`

	PaymentType PaymentMethod `json:"paymentType"`
	// MpesaNumber is the number the user claims to pay from; empty for
	// pay-on-delivery.
	MpesaNumber string `json:"mpesaNumber"`

	// Total = subtotal + shipping cost (ship only), in base currency.
	Total int `json:"total"`
}

func draftItems(items []cart.LineItem) []DraftItem {
	out := make([]DraftItem, 0, len(items))
	for _, it := range items {
		out = append(out, DraftItem{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Qty:         it.Qty,
			ImageRef:    it.ImageRef,
		})
	}
	return out
}
