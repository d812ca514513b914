package orders

import "time"

type Order struct {
	ID                 string    `json:"id"`
	ExternalID         string    `json:"externalId"`
	UserID             string    `json:"userId"`
	Status             Status    `json:"status"`       // see status.go
	DeliveryType       string    `json:"deliveryType"` // ship | pickup
	ShippingMethodName string    `json:"shippingMethodName,omitempty"`
	ShippingCost       int       `json:"shippingCost"`
	PickupLocationID   string    `json:"pickupLocationId,omitempty"`
	PickupLocationName string    `json:"pickupLocationName,omitempty"`
	PaymentType        string    `json:"paymentType"` // mpesa | on_delivery
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	MpesaNumber        string    `json:"mpesaNumber,omitempty"`
	Total              int       `json:"total"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	Name        string
	Description string
	Price       int
	Qty         int
	ImageRef    string
}

type Address struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"-"`
	Country      string    `json:"country"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Company      string    `json:"company"`
	Street       string    `json:"street"`
	Apartment    string    `json:"apartment"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postalCode"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

type ShippingMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cost        int    `json:"costKes"`
	Description string `json:"description,omitempty"`
}

type PickupLocation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Cost    int    `json:"costKes"`
}

// PaymentNote is a manual "I have paid" notice, reconciled by staff.
type PaymentNote struct {
	ID        string
	OrderID   string
	Phone     string
	Reference string
	CreatedAt time.Time
}
