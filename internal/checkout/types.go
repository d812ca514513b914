package checkout

type DeliveryType string

const (
	DeliveryShip   DeliveryType = "ship"
	DeliveryPickup DeliveryType = "pickup"
)

type PaymentMethod string

const (
	PaymentMpesa      PaymentMethod = "mpesa"
	PaymentOnDelivery PaymentMethod = "on_delivery"
)

// Address is the checkout form's address block. Which fields are
// required depends on the delivery type; see Validate.
type Address struct {
	Country      string `json:"country"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Company      string `json:"company"`
	Street       string `json:"street"`
	Apartment    string `json:"apartment"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Instructions string `json:"instructions"`
}
