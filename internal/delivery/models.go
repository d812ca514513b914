package delivery

// ShippingMethod is a courier option for a (country, city) pair.
// Cost is in whole KES, added to the order total when shipping.
type ShippingMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cost        int    `json:"costKes"`
	Description string `json:"description,omitempty"`
}

// PickupLocation is a collection point for a country. Cost is usually 0.
type PickupLocation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Cost    int    `json:"costKes"`
}
