package cart

// LineItem is one cart row. Price is in whole KES, the base currency;
// display-currency conversion never touches it.
type LineItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Qty         int    `json:"quantity"`
	ImageRef    string `json:"image"`
	Description string `json:"description,omitempty"`
	LeadTime    string `json:"leadTime,omitempty"`
}

// Snapshot is the persisted form of the cart, written whole on every
// mutation so a reload restores exactly what was in memory.
type Snapshot struct {
	Items []LineItem `json:"items"`
}
