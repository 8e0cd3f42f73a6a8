package models

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// LoginResponse returns the session token on successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

// CreateOrderRequest creates a solo order, or a shared one when Shared is
// set. Min and Max are ignored for solo orders.
type CreateOrderRequest struct {
	Item   string `json:"item"`
	Shared bool   `json:"shared"`
	Min    int    `json:"min,omitempty"`
	Max    int    `json:"max,omitempty"`
}

// OrderView is an order plus display-oriented derived fields.
type OrderView struct {
	Order
	SlotsLeft int `json:"slots_left"`
}

// BasketResponse is the aggregated view of all live orders.
type BasketResponse struct {
	Orders     []OrderView        `json:"orders"`
	Total      float64            `json:"total"`
	PerPerson  map[string]float64 `json:"per_person"`
	LastUpdate string             `json:"last_update"`
}

// UpdatesResponse reports the outcome of a refresh-gated change probe.
type UpdatesResponse struct {
	// Refreshed is true when the store was actually probed this cycle.
	Refreshed bool `json:"refreshed"`
	// Changed is true when new data appeared since the session's
	// last-seen timestamp. Only meaningful when Refreshed is true.
	Changed bool `json:"changed"`
	// LastUpdate is the latest created_at known to this session.
	LastUpdate string `json:"last_update"`
}

// ShareStateResponse reports which items have an open share configuration.
type ShareStateResponse struct {
	Open []string `json:"open"`
}
