package models

// Order status values. Status is fixed at creation and never transitions.
const (
	StatusSolo   = "solo"
	StatusShared = "shared"
)

// Order represents one order entry, solo or shared.
type Order struct {
	// EntryID is the unique identifier, item name plus a random token.
	EntryID string `json:"entry_id"`

	// Name is the user who created the order.
	Name string `json:"name"`

	// Item references a menu item by name.
	Item string `json:"item"`

	// Min and Max bound the accepted participant count for a shared
	// order; both 1 for a solo order.
	Min int `json:"min"`
	Max int `json:"max"`

	// Price is the item's price snapshotted at creation time.
	Price float64 `json:"price"`

	// Status is "solo" or "shared".
	Status string `json:"status"`

	// Participants is append-only, duplicates forbidden, initialized to
	// [owner]. The owner is never removed.
	Participants []string `json:"participants"`

	// CreatedAt is an RFC 3339 timestamp string.
	CreatedAt string `json:"created_at"`
}

// SlotsLeft returns how many participants can still join.
// Zero or negative means the order is full.
func (o *Order) SlotsLeft() int {
	return o.Max - len(o.Participants)
}

// HasParticipant reports whether the user is already in the participant list.
func (o *Order) HasParticipant(user string) bool {
	for _, p := range o.Participants {
		if p == user {
			return true
		}
	}
	return false
}
