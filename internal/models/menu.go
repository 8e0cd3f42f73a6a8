package models

// DefaultMenuType is assigned to menu items that lack a type.
const DefaultMenuType = "main"

// MenuItem represents one entry in the menu definition.
type MenuItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Type  string  `json:"type,omitempty"`
}
