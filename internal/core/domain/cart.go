package domain

// CartEntry is a single selected menu item in a user's cart. Repeated adds of the
// same menu item produce independent entries.
type CartEntry struct {
	ID         string  `json:"_id"`
	Email      string  `json:"email"`
	MenuItemID string  `json:"menuId"`
	Name       string  `json:"name"`
	Image      string  `json:"image,omitempty"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity,omitempty"`
}
