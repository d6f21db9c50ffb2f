package domain

// MenuItem is a dish offered by the restaurant.
type MenuItem struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Recipe   string  `json:"recipe,omitempty"`
	Image    string  `json:"image,omitempty"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// Review is a customer testimonial shown on the home page.
type Review struct {
	ID      string  `json:"_id"`
	Name    string  `json:"name"`
	Details string  `json:"details"`
	Rating  float64 `json:"rating"`
}
