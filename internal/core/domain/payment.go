package domain

import "time"

const PaymentStatusSettled = "settled"

// Payment records a completed checkout. It is written once and never updated.
type Payment struct {
	ID            string    `json:"_id"`
	Email         string    `json:"email"`
	Price         float64   `json:"price"`
	TransactionID string    `json:"transactionId,omitempty"`
	CartItemIDs   []string  `json:"cartIds"`
	MenuItemIDs   []string  `json:"menuItemIds"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"date"`
}

// SummaryStats is the admin dashboard headline.
type SummaryStats struct {
	Revenue   float64 `json:"revenue"`
	Users     int64   `json:"users"`
	MenuItems int64   `json:"menuItems"`
	Orders    int64   `json:"orders"`
}

// OrderLine is one purchased menu item joined with its category.
type OrderLine struct {
	Category string
	Price    float64
}

// CategoryStat aggregates order lines of a single menu category.
type CategoryStat struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	Total    float64 `json:"total"`
}
