package handler

import "encoding/json"

// ErrorResponse is the envelope rendered for every failed request.
type ErrorResponse struct {
	Error   bool   `json:"error" example:"true"`
	Message string `json:"message" example:"unauthorized access"`
}

// --- token ---

type tokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// --- store result shapes ---

type insertResponse struct {
	InsertedID *string `json:"insertedId"`
}

type deleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

type registerResponse struct {
	Message    string  `json:"message,omitempty"`
	InsertedID *string `json:"insertedId"`
}

type adminResponse struct {
	Admin bool `json:"admin"`
}

// --- users ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	PhotoURL string `json:"photoURL"`
}

// --- menu / cart ---

type menuItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Recipe   string  `json:"recipe"`
	Image    string  `json:"image"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price" validate:"gt=0"`
}

type cartEntryRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	MenuID   string  `json:"menuId" validate:"required"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

// --- checkout ---

// price accepts both JSON numbers and numeric strings; it is parsed by the
// checkout service so malformed values surface as invalid amounts.
type paymentIntentRequest struct {
	Price json.RawMessage `json:"price" swaggertype:"number"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type paymentRequest struct {
	Email         string          `json:"email"`
	Price         json.RawMessage `json:"price" swaggertype:"number"`
	TransactionID string          `json:"transactionId"`
	CartIDs       []string        `json:"cartIds"`
	MenuItemIDs   []string        `json:"menuItemIds"`
}

type settlementResponse struct {
	InsertResult   insertResponse `json:"insertResult"`
	DeleteResult   deleteResponse `json:"deleteResult"`
	CleanupPending bool           `json:"cleanupPending"`
	// ReconciliationRequired means leftover cart entries were not queued and
	// will only be removed by the next startup replay.
	ReconciliationRequired bool `json:"reconciliationRequired"`
}

func stringPtr(s string) *string {
	return &s
}
