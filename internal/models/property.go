package models

import "time"

type Property struct {
	PropertyID  string    `json:"property_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// PropertiesResult is what the lookaside helper hands to the list handler.
type PropertiesResult struct {
	Status     string     `json:"status"`
	StatusCode int        `json:"status_code"`
	Message    string     `json:"message"`
	Data       []Property `json:"data"`
}

type PropertyListResponse struct {
	Count int        `json:"count"`
	Data  []Property `json:"data"`
}

type CreatePropertyRequest struct {
	PropertyID  string  `json:"property_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
}
