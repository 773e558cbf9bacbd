package entity

import "time"

type SchemaType string

const (
	SchemaStructured SchemaType = "structured"
	SchemaFreeform   SchemaType = "freeform"
)

// Endpoint describes one named data collection (resume, ideas, ...). Endpoints
// are created by admins or the seed tool; the filtering engine only reads them.
type Endpoint struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	SchemaType  SchemaType `json:"schema_type"`
	IsPublic    bool       `json:"is_public"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
