package entity

import "time"

// Location ubicación física de stock (bodega, sala, tienda).
type Location struct {
	ID          string
	Code        string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
