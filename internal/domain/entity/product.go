package entity

import "time"

// Product producto del catálogo. El stock se maneja vía movimientos, nunca
// editando el producto.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Description string
	CategoryID  *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
