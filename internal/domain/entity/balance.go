package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coordinate identifica una fila de balance: (producto, ubicación).
type Coordinate struct {
	ProductID  string
	LocationID string
}

// Less define el orden global de adquisición de bloqueos: primero por
// ubicación y luego por producto. Todo movimiento que toque dos coordenadas
// las bloquea en este orden para evitar deadlocks cruzados.
func (c Coordinate) Less(o Coordinate) bool {
	if c.LocationID != o.LocationID {
		return c.LocationID < o.LocationID
	}
	return c.ProductID < o.ProductID
}

// Balance cantidad materializada de un producto en una ubicación. Es la única
// fuente de verdad de "cuánto hay de X en Y"; solo la muta el executor de
// movimientos. Nunca se borra: una fila en cero distingue "agotado" de
// "nunca almacenado".
type Balance struct {
	ProductID   string
	LocationID  string
	Quantity    int64 // invariante: nunca negativa
	BatchNumber *string
	ExpiryDate  *time.Time
	CostPerUnit *decimal.Decimal
	UpdatedAt   time.Time
}

// Coordinate devuelve la coordenada de la fila.
func (b *Balance) Coordinate() Coordinate {
	return Coordinate{ProductID: b.ProductID, LocationID: b.LocationID}
}
