package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Las ubicaciones requeridas dependen del motivo (tabla de políticas del
// dominio); aquí solo se valida forma, el motor valida semántica.
type RegisterMovementRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid4"`
	FromLocationID  *string          `json:"from_location_id,omitempty" validate:"omitempty,uuid4"`
	ToLocationID    *string          `json:"to_location_id,omitempty" validate:"omitempty,uuid4"`
	Quantity        int64            `json:"quantity" validate:"required"`
	Reason          string           `json:"reason" validate:"required"`
	OrderID         *string          `json:"order_id,omitempty" validate:"omitempty,uuid4"`
	ReferenceNumber *string          `json:"reference_number,omitempty"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// LocationSummary resumen de ubicación en respuestas de movimiento.
type LocationSummary struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// MovementResponse movimiento creado o listado.
type MovementResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	ProductName     string           `json:"product_name,omitempty"`
	ProductSKU      string           `json:"product_sku,omitempty"`
	FromLocation    *LocationSummary `json:"from_location,omitempty"`
	ToLocation      *LocationSummary `json:"to_location,omitempty"`
	FromLocationID  *string          `json:"from_location_id,omitempty"`
	ToLocationID    *string          `json:"to_location_id,omitempty"`
	Quantity        int64            `json:"quantity"`
	Reason          string           `json:"reason"`
	OrderID         *string          `json:"order_id,omitempty"`
	ReferenceNumber *string          `json:"reference_number,omitempty"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
}

// MovementListResponse página del historial de movimientos.
type MovementListResponse struct {
	Data []MovementResponse `json:"data"`
	Meta PageMeta           `json:"meta"`
}

// BalanceResponse balance actual de un producto en una ubicación.
type BalanceResponse struct {
	ProductID   string           `json:"product_id"`
	LocationID  string           `json:"location_id"`
	Quantity    int64            `json:"quantity"`
	BatchNumber *string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time       `json:"expiry_date,omitempty"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
