package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reason motivo de negocio de un movimiento de stock. Determina qué balances
// afecta y en qué sentido (tabla de política más abajo).
type Reason string

const (
	ReasonPurchaseReceive  Reason = "purchase_receive"
	ReasonSale             Reason = "sale"
	ReasonWaste            Reason = "waste"
	ReasonDamaged          Reason = "damaged"
	ReasonExpired          Reason = "expired"
	ReasonCountCorrection  Reason = "count_correction"
	ReasonReturnFromClient Reason = "return_from_client"
	ReasonReturnToSupplier Reason = "return_to_supplier"
	ReasonInternalTransfer Reason = "internal_transfer"
)

// LocationRule indica si un motivo exige, prohíbe o deja opcional una ubicación.
type LocationRule int

const (
	LocationForbidden LocationRule = iota
	LocationRequired
	LocationOptional
)

// ReasonPolicy reglas de ubicaciones para un motivo. Si From está presente el
// balance origen se debita; si To está presente el balance destino se acredita.
type ReasonPolicy struct {
	From LocationRule
	To   LocationRule
}

// reasonPolicies tabla autoritativa motivo → efecto.
var reasonPolicies = map[Reason]ReasonPolicy{
	ReasonPurchaseReceive:  {From: LocationForbidden, To: LocationRequired},
	ReasonSale:             {From: LocationRequired, To: LocationForbidden},
	ReasonWaste:            {From: LocationRequired, To: LocationForbidden},
	ReasonDamaged:          {From: LocationRequired, To: LocationForbidden},
	ReasonExpired:          {From: LocationRequired, To: LocationForbidden},
	ReasonReturnToSupplier: {From: LocationRequired, To: LocationForbidden},
	ReasonReturnFromClient: {From: LocationForbidden, To: LocationRequired},
	ReasonInternalTransfer: {From: LocationRequired, To: LocationRequired},
	// count_correction admite cualquiera de las dos, pero al menos una.
	ReasonCountCorrection: {From: LocationOptional, To: LocationOptional},
}

// PolicyFor devuelve la política del motivo; ok=false si el motivo no existe.
func PolicyFor(r Reason) (ReasonPolicy, bool) {
	p, ok := reasonPolicies[r]
	return p, ok
}

// StockMovement registro inmutable de un movimiento de stock (libro mayor).
// Las correcciones son movimientos nuevos (count_correction), nunca ediciones.
type StockMovement struct {
	ID              string
	ProductID       string
	FromLocationID  *string
	ToLocationID    *string
	Quantity        int64 // siempre > 0; el signo lo da la política del motivo
	Reason          Reason
	OrderID         *string
	ReferenceNumber *string
	CostPerUnit     *decimal.Decimal
	Notes           string
	CreatedBy       string // UserID
	CreatedAt       time.Time
}

// IsTransfer indica si el movimiento afecta dos balances.
func (m *StockMovement) IsTransfer() bool {
	return m.FromLocationID != nil && m.ToLocationID != nil
}
