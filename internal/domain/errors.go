package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Errores del motor de movimientos de stock.
	ErrInvalidQuantity   = errors.New("la cantidad debe ser un entero positivo")
	ErrInvalidReason     = errors.New("motivo de movimiento desconocido")
	ErrMissingLocation   = errors.New("falta la ubicación requerida por el motivo")
	ErrSameLocation      = errors.New("origen y destino deben ser distintos")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Errores de persistencia: ErrConflict es reintentable por el caller tras
	// releer balances; ErrStorageUnavailable se expone como 5xx y no se reintenta.
	ErrConflict           = errors.New("conflicto al confirmar la transacción")
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
)

// InsufficientStockError detalla un rechazo por stock insuficiente con la
// cantidad disponible vs la solicitada, para que el caller corrija la petición.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Available  int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en ubicación %s: disponible %d, solicitado %d",
		e.LocationID, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
