package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// BalanceRepository puerto para consultar/mutar balances por producto+ubicación.
// Toda mutación pasa por la disciplina de bloqueo del executor de movimientos:
// ApplyDelta y SetLotInfo solo se llaman sobre filas bloqueadas con
// LockForUpdate dentro de la misma transacción.
type BalanceRepository interface {
	// Get devuelve el balance actual; si la fila no existe devuelve un balance
	// en cero sin persistir nada.
	Get(productID, locationID string) (*entity.Balance, error)
	// LockForUpdate garantiza que la fila exista (cantidad 0) y la bloquea
	// (SELECT FOR UPDATE). Solo tiene sentido dentro de una transacción.
	LockForUpdate(productID, locationID string) (*entity.Balance, error)
	// ApplyDelta suma delta (puede ser negativo) a la cantidad de la fila.
	ApplyDelta(productID, locationID string, delta int64) error
	// SetLotInfo actualiza los metadatos de lote de la fila (recepciones).
	SetLotInfo(productID, locationID string, batch *string, expiry *time.Time, cost *decimal.Decimal) error
	// ListByProduct y ListByLocation proyecciones de solo lectura para el
	// resumen de stock.
	ListByProduct(productID string) ([]*entity.Balance, error)
	ListByLocation(locationID string) ([]*entity.Balance, error)
}
