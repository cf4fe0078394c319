package repository

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos. LocationID coincide
// con origen O destino.
type MovementFilter struct {
	ProductID  string
	LocationID string
	Reason     entity.Reason
	From       *time.Time
	To         *time.Time
}

// StockMovementRepository puerto de persistencia del libro de movimientos.
// Append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// List ordena por created_at DESC y luego id DESC para paginación estable.
	List(filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
	Count(filter MovementFilter) (int, error)
}
