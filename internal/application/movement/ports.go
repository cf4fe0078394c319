package movement

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el asiento en el libro de
// movimientos y los deltas de balance se confirmen juntos o no se confirme
// nada (unidad atómica).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.BalanceRepository,
	) error) error
}
