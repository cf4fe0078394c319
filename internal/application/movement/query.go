package movement

import (
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// QueryUseCase proyecciones de solo lectura sobre el libro de movimientos y
// los balances. Nunca muta estado; lee fuera de la transacción de escritura,
// por lo que jamás observa una transferencia a medio aplicar (MVCC).
type QueryUseCase struct {
	movRepo     repository.StockMovementRepository
	balanceRepo repository.BalanceRepository
}

// NewQueryUseCase construye el caso de uso de lectura.
func NewQueryUseCase(movRepo repository.StockMovementRepository, balanceRepo repository.BalanceRepository) *QueryUseCase {
	return &QueryUseCase{movRepo: movRepo, balanceRepo: balanceRepo}
}

// ListMovements historial paginado, orden created_at DESC, id DESC.
func (uc *QueryUseCase) ListMovements(filter repository.MovementFilter, page dto.PageRequest) ([]*entity.StockMovement, dto.PageMeta, error) {
	page.Normalize()
	total, err := uc.movRepo.Count(filter)
	if err != nil {
		return nil, dto.PageMeta{}, err
	}
	list, err := uc.movRepo.List(filter, page.Limit, page.Offset())
	if err != nil {
		return nil, dto.PageMeta{}, err
	}
	return list, dto.NewPageMeta(page.Page, page.Limit, total), nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *QueryUseCase) GetMovement(id string) (*entity.StockMovement, error) {
	mov, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}

// GetBalance balance actual en (producto, ubicación); cero si la coordenada
// nunca tuvo stock. Lecturas repetidas sin movimiento intermedio devuelven
// valores idénticos.
func (uc *QueryUseCase) GetBalance(productID, locationID string) (*entity.Balance, error) {
	return uc.balanceRepo.Get(productID, locationID)
}

// StockSummary balances de un producto en todas sus ubicaciones, o de una
// ubicación para todos sus productos. Exactamente uno de los dos filtros.
func (uc *QueryUseCase) StockSummary(productID, locationID string) ([]*entity.Balance, error) {
	switch {
	case productID != "" && locationID == "":
		return uc.balanceRepo.ListByProduct(productID)
	case locationID != "" && productID == "":
		return uc.balanceRepo.ListByLocation(locationID)
	default:
		return nil, domain.ErrInvalidInput
	}
}
