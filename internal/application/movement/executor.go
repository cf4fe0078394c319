package movement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// RecordMovementUseCase registra movimientos de stock de forma transaccional.
// Bloquea las filas de balance involucradas (SELECT FOR UPDATE) en orden
// global fijo, valida bajo el bloqueo y confirma deltas + asiento del libro
// como una sola unidad. A lo sumo una mutación en vuelo por coordenada;
// movimientos sobre coordenadas disjuntas avanzan en paralelo.
type RecordMovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *RecordMovementUseCase {
	return &RecordMovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// RecordedMovement movimiento creado junto con el producto y las ubicaciones
// resueltas, para que la capa HTTP arme la respuesta sin volver a consultar.
type RecordedMovement struct {
	Movement *entity.StockMovement
	Product  *entity.Product
	From     *entity.Location
	To       *entity.Location
}

// Record ejecuta el algoritmo del motor:
//  1. valida la parte estructural y deriva las coordenadas afectadas;
//  2. verifica que producto y ubicaciones existan;
//  3. en una transacción, bloquea las coordenadas en orden global
//     (ubicación, producto), re-valida con los balances bloqueados, aplica
//     los deltas y agrega el asiento al libro;
//  4. Commit o Rollback: un rechazo no persiste nada, ni siquiera un intento
//     fallido (los rechazos no son movimientos).
//
// La operación no es idempotente por request-id: tras un fallo ambiguo el
// caller debe releer el balance antes de reenviar.
func (uc *RecordMovementUseCase) Record(ctx context.Context, req Request) (*RecordedMovement, error) {
	eff, err := Plan(req)
	if err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	fromLoc, err := uc.resolveLocation(req.FromLocationID)
	if err != nil {
		return nil, err
	}
	toLoc, err := uc.resolveLocation(req.ToLocationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		ProductID:       req.ProductID,
		FromLocationID:  req.FromLocationID,
		ToLocationID:    req.ToLocationID,
		Quantity:        req.Quantity,
		Reason:          req.Reason,
		OrderID:         req.OrderID,
		ReferenceNumber: req.ReferenceNumber,
		CostPerUnit:     req.CostPerUnit,
		Notes:           req.Notes,
		CreatedBy:       req.UserID,
		CreatedAt:       now,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.BalanceRepository,
	) error {
		// Bloqueo ordenado: evita deadlock cuando dos transferencias tocan el
		// mismo par de ubicaciones en sentidos opuestos.
		balances := make(map[entity.Coordinate]*entity.Balance, 2)
		for _, coord := range eff.Coordinates() {
			b, err := balanceRepo.LockForUpdate(coord.ProductID, coord.LocationID)
			if err != nil {
				return err
			}
			balances[coord] = b
		}

		eff, err := Validate(req, balances)
		if err != nil {
			return err
		}

		if eff.Debit != nil {
			if err := balanceRepo.ApplyDelta(eff.Debit.ProductID, eff.Debit.LocationID, -req.Quantity); err != nil {
				return err
			}
		}
		if eff.Credit != nil {
			if err := balanceRepo.ApplyDelta(eff.Credit.ProductID, eff.Credit.LocationID, req.Quantity); err != nil {
				return err
			}
			if req.CostPerUnit != nil {
				if err := balanceRepo.SetLotInfo(eff.Credit.ProductID, eff.Credit.LocationID, nil, nil, req.CostPerUnit); err != nil {
					return err
				}
			}
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return &RecordedMovement{Movement: mov, Product: product, From: fromLoc, To: toLoc}, nil
}

func (uc *RecordMovementUseCase) resolveLocation(id *string) (*entity.Location, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	loc, err := uc.locationRepo.GetByID(*id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return loc, nil
}
