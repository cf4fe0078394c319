package movement_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/movement"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// seedMovements agrega n ventas desde locA con timestamps crecientes.
func seedMovements(store *memStore, n int) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		from := locA
		store.movements = append(store.movements, &entity.StockMovement{
			ID:             fmt.Sprintf("mov-%03d", i),
			ProductID:      prodA,
			FromLocationID: &from,
			Quantity:       1,
			Reason:         entity.ReasonSale,
			CreatedBy:      "user-1",
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func newQueryFixture() (*memStore, *movement.QueryUseCase) {
	store := newMemStore()
	uc := movement.NewQueryUseCase(&memMovementRepo{store: store}, &memBalanceRepo{store: store})
	return store, uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Paginación del historial
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_MetaDePagina(t *testing.T) {
	store, uc := newQueryFixture()
	seedMovements(store, 45)

	list, meta, err := uc.ListMovements(repository.MovementFilter{}, dto.PageRequest{Page: 2, Limit: 20})
	require.NoError(t, err)

	assert.Len(t, list, 20)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 45, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
}

func TestListMovements_UltimaPaginaParcial(t *testing.T) {
	store, uc := newQueryFixture()
	seedMovements(store, 45)

	list, meta, err := uc.ListMovements(repository.MovementFilter{}, dto.PageRequest{Page: 3, Limit: 20})
	require.NoError(t, err)

	assert.Len(t, list, 5)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
}

func TestListMovements_PaginaFueraDeRango(t *testing.T) {
	store, uc := newQueryFixture()
	seedMovements(store, 5)

	list, meta, err := uc.ListMovements(repository.MovementFilter{}, dto.PageRequest{Page: 4, Limit: 20})
	require.NoError(t, err)

	assert.Empty(t, list, "página fuera de rango: lista vacía, no error")
	assert.Equal(t, 5, meta.Total)
	assert.False(t, meta.HasNext)
}

func TestListMovements_LimiteSeTopa(t *testing.T) {
	store, uc := newQueryFixture()
	seedMovements(store, 150)

	list, meta, err := uc.ListMovements(repository.MovementFilter{}, dto.PageRequest{Page: 1, Limit: 500})
	require.NoError(t, err)

	assert.Len(t, list, dto.MaxPageLimit, "el límite se topa en el máximo")
	assert.Equal(t, dto.MaxPageLimit, meta.Limit)
}

func TestListMovements_DefaultsDePaginacion(t *testing.T) {
	store, uc := newQueryFixture()
	seedMovements(store, 30)

	list, meta, err := uc.ListMovements(repository.MovementFilter{}, dto.PageRequest{})
	require.NoError(t, err)

	assert.Len(t, list, 20, "límite por defecto")
	assert.Equal(t, 1, meta.Page)
}

func TestListMovements_OrdenMasRecientePrimero(t *testing.T) {
	store, uc := newQueryFixture()
	seedMovements(store, 10)

	list, _, err := uc.ListMovements(repository.MovementFilter{}, dto.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 10)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt),
			"el historial va de más reciente a más antiguo")
	}
}

func TestListMovements_FiltroPorUbicacionCubreAmbosLados(t *testing.T) {
	store, uc := newQueryFixture()
	from, to := locA, locB
	store.movements = append(store.movements,
		&entity.StockMovement{ID: "m1", ProductID: prodA, FromLocationID: &from, Reason: entity.ReasonSale, Quantity: 1, CreatedAt: time.Now()},
		&entity.StockMovement{ID: "m2", ProductID: prodA, ToLocationID: &from, Reason: entity.ReasonPurchaseReceive, Quantity: 1, CreatedAt: time.Now()},
		&entity.StockMovement{ID: "m3", ProductID: prodA, FromLocationID: &to, Reason: entity.ReasonSale, Quantity: 1, CreatedAt: time.Now()},
	)

	list, meta, err := uc.ListMovements(repository.MovementFilter{LocationID: locA}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Total, "la ubicación coincide como origen o destino")
	assert.Len(t, list, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas puntuales
// ──────────────────────────────────────────────────────────────────────────────

func TestGetMovement_NoEncontrado(t *testing.T) {
	_, uc := newQueryFixture()
	_, err := uc.GetMovement("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un balance jamás tocado se lee como cero, y leerlo no lo materializa.
func TestGetBalance_CoordenadaVirgen(t *testing.T) {
	store, uc := newQueryFixture()

	b1, err := uc.GetBalance(prodA, locA)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b1.Quantity)
	assert.Empty(t, store.balances, "la lectura no persiste la fila")

	// idempotente: releer sin movimiento intermedio da lo mismo
	b2, err := uc.GetBalance(prodA, locA)
	require.NoError(t, err)
	assert.Equal(t, b1.Quantity, b2.Quantity)
}

func TestStockSummary_ExactamenteUnFiltro(t *testing.T) {
	_, uc := newQueryFixture()

	_, err := uc.StockSummary("", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.StockSummary(prodA, locA)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockSummary_PorProducto(t *testing.T) {
	store, uc := newQueryFixture()
	store.setBalance(prodA, locA, 3)
	store.setBalance(prodA, locB, 7)

	balances, err := uc.StockSummary(prodA, "")
	require.NoError(t, err)
	assert.Len(t, balances, 2)

	var total int64
	for _, b := range balances {
		total += b.Quantity
	}
	assert.Equal(t, int64(10), total)
}

// Las proyecciones nunca ven una transferencia a medio aplicar: o el
// movimiento completo (asiento + ambos deltas) o nada.
func TestQuery_TransferenciaAtomicaDesdeLectura(t *testing.T) {
	store, _ := newQueryFixture()
	store.setBalance(prodA, locA, 10)

	products := &memProductRepo{products: map[string]*entity.Product{
		prodA: {ID: prodA, SKU: "SKU-001", Name: "Azúcar 1kg", Active: true},
	}}
	locations := &memLocationRepo{locations: map[string]*entity.Location{
		locA: {ID: locA, Code: "BOD-A"},
		locB: {ID: locB, Code: "BOD-B"},
	}}
	record := movement.NewRecordMovementUseCase(&memTxRunner{store: store}, products, locations)
	query := movement.NewQueryUseCase(&memMovementRepo{store: store}, &memBalanceRepo{store: store})

	req := baseRequest(entity.ReasonInternalTransfer)
	req.FromLocationID = ptr(locA)
	req.ToLocationID = ptr(locB)
	req.Quantity = 4
	_, err := record.Record(context.Background(), req)
	require.NoError(t, err)

	a, _ := query.GetBalance(prodA, locA)
	b, _ := query.GetBalance(prodA, locB)
	_, meta, _ := query.ListMovements(repository.MovementFilter{ProductID: prodA}, dto.PageRequest{})

	assert.Equal(t, int64(6), a.Quantity)
	assert.Equal(t, int64(4), b.Quantity)
	assert.Equal(t, 1, meta.Total)
}
