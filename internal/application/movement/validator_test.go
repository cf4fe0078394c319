package movement_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/movement"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

const (
	prodA = "11111111-1111-4111-8111-111111111111"
	locA  = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	locB  = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

func ptr(s string) *string { return &s }

func baseRequest(reason entity.Reason) movement.Request {
	return movement.Request{
		ProductID: prodA,
		Quantity:  5,
		Reason:    reason,
		UserID:    "user-1",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla 1: cantidad entera positiva
// ──────────────────────────────────────────────────────────────────────────────

func TestPlan_CantidadInvalida(t *testing.T) {
	for _, qty := range []int64{0, -1, -100} {
		req := baseRequest(entity.ReasonPurchaseReceive)
		req.ToLocationID = ptr(locA)
		req.Quantity = qty

		_, err := movement.Plan(req)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %d debe rechazarse", qty)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla 2: motivo conocido
// ──────────────────────────────────────────────────────────────────────────────

func TestPlan_MotivoDesconocido(t *testing.T) {
	req := baseRequest(entity.Reason("teleport"))
	req.ToLocationID = ptr(locA)

	_, err := movement.Plan(req)
	assert.ErrorIs(t, err, domain.ErrInvalidReason)
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla 3: tabla de políticas motivo → ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

// Cada motivo con su configuración válida: quién debita y quién acredita.
func TestPlan_TablaDeMotivos(t *testing.T) {
	cases := []struct {
		reason     entity.Reason
		from, to   *string
		wantDebit  bool
		wantCredit bool
	}{
		{entity.ReasonPurchaseReceive, nil, ptr(locA), false, true},
		{entity.ReasonReturnFromClient, nil, ptr(locA), false, true},
		{entity.ReasonSale, ptr(locA), nil, true, false},
		{entity.ReasonWaste, ptr(locA), nil, true, false},
		{entity.ReasonDamaged, ptr(locA), nil, true, false},
		{entity.ReasonExpired, ptr(locA), nil, true, false},
		{entity.ReasonReturnToSupplier, ptr(locA), nil, true, false},
		{entity.ReasonInternalTransfer, ptr(locA), ptr(locB), true, true},
		{entity.ReasonCountCorrection, ptr(locA), nil, true, false},
		{entity.ReasonCountCorrection, nil, ptr(locA), false, true},
	}
	for _, tc := range cases {
		req := baseRequest(tc.reason)
		req.FromLocationID = tc.from
		req.ToLocationID = tc.to

		eff, err := movement.Plan(req)
		require.NoError(t, err, "motivo %s con from=%v to=%v debe ser válido", tc.reason, tc.from, tc.to)
		assert.Equal(t, tc.wantDebit, eff.Debit != nil, "motivo %s: débito", tc.reason)
		assert.Equal(t, tc.wantCredit, eff.Credit != nil, "motivo %s: crédito", tc.reason)
	}
}

// Ubicación requerida ausente.
func TestPlan_UbicacionRequeridaAusente(t *testing.T) {
	cases := []struct {
		reason   entity.Reason
		from, to *string
	}{
		{entity.ReasonPurchaseReceive, nil, nil},
		{entity.ReasonSale, nil, nil},
		{entity.ReasonInternalTransfer, ptr(locA), nil},
		{entity.ReasonInternalTransfer, nil, ptr(locB)},
		{entity.ReasonCountCorrection, nil, nil}, // al menos una
	}
	for _, tc := range cases {
		req := baseRequest(tc.reason)
		req.FromLocationID = tc.from
		req.ToLocationID = tc.to

		_, err := movement.Plan(req)
		assert.ErrorIs(t, err, domain.ErrMissingLocation, "motivo %s", tc.reason)
	}
}

// Ubicación prohibida presente: la petición contradice la política.
func TestPlan_UbicacionProhibidaPresente(t *testing.T) {
	cases := []struct {
		reason   entity.Reason
		from, to *string
	}{
		{entity.ReasonPurchaseReceive, ptr(locA), ptr(locB)}, // from prohibido
		{entity.ReasonSale, ptr(locA), ptr(locB)},            // to prohibido
	}
	for _, tc := range cases {
		req := baseRequest(tc.reason)
		req.FromLocationID = tc.from
		req.ToLocationID = tc.to

		_, err := movement.Plan(req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "motivo %s", tc.reason)
	}
}

// Un puntero a cadena vacía cuenta como ausencia, no como ubicación "".
func TestPlan_CadenaVaciaEsAusencia(t *testing.T) {
	req := baseRequest(entity.ReasonPurchaseReceive)
	req.FromLocationID = ptr("")
	req.ToLocationID = ptr(locA)

	eff, err := movement.Plan(req)
	require.NoError(t, err)
	assert.Nil(t, eff.Debit)
	require.NotNil(t, eff.Credit)
	assert.Equal(t, locA, eff.Credit.LocationID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla 4: origen ≠ destino
// ──────────────────────────────────────────────────────────────────────────────

func TestPlan_TransferenciaMismaUbicacion(t *testing.T) {
	req := baseRequest(entity.ReasonInternalTransfer)
	req.FromLocationID = ptr(locA)
	req.ToLocationID = ptr(locA)

	_, err := movement.Plan(req)
	assert.ErrorIs(t, err, domain.ErrSameLocation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla 5: suficiencia de stock (Validate)
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_StockInsuficiente(t *testing.T) {
	req := baseRequest(entity.ReasonSale)
	req.FromLocationID = ptr(locA)
	req.Quantity = 15

	balances := map[entity.Coordinate]*entity.Balance{
		{ProductID: prodA, LocationID: locA}: {ProductID: prodA, LocationID: locA, Quantity: 10},
	}

	_, err := movement.Validate(req, balances)
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient), "debe ser InsufficientStockError")
	assert.Equal(t, int64(10), insufficient.Available)
	assert.Equal(t, int64(15), insufficient.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "debe envolver el sentinel")
}

// Coordenada ausente del mapa = balance cero: debitar de un balance jamás
// creado es insuficiencia, no NotFound.
func TestValidate_BalanceInexistenteEsCero(t *testing.T) {
	req := baseRequest(entity.ReasonSale)
	req.FromLocationID = ptr(locA)

	_, err := movement.Validate(req, map[entity.Coordinate]*entity.Balance{})

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, int64(0), insufficient.Available)
}

// Consumir exactamente todo el disponible es válido (deja el balance en cero).
func TestValidate_ConsumoExacto(t *testing.T) {
	req := baseRequest(entity.ReasonSale)
	req.FromLocationID = ptr(locA)
	req.Quantity = 10

	balances := map[entity.Coordinate]*entity.Balance{
		{ProductID: prodA, LocationID: locA}: {ProductID: prodA, LocationID: locA, Quantity: 10},
	}

	_, err := movement.Validate(req, balances)
	assert.NoError(t, err)
}

// La suficiencia solo aplica al lado que debita: recibir no la requiere.
func TestValidate_CreditoNoRequiereStock(t *testing.T) {
	req := baseRequest(entity.ReasonPurchaseReceive)
	req.ToLocationID = ptr(locA)

	_, err := movement.Validate(req, map[entity.Coordinate]*entity.Balance{})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden global de bloqueo
// ──────────────────────────────────────────────────────────────────────────────

// Las coordenadas de una transferencia salen siempre en el mismo orden,
// independiente del sentido del movimiento.
func TestEffect_CoordinatesOrdenEstable(t *testing.T) {
	ab := baseRequest(entity.ReasonInternalTransfer)
	ab.FromLocationID = ptr(locA)
	ab.ToLocationID = ptr(locB)

	ba := baseRequest(entity.ReasonInternalTransfer)
	ba.FromLocationID = ptr(locB)
	ba.ToLocationID = ptr(locA)

	effAB, err := movement.Plan(ab)
	require.NoError(t, err)
	effBA, err := movement.Plan(ba)
	require.NoError(t, err)

	assert.Equal(t, effAB.Coordinates(), effBA.Coordinates(),
		"transferencias opuestas deben bloquear en el mismo orden")
}
