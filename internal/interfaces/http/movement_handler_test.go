package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/auth"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/movement"
	"github.com/tu-usuario/almacen-api/internal/application/usecase"
	"github.com/tu-usuario/almacen-api/internal/auditlog"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	infrapdf "github.com/tu-usuario/almacen-api/internal/infrastructure/pdf"
	apphttp "github.com/tu-usuario/almacen-api/internal/interfaces/http"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

const (
	testProductID  = "11111111-1111-4111-8111-111111111111"
	testLocationA  = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	testLocationB  = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria para el stack HTTP completo
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	balances  map[entity.Coordinate]*entity.Balance
	movements []*entity.StockMovement
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	users     map[string]*entity.User
	audit     []*entity.AuditEntry
}

type fakeTx struct{ store *fakeStore }

func (r *fakeTx) Run(_ context.Context, fn func(repository.StockMovementRepository, repository.BalanceRepository) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snapshot := make(map[entity.Coordinate]*entity.Balance, len(r.store.balances))
	for k, v := range r.store.balances {
		c := *v
		snapshot[k] = &c
	}
	movCount := len(r.store.movements)

	if err := fn(&fakeMovRepo{r.store}, &fakeBalRepo{r.store}); err != nil {
		r.store.balances = snapshot
		r.store.movements = r.store.movements[:movCount]
		return err
	}
	return nil
}

type fakeBalRepo struct{ store *fakeStore }

func (r *fakeBalRepo) Get(productID, locationID string) (*entity.Balance, error) {
	if b, ok := r.store.balances[entity.Coordinate{ProductID: productID, LocationID: locationID}]; ok {
		c := *b
		return &c, nil
	}
	return &entity.Balance{ProductID: productID, LocationID: locationID}, nil
}

func (r *fakeBalRepo) LockForUpdate(productID, locationID string) (*entity.Balance, error) {
	coord := entity.Coordinate{ProductID: productID, LocationID: locationID}
	if _, ok := r.store.balances[coord]; !ok {
		r.store.balances[coord] = &entity.Balance{ProductID: productID, LocationID: locationID}
	}
	c := *r.store.balances[coord]
	return &c, nil
}

func (r *fakeBalRepo) ApplyDelta(productID, locationID string, delta int64) error {
	b := r.store.balances[entity.Coordinate{ProductID: productID, LocationID: locationID}]
	b.Quantity += delta
	return nil
}

func (r *fakeBalRepo) SetLotInfo(productID, locationID string, batch *string, expiry *time.Time, cost *decimal.Decimal) error {
	b := r.store.balances[entity.Coordinate{ProductID: productID, LocationID: locationID}]
	if cost != nil {
		b.CostPerUnit = cost
	}
	return nil
}

func (r *fakeBalRepo) ListByProduct(productID string) ([]*entity.Balance, error) {
	var out []*entity.Balance
	for _, b := range r.store.balances {
		if b.ProductID == productID {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeBalRepo) ListByLocation(locationID string) ([]*entity.Balance, error) {
	var out []*entity.Balance
	for _, b := range r.store.balances {
		if b.LocationID == locationID {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeMovRepo struct{ store *fakeStore }

func (r *fakeMovRepo) Create(mov *entity.StockMovement) error {
	c := *mov
	r.store.movements = append(r.store.movements, &c)
	return nil
}

func (r *fakeMovRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeMovRepo) List(_ repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		c := *r.store.movements[i]
		out = append(out, &c)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMovRepo) Count(repository.MovementFilter) (int, error) {
	return len(r.store.movements), nil
}

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.store.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Update(p *entity.Product) error { r.store.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Delete(id string) error         { delete(r.store.products, id); return nil }
func (r *fakeProductRepo) Count(string) (int, error)      { return len(r.store.products), nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.store.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) List(string, int, int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		out = append(out, p)
	}
	return out, nil
}

type fakeLocationRepo struct{ store *fakeStore }

func (r *fakeLocationRepo) Create(l *entity.Location) error { r.store.locations[l.ID] = l; return nil }
func (r *fakeLocationRepo) Update(l *entity.Location) error { r.store.locations[l.ID] = l; return nil }
func (r *fakeLocationRepo) Delete(id string) error          { delete(r.store.locations, id); return nil }
func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.store.locations[id], nil
}
func (r *fakeLocationRepo) GetByCode(code string) (*entity.Location, error) {
	for _, l := range r.store.locations {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, nil
}
func (r *fakeLocationRepo) List(int, int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.store.locations {
		out = append(out, l)
	}
	return out, nil
}

type fakeCategoryRepo struct{}

func (fakeCategoryRepo) Create(*entity.Category) error                  { return nil }
func (fakeCategoryRepo) GetByID(string) (*entity.Category, error)       { return nil, nil }
func (fakeCategoryRepo) List(int, int) ([]*entity.Category, error)      { return nil, nil }
func (fakeCategoryRepo) Update(*entity.Category) error                  { return nil }
func (fakeCategoryRepo) Delete(string) error                            { return nil }

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(u *entity.User) error { r.store.users[u.ID] = u; return nil }
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return r.store.users[id], nil
}
func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeAuditRepo struct{ store *fakeStore }

func (r *fakeAuditRepo) Create(e *entity.AuditEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audit = append(r.store.audit, e)
	return nil
}

func (r *fakeAuditRepo) List(limit, offset int) ([]*entity.AuditEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := append([]*entity.AuditEntry{}, r.store.audit...)
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// buildAPI arma la aplicación completa sobre los dobles en memoria.
func buildAPI(store *fakeStore) *fiber.App {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	auditSink := auditlog.NewSink(&fakeAuditRepo{store}, log)

	productRepo := &fakeProductRepo{store}
	locationRepo := &fakeLocationRepo{store}
	movRepo := &fakeMovRepo{store}
	balRepo := &fakeBalRepo{store}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:      usecase.NewProductUseCase(productRepo, fakeCategoryRepo{}),
		CategoryUC:     usecase.NewCategoryUseCase(fakeCategoryRepo{}),
		LocationUC:     usecase.NewLocationUseCase(locationRepo),
		RecordMovement: movement.NewRecordMovementUseCase(&fakeTx{store}, productRepo, locationRepo),
		MovementQuery:  movement.NewQueryUseCase(movRepo, balRepo),
		MovementReport: movement.NewReportUseCase(movRepo, productRepo, locationRepo,
			infrapdf.NewMarotoReportGenerator(), movement.ReportBranding{CompanyName: "Almacén Test"}),
		AuthUC:    auth.NewAuthUseCase(&fakeUserRepo{store}, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		AuditRepo: &fakeAuditRepo{store},
		AuditSink: auditSink,
		Branding:  dto.BrandingResponse{AppName: "almacen-api", CompanyName: "Almacén Test"},
		JWTSecret: testJWTSecret,
	})
	return app
}

func newAPIFixture() (*fakeStore, *fiber.App) {
	store := &fakeStore{
		balances: map[entity.Coordinate]*entity.Balance{},
		products: map[string]*entity.Product{
			testProductID: {ID: testProductID, SKU: "SKU-001", Name: "Azúcar 1kg", Active: true},
		},
		locations: map[string]*entity.Location{
			testLocationA: {ID: testLocationA, Code: "BOD-A", Name: "Bodega A"},
			testLocationB: {ID: testLocationB, Code: "BOD-B", Name: "Bodega B"},
		},
		users: map[string]*entity.User{},
	}
	return store, buildAPI(store)
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any, token string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getPath(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/inventory/movements
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_Recepcion201(t *testing.T) {
	store, app := newAPIFixture()
	token := tokenForRole(t, "bodeguero")

	resp := postJSON(t, app, "/api/inventory/movements", dto.RegisterMovementRequest{
		ProductID:    testProductID,
		ToLocationID: &[]string{testLocationA}[0],
		Quantity:     5,
		Reason:       "purchase_receive",
	}, token)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.MovementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, "purchase_receive", body.Reason)
	assert.Equal(t, "SKU-001", body.ProductSKU)
	require.NotNil(t, body.ToLocation)
	assert.Equal(t, "BOD-A", body.ToLocation.Code)
	assert.Equal(t, testUserID, body.CreatedBy, "el autor sale del token, no del body")

	assert.Equal(t, int64(5),
		store.balances[entity.Coordinate{ProductID: testProductID, LocationID: testLocationA}].Quantity)
}

func TestRegisterMovement_Insuficiencia409(t *testing.T) {
	store, app := newAPIFixture()
	store.balances[entity.Coordinate{ProductID: testProductID, LocationID: testLocationA}] =
		&entity.Balance{ProductID: testProductID, LocationID: testLocationA, Quantity: 10}

	resp := postJSON(t, app, "/api/inventory/movements", dto.RegisterMovementRequest{
		ProductID:      testProductID,
		FromLocationID: &[]string{testLocationA}[0],
		Quantity:       15,
		Reason:         "sale",
	}, tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")
	assert.Contains(t, string(body), "disponible 10", "el mensaje debe traer lo disponible")
	assert.Contains(t, string(body), "solicitado 15", "el mensaje debe traer lo solicitado")

	assert.Empty(t, store.movements, "el rechazo no escribe en el libro")
}

func TestRegisterMovement_Errores400(t *testing.T) {
	_, app := newAPIFixture()
	token := tokenForRole(t, "bodeguero")
	locA := testLocationA

	cases := []struct {
		name     string
		payload  dto.RegisterMovementRequest
		wantCode string
	}{
		{
			name:     "cantidad cero",
			payload:  dto.RegisterMovementRequest{ProductID: testProductID, ToLocationID: &locA, Quantity: 0, Reason: "purchase_receive"},
			wantCode: "VALIDATION", // lo corta el validator de forma antes del motor
		},
		{
			name:     "motivo desconocido",
			payload:  dto.RegisterMovementRequest{ProductID: testProductID, ToLocationID: &locA, Quantity: 1, Reason: "teleport"},
			wantCode: "INVALID_REASON",
		},
		{
			name:     "ubicación requerida ausente",
			payload:  dto.RegisterMovementRequest{ProductID: testProductID, Quantity: 1, Reason: "purchase_receive"},
			wantCode: "MISSING_LOCATION",
		},
		{
			name: "transferencia misma ubicación",
			payload: dto.RegisterMovementRequest{
				ProductID: testProductID, FromLocationID: &locA, ToLocationID: &locA,
				Quantity: 1, Reason: "internal_transfer",
			},
			wantCode: "SAME_LOCATION",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, app, "/api/inventory/movements", tc.payload, token)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.wantCode)
		})
	}
}

func TestRegisterMovement_SinToken401(t *testing.T) {
	_, app := newAPIFixture()
	resp := postJSON(t, app, "/api/inventory/movements", dto.RegisterMovementRequest{}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/inventory/*
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_PaginacionHTTP(t *testing.T) {
	store, app := newAPIFixture()
	from := testLocationA
	for i := 0; i < 45; i++ {
		store.movements = append(store.movements, &entity.StockMovement{
			ID: fmt.Sprintf("mov-%03d", i), ProductID: testProductID,
			FromLocationID: &from, Quantity: 1, Reason: entity.ReasonSale,
			CreatedBy: testUserID, CreatedAt: time.Now(),
		})
	}

	resp := getPath(t, app, "/api/inventory/movements?page=2&limit=20", tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.MovementListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Data, 20)
	assert.Equal(t, 45, body.Meta.Total)
	assert.Equal(t, 3, body.Meta.TotalPages)
	assert.True(t, body.Meta.HasNext)
	assert.True(t, body.Meta.HasPrevious)
}

func TestGetBalance_ParametrosRequeridos(t *testing.T) {
	_, app := newAPIFixture()
	resp := getPath(t, app, "/api/inventory/balance?product_id="+testProductID, tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetBalance_CoordenadaVirgenEsCero(t *testing.T) {
	_, app := newAPIFixture()
	resp := getPath(t, app,
		"/api/inventory/balance?product_id="+testProductID+"&location_id="+testLocationA,
		tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.BalanceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(0), body.Quantity)
}

func TestStockSummary_AmbosFiltros400(t *testing.T) {
	_, app := newAPIFixture()
	resp := getPath(t, app,
		"/api/inventory/stock?product_id="+testProductID+"&location_id="+testLocationA,
		tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovementReport_DevuelvePDF(t *testing.T) {
	store, app := newAPIFixture()
	to := testLocationA
	store.movements = append(store.movements, &entity.StockMovement{
		ID: "mov-001", ProductID: testProductID, ToLocationID: &to,
		Quantity: 5, Reason: entity.ReasonPurchaseReceive,
		CreatedBy: testUserID, CreatedAt: time.Now(),
	})

	resp := getPath(t, app, "/api/inventory/movements/report", tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")), "el cuerpo debe ser un PDF")
}

// ──────────────────────────────────────────────────────────────────────────────
// Audit log
// ──────────────────────────────────────────────────────────────────────────────

func TestAudit_SoloAdmin(t *testing.T) {
	_, app := newAPIFixture()

	resp := getPath(t, app, "/api/audit", tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp2 := getPath(t, app, "/api/audit", tokenForRole(t, "admin"))
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
