package movement

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// maxReportRows tope de filas por reporte PDF.
const maxReportRows = 500

// ReportRow fila del reporte de movimientos con los nombres ya resueltos.
type ReportRow struct {
	CreatedAt   time.Time
	ProductSKU  string
	ProductName string
	Reason      entity.Reason
	FromCode    string // vacío si no aplica
	ToCode      string // vacío si no aplica
	Quantity    int64
	CreatedBy   string
}

// ReportBranding identidad visual del documento.
type ReportBranding struct {
	CompanyName  string
	PrimaryColor string // hex, ej. "#00467F"
}

// ReportGenerator puerto de salida para materializar el reporte.
type ReportGenerator interface {
	GenerateMovementReport(ctx context.Context, branding ReportBranding, rows []ReportRow) ([]byte, error)
}

// ReportUseCase arma el reporte PDF del historial de movimientos.
type ReportUseCase struct {
	movRepo      repository.StockMovementRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	generator    ReportGenerator
	branding     ReportBranding
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	generator ReportGenerator,
	branding ReportBranding,
) *ReportUseCase {
	return &ReportUseCase{
		movRepo:      movRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		generator:    generator,
		branding:     branding,
	}
}

// BuildMovementReport genera el PDF con los movimientos que cumplen el filtro,
// más recientes primero.
func (uc *ReportUseCase) BuildMovementReport(ctx context.Context, filter repository.MovementFilter) ([]byte, error) {
	movements, err := uc.movRepo.List(filter, maxReportRows, 0)
	if err != nil {
		return nil, err
	}

	// Cachés locales: un reporte suele repetir pocos productos y ubicaciones.
	products := map[string]*entity.Product{}
	locations := map[string]*entity.Location{}

	rows := make([]ReportRow, 0, len(movements))
	for _, mov := range movements {
		row := ReportRow{
			CreatedAt: mov.CreatedAt,
			Reason:    mov.Reason,
			Quantity:  mov.Quantity,
			CreatedBy: mov.CreatedBy,
		}
		if p, err := uc.product(products, mov.ProductID); err != nil {
			return nil, err
		} else if p != nil {
			row.ProductSKU = p.SKU
			row.ProductName = p.Name
		}
		if code, err := uc.locationCode(locations, mov.FromLocationID); err != nil {
			return nil, err
		} else {
			row.FromCode = code
		}
		if code, err := uc.locationCode(locations, mov.ToLocationID); err != nil {
			return nil, err
		} else {
			row.ToCode = code
		}
		rows = append(rows, row)
	}

	return uc.generator.GenerateMovementReport(ctx, uc.branding, rows)
}

func (uc *ReportUseCase) product(cache map[string]*entity.Product, id string) (*entity.Product, error) {
	if p, ok := cache[id]; ok {
		return p, nil
	}
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	cache[id] = p
	return p, nil
}

func (uc *ReportUseCase) locationCode(cache map[string]*entity.Location, id *string) (string, error) {
	if id == nil {
		return "", nil
	}
	if l, ok := cache[*id]; ok {
		if l == nil {
			return "", nil
		}
		return l.Code, nil
	}
	l, err := uc.locationRepo.GetByID(*id)
	if err != nil {
		return "", err
	}
	cache[*id] = l
	if l == nil {
		return "", nil
	}
	return l.Code, nil
}
