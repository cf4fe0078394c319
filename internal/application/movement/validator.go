package movement

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// Request petición de movimiento ya autenticada (el routing y el parseo HTTP
// quedan fuera; aquí llega el comando de negocio).
type Request struct {
	ProductID       string
	FromLocationID  *string
	ToLocationID    *string
	Quantity        int64
	Reason          entity.Reason
	OrderID         *string
	ReferenceNumber *string
	CostPerUnit     *decimal.Decimal
	Notes           string
	UserID          string
}

// normalized trata los punteros a cadena vacía como ausencia de ubicación.
func (r Request) normalized() Request {
	if r.FromLocationID != nil && *r.FromLocationID == "" {
		r.FromLocationID = nil
	}
	if r.ToLocationID != nil && *r.ToLocationID == "" {
		r.ToLocationID = nil
	}
	return r
}

// Effect comando normalizado tras validar: a qué coordenada se debita y a
// cuál se acredita. Cualquiera de las dos puede ser nil según el motivo.
type Effect struct {
	Debit  *entity.Coordinate
	Credit *entity.Coordinate
}

// Coordinates devuelve las coordenadas del efecto en el orden global de
// bloqueo (ubicación y luego producto).
func (e Effect) Coordinates() []entity.Coordinate {
	var coords []entity.Coordinate
	if e.Debit != nil {
		coords = append(coords, *e.Debit)
	}
	if e.Credit != nil {
		coords = append(coords, *e.Credit)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

// Plan valida la parte estructural de la petición (reglas que no dependen de
// balances) y deriva el efecto según la tabla de políticas:
//  1. cantidad entera positiva
//  2. motivo conocido
//  3. ubicaciones exigidas por el motivo presentes (y ninguna prohibida)
//  4. origen ≠ destino cuando hay ambos
//
// Sin efectos secundarios.
func Plan(req Request) (Effect, error) {
	req = req.normalized()
	if req.Quantity <= 0 {
		return Effect{}, domain.ErrInvalidQuantity
	}
	policy, ok := entity.PolicyFor(req.Reason)
	if !ok {
		return Effect{}, domain.ErrInvalidReason
	}
	if err := checkLocation(policy.From, req.FromLocationID); err != nil {
		return Effect{}, err
	}
	if err := checkLocation(policy.To, req.ToLocationID); err != nil {
		return Effect{}, err
	}
	// count_correction: ambas opcionales pero al menos una presente.
	if req.FromLocationID == nil && req.ToLocationID == nil {
		return Effect{}, domain.ErrMissingLocation
	}
	if req.FromLocationID != nil && req.ToLocationID != nil && *req.FromLocationID == *req.ToLocationID {
		return Effect{}, domain.ErrSameLocation
	}

	var eff Effect
	if req.FromLocationID != nil {
		eff.Debit = &entity.Coordinate{ProductID: req.ProductID, LocationID: *req.FromLocationID}
	}
	if req.ToLocationID != nil {
		eff.Credit = &entity.Coordinate{ProductID: req.ProductID, LocationID: *req.ToLocationID}
	}
	return eff, nil
}

// Validate aplica Plan y además la regla 5: si el motivo debita un balance,
// la cantidad disponible en la coordenada origen debe cubrir la solicitada.
// Determinista dado (req, balances); una coordenada ausente del mapa cuenta
// como balance en cero.
func Validate(req Request, balances map[entity.Coordinate]*entity.Balance) (Effect, error) {
	eff, err := Plan(req)
	if err != nil {
		return Effect{}, err
	}
	if eff.Debit != nil {
		var available int64
		if b := balances[*eff.Debit]; b != nil {
			available = b.Quantity
		}
		if available < req.Quantity {
			return Effect{}, &domain.InsufficientStockError{
				ProductID:  eff.Debit.ProductID,
				LocationID: eff.Debit.LocationID,
				Available:  available,
				Requested:  req.Quantity,
			}
		}
	}
	return eff, nil
}

func checkLocation(rule entity.LocationRule, loc *string) error {
	switch rule {
	case entity.LocationRequired:
		if loc == nil || *loc == "" {
			return domain.ErrMissingLocation
		}
	case entity.LocationForbidden:
		if loc != nil && *loc != "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
