package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, from_location_id, to_location_id, quantity, reason, order_id, reference_number, cost_per_unit, notes, created_by, created_at`

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: no expone Update ni Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento (write-once).
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.FromLocationID, movement.ToLocationID,
		movement.Quantity, string(movement.Reason), movement.OrderID, movement.ReferenceNumber,
		costArg(movement.CostPerUnit), movement.Notes, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List historial filtrado, orden created_at DESC, id DESC (estable bajo
// timestamps iguales).
func (r *StockMovementRepo) List(filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	where, args := buildMovementWhere(filter)
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Count total de filas que cumplen el filtro (para metadatos de página).
func (r *StockMovementRepo) Count(filter repository.MovementFilter) (int, error) {
	where, args := buildMovementWhere(filter)
	var total int
	err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM stock_movements`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return total, nil
}

// buildMovementWhere arma la cláusula WHERE dinámica del filtro. LocationID
// coincide con origen O destino.
func buildMovementWhere(filter repository.MovementFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.ProductID != "" {
		add("product_id = $%d", filter.ProductID)
	}
	if filter.LocationID != "" {
		add("(from_location_id = $%d OR to_location_id = $%[1]d)", filter.LocationID)
	}
	if filter.Reason != "" {
		add("reason = $%d", string(filter.Reason))
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= $%d", *filter.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	where := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var reason string
	var cost decimal.NullDecimal
	if err := row.Scan(&m.ID, &m.ProductID, &m.FromLocationID, &m.ToLocationID, &m.Quantity,
		&reason, &m.OrderID, &m.ReferenceNumber, &cost, &m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Reason = entity.Reason(reason)
	if cost.Valid {
		m.CostPerUnit = &cost.Decimal
	}
	return &m, nil
}
