package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

const balanceColumns = `product_id, location_id, quantity, batch_number, expiry_date, cost_per_unit, updated_at`

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable
// con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de balances. Pasar pool o tx
// (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el balance actual de un producto en una ubicación. Si la fila
// no existe devuelve un balance en cero sin persistir nada.
func (r *BalanceRepo) Get(productID, locationID string) (*entity.Balance, error) {
	query := `SELECT ` + balanceColumns + `
		FROM balances WHERE product_id = $1 AND location_id = $2`
	b, err := scanBalance(r.q.QueryRow(context.Background(), query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Balance{ProductID: productID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// LockForUpdate garantiza que la fila exista (cantidad 0) y la bloquea con
// SELECT FOR UPDATE. Solo dentro de una transacción: si la tx hace rollback
// la fila recién creada desaparece con ella, así un rechazo no deja rastro.
func (r *BalanceRepo) LockForUpdate(productID, locationID string) (*entity.Balance, error) {
	ensure := `
		INSERT INTO balances (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), ensure, productID, locationID); err != nil {
		return nil, fmt.Errorf("ensure balance row: %w", err)
	}
	query := `SELECT ` + balanceColumns + `
		FROM balances WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(context.Background(), query, productID, locationID))
	if err != nil {
		return nil, fmt.Errorf("lock balance: %w", err)
	}
	return b, nil
}

// ApplyDelta suma delta (positivo o negativo) a la cantidad. La fila debe
// estar bloqueada por LockForUpdate en la misma transacción; el CHECK
// quantity >= 0 de la tabla respalda la invariante.
func (r *BalanceRepo) ApplyDelta(productID, locationID string, delta int64) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE balances SET quantity = quantity + $3, updated_at = now()
		 WHERE product_id = $1 AND location_id = $2`,
		productID, locationID, delta,
	)
	if err != nil {
		return fmt.Errorf("apply delta: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("apply delta: balance (%s,%s) no bloqueado", productID, locationID)
	}
	return nil
}

// SetLotInfo actualiza los metadatos de lote presentes (recepciones con
// costo/lote). Los argumentos nil dejan la columna como está.
func (r *BalanceRepo) SetLotInfo(productID, locationID string, batch *string, expiry *time.Time, cost *decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE balances SET
			batch_number = COALESCE($3, batch_number),
			expiry_date = COALESCE($4, expiry_date),
			cost_per_unit = COALESCE($5, cost_per_unit),
			updated_at = now()
		 WHERE product_id = $1 AND location_id = $2`,
		productID, locationID, batch, expiry, costArg(cost),
	)
	if err != nil {
		return fmt.Errorf("set lot info: %w", err)
	}
	return nil
}

// ListByProduct balances de un producto en todas sus ubicaciones.
func (r *BalanceRepo) ListByProduct(productID string) ([]*entity.Balance, error) {
	query := `SELECT ` + balanceColumns + `
		FROM balances WHERE product_id = $1 ORDER BY location_id`
	return r.list(query, productID)
}

// ListByLocation balances de una ubicación para todos sus productos.
func (r *BalanceRepo) ListByLocation(locationID string) ([]*entity.Balance, error) {
	query := `SELECT ` + balanceColumns + `
		FROM balances WHERE location_id = $1 ORDER BY product_id`
	return r.list(query, locationID)
}

func (r *BalanceRepo) list(query string, arg any) ([]*entity.Balance, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBalance(row pgx.Row) (*entity.Balance, error) {
	var b entity.Balance
	var cost decimal.NullDecimal
	if err := row.Scan(&b.ProductID, &b.LocationID, &b.Quantity, &b.BatchNumber, &b.ExpiryDate, &cost, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if cost.Valid {
		b.CostPerUnit = &cost.Decimal
	}
	return &b, nil
}

func costArg(cost *decimal.Decimal) decimal.NullDecimal {
	if cost == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *cost, Valid: true}
}
