package postgres

import (
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tu-usuario/almacen-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint
// único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// mapStorageError clasifica fallos de la capa de almacenamiento para la
// unidad atómica del executor:
//   - serialization_failure / deadlock_detected / unique_violation /
//     check_violation -> ErrConflict (el caller puede reintentar tras releer)
//   - errores de red -> ErrStorageUnavailable (5xx, sin reintento automático)
//   - errores de dominio y demás pasan sin tocar.
func mapStorageError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "23505", "23514":
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		}
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return err
}
