package repository

import "github.com/tu-usuario/almacen-api/internal/domain/entity"

// AuditRepository puerto de persistencia para el log de auditoría (append-only).
type AuditRepository interface {
	Create(entry *entity.AuditEntry) error
	List(limit, offset int) ([]*entity.AuditEntry, error)
}
