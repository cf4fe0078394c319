package entity

import "time"

// AuditEntry registro del log de auditoría. Solo se escriben mutaciones
// exitosas; los rechazos de validación no dejan rastro.
type AuditEntry struct {
	ID        string
	Action    string // create, update, delete, stock_movement
	Entity    string // product, location, category, stock_movement
	EntityID  string
	UserID    string
	Detail    map[string]any
	CreatedAt time.Time
}
