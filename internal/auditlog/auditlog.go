// Package auditlog escribe el log de auditoría de forma asíncrona. Una
// escritura fallida nunca interrumpe la operación que la originó: se registra
// en el logger y se descarta.
package auditlog

import (
	"sync"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// Sink destino de entradas de auditoría. Record retorna de inmediato; la
// persistencia ocurre en una goroutine.
type Sink struct {
	repo repository.AuditRepository
	log  *logger.Logger
	wg   sync.WaitGroup
}

// NewSink construye el sink.
func NewSink(repo repository.AuditRepository, log *logger.Logger) *Sink {
	return &Sink{repo: repo, log: log}
}

// Record encola una entrada. Fire-and-forget: el caller no espera ni ve
// errores de persistencia.
func (s *Sink) Record(action, entityName, entityID, userID string, detail map[string]any) {
	entry := &entity.AuditEntry{
		Action:    action,
		Entity:    entityName,
		EntityID:  entityID,
		UserID:    userID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.Create(entry); err != nil {
			s.log.Warn().Err(err).
				Str("action", action).
				Str("entity", entityName).
				Str("entity_id", entityID).
				Msg("auditoría: no se pudo persistir la entrada")
		}
	}()
}

// Close espera a que terminen las escrituras en vuelo. Para el shutdown.
func (s *Sink) Close() {
	s.wg.Wait()
}
